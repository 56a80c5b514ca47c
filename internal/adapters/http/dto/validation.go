package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/quotecards/internal/domain"
)

var (
	// ErrValidation wraps struct tag and Validate failures.
	ErrValidation = errors.New("validation failed")

	// ErrBinding wraps malformed JSON bodies and unparsable query values.
	ErrBinding = errors.New("binding failed")
)

// Validatable is implemented by requests with rules beyond their struct tags.
// Validate runs it after the tags pass.
type Validatable interface {
	Validate() error
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Field names in errors are JSON
// names, and the chatrole and notempty tags are registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(jsonName)

		_ = validate.RegisterValidation("chatrole", func(fl validator.FieldLevel) bool {
			return domain.ChatRole(fl.Field().String()).Valid()
		})
		_ = validate.RegisterValidation("notempty", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})

	return validate
}

func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	return name
}

// Validate checks v's struct tags, then its Validate method if it has one.
func Validate(v any) error {
	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if vv, ok := v.(Validatable); ok {
		if err := vv.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}

	return nil
}

// BindAndValidate decodes the JSON body into v and validates it.
func BindAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// BindQueryAndValidate decodes the query string into v and validates it.
func BindQueryAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindQuery(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// ValidationErrors maps each failed field to a readable message. Keys are
// JSON paths below the request, e.g. "messages[0].role". Errors that did not
// come from struct tags give an empty map.
func ValidationErrors(err error) map[string]string {
	fields := map[string]string{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fields
	}

	for _, fe := range verrs {
		path := fe.Field()
		if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok && rest != "" {
			path = rest
		}

		fields[path] = validationMessage(fe)
	}

	return fields
}

// IsValidationError reports whether err carries struct tag failures.
func IsValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

func validationMessage(fe validator.FieldError) string {
	param := fe.Param()

	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "notempty":
		return "must not be empty"
	case "chatrole":
		return "must be one of: " + strings.Join(roleNames(), " ")
	case "oneof":
		return "must be one of: " + param
	case "min":
		return "must be at least " + param + unit
	case "max":
		return "must be at most " + param + unit
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	default:
		return "failed validation: " + fe.Tag()
	}
}

func roleNames() []string {
	return []string{string(domain.RoleSystem), string(domain.RoleUser), string(domain.RoleAssistant)}
}
