package domain

import "fmt"

// EmptyCorpusError is returned when rotation is asked for a quote but neither a
// corpus nor a fallback quote is available.
type EmptyCorpusError struct {
	Operation string
}

// Error implements the error interface.
func (e *EmptyCorpusError) Error() string {
	if e.Operation != "" {
		return e.Operation + ": no quotes available"
	}

	return "no quotes available"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *EmptyCorpusError) Unwrap() error {
	return ErrEmptyCorpus
}

// NewEmptyCorpusError creates an empty corpus error for the named operation.
func NewEmptyCorpusError(operation string) error {
	return &EmptyCorpusError{Operation: operation}
}

// NoCurrentQuoteError is returned when an operation defaults to the current
// quote and no quote has been shown yet.
type NoCurrentQuoteError struct {
	Operation string
}

// Error implements the error interface.
func (e *NoCurrentQuoteError) Error() string {
	return fmt.Sprintf("%s: no current quote", e.Operation)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NoCurrentQuoteError) Unwrap() error {
	return ErrNoCurrentQuote
}

// NewNoCurrentQuoteError creates a no current quote error.
func NewNoCurrentQuoteError(operation string) error {
	return &NoCurrentQuoteError{Operation: operation}
}

// InvalidQuoteError describes a quote that cannot be rendered.
type InvalidQuoteError struct {
	QuoteID string
	Field   string
}

// Error implements the error interface.
func (e *InvalidQuoteError) Error() string {
	if e.QuoteID != "" {
		return fmt.Sprintf("quote %q: %s must not be empty", e.QuoteID, e.Field)
	}

	return fmt.Sprintf("quote: %s must not be empty", e.Field)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *InvalidQuoteError) Unwrap() error {
	return ErrInvalidQuote
}

// NewInvalidQuoteError creates an invalid quote error for the given field.
func NewInvalidQuoteError(quoteID, field string) error {
	return &InvalidQuoteError{QuoteID: quoteID, Field: field}
}

// RenderSurfaceError is returned when the card surface cannot be allocated.
type RenderSurfaceError struct {
	Width  int
	Height int
	Reason string
}

// Error implements the error interface.
func (e *RenderSurfaceError) Error() string {
	return fmt.Sprintf("render surface %dx%d: %s", e.Width, e.Height, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *RenderSurfaceError) Unwrap() error {
	return ErrRenderSurface
}

// NewRenderSurfaceError creates a render surface error.
func NewRenderSurfaceError(width, height int, reason string) error {
	return &RenderSurfaceError{Width: width, Height: height, Reason: reason}
}

// EncodingError wraps a failure to serialize a rendered card.
type EncodingError struct {
	Format string
	Err    error
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("encode %s: %v", e.Format, e.Err)
	}

	return "encode " + e.Format
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *EncodingError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrEncoding}
	}

	return []error{ErrEncoding, e.Err}
}

// NewEncodingError creates an encoding error.
func NewEncodingError(format string, err error) error {
	return &EncodingError{Format: format, Err: err}
}

// ResponseFormatError is returned when an upstream payload matches none of
// the accepted shapes.
type ResponseFormatError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *ResponseFormatError) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("%s: unrecognized response format: %s", e.Service, e.Reason)
	}

	return "unrecognized response format: " + e.Reason
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ResponseFormatError) Unwrap() error {
	return ErrResponseFormat
}

// NewResponseFormatError creates a response format error.
func NewResponseFormatError(service, reason string) error {
	return &ResponseFormatError{Service: service, Reason: reason}
}
