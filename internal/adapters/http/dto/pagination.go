package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"slices"
)

// Page sizes for list endpoints.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

var (
	// ErrInvalidCursor is returned for cursors that do not decode or no longer
	// point into the list.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrNoCursor marks a first page request.
	ErrNoCursor = errors.New("no cursor provided")
)

// PaginationRequest is the cursor and page size of a list request.
type PaginationRequest struct {
	// Cursor is a NextCursor from a previous page.
	Cursor string
	// Limit is clamped to [1, MaxLimit]; zero means DefaultLimit.
	Limit int
}

// GetLimit returns the limit with defaults applied.
func (p PaginationRequest) GetLimit() int {
	switch {
	case p.Limit <= 0:
		return DefaultLimit
	case p.Limit > MaxLimit:
		return MaxLimit
	default:
		return p.Limit
	}
}

// Cursor points just past the item with key After.
type Cursor struct {
	After string `json:"after"`
}

// EncodeCursor returns the opaque cursor for the position after key.
func EncodeCursor(after string) string {
	if after == "" {
		return ""
	}

	data, err := json.Marshal(Cursor{After: after})
	if err != nil {
		return ""
	}

	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeCursor parses an opaque cursor. An empty string is ErrNoCursor.
func DecodeCursor(encoded string) (*Cursor, error) {
	if encoded == "" {
		return nil, ErrNoCursor
	}

	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil || c.After == "" {
		return nil, ErrInvalidCursor
	}

	return &c, nil
}

// PaginatedResponse is one page of a list.
type PaginatedResponse[T any] struct {
	Items []T `json:"items"`
	// NextCursor is empty on the last page.
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// Paginate cuts the page of items that follows page.Cursor. key identifies
// an item; items must keep a stable order between requests.
func Paginate[T any](items []T, page PaginationRequest, key func(T) string) (*PaginatedResponse[T], error) {
	start := 0

	if page.Cursor != "" {
		c, err := DecodeCursor(page.Cursor)
		if err != nil {
			return nil, err
		}

		start = slices.IndexFunc(items, func(item T) bool { return key(item) == c.After })
		if start < 0 {
			return nil, ErrInvalidCursor
		}

		start++
	}

	end := min(start+page.GetLimit(), len(items))

	resp := &PaginatedResponse[T]{
		Items:   append([]T{}, items[start:end]...),
		HasMore: end < len(items),
	}

	if resp.HasMore {
		resp.NextCursor = EncodeCursor(key(items[end-1]))
	}

	return resp, nil
}
