// Package domain contains core business entities and rules.
package domain

import "strings"

// Quote is a single entry of the quote corpus.
// Quotes are loaded once at startup and never mutated afterwards.
type Quote struct {
	// ID is unique within the corpus.
	ID string

	// Text is the quotation itself.
	Text string

	// Author is who said or wrote the quote.
	Author string

	// Category groups quotes for browsing (e.g. "学习", "成长").
	Category string

	// Tags are free-form themes associated with the quote.
	Tags []string

	// Source optionally names the book or talk the quote came from.
	Source string
}

// Validate reports the first missing field needed to display the quote.
func (q Quote) Validate() error {
	switch {
	case strings.TrimSpace(q.Text) == "":
		return NewInvalidQuoteError(q.ID, "text")
	case strings.TrimSpace(q.Author) == "":
		return NewInvalidQuoteError(q.ID, "author")
	}

	return nil
}

// HasTag reports whether any tag contains needle, ignoring case.
func (q Quote) HasTag(needle string) bool {
	needle = strings.ToLower(needle)
	for _, tag := range q.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}

	return false
}
