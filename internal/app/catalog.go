package app

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jsamuelsen/quotecards/internal/domain"
)

// QuoteCatalog answers read-only queries over the loaded corpus.
type QuoteCatalog struct {
	quotes []domain.Quote
	byID   map[string]int
}

// NewQuoteCatalog indexes quotes by id. The first occurrence of a duplicate id wins.
func NewQuoteCatalog(quotes []domain.Quote) *QuoteCatalog {
	c := &QuoteCatalog{
		quotes: make([]domain.Quote, len(quotes)),
		byID:   make(map[string]int, len(quotes)),
	}

	copy(c.quotes, quotes)

	for i, q := range c.quotes {
		if _, dup := c.byID[q.ID]; !dup {
			c.byID[q.ID] = i
		}
	}

	return c
}

// All returns every quote in corpus order.
func (c *QuoteCatalog) All() []domain.Quote {
	all := make([]domain.Quote, len(c.quotes))
	copy(all, c.quotes)

	return all
}

// Len returns the corpus size.
func (c *QuoteCatalog) Len() int {
	return len(c.quotes)
}

// ByID returns the quote with id or a NotFoundError.
func (c *QuoteCatalog) ByID(id string) (*domain.Quote, error) {
	idx, ok := c.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("quote", id)
	}

	q := c.quotes[idx]

	return &q, nil
}

// ByCategory returns quotes whose category equals category, ignoring case.
func (c *QuoteCatalog) ByCategory(category string) []domain.Quote {
	return c.filter(func(q domain.Quote) bool {
		return strings.EqualFold(q.Category, category)
	})
}

// ByTag returns quotes with a tag containing tag, ignoring case.
func (c *QuoteCatalog) ByTag(tag string) []domain.Quote {
	return c.filter(func(q domain.Quote) bool { return q.HasTag(tag) })
}

// ByAuthor returns quotes whose author contains author, ignoring case.
func (c *QuoteCatalog) ByAuthor(author string) []domain.Quote {
	needle := strings.ToLower(author)

	return c.filter(func(q domain.Quote) bool {
		return strings.Contains(strings.ToLower(q.Author), needle)
	})
}

// Search matches query against text, author and source, ignoring case.
func (c *QuoteCatalog) Search(query string) []domain.Quote {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return c.All()
	}

	return c.filter(func(q domain.Quote) bool {
		return strings.Contains(strings.ToLower(q.Text), needle) ||
			strings.Contains(strings.ToLower(q.Author), needle) ||
			strings.Contains(strings.ToLower(q.Source), needle)
	})
}

// QuoteFilter narrows a listing. Empty fields match everything.
type QuoteFilter struct {
	Category string
	Tag      string
	Author   string
	Query    string
}

// Find applies every non-empty field of f.
func (c *QuoteCatalog) Find(f QuoteFilter) []domain.Quote {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	author := strings.ToLower(f.Author)

	return c.filter(func(q domain.Quote) bool {
		switch {
		case f.Category != "" && !strings.EqualFold(q.Category, f.Category):
			return false
		case f.Tag != "" && !q.HasTag(f.Tag):
			return false
		case author != "" && !strings.Contains(strings.ToLower(q.Author), author):
			return false
		case query != "":
			return strings.Contains(strings.ToLower(q.Text), query) ||
				strings.Contains(strings.ToLower(q.Author), query) ||
				strings.Contains(strings.ToLower(q.Source), query)
		}

		return true
	})
}

func (c *QuoteCatalog) filter(keep func(domain.Quote) bool) []domain.Quote {
	matched := make([]domain.Quote, 0)

	for _, q := range c.quotes {
		if keep(q) {
			matched = append(matched, q)
		}
	}

	return matched
}

// ShareText formats q for pasting into chat apps.
func ShareText(q domain.Quote, brand string) string {
	return fmt.Sprintf("\"%s\"\n—— %s\n分享自\"%s\"一点想法页面", q.Text, q.Author, brand)
}

// ShareData is what a browser share sheet needs for one quote.
type ShareData struct {
	Title string
	Text  string
	URL   string
}

// NewShareData builds the share title, text and a link to the quote on
// pageURL. An empty or unparsable pageURL gives a relative "?quote=<id>" link.
func NewShareData(q domain.Quote, brand, pageURL string) ShareData {
	u, err := url.Parse(pageURL)
	if err != nil {
		u = &url.URL{}
	}

	query := u.Query()
	query.Set("quote", q.ID)
	u.RawQuery = query.Encode()

	return ShareData{
		Title: q.Author + "的智慧金句",
		Text:  ShareText(q, brand),
		URL:   u.String(),
	}
}
