package dto

import "github.com/jsamuelsen/quotecards/internal/domain"

// QuoteResponse is the JSON representation of a quote.
type QuoteResponse struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Author   string   `json:"author"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Source   string   `json:"source,omitempty"`
}

// NewQuoteResponse converts a domain quote.
func NewQuoteResponse(q *domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:       q.ID,
		Text:     q.Text,
		Author:   q.Author,
		Category: q.Category,
		Tags:     q.Tags,
		Source:   q.Source,
	}
}

// NewQuoteResponses converts a slice of quotes, never returning nil.
func NewQuoteResponses(quotes []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, NewQuoteResponse(&quotes[i]))
	}

	return out
}

// CurrentQuoteResponse is returned by the rotation endpoints.
type CurrentQuoteResponse struct {
	Quote     QuoteResponse `json:"quote"`
	Favorited bool          `json:"favorited"`
	Shown     int           `json:"shown"`
	Total     int           `json:"total"`
}

// FavoriteResponse reports the state of a quote after toggling it.
type FavoriteResponse struct {
	ID        string `json:"id"`
	Favorited bool   `json:"favorited"`
}

// ShareResponse carries the share sheet data for a quote.
type ShareResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// StatsResponse summarizes the corpus and rotation state.
type StatsResponse struct {
	TotalQuotes   int            `json:"totalQuotes"`
	FavoriteCount int            `json:"favoriteCount"`
	UsedQuotes    int            `json:"usedQuotes"`
	HistoryCount  int            `json:"historyCount"`
	CategoryCount map[string]int `json:"categoryCount"`
}

// QuoteListRequest holds the catalog filters and pagination of GET /quotes.
type QuoteListRequest struct {
	Category string `form:"category" json:"category" validate:"omitempty,max=64"`
	Tag      string `form:"tag"      json:"tag"      validate:"omitempty,max=64"`
	Author   string `form:"author"   json:"author"   validate:"omitempty,max=128"`
	Query    string `form:"q"        json:"q"        validate:"omitempty,max=256"`
	Cursor   string `form:"cursor"   json:"cursor"`
	Limit    int    `form:"limit"    json:"limit"    validate:"omitempty,gte=1,lte=100"`
}

// Page returns the pagination part of the request.
func (r *QuoteListRequest) Page() PaginationRequest {
	return PaginationRequest{Cursor: r.Cursor, Limit: r.Limit}
}

// QuoteListResponse is an unpaginated list of quotes.
type QuoteListResponse struct {
	Items []QuoteResponse `json:"items"`
}
