package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotecards/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotecards/internal/app"
	"github.com/jsamuelsen/quotecards/internal/domain"
)

// QuoteHandler serves the quote rotation, catalog and favorites endpoints.
type QuoteHandler struct {
	rotation *app.QuoteRotationStore
	catalog  *app.QuoteCatalog
	brand    string
	shareURL string
}

// NewQuoteHandler creates a quote handler. brand is named in share texts and
// shareURL is the page share links point at.
func NewQuoteHandler(rotation *app.QuoteRotationStore, catalog *app.QuoteCatalog, brand, shareURL string) *QuoteHandler {
	return &QuoteHandler{
		rotation: rotation,
		catalog:  catalog,
		brand:    brand,
		shareURL: shareURL,
	}
}

// ListQuotes handles GET /api/v1/quotes.
// Filters by category, tag, author and free text q, paginated by cursor.
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var req dto.QuoteListRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	quotes := h.catalog.Find(app.QuoteFilter{
		Category: req.Category,
		Tag:      req.Tag,
		Author:   req.Author,
		Query:    req.Query,
	})

	page, err := dto.Paginate(dto.NewQuoteResponses(quotes), req.Page(),
		func(q dto.QuoteResponse) string { return q.ID })
	if err != nil {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "invalid cursor")
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetCurrent handles GET /api/v1/quotes/current.
func (h *QuoteHandler) GetCurrent(c *gin.Context) {
	q := h.rotation.Current()
	if q == nil {
		dto.HandleError(c, domain.NewNoCurrentQuoteError("current quote"))
		return
	}

	c.JSON(http.StatusOK, h.currentResponse(q))
}

// Next handles POST /api/v1/quotes/next.
func (h *QuoteHandler) Next(c *gin.Context) {
	q, err := h.rotation.Next(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.currentResponse(q))
}

// Reset handles POST /api/v1/quotes/reset.
func (h *QuoteHandler) Reset(c *gin.Context) {
	q, err := h.rotation.Reset(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.currentResponse(q))
}

func (h *QuoteHandler) currentResponse(q *domain.Quote) dto.CurrentQuoteResponse {
	return dto.CurrentQuoteResponse{
		Quote:     dto.NewQuoteResponse(q),
		Favorited: h.rotation.IsFavorited(q.ID),
		Shown:     h.rotation.ShownCount(),
		Total:     h.catalog.Len(),
	}
}

// History handles GET /api/v1/quotes/history, most recent first.
func (h *QuoteHandler) History(c *gin.Context) {
	c.JSON(http.StatusOK, dto.QuoteListResponse{Items: dto.NewQuoteResponses(h.rotation.History())})
}

// GetQuote handles GET /api/v1/quotes/:id.
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	q, err := h.catalog.ByID(c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(q))
}

// Share handles GET /api/v1/quotes/:id/share.
func (h *QuoteHandler) Share(c *gin.Context) {
	q, err := h.catalog.ByID(c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	share := app.NewShareData(*q, h.brand, h.shareURL)

	c.JSON(http.StatusOK, dto.ShareResponse{
		ID:    q.ID,
		Title: share.Title,
		Text:  share.Text,
		URL:   share.URL,
	})
}

// Stats handles GET /api/v1/quotes/stats.
func (h *QuoteHandler) Stats(c *gin.Context) {
	stats := h.rotation.Stats()

	c.JSON(http.StatusOK, dto.StatsResponse{
		TotalQuotes:   stats.TotalQuotes,
		FavoriteCount: stats.FavoriteCount,
		UsedQuotes:    stats.UsedQuotes,
		HistoryCount:  stats.HistoryCount,
		CategoryCount: stats.CategoryCount,
	})
}

// ToggleCurrentFavorite handles POST /api/v1/quotes/current/favorite.
func (h *QuoteHandler) ToggleCurrentFavorite(c *gin.Context) {
	q := h.rotation.Current()
	if q == nil {
		dto.HandleError(c, domain.NewNoCurrentQuoteError("toggle favorite"))
		return
	}

	h.toggle(c, q.ID)
}

// ToggleFavorite handles POST /api/v1/quotes/:id/favorite.
func (h *QuoteHandler) ToggleFavorite(c *gin.Context) {
	h.toggle(c, c.Param("id"))
}

func (h *QuoteHandler) toggle(c *gin.Context, id string) {
	favorited, err := h.rotation.ToggleFavorite(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FavoriteResponse{ID: id, Favorited: favorited})
}

// Favorites handles GET /api/v1/favorites in corpus order.
func (h *QuoteHandler) Favorites(c *gin.Context) {
	c.JSON(http.StatusOK, dto.QuoteListResponse{Items: dto.NewQuoteResponses(h.rotation.FavoriteQuotes())})
}

// RegisterQuoteRoutes registers quote and favorite routes on the group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.GET("/current", h.GetCurrent)
	quotes.POST("/current/favorite", h.ToggleCurrentFavorite)
	quotes.POST("/next", h.Next)
	quotes.POST("/reset", h.Reset)
	quotes.GET("/history", h.History)
	quotes.GET("/stats", h.Stats)
	quotes.GET("/:id", h.GetQuote)
	quotes.GET("/:id/share", h.Share)
	quotes.POST("/:id/favorite", h.ToggleFavorite)

	rg.GET("/favorites", h.Favorites)
}

// respondBindError writes 400 for malformed input and field details for
// validation failures.
func respondBindError(c *gin.Context, err error) {
	if errors.Is(err, dto.ErrValidation) {
		if fields := dto.ValidationErrors(err); len(fields) > 0 {
			dto.RespondWithValidationErrors(c, fields)
			return
		}
	}

	dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "malformed request")
}
