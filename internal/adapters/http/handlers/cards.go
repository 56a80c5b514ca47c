package handlers

import (
	"bytes"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotecards/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotecards/internal/app"
)

// Response headers describing a rendered card.
const (
	HeaderCardLines = "X-Card-Lines"
	HeaderCardCount = "X-Card-Count"
)

// CardHandler serves rendered quote cards.
type CardHandler struct {
	cards *app.CardService
}

// NewCardHandler creates a card handler.
func NewCardHandler(cards *app.CardService) *CardHandler {
	return &CardHandler{cards: cards}
}

// GetCurrentCard handles GET /api/v1/cards/current.
func (h *CardHandler) GetCurrentCard(c *gin.Context) {
	card, err := h.cards.RenderCurrent(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	writeCard(c, card)
}

// GetCard handles GET /api/v1/cards/:id.
func (h *CardHandler) GetCard(c *gin.Context) {
	card, err := h.cards.RenderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	writeCard(c, card)
}

// GetFavoritesArchive handles GET /api/v1/favorites/cards with a zip of one
// card per favorite. The archive is built in memory so a failed render still
// produces a JSON error instead of a truncated download.
func (h *CardHandler) GetFavoritesArchive(c *gin.Context) {
	var buf bytes.Buffer

	n, err := h.cards.WriteFavoritesArchive(c.Request.Context(), &buf)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", attachment(h.cards.ArchiveFilename()))
	c.Header(HeaderCardCount, strconv.Itoa(n))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

func writeCard(c *gin.Context, card *app.RenderedCard) {
	c.Header("Content-Disposition", attachment(card.Filename))
	c.Header(HeaderCardLines, strconv.Itoa(card.Lines))
	c.Data(http.StatusOK, "image/png", card.PNG)
}

// attachment formats a Content-Disposition value; non-ASCII names are
// encoded as RFC 2231 filename*.
func attachment(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}

// RegisterCardRoutes registers card routes on the group.
func (h *CardHandler) RegisterCardRoutes(rg *gin.RouterGroup) {
	rg.GET("/cards/current", h.GetCurrentCard)
	rg.GET("/cards/:id", h.GetCard)
	rg.GET("/favorites/cards", h.GetFavoritesArchive)
}
