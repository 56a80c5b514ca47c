package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotecards/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotecards/internal/app"
)

// StoryHandler proxies story and illustration generation.
type StoryHandler struct {
	stories *app.StoryService
}

// NewStoryHandler creates a story handler.
func NewStoryHandler(stories *app.StoryService) *StoryHandler {
	return &StoryHandler{stories: stories}
}

// GenerateStory handles POST /api/v1/stories.
//
// The upstream answers in one of several JSON shapes; the response always
// carries plain text under "story". An unreadable upstream payload is 502.
func (h *StoryHandler) GenerateStory(c *gin.Context) {
	var req dto.StoryRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	story, err := h.stories.GenerateStory(c.Request.Context(), req.ToDomain())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StoryResponse{Story: story})
}

// GenerateIllustration handles POST /api/v1/illustrations.
func (h *StoryHandler) GenerateIllustration(c *gin.Context) {
	var req dto.IllustrationRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	ill, err := h.stories.GenerateIllustration(c.Request.Context(), req.Prompt, req.Width, req.Height)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewIllustrationResponse(ill))
}

// RegisterStoryRoutes registers story routes on the group.
func (h *StoryHandler) RegisterStoryRoutes(rg *gin.RouterGroup) {
	rg.POST("/stories", h.GenerateStory)
	rg.POST("/illustrations", h.GenerateIllustration)
}
