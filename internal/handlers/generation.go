package handlers

import (
	"context"
	"net/http"

	"github.com/domaingen/api/internal/middleware"
	"github.com/domaingen/api/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Generator produces suggestions for a business description
type Generator interface {
	Generate(ctx context.Context, description string) models.GenerationResponse
}

// GenerationHandler handles domain-name generation
type GenerationHandler struct {
	generator Generator
	logger    *zap.Logger
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(generator Generator, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{generator: generator, logger: logger}
}

// Generate suggests domain names for a business description
// @Summary Suggest domain names
// @Description Returns three sampled domain names for the description. Blocked and failed generations are reported in the body with HTTP 200.
// @Tags generation
// @Accept json
// @Produce json
// @Param request body models.GenerationRequest true "Business description"
// @Success 200 {object} models.GenerationResponse "Outcome: success, blocked or error"
// @Failure 422 {object} ErrorResponse "Request body failed validation"
// @Router /generate [post]
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req models.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid generation request",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		middleware.ValidationFailed(c, err.Error())
		return
	}

	resp := h.generator.Generate(c.Request.Context(), *req.BusinessDescription)
	c.JSON(http.StatusOK, resp)
}

// ErrorResponse documents the error envelope for the API docs
type ErrorResponse struct {
	Error middleware.APIError `json:"error"`
}
