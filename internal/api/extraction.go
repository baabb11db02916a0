package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/weekprep/backend/internal/extraction"
	"github.com/pageza/weekprep/backend/internal/types"
)

type ExtractionHandler struct {
	extractor *extraction.Service
	limit     gin.HandlerFunc
	log       *zap.Logger
}

// NewExtractionHandler wires the extraction endpoints. limit may be nil.
func NewExtractionHandler(extractor *extraction.Service, limit gin.HandlerFunc, log *zap.Logger) *ExtractionHandler {
	return &ExtractionHandler{extractor: extractor, limit: limit, log: log}
}

func (h *ExtractionHandler) RegisterRoutes(router *gin.RouterGroup) {
	extract := router.Group("/recipes/extract")
	{
		if h.limit != nil {
			extract.POST("", h.limit, h.Extract)
		} else {
			extract.POST("", h.Extract)
		}
		extract.GET("/drafts/:id", h.GetDraft)
	}
}

// Extract reads a recipe draft from a photo. Provider failures answer 502 and
// the client falls back to the manual form.
func (h *ExtractionHandler) Extract(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req types.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageBase64 == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": extraction.ErrEmptyImage.Error()})
		return
	}

	draft, err := h.extractor.Extract(c.Request.Context(), userID, req.ImageBase64)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError || errors.Is(err, extraction.ErrUnparseable) {
			h.log.Warn("extraction failed", zap.String("user_id", userID.String()), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "could not read a recipe from the image"})
			return
		}
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": draft})
}

func (h *ExtractionHandler) GetDraft(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	draft, err := h.extractor.Draft(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": draft})
}
