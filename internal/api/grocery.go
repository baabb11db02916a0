package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/weekprep/backend/internal/service"
)

type GroceryHandler struct {
	groceries *service.GroceryService
	log       *zap.Logger
}

func NewGroceryHandler(groceries *service.GroceryService, log *zap.Logger) *GroceryHandler {
	return &GroceryHandler{groceries: groceries, log: log}
}

func (h *GroceryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/grocery", h.GetList)
}

// GetList returns the grouped list, or the copyable text form with ?format=text.
func (h *GroceryHandler) GetList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if c.Query("format") == "text" {
		text, err := h.groceries.Text(c.Request.Context(), userID)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.String(http.StatusOK, text)
		return
	}

	list, err := h.groceries.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	summary, err := h.groceries.Summary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"groups":      list.Groups,
		"total_items": list.TotalItems,
		"summary":     summary,
	})
}
