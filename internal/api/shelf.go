package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/weekprep/backend/internal/service"
	"github.com/pageza/weekprep/backend/internal/types"
)

type ShelfHandler struct {
	shelf *service.ShelfService
	log   *zap.Logger
}

func NewShelfHandler(shelf *service.ShelfService, log *zap.Logger) *ShelfHandler {
	return &ShelfHandler{shelf: shelf, log: log}
}

func (h *ShelfHandler) RegisterRoutes(router *gin.RouterGroup) {
	shelf := router.Group("/shelf")
	{
		shelf.GET("", h.ListItems)
		shelf.POST("", h.AddItem)
		shelf.GET("/lookup", h.Lookup)
		shelf.DELETE("/:id", h.RemoveItem)
	}
}

func (h *ShelfHandler) ListItems(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	items, err := h.shelf.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *ShelfHandler) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req types.ShelfItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.shelf.Add(c.Request.Context(), userID, req.Name, req.Amount, req.Unit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *ShelfHandler) RemoveItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.shelf.Remove(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ShelfHandler) Lookup(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	item, err := h.shelf.Lookup(c.Request.Context(), userID, name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
