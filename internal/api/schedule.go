package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/weekprep/backend/internal/model"
	"github.com/pageza/weekprep/backend/internal/service"
	"github.com/pageza/weekprep/backend/internal/types"
)

type ScheduleHandler struct {
	schedule *service.ScheduleService
	log      *zap.Logger
}

func NewScheduleHandler(schedule *service.ScheduleService, log *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule, log: log}
}

func (h *ScheduleHandler) RegisterRoutes(router *gin.RouterGroup) {
	schedule := router.Group("/schedule")
	{
		schedule.GET("", h.GetSchedule)
		schedule.POST("/generate", h.Generate)
		schedule.POST("/clear", h.Clear)
		schedule.PUT("/slots/:day/:meal", h.SetSlot)
		schedule.POST("/swap", h.Swap)
	}
	router.GET("/prep", h.Prep)
}

// normalizeDay accepts "monday" or "MONDAY" for "Monday".
func normalizeDay(day string) string {
	day = strings.TrimSpace(day)
	if day == "" {
		return day
	}
	return strings.ToUpper(day[:1]) + strings.ToLower(day[1:])
}

func normalizeMeal(meal model.MealType) model.MealType {
	return model.MealType(strings.ToLower(strings.TrimSpace(string(meal))))
}

func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	schedule, err := h.schedule.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

func (h *ScheduleHandler) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	h.respond(c, func() (*service.ScheduleResult, error) {
		return h.schedule.Generate(c.Request.Context(), userID)
	})
}

func (h *ScheduleHandler) Clear(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	h.respond(c, func() (*service.ScheduleResult, error) {
		return h.schedule.Clear(c.Request.Context(), userID)
	})
}

func (h *ScheduleHandler) SetSlot(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req types.SetSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	day := normalizeDay(c.Param("day"))
	meal := normalizeMeal(model.MealType(c.Param("meal")))
	h.respond(c, func() (*service.ScheduleResult, error) {
		return h.schedule.SetSlot(c.Request.Context(), userID, day, meal, req.RecipeID)
	})
}

func (h *ScheduleHandler) Swap(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req types.SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.respond(c, func() (*service.ScheduleResult, error) {
		return h.schedule.Swap(c.Request.Context(), userID,
			normalizeDay(req.From.Day), normalizeMeal(req.From.Meal),
			normalizeDay(req.To.Day), normalizeMeal(req.To.Meal))
	})
}

func (h *ScheduleHandler) Prep(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	plan, err := h.schedule.Prep(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// respond writes a schedule change. A failed save still answers 200 with persisted=false.
func (h *ScheduleHandler) respond(c *gin.Context, fn func() (*service.ScheduleResult, error)) {
	result, err := fn()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
