package api

import (
	"errors"
	"net/http"
	"time"

	"chorequest/internal/model"
	"chorequest/internal/service"
	"chorequest/pkg/auth"
	"chorequest/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type choreRoutes struct {
	cs *service.ChoreService
	a  *auth.TokenAuth
}

func NewChoreRoutes(handler *gin.RouterGroup, cs *service.ChoreService, a *auth.TokenAuth) {
	h := &choreRoutes{cs: cs, a: a}

	admin := handler.Group("/admin")
	admin.Use(a.AdminMiddleware())
	{
		admin.POST("/chores", h.CreateChore)
		admin.GET("/chores", h.ListChores)
		admin.DELETE("/chores/:chore_id", h.DeleteChore)
		admin.POST("/chores/:chore_id/assign/:kid_id", h.Assign)
		admin.DELETE("/chores/:chore_id/assign/:kid_id", h.Unassign)
	}

	kid := handler.Group("/kid")
	kid.Use(a.KidMiddleware())
	{
		kid.GET("/chores", h.ListKidChores)
	}
}

type CreateChoreRequest struct {
	Title            string `json:"title" binding:"required"`
	Description      string `json:"description"`
	IsRecurring      *bool  `json:"is_recurring"`
	Frequency        string `json:"frequency"`
	DefaultPoints    int    `json:"default_points"`
	RequiresApproval *bool  `json:"requires_approval"`
}

func (h *choreRoutes) CreateChore(c *gin.Context) {
	var req CreateChoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// Recurring and approval-required default to true, as chores
	// usually are.
	isRecurring := true
	if req.IsRecurring != nil {
		isRecurring = *req.IsRecurring
	}
	requiresApproval := true
	if req.RequiresApproval != nil {
		requiresApproval = *req.RequiresApproval
	}
	points := req.DefaultPoints
	if points <= 0 {
		points = 10
	}

	chore := &model.Chore{
		Title:            req.Title,
		Description:      req.Description,
		IsRecurring:      isRecurring,
		Frequency:        model.ParseFrequency(req.Frequency),
		DefaultPoints:    points,
		RequiresApproval: requiresApproval,
	}

	id, err := h.cs.CreateChore(c.Request.Context(), chore)
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		logger.Logger().Error("failed to create chore", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

type choreResponse struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	IsRecurring      bool   `json:"is_recurring"`
	Frequency        string `json:"frequency"`
	DefaultPoints    int    `json:"default_points"`
	RequiresApproval bool   `json:"requires_approval"`
	AssignedCount    int    `json:"assigned_count"`
}

func (h *choreRoutes) ListChores(c *gin.Context) {
	chores, err := h.cs.ListChores(c.Request.Context())
	if err != nil {
		logger.Logger().Error("failed to list chores", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	response := make([]choreResponse, len(chores))
	for i, chore := range chores {
		response[i] = choreResponse{
			ID:               chore.ID.String(),
			Title:            chore.Title,
			Description:      chore.Description,
			IsRecurring:      chore.IsRecurring,
			Frequency:        string(chore.Frequency),
			DefaultPoints:    chore.DefaultPoints,
			RequiresApproval: chore.RequiresApproval,
			AssignedCount:    chore.AssignedCount,
		}
	}

	c.JSON(http.StatusOK, response)
}

func (h *choreRoutes) DeleteChore(c *gin.Context) {
	choreID, err := uuid.Parse(c.Param("chore_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chore_id"})
		return
	}

	err = h.cs.DeleteChore(c.Request.Context(), choreID)
	if err != nil {
		if errors.Is(err, service.ErrChoreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chore_id not found"})
			return
		}
		logger.Logger().Error("failed to delete chore", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *choreRoutes) Assign(c *gin.Context) {
	choreID, err := uuid.Parse(c.Param("chore_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chore_id"})
		return
	}
	kidID, err := uuid.Parse(c.Param("kid_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid kid_id"})
		return
	}

	err = h.cs.Assign(c.Request.Context(), kidID, choreID)
	if err != nil {
		if errors.Is(err, service.ErrChoreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chore_id not found"})
			return
		}
		logger.Logger().Error("failed to assign chore", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusOK)
}

func (h *choreRoutes) Unassign(c *gin.Context) {
	choreID, err := uuid.Parse(c.Param("chore_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chore_id"})
		return
	}
	kidID, err := uuid.Parse(c.Param("kid_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid kid_id"})
		return
	}

	err = h.cs.Unassign(c.Request.Context(), kidID, choreID)
	if err != nil {
		if errors.Is(err, service.ErrNotAssigned) {
			c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found"})
			return
		}
		logger.Logger().Error("failed to unassign chore", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}

type kidChoreResponse struct {
	ChoreID          string     `json:"chore_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	IsRecurring      bool       `json:"is_recurring"`
	Frequency        string     `json:"frequency"`
	DefaultPoints    int        `json:"default_points"`
	RequiresApproval bool       `json:"requires_approval"`
	NextDueAt        time.Time  `json:"next_due_at"`
	StreakCount      int        `json:"streak_count"`
	LastCompletedAt  *time.Time `json:"last_completed_at,omitempty"`
	IsDue            bool       `json:"is_due"`
}

func kidChoreResponses(chores []*model.KidChore) []kidChoreResponse {
	response := make([]kidChoreResponse, len(chores))
	for i, kc := range chores {
		response[i] = kidChoreResponse{
			ChoreID:          kc.ChoreID.String(),
			Title:            kc.Title,
			Description:      kc.Description,
			IsRecurring:      kc.IsRecurring,
			Frequency:        string(kc.Frequency),
			DefaultPoints:    kc.DefaultPoints,
			RequiresApproval: kc.RequiresApproval,
			NextDueAt:        kc.NextDueAt,
			StreakCount:      kc.StreakCount,
			LastCompletedAt:  kc.LastCompletedAt,
			IsDue:            kc.IsDue,
		}
	}
	return response
}

func (h *choreRoutes) ListKidChores(c *gin.Context) {
	kid, ok := auth.KidFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	chores, err := h.cs.ListKidChores(c.Request.Context(), kid.ID)
	if err != nil {
		logger.Logger().Error("failed to list kid chores", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, kidChoreResponses(chores))
}
