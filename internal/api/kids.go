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

type kidRoutes struct {
	ks *service.KidService
	a  *auth.TokenAuth
}

func NewKidRoutes(handler *gin.RouterGroup, ks *service.KidService, a *auth.TokenAuth) {
	h := &kidRoutes{ks: ks, a: a}

	admin := handler.Group("/admin")
	admin.Use(a.AdminMiddleware())
	{
		admin.POST("/kids", h.CreateKid)
		admin.GET("/kids", h.ListKids)
		admin.DELETE("/kids/:kid_id", h.DeleteKid)
		admin.GET("/stats", h.Stats)
	}

	kid := handler.Group("/kid")
	kid.Use(a.KidMiddleware())
	{
		kid.GET("/me", h.Me)
		kid.GET("/feed", h.Feed)
	}
}

type CreateKidRequest struct {
	Name string `json:"name" binding:"required"`
}

type kidResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TotalPoints int    `json:"total_points"`
	ChoreCount  int    `json:"chore_count"`
	APIToken    string `json:"api_token,omitempty"`
}

func (h *kidRoutes) CreateKid(c *gin.Context) {
	var req CreateKidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	kid, err := h.ks.CreateKid(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		logger.Logger().Error("failed to create kid", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	// The token is shown once, at creation, for device pairing.
	c.JSON(http.StatusCreated, kidResponse{
		ID:          kid.ID.String(),
		Name:        kid.Name,
		TotalPoints: kid.TotalPoints,
		APIToken:    kid.APIToken,
	})
}

func (h *kidRoutes) ListKids(c *gin.Context) {
	kids, err := h.ks.ListKids(c.Request.Context())
	if err != nil {
		logger.Logger().Error("failed to list kids", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	response := make([]kidResponse, len(kids))
	for i, kid := range kids {
		response[i] = kidResponse{
			ID:          kid.ID.String(),
			Name:        kid.Name,
			TotalPoints: kid.TotalPoints,
			ChoreCount:  kid.ChoreCount,
		}
	}

	c.JSON(http.StatusOK, response)
}

func (h *kidRoutes) DeleteKid(c *gin.Context) {
	kidID, err := uuid.Parse(c.Param("kid_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid kid_id"})
		return
	}

	err = h.ks.DeleteKid(c.Request.Context(), kidID)
	if err != nil {
		if errors.Is(err, service.ErrKidNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "kid_id not found"})
			return
		}
		logger.Logger().Error("failed to delete kid", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *kidRoutes) Me(c *gin.Context) {
	kid, ok := auth.KidFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	balance, err := h.ks.Balance(c.Request.Context(), kid.ID)
	if err != nil {
		logger.Logger().Error("failed to get balance", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, kidResponse{
		ID:          kid.ID.String(),
		Name:        kid.Name,
		TotalPoints: balance,
	})
}

type pointEntryResponse struct {
	Delta     int       `json:"delta"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *kidRoutes) Feed(c *gin.Context) {
	kid, ok := auth.KidFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	feed, err := h.ks.Feed(c.Request.Context(), kid.ID)
	if err != nil {
		logger.Logger().Error("failed to build feed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	history := make([]pointEntryResponse, len(feed.PointHistory))
	for i, e := range feed.PointHistory {
		history[i] = pointEntryResponse{
			Delta:     e.Delta,
			Kind:      string(e.Kind),
			CreatedAt: e.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"kid_name":      feed.KidName,
		"total_points":  feed.TotalPoints,
		"chores":        kidChoreResponses(feed.Chores),
		"submissions":   submissionResponses(feed.Submissions),
		"quests":        questProgressResponses(feed.Quests),
		"redemptions":   redemptionResponses(feed.Redemptions),
		"point_history": history,
	})
}

func (h *kidRoutes) Stats(c *gin.Context) {
	stats, err := h.ks.Stats(c.Request.Context())
	if err != nil {
		logger.Logger().Error("failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	streaks := make([]gin.H, len(stats.StreakLeaders))
	for i, l := range stats.StreakLeaders {
		streaks[i] = gin.H{
			"kid_name":     l.KidName,
			"chore_title":  l.ChoreTitle,
			"streak_count": l.StreakCount,
		}
	}

	points := make([]gin.H, len(stats.PointsLeaders))
	for i, l := range stats.PointsLeaders {
		points[i] = gin.H{
			"kid_name":     l.KidName,
			"total_points": l.TotalPoints,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"pending_submissions": stats.PendingSubmissions,
		"pending_quest_tasks": stats.PendingQuestTasks,
		"pending_redemptions": stats.PendingRedemptions,
		"today_completions":   stats.TodayCompletions,
		"streak_leaders":      streaks,
		"points_leaders":      points,
	})
}

// statusParam reads an optional ?status= filter, defaulting to pending.
func statusParam(c *gin.Context) (model.ReviewStatus, bool) {
	s := c.DefaultQuery("status", string(model.StatusPending))
	switch model.ReviewStatus(s) {
	case model.StatusPending, model.StatusApproved, model.StatusRejected:
		return model.ReviewStatus(s), true
	default:
		return "", false
	}
}
