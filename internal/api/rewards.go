package api

import (
	"errors"
	"net/http"
	"time"

	"chorequest/internal/model"
	"chorequest/internal/notify"
	"chorequest/internal/service"
	"chorequest/pkg/auth"
	"chorequest/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type rewardRoutes struct {
	rs       *service.RewardService
	a        *auth.TokenAuth
	notifier *notify.Notifier
	hub      *EventHub
}

func NewRewardRoutes(handler *gin.RouterGroup, rs *service.RewardService, a *auth.TokenAuth, notifier *notify.Notifier, hub *EventHub) {
	h := &rewardRoutes{rs: rs, a: a, notifier: notifier, hub: hub}

	admin := handler.Group("/admin")
	admin.Use(a.AdminMiddleware())
	{
		admin.POST("/rewards", h.CreateReward)
		admin.GET("/rewards", h.ListRewards)
		admin.POST("/rewards/:reward_id/toggle", h.ToggleReward)
		admin.GET("/redemptions", h.ListRedemptions)
		admin.POST("/redemptions/:redemption_id/review", h.ReviewRedemption)
	}

	kid := handler.Group("/kid")
	kid.Use(a.KidMiddleware())
	{
		kid.GET("/rewards", h.KidRewards)
		kid.POST("/rewards/:reward_id/redeem", h.Redeem)
	}
}

type CreateRewardRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CostPoints  int    `json:"cost_points" binding:"required,gt=0"`
}

func (h *rewardRoutes) CreateReward(c *gin.Context) {
	var req CreateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	reward := &model.Reward{
		Title:       req.Title,
		Description: req.Description,
		CostPoints:  req.CostPoints,
	}

	id, err := h.rs.CreateReward(c.Request.Context(), reward)
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		logger.Logger().Error("failed to create reward", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

type rewardResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CostPoints  int    `json:"cost_points"`
	IsActive    bool   `json:"is_active"`
}

func rewardResponses(rewards []*model.Reward) []rewardResponse {
	response := make([]rewardResponse, len(rewards))
	for i, rw := range rewards {
		response[i] = rewardResponse{
			ID:          rw.ID.String(),
			Title:       rw.Title,
			Description: rw.Description,
			CostPoints:  rw.CostPoints,
			IsActive:    rw.IsActive,
		}
	}
	return response
}

func (h *rewardRoutes) ListRewards(c *gin.Context) {
	rewards, err := h.rs.ListRewards(c.Request.Context(), false)
	if err != nil {
		logger.Logger().Error("failed to list rewards", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, rewardResponses(rewards))
}

func (h *rewardRoutes) ToggleReward(c *gin.Context) {
	rewardID, err := uuid.Parse(c.Param("reward_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reward_id"})
		return
	}

	err = h.rs.ToggleReward(c.Request.Context(), rewardID)
	if err != nil {
		if errors.Is(err, service.ErrRewardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reward_id not found"})
			return
		}
		logger.Logger().Error("failed to toggle reward", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusOK)
}

// KidRewards shows only the catalog a kid can actually spend on.
func (h *rewardRoutes) KidRewards(c *gin.Context) {
	rewards, err := h.rs.ListRewards(c.Request.Context(), true)
	if err != nil {
		logger.Logger().Error("failed to list rewards", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, rewardResponses(rewards))
}

func (h *rewardRoutes) Redeem(c *gin.Context) {
	kid, ok := auth.KidFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	rewardID, err := uuid.Parse(c.Param("reward_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reward_id"})
		return
	}

	rd, err := h.rs.RequestRedemption(c.Request.Context(), kid.ID, rewardID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRewardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "reward_id not found"})
		case errors.Is(err, service.ErrRewardInactive):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "reward is not available"})
		case errors.Is(err, service.ErrInsufficientPoints):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "not enough points"})
		default:
			logger.Logger().Error("failed to request redemption", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	h.notifier.RedemptionRequested(kid.Name, rd.RewardTitle, rd.CostPoints)

	c.JSON(http.StatusCreated, gin.H{
		"redemption_id": rd.ID.String(),
		"status":        string(rd.Status),
		"cost_points":   rd.CostPoints,
	})
}

type redemptionResponse struct {
	ID          string     `json:"id"`
	KidID       string     `json:"kid_id"`
	KidName     string     `json:"kid_name,omitempty"`
	RewardID    string     `json:"reward_id"`
	RewardTitle string     `json:"reward_title,omitempty"`
	CostPoints  int        `json:"cost_points"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

func redemptionResponses(redemptions []*model.Redemption) []redemptionResponse {
	response := make([]redemptionResponse, len(redemptions))
	for i, rd := range redemptions {
		response[i] = redemptionResponse{
			ID:          rd.ID.String(),
			KidID:       rd.KidID.String(),
			KidName:     rd.KidName,
			RewardID:    rd.RewardID.String(),
			RewardTitle: rd.RewardTitle,
			CostPoints:  rd.CostPoints,
			Status:      string(rd.Status),
			RequestedAt: rd.RequestedAt,
			ResolvedAt:  rd.ResolvedAt,
		}
	}
	return response
}

func (h *rewardRoutes) ListRedemptions(c *gin.Context) {
	status, ok := statusParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	redemptions, err := h.rs.ListRedemptions(c.Request.Context(), status)
	if err != nil {
		logger.Logger().Error("failed to list redemptions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, redemptionResponses(redemptions))
}

type ReviewRedemptionRequest struct {
	Decision string `json:"decision" binding:"required"`
}

func (h *rewardRoutes) ReviewRedemption(c *gin.Context) {
	redemptionID, err := uuid.Parse(c.Param("redemption_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid redemption_id"})
		return
	}

	var req ReviewRedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	decision, ok := model.ParseDecision(req.Decision)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "decision must be approved or rejected"})
		return
	}

	rd, err := h.rs.ReviewRedemption(c.Request.Context(), redemptionID, decision)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRedemptionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "redemption_id not found"})
		case errors.Is(err, service.ErrAlreadyReviewed):
			c.JSON(http.StatusConflict, gin.H{"error": "redemption already reviewed"})
		default:
			logger.Logger().Error("failed to review redemption", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	h.hub.Publish(rd.KidID, EventRedemptionReviewed, gin.H{
		"redemption_id": rd.ID.String(),
		"reward_title":  rd.RewardTitle,
		"status":        string(rd.Status),
		"cost_points":   rd.CostPoints,
	})

	c.JSON(http.StatusOK, redemptionResponses([]*model.Redemption{rd})[0])
}
