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

type submissionRoutes struct {
	ss       *service.SubmissionService
	a        *auth.TokenAuth
	notifier *notify.Notifier
	hub      *EventHub
}

func NewSubmissionRoutes(handler *gin.RouterGroup, ss *service.SubmissionService, a *auth.TokenAuth, notifier *notify.Notifier, hub *EventHub) {
	h := &submissionRoutes{ss: ss, a: a, notifier: notifier, hub: hub}

	admin := handler.Group("/admin")
	admin.Use(a.AdminMiddleware())
	{
		admin.GET("/submissions", h.ListSubmissions)
		admin.POST("/submissions/:submission_id/review", h.Review)
	}

	kid := handler.Group("/kid")
	kid.Use(a.KidMiddleware())
	{
		kid.POST("/chores/:chore_id/submit", h.Submit)
		kid.GET("/submissions", h.ListMine)
	}
}

type SubmitChoreRequest struct {
	Note string `json:"note"`
}

func (h *submissionRoutes) Submit(c *gin.Context) {
	kid, ok := auth.KidFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	choreID, err := uuid.Parse(c.Param("chore_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chore_id"})
		return
	}

	var req SubmitChoreRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	sub, err := h.ss.SubmitCompletion(c.Request.Context(), kid.ID, choreID, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAssigned):
			c.JSON(http.StatusNotFound, gin.H{"error": "chore is not assigned to you"})
		case errors.Is(err, service.ErrAlreadyPending):
			c.JSON(http.StatusConflict, gin.H{"error": "a submission for this chore is already awaiting review"})
		default:
			logger.Logger().Error("failed to submit chore", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	if sub.Status == model.StatusPending {
		h.notifier.SubmissionPending(kid.Name, sub.ChoreTitle)
	}

	c.JSON(http.StatusCreated, gin.H{
		"submission_id":  sub.ID.String(),
		"status":         string(sub.Status),
		"points_awarded": sub.PointsAwarded,
	})
}

type submissionResponse struct {
	ID            string     `json:"id"`
	KidID         string     `json:"kid_id"`
	KidName       string     `json:"kid_name,omitempty"`
	ChoreID       string     `json:"chore_id"`
	ChoreTitle    string     `json:"chore_title,omitempty"`
	Status        string     `json:"status"`
	Note          string     `json:"note,omitempty"`
	PointsAwarded int        `json:"points_awarded"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
}

func submissionResponses(subs []*model.Submission) []submissionResponse {
	response := make([]submissionResponse, len(subs))
	for i, sub := range subs {
		response[i] = submissionResponse{
			ID:            sub.ID.String(),
			KidID:         sub.KidID.String(),
			KidName:       sub.KidName,
			ChoreID:       sub.ChoreID.String(),
			ChoreTitle:    sub.ChoreTitle,
			Status:        string(sub.Status),
			Note:          sub.Note,
			PointsAwarded: sub.PointsAwarded,
			SubmittedAt:   sub.SubmittedAt,
			ReviewedAt:    sub.ReviewedAt,
		}
	}
	return response
}

func (h *submissionRoutes) ListSubmissions(c *gin.Context) {
	status, ok := statusParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	subs, err := h.ss.List(c.Request.Context(), status)
	if err != nil {
		logger.Logger().Error("failed to list submissions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, submissionResponses(subs))
}

func (h *submissionRoutes) ListMine(c *gin.Context) {
	kid, ok := auth.KidFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	subs, err := h.ss.ListForKid(c.Request.Context(), kid.ID)
	if err != nil {
		logger.Logger().Error("failed to list kid submissions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, submissionResponses(subs))
}

type ReviewSubmissionRequest struct {
	Decision       string `json:"decision" binding:"required"`
	PointsOverride *int   `json:"points_override"`
	Note           string `json:"note"`
}

func (h *submissionRoutes) Review(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("submission_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission_id"})
		return
	}

	var req ReviewSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	decision, ok := model.ParseDecision(req.Decision)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "decision must be approved or rejected"})
		return
	}
	if req.PointsOverride != nil && *req.PointsOverride < 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "points_override must not be negative"})
		return
	}

	sub, err := h.ss.Review(c.Request.Context(), submissionID, decision, req.PointsOverride, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubmissionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "submission_id not found"})
		case errors.Is(err, service.ErrAlreadyReviewed):
			c.JSON(http.StatusConflict, gin.H{"error": "submission already reviewed"})
		default:
			logger.Logger().Error("failed to review submission", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	h.hub.Publish(sub.KidID, EventSubmissionReviewed, gin.H{
		"submission_id":  sub.ID.String(),
		"chore_title":    sub.ChoreTitle,
		"status":         string(sub.Status),
		"points_awarded": sub.PointsAwarded,
	})

	c.JSON(http.StatusOK, submissionResponses([]*model.Submission{sub})[0])
}
