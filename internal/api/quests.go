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

type questRoutes struct {
	qs       *service.QuestService
	a        *auth.TokenAuth
	notifier *notify.Notifier
	hub      *EventHub
}

func NewQuestRoutes(handler *gin.RouterGroup, qs *service.QuestService, a *auth.TokenAuth, notifier *notify.Notifier, hub *EventHub) {
	h := &questRoutes{qs: qs, a: a, notifier: notifier, hub: hub}

	admin := handler.Group("/admin")
	admin.Use(a.AdminMiddleware())
	{
		admin.POST("/quests", h.CreateQuest)
		admin.GET("/quests", h.ListQuests)
		admin.POST("/quests/:quest_id/toggle", h.ToggleQuest)
		admin.POST("/quests/:quest_id/tasks", h.CreateTask)
		admin.GET("/quests/:quest_id/tasks", h.ListTasks)
		admin.DELETE("/quest-tasks/:task_id", h.DeleteTask)
		admin.GET("/quest-submissions", h.ListTaskStatuses)
		admin.POST("/quest-submissions/:status_id/review", h.ReviewTask)
	}

	kid := handler.Group("/kid")
	kid.Use(a.KidMiddleware())
	{
		kid.GET("/quests", h.KidQuests)
		kid.POST("/quest-tasks/:task_id/submit", h.SubmitTask)
	}
}

type CreateQuestRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	TargetReward string `json:"target_reward"`
}

func (h *questRoutes) CreateQuest(c *gin.Context) {
	var req CreateQuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	quest := &model.Quest{
		Title:        req.Title,
		Description:  req.Description,
		TargetReward: req.TargetReward,
	}

	id, err := h.qs.CreateQuest(c.Request.Context(), quest)
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		logger.Logger().Error("failed to create quest", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

type questResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	TargetReward string `json:"target_reward"`
	IsActive     bool   `json:"is_active"`
	TaskCount    int    `json:"task_count"`
}

func (h *questRoutes) ListQuests(c *gin.Context) {
	quests, err := h.qs.ListQuests(c.Request.Context(), false)
	if err != nil {
		logger.Logger().Error("failed to list quests", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	response := make([]questResponse, len(quests))
	for i, q := range quests {
		response[i] = questResponse{
			ID:           q.ID.String(),
			Title:        q.Title,
			Description:  q.Description,
			TargetReward: q.TargetReward,
			IsActive:     q.IsActive,
			TaskCount:    q.TaskCount,
		}
	}

	c.JSON(http.StatusOK, response)
}

func (h *questRoutes) ToggleQuest(c *gin.Context) {
	questID, err := uuid.Parse(c.Param("quest_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quest_id"})
		return
	}

	err = h.qs.ToggleQuest(c.Request.Context(), questID)
	if err != nil {
		if errors.Is(err, service.ErrQuestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "quest_id not found"})
			return
		}
		logger.Logger().Error("failed to toggle quest", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusOK)
}

type CreateQuestTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	OrderIndex  int    `json:"order_index"`
}

func (h *questRoutes) CreateTask(c *gin.Context) {
	questID, err := uuid.Parse(c.Param("quest_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quest_id"})
		return
	}

	var req CreateQuestTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	points := req.Points
	if points <= 0 {
		points = 10
	}

	task := &model.QuestTask{
		QuestID:     questID,
		Title:       req.Title,
		Description: req.Description,
		Points:      points,
		OrderIndex:  req.OrderIndex,
	}

	id, err := h.qs.CreateQuestTask(c.Request.Context(), task)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTitleRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		case errors.Is(err, service.ErrQuestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "quest_id not found"})
		default:
			logger.Logger().Error("failed to create quest task", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

func (h *questRoutes) ListTasks(c *gin.Context) {
	questID, err := uuid.Parse(c.Param("quest_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quest_id"})
		return
	}

	tasks, err := h.qs.ListQuestTasks(c.Request.Context(), questID)
	if err != nil {
		logger.Logger().Error("failed to list quest tasks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	type taskResponse struct {
		ID          string `json:"id"`
		QuestID     string `json:"quest_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Points      int    `json:"points"`
		OrderIndex  int    `json:"order_index"`
	}

	response := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		response[i] = taskResponse{
			ID:          t.ID.String(),
			QuestID:     t.QuestID.String(),
			Title:       t.Title,
			Description: t.Description,
			Points:      t.Points,
			OrderIndex:  t.OrderIndex,
		}
	}

	c.JSON(http.StatusOK, response)
}

func (h *questRoutes) DeleteTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task_id"})
		return
	}

	err = h.qs.DeleteQuestTask(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, service.ErrQuestTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task_id not found"})
			return
		}
		logger.Logger().Error("failed to delete quest task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}

type SubmitQuestTaskRequest struct {
	Note string `json:"note"`
}

func (h *questRoutes) SubmitTask(c *gin.Context) {
	kid, ok := auth.KidFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task_id"})
		return
	}

	var req SubmitQuestTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	status, err := h.qs.SubmitTask(c.Request.Context(), kid.ID, taskID, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuestTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "task_id not found"})
		case errors.Is(err, service.ErrAlreadySubmitted):
			c.JSON(http.StatusConflict, gin.H{"error": "task already submitted"})
		default:
			logger.Logger().Error("failed to submit quest task", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	h.notifier.QuestTaskPending(kid.Name, status.TaskTitle)

	c.JSON(http.StatusCreated, gin.H{
		"status_id": status.ID.String(),
		"status":    string(status.Status),
	})
}

type questTaskStatusResponse struct {
	ID          string     `json:"id"`
	KidID       string     `json:"kid_id"`
	KidName     string     `json:"kid_name,omitempty"`
	QuestID     string     `json:"quest_id"`
	TaskTitle   string     `json:"task_title"`
	Points      int        `json:"points"`
	Status      string     `json:"status"`
	Note        string     `json:"note,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
}

func (h *questRoutes) ListTaskStatuses(c *gin.Context) {
	status, ok := statusParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	statuses, err := h.qs.ListTaskStatuses(c.Request.Context(), status)
	if err != nil {
		logger.Logger().Error("failed to list quest task statuses", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	response := make([]questTaskStatusResponse, len(statuses))
	for i, s := range statuses {
		response[i] = questTaskStatusResponse{
			ID:          s.ID.String(),
			KidID:       s.KidID.String(),
			KidName:     s.KidName,
			QuestID:     s.QuestID.String(),
			TaskTitle:   s.TaskTitle,
			Points:      s.Points,
			Status:      string(s.Status),
			Note:        s.Note,
			SubmittedAt: s.SubmittedAt,
			ReviewedAt:  s.ReviewedAt,
		}
	}

	c.JSON(http.StatusOK, response)
}

type ReviewQuestTaskRequest struct {
	Decision string `json:"decision" binding:"required"`
}

func (h *questRoutes) ReviewTask(c *gin.Context) {
	statusID, err := uuid.Parse(c.Param("status_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status_id"})
		return
	}

	var req ReviewQuestTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	decision, ok := model.ParseDecision(req.Decision)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "decision must be approved or rejected"})
		return
	}

	status, err := h.qs.ReviewTask(c.Request.Context(), statusID, decision)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuestTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "status_id not found"})
		case errors.Is(err, service.ErrAlreadyReviewed):
			c.JSON(http.StatusConflict, gin.H{"error": "quest task already reviewed"})
		default:
			logger.Logger().Error("failed to review quest task", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	h.hub.Publish(status.KidID, EventQuestTaskReviewed, gin.H{
		"status_id":  status.ID.String(),
		"quest_id":   status.QuestID.String(),
		"task_title": status.TaskTitle,
		"status":     string(status.Status),
		"points":     status.Points,
	})

	c.JSON(http.StatusOK, questTaskStatusResponse{
		ID:          status.ID.String(),
		KidID:       status.KidID.String(),
		KidName:     status.KidName,
		QuestID:     status.QuestID.String(),
		TaskTitle:   status.TaskTitle,
		Points:      status.Points,
		Status:      string(status.Status),
		Note:        status.Note,
		SubmittedAt: status.SubmittedAt,
		ReviewedAt:  status.ReviewedAt,
	})
}

type questProgressResponse struct {
	QuestID        string `json:"quest_id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	TargetReward   string `json:"target_reward"`
	EarnedPoints   int    `json:"earned_points"`
	TotalPoints    int    `json:"total_points"`
	TotalTasks     int    `json:"total_tasks"`
	CompletedTasks int    `json:"completed_tasks"`
	Completed      bool   `json:"completed"`
}

func questProgressResponses(progress []*model.QuestProgress) []questProgressResponse {
	response := make([]questProgressResponse, len(progress))
	for i, p := range progress {
		response[i] = questProgressResponse{
			QuestID:        p.QuestID.String(),
			Title:          p.Title,
			Description:    p.Description,
			TargetReward:   p.TargetReward,
			EarnedPoints:   p.EarnedPoints,
			TotalPoints:    p.TotalPoints,
			TotalTasks:     p.TotalTasks,
			CompletedTasks: p.CompletedTasks,
			Completed:      p.Completed(),
		}
	}
	return response
}

func (h *questRoutes) KidQuests(c *gin.Context) {
	kid, ok := auth.KidFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	progress, err := h.qs.Progress(c.Request.Context(), kid.ID)
	if err != nil {
		logger.Logger().Error("failed to get quest progress", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, questProgressResponses(progress))
}
