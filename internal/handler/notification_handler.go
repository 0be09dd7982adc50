package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minhpbb/kanban/internal/model"
	"github.com/minhpbb/kanban/internal/service"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

type NotificationResponse struct {
	ID        uint   `json:"id"`
	Type      string `json:"type"`
	ProjectID *uint  `json:"project_id,omitempty"`
	TaskID    *uint  `json:"task_id,omitempty"`
	ActorID   uint   `json:"actor_id"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func toNotificationResponse(n *model.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		ProjectID: n.ProjectID,
		TaskID:    n.TaskID,
		ActorID:   n.ActorID,
		Message:   n.Message,
		Status:    n.Status,
		CreatedAt: n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	onlyUnread := c.Query("unread") == "true"
	notifications, err := h.notificationService.List(c.Request.Context(), userID, onlyUnread)
	if err != nil {
		respondError(c, err)
		return
	}
	response := make([]NotificationResponse, len(notifications))
	for i := range notifications {
		response[i] = toNotificationResponse(&notifications[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.notificationService.MarkRead(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *NotificationHandler) Archive(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.notificationService.Archive(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification archived"})
}
