package service

import (
	"context"

	"github.com/minhpbb/kanban/internal/apperr"
	"github.com/minhpbb/kanban/internal/model"
	"github.com/minhpbb/kanban/internal/repository"
)

// NotificationService is the read side of the sink: users list their own
// rows and move them through unread → read → archived.
type NotificationService struct {
	notifications *repository.NotificationRepository
}

func NewNotificationService(notifications *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) List(ctx context.Context, userID uint, onlyUnread bool) ([]model.Notification, error) {
	return s.notifications.ListForUser(ctx, userID, onlyUnread)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) error {
	return s.setStatus(ctx, id, userID, model.NotificationRead)
}

func (s *NotificationService) Archive(ctx context.Context, id, userID uint) error {
	return s.setStatus(ctx, id, userID, model.NotificationArchived)
}

// setStatus updates a notification the user owns. Someone else's row is
// NotFound, not Forbidden: notification ids are private.
func (s *NotificationService) setStatus(ctx context.Context, id, userID uint, status string) error {
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil || n.UserID != userID {
		return apperr.NotFound("notification not found")
	}
	return s.notifications.SetStatus(ctx, id, status)
}
