package service

import (
	"context"
	"log"

	"github.com/minhpbb/kanban/internal/model"
	"github.com/minhpbb/kanban/internal/repository"
)

// Notifier is the outbound notification sink. Writes are best-effort: the
// owning operation has already committed its mutation, so a failed write is
// logged and dropped rather than propagated.
type Notifier struct {
	notifications *repository.NotificationRepository
}

func NewNotifier(notifications *repository.NotificationRepository) *Notifier {
	return &Notifier{notifications: notifications}
}

func (n *Notifier) Notify(ctx context.Context, kind string, recipientID uint, projectID, taskID *uint, actorID uint, message string) {
	err := n.notifications.Create(ctx, &model.Notification{
		UserID:    recipientID,
		ProjectID: projectID,
		TaskID:    taskID,
		Type:      kind,
		ActorID:   actorID,
		Message:   message,
		Status:    model.NotificationUnread,
	})
	if err != nil {
		log.Printf("⚠️ failed to write %s notification for user %d: %v", kind, recipientID, err)
	}
}
