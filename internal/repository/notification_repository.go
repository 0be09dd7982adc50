package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/minhpbb/kanban/internal/model"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// ListForUser returns the user's non-archived notifications, newest first.
func (r *NotificationRepository) ListForUser(ctx context.Context, userID uint, onlyUnread bool) ([]model.Notification, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if onlyUnread {
		query = query.Where("status = ?", model.NotificationUnread)
	} else {
		query = query.Where("status <> ?", model.NotificationArchived)
	}
	var notifications []model.Notification
	err := query.Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uint) (*model.Notification, error) {
	var n model.Notification
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) SetStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// ArchiveUnreadByProjectTx archives the project's unread notifications inside
// the caller's transaction.
func (r *NotificationRepository) ArchiveUnreadByProjectTx(tx *gorm.DB, projectID uint) error {
	return tx.Model(&model.Notification{}).
		Where("project_id = ? AND status = ?", projectID, model.NotificationUnread).
		Update("status", model.NotificationArchived).Error
}

// ArchiveByUserTx archives all of the user's notifications inside the
// caller's transaction.
func (r *NotificationRepository) ArchiveByUserTx(tx *gorm.DB, userID uint) error {
	return tx.Model(&model.Notification{}).
		Where("user_id = ? AND status <> ?", userID, model.NotificationArchived).
		Update("status", model.NotificationArchived).Error
}

// DeleteByProjectTx removes all project-linked notification rows inside the
// caller's transaction.
func (r *NotificationRepository) DeleteByProjectTx(tx *gorm.DB, projectID uint) error {
	return tx.Delete(&model.Notification{}, "project_id = ?", projectID).Error
}

// DeleteByUserTx removes all of the user's notification rows inside the
// caller's transaction.
func (r *NotificationRepository) DeleteByUserTx(tx *gorm.DB, userID uint) error {
	return tx.Delete(&model.Notification{}, "user_id = ?", userID).Error
}
