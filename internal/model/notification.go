package model

import (
	"time"
)

// Notification kinds
const (
	NotificationMemberAdded   = "member_added"
	NotificationMemberRemoved = "member_removed"
	NotificationTaskAssigned  = "task_assigned"
	NotificationTaskUnassigned = "task_unassigned"
	NotificationTaskCommented = "task_commented"
)

// Notification statuses
const (
	NotificationUnread   = "unread"
	NotificationRead     = "read"
	NotificationArchived = "archived"
)

type Notification struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	ProjectID *uint  `gorm:"index"`
	TaskID    *uint  `gorm:"index"`
	Type      string `gorm:"not null"`
	ActorID   uint   `gorm:"not null"`
	Message   string `gorm:"not null"`
	Status    string `gorm:"not null;default:unread;check:status IN ('unread', 'read', 'archived')"`
	CreatedAt time.Time
}
