package model

import (
	"time"
)

// Project statuses
const (
	ProjectStatusActive  = "active"
	ProjectStatusDeleted = "deleted"
)

type Project struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	OwnerID     uint   `gorm:"not null;index"`
	Status      string `gorm:"not null;default:active;check:status IN ('active', 'deleted')"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Owner User `gorm:"foreignKey:OwnerID"`
}
