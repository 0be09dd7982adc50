package model

import (
	"time"
)

type User struct {
	ID             uint    `gorm:"primaryKey"`
	Username       string  `gorm:"uniqueIndex;not null"`
	Email          string  `gorm:"uniqueIndex;not null"`
	HashedPassword string  `gorm:"not null" json:"-"`
	DisplayName    string
	Avatar         string
	IsActive       bool       `gorm:"not null;default:true"`
	DeletedAt      *time.Time `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserRole is a global role assignment, independent of any project.
// Currently only RoleGlobalAdmin is consulted (user deletion requires it).
type UserRole struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_user_role"`
	Role      string `gorm:"not null;uniqueIndex:idx_user_role"`
	CreatedAt time.Time
}

const RoleGlobalAdmin = "admin"
