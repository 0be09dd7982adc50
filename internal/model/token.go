package model

import (
	"time"
)

// RefreshToken is an opaque token exchanged for new access tokens. Revoked
// rows are kept until the owning user is hard-deleted.
type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	Token     string `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time
	Revoked   bool `gorm:"not null;default:false"`
	CreatedAt time.Time
}
