package model

import (
	"time"
)

// Project-level roles
const (
	RoleAdmin  = "admin"  // full project management
	RoleMember = "member" // can work with tasks
	RoleViewer = "viewer" // read-only
)

// ProjectMember is the join row granting a user a role within a project.
// At most one row exists per (project, user) pair; leaving a project
// deactivates the row rather than deleting it.
type ProjectMember struct {
	ID        uint   `gorm:"primaryKey"`
	ProjectID uint   `gorm:"not null;uniqueIndex:idx_project_user"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_project_user"`
	Role      string `gorm:"not null;check:role IN ('admin', 'member', 'viewer')"`
	IsActive  bool   `gorm:"not null;default:true"`
	JoinedAt  time.Time
	LeftAt    *time.Time

	Project Project `gorm:"foreignKey:ProjectID"`
	User    User    `gorm:"foreignKey:UserID"`
}

func (ProjectMember) TableName() string {
	return "project_members"
}
