package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Task priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type Task struct {
	ID          uint   `gorm:"primaryKey"`
	ProjectID   uint   `gorm:"not null;index"`
	BoardID     uint   `gorm:"not null;index"`
	ColumnID    uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string
	Priority    string `gorm:"not null;default:medium"`
	CreatedByID uint   `gorm:"not null;index"`
	AssigneeID  *uint  `gorm:"index"`
	Order       int    `gorm:"column:order;not null"`
	Comments    CommentList `gorm:"type:jsonb;default:'[]'"`
	DueDate     *time.Time
	DeletedAt   *time.Time `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Creator  User `gorm:"foreignKey:CreatedByID"`
	Assignee User `gorm:"foreignKey:AssigneeID"`
}

// Comment is an entry in a task's embedded comment list. IDs are random
// UUIDs, unique within the task even under rapid successive appends.
type Comment struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentList stores a task's comments as a single JSONB column. The whole
// list is rewritten on every append, matching the owning-task semantics.
type CommentList []Comment

func (l CommentList) Value() (driver.Value, error) {
	if l == nil {
		l = CommentList{}
	}
	return json.Marshal(l)
}

func (l *CommentList) Scan(value interface{}) error {
	if value == nil {
		*l = CommentList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported comment list type %T", value)
	}
	return json.Unmarshal(data, l)
}
