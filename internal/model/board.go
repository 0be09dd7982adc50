package model

import (
	"time"
)

type KanbanBoard struct {
	ID        uint   `gorm:"primaryKey"`
	ProjectID uint   `gorm:"not null;index"`
	Name      string `gorm:"not null"`
	IsActive  bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Project Project `gorm:"foreignKey:ProjectID"`
}

func (KanbanBoard) TableName() string {
	return "kanban_boards"
}

type KanbanColumn struct {
	ID       uint   `gorm:"primaryKey"`
	BoardID  uint   `gorm:"not null;index"`
	Name     string `gorm:"not null"`
	Position int    `gorm:"not null"`
	IsActive bool   `gorm:"not null;default:true"`

	Board KanbanBoard `gorm:"foreignKey:BoardID"`
}

func (KanbanColumn) TableName() string {
	return "kanban_columns"
}
