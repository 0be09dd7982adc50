package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/minhpbb/kanban/internal/model"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// CreateTx inserts the board inside the caller's transaction, so its default
// columns can be created atomically with it.
func (r *BoardRepository) CreateTx(tx *gorm.DB, board *model.KanbanBoard) error {
	return tx.Create(board).Error
}

func (r *BoardRepository) GetByID(ctx context.Context, id uint) (*model.KanbanBoard, error) {
	var board model.KanbanBoard
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &board, nil
}

// ListActiveByProject returns the active boards of a project.
func (r *BoardRepository) ListActiveByProject(ctx context.Context, projectID uint) ([]model.KanbanBoard, error) {
	var boards []model.KanbanBoard
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND is_active = true", projectID).
		Order("created_at").
		Find(&boards).Error
	return boards, err
}

// ListByProjectTx returns all boards of a project regardless of state, read
// through the caller's transaction. Purge cascades walk inactive boards too.
func (r *BoardRepository) ListByProjectTx(tx *gorm.DB, projectID uint) ([]model.KanbanBoard, error) {
	var boards []model.KanbanBoard
	err := tx.Where("project_id = ?", projectID).Find(&boards).Error
	return boards, err
}

// DeactivateByProjectTx deactivates all boards of a project inside the
// caller's transaction.
func (r *BoardRepository) DeactivateByProjectTx(tx *gorm.DB, projectID uint) error {
	return tx.Model(&model.KanbanBoard{}).
		Where("project_id = ?", projectID).
		Update("is_active", false).Error
}

// DeleteByProjectTx removes all board rows of a project inside the caller's
// transaction. Columns and tasks under the boards must be removed first.
func (r *BoardRepository) DeleteByProjectTx(tx *gorm.DB, projectID uint) error {
	return tx.Delete(&model.KanbanBoard{}, "project_id = ?", projectID).Error
}

// boardIDsOfProject builds a subquery selecting the board ids of a project,
// for scoping column and task cascades.
func boardIDsOfProject(tx *gorm.DB, projectID uint) *gorm.DB {
	return tx.Model(&model.KanbanBoard{}).Select("id").Where("project_id = ?", projectID)
}
