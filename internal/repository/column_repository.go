package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/minhpbb/kanban/internal/model"
)

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

func (r *ColumnRepository) Create(ctx context.Context, column *model.KanbanColumn) error {
	return r.db.WithContext(ctx).Create(column).Error
}

// CreateTx inserts a column inside the caller's transaction.
func (r *ColumnRepository) CreateTx(tx *gorm.DB, column *model.KanbanColumn) error {
	return tx.Create(column).Error
}

func (r *ColumnRepository) GetByID(ctx context.Context, id uint) (*model.KanbanColumn, error) {
	var column model.KanbanColumn
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&column).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &column, nil
}

// ListActiveByBoard returns the active columns of a board in position order.
func (r *ColumnRepository) ListActiveByBoard(ctx context.Context, boardID uint) ([]model.KanbanColumn, error) {
	var columns []model.KanbanColumn
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND is_active = true", boardID).
		Order("position").
		Find(&columns).Error
	return columns, err
}

func (r *ColumnRepository) Update(ctx context.Context, column *model.KanbanColumn) error {
	return r.db.WithContext(ctx).Save(column).Error
}

func (r *ColumnRepository) GetMaxPosition(ctx context.Context, boardID uint) (int, error) {
	var maxPosition struct {
		Max int
	}
	err := r.db.WithContext(ctx).Model(&model.KanbanColumn{}).
		Select("COALESCE(MAX(position), -1) as max").
		Where("board_id = ?", boardID).
		Scan(&maxPosition).Error

	return maxPosition.Max, err
}

// UpdatePositionTx sets a column's position inside the caller's transaction.
// The board scope guards against ids from other boards.
func (r *ColumnRepository) UpdatePositionTx(tx *gorm.DB, columnID, boardID uint, position int) error {
	return tx.Model(&model.KanbanColumn{}).
		Where("id = ? AND board_id = ?", columnID, boardID).
		Update("position", position).Error
}

// DeactivateByProjectTx deactivates all columns under the project's boards
// inside the caller's transaction.
func (r *ColumnRepository) DeactivateByProjectTx(tx *gorm.DB, projectID uint) error {
	return tx.Model(&model.KanbanColumn{}).
		Where("board_id IN (?)", boardIDsOfProject(tx, projectID)).
		Update("is_active", false).Error
}

// DeleteByBoardTx removes all column rows of a board inside the caller's
// transaction.
func (r *ColumnRepository) DeleteByBoardTx(tx *gorm.DB, boardID uint) error {
	return tx.Delete(&model.KanbanColumn{}, "board_id = ?", boardID).Error
}
