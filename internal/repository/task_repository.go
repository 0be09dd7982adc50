package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/minhpbb/kanban/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves an active (not soft-deleted) task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).Where("id = ? AND deleted_at IS NULL", id).First(&task)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// ListByProject returns the active tasks of a project in column order,
// optionally restricted to one board.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID uint, boardID *uint) ([]model.Task, error) {
	query := r.db.WithContext(ctx).
		Where("project_id = ? AND deleted_at IS NULL", projectID)
	if boardID != nil {
		query = query.Where("board_id = ?", *boardID)
	}
	var tasks []model.Task
	err := query.Order(`"order"`).Find(&tasks).Error
	return tasks, err
}

// ListByColumn returns the active tasks of a column in position order.
func (r *TaskRepository) ListByColumn(ctx context.Context, columnID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("column_id = ? AND deleted_at IS NULL", columnID).
		Order(`"order"`).
		Find(&tasks).Error
	return tasks, err
}

// ListByColumnTx is ListByColumn against the caller's transaction, for move
// and reorder operations that must see their own writes.
func (r *TaskRepository) ListByColumnTx(tx *gorm.DB, columnID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := tx.
		Where("column_id = ? AND deleted_at IS NULL", columnID).
		Order(`"order"`).
		Find(&tasks).Error
	return tasks, err
}

// MaxOrderInColumn returns the highest order value among the column's active
// tasks, or -1 for an empty column.
func (r *TaskRepository) MaxOrderInColumn(ctx context.Context, columnID uint) (int, error) {
	var maxOrder struct {
		Max int
	}
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select(`COALESCE(MAX("order"), -1) as max`).
		Where("column_id = ? AND deleted_at IS NULL", columnID).
		Scan(&maxOrder).Error
	return maxOrder.Max, err
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task permanently. Soft deletion happens only through the
// project and user cascades, never here.
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// SaveTx persists a task inside the caller's transaction.
func (r *TaskRepository) SaveTx(tx *gorm.DB, task *model.Task) error {
	return tx.Save(task).Error
}

// UpdateOrderTx sets a single task's order inside the caller's transaction.
func (r *TaskRepository) UpdateOrderTx(tx *gorm.DB, taskID uint, order int) error {
	return tx.Model(&model.Task{}).Where("id = ?", taskID).Update("order", order).Error
}

// UpdateOrderInColumnTx sets a task's order inside the caller's transaction,
// but only if the task belongs to the column. Used by the column resync,
// which silently skips foreign ids.
func (r *TaskRepository) UpdateOrderInColumnTx(tx *gorm.DB, taskID, columnID uint, order int) error {
	return tx.Model(&model.Task{}).
		Where("id = ? AND column_id = ? AND deleted_at IS NULL", taskID, columnID).
		Update("order", order).Error
}

// SoftDeleteByProjectTx soft-deletes every active task under the project,
// both directly project-linked rows and rows reached through the project's
// boards, inside the caller's transaction.
func (r *TaskRepository) SoftDeleteByProjectTx(tx *gorm.DB, projectID uint, now time.Time) error {
	return tx.Model(&model.Task{}).
		Where("deleted_at IS NULL").
		Where("project_id = ? OR board_id IN (?)", projectID, boardIDsOfProject(tx, projectID)).
		Update("deleted_at", now).Error
}

// SoftDeleteByUserTx soft-deletes every active task the user created or is
// assigned to, inside the caller's transaction.
func (r *TaskRepository) SoftDeleteByUserTx(tx *gorm.DB, userID uint, now time.Time) error {
	return tx.Model(&model.Task{}).
		Where("deleted_at IS NULL").
		Where("created_by_id = ? OR assignee_id = ?", userID, userID).
		Update("deleted_at", now).Error
}

// DeleteByBoardTx removes all task rows of a board inside the caller's
// transaction.
func (r *TaskRepository) DeleteByBoardTx(tx *gorm.DB, boardID uint) error {
	return tx.Delete(&model.Task{}, "board_id = ?", boardID).Error
}

// DeleteByProjectTx removes any remaining task rows linked to the project
// inside the caller's transaction.
func (r *TaskRepository) DeleteByProjectTx(tx *gorm.DB, projectID uint) error {
	return tx.Delete(&model.Task{}, "project_id = ?", projectID).Error
}

// DeleteByUserTx removes all task rows the user created or is assigned to,
// inside the caller's transaction.
func (r *TaskRepository) DeleteByUserTx(tx *gorm.DB, userID uint) error {
	return tx.Delete(&model.Task{}, "created_by_id = ? OR assignee_id = ?", userID, userID).Error
}
