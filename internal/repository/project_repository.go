package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/minhpbb/kanban/internal/model"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// CreateTx inserts the project inside the caller's transaction, so the
// owner's membership row can be created atomically with it.
func (r *ProjectRepository) CreateTx(tx *gorm.DB, project *model.Project) error {
	return tx.Create(project).Error
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

// ListForUser returns the page of non-deleted projects where the user is the
// owner or holds a membership row, newest first, plus the total match count.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID uint, page, limit int) ([]model.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Project{}).
		Joins("LEFT JOIN project_members ON project_members.project_id = projects.id AND project_members.user_id = ?", userID).
		Where("projects.status <> ?", model.ProjectStatusDeleted).
		Where("projects.owner_id = ? OR project_members.id IS NOT NULL", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []model.Project
	err := query.
		Order("projects.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// ListByOwnerTx returns every project owned by the user regardless of status,
// read through the caller's transaction. Hard-delete cascades purge
// soft-deleted projects too.
func (r *ProjectRepository) ListByOwnerTx(tx *gorm.DB, ownerID uint) ([]model.Project, error) {
	var projects []model.Project
	err := tx.Where("owner_id = ?", ownerID).Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) Update(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// SetStatusTx updates the project status inside the caller's transaction.
func (r *ProjectRepository) SetStatusTx(tx *gorm.DB, id uint, status string) error {
	return tx.Model(&model.Project{}).Where("id = ?", id).Update("status", status).Error
}

// SetStatusByOwnerTx updates the status of every project owned by the user
// inside the caller's transaction.
func (r *ProjectRepository) SetStatusByOwnerTx(tx *gorm.DB, ownerID uint, status string) error {
	return tx.Model(&model.Project{}).Where("owner_id = ?", ownerID).Update("status", status).Error
}

// DeleteTx removes the project row inside the caller's transaction.
func (r *ProjectRepository) DeleteTx(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.Project{}, "id = ?", id).Error
}
