package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/minhpbb/kanban/internal/model"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Get returns the membership row for (project, user) in any state, or nil if
// none exists.
func (r *MemberRepository) Get(ctx context.Context, projectID, userID uint) (*model.ProjectMember, error) {
	var member model.ProjectMember
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetActive returns the active membership row for (project, user), or nil.
func (r *MemberRepository) GetActive(ctx context.Context, projectID, userID uint) (*model.ProjectMember, error) {
	var member model.ProjectMember
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ? AND is_active = true", projectID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListActive returns the active members of a project with their user rows
// preloaded.
func (r *MemberRepository) ListActive(ctx context.Context, projectID uint) ([]model.ProjectMember, error) {
	var members []model.ProjectMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ? AND is_active = true", projectID).
		Order("joined_at").
		Find(&members).Error
	return members, err
}

func (r *MemberRepository) Create(ctx context.Context, member *model.ProjectMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// CreateTx inserts a membership row inside the caller's transaction.
func (r *MemberRepository) CreateTx(tx *gorm.DB, member *model.ProjectMember) error {
	return tx.Create(member).Error
}

// Deactivate marks the membership row inactive and stamps left_at.
func (r *MemberRepository) Deactivate(ctx context.Context, projectID, userID uint, now time.Time) error {
	return r.db.WithContext(ctx).Model(&model.ProjectMember{}).
		Where("project_id = ? AND user_id = ? AND is_active = true", projectID, userID).
		Updates(map[string]interface{}{"is_active": false, "left_at": now}).Error
}

// DeactivateByProjectTx deactivates all active memberships of a project
// inside the caller's transaction.
func (r *MemberRepository) DeactivateByProjectTx(tx *gorm.DB, projectID uint, now time.Time) error {
	return tx.Model(&model.ProjectMember{}).
		Where("project_id = ? AND is_active = true", projectID).
		Updates(map[string]interface{}{"is_active": false, "left_at": now}).Error
}

// DeactivateByUserTx deactivates all active memberships of a user inside the
// caller's transaction.
func (r *MemberRepository) DeactivateByUserTx(tx *gorm.DB, userID uint, now time.Time) error {
	return tx.Model(&model.ProjectMember{}).
		Where("user_id = ? AND is_active = true", userID).
		Updates(map[string]interface{}{"is_active": false, "left_at": now}).Error
}

// DeleteByProjectTx removes all membership rows of a project inside the
// caller's transaction.
func (r *MemberRepository) DeleteByProjectTx(tx *gorm.DB, projectID uint) error {
	return tx.Delete(&model.ProjectMember{}, "project_id = ?", projectID).Error
}

// DeleteByUserTx removes all membership rows of a user inside the caller's
// transaction.
func (r *MemberRepository) DeleteByUserTx(tx *gorm.DB, userID uint) error {
	return tx.Delete(&model.ProjectMember{}, "user_id = ?", userID).Error
}
