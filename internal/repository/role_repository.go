package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/minhpbb/kanban/internal/model"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// HasRole reports whether the user holds the given global role.
func (r *RoleRepository) HasRole(ctx context.Context, userID uint, role string) (bool, error) {
	var assignment model.UserRole
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteByUserTx removes all of the user's role assignments inside the
// caller's transaction.
func (r *RoleRepository) DeleteByUserTx(tx *gorm.DB, userID uint) error {
	return tx.Delete(&model.UserRole{}, "user_id = ?", userID).Error
}
