package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/minhpbb/kanban/internal/model"
)

type TokenRepository struct {
	db *gorm.DB
}

type TokenRepositoryInterface interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
}

var _ TokenRepositoryInterface = (*TokenRepository)(nil)

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *TokenRepository) GetByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	var rt model.RefreshToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&rt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rt, err
}

func (r *TokenRepository) Revoke(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Model(&model.RefreshToken{}).
		Where("token = ?", token).
		Update("revoked", true).Error
}

// RevokeAllForUserTx revokes every outstanding token of the user inside the
// caller's transaction.
func (r *TokenRepository) RevokeAllForUserTx(tx *gorm.DB, userID uint) error {
	return tx.Model(&model.RefreshToken{}).
		Where("user_id = ? AND revoked = false", userID).
		Update("revoked", true).Error
}

// DeleteByUserTx removes all of the user's tokens inside the caller's
// transaction.
func (r *TokenRepository) DeleteByUserTx(tx *gorm.DB, userID uint) error {
	return tx.Delete(&model.RefreshToken{}, "user_id = ?", userID).Error
}
