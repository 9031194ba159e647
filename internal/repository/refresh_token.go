package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
)

// RefreshTokenRepository handles refresh token persistence.
// Each account holds at most one row; issuing a new token replaces it.
type RefreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Upsert stores the token hash for its account, overwriting the previous one
func (r *RefreshTokenRepository) Upsert(ctx context.Context, token *domain.RefreshToken) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"token_hash", "expires_at", "updated_at"}),
		}).
		Create(token).Error
	if err != nil {
		return &domain.InternalError{Message: "failed to store refresh token", Err: err}
	}
	return nil
}

// GetByAccountID returns the stored refresh tokens of an account
func (r *RefreshTokenRepository) GetByAccountID(ctx context.Context, accountID int64) ([]domain.RefreshToken, error) {
	var tokens []domain.RefreshToken
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Find(&tokens).Error
	if err != nil {
		return nil, &domain.InternalError{Message: "failed to get refresh tokens", Err: err}
	}
	return tokens, nil
}

// DeleteByAccountID revokes every refresh token of an account
func (r *RefreshTokenRepository) DeleteByAccountID(ctx context.Context, accountID int64) error {
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Delete(&domain.RefreshToken{}).Error
	if err != nil {
		return &domain.InternalError{Message: "failed to revoke refresh tokens", Err: err}
	}
	return nil
}

// DeleteExpired removes rows whose expiry is at or before now
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&domain.RefreshToken{})
	if res.Error != nil {
		return 0, &domain.InternalError{Message: "failed to delete expired refresh tokens", Err: res.Error}
	}
	return res.RowsAffected, nil
}
