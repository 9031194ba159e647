package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
)

// AccountRepository handles account-related database operations.
// Soft-deleted accounts are invisible to every query through gorm.DeletedAt.
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account; the unique indexes are the final arbiter of email/nickname uniqueness
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	err := r.db.WithContext(ctx).Create(account).Error
	return translate(err, "account not found", "email or nickname already in use", "failed to create account")
}

// GetByEmail retrieves an account by email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var account domain.Account
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&account).Error
	if err != nil {
		return nil, translate(err, "account not found", "", "failed to get account")
	}

	return &account, nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	var account domain.Account
	err := r.db.WithContext(ctx).
		Where("id = ?", accountID).
		First(&account).Error
	if err != nil {
		return nil, translate(err, "account not found", "", "failed to get account")
	}

	return &account, nil
}

// ExistsEmail checks if an email is already registered
func (r *AccountRepository) ExistsEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email, "failed to check email")
}

// ExistsNickname checks if a nickname is already taken
func (r *AccountRepository) ExistsNickname(ctx context.Context, nickname string) (bool, error) {
	return r.exists(ctx, "nickname = ?", nickname, "failed to check nickname")
}

// SetOTP stores a freshly issued code, replacing any pending one
func (r *AccountRepository) SetOTP(ctx context.Context, accountID int64, code string, issuedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"otp":            code,
			"otp_created_at": issuedAt,
		})
	if res.Error != nil {
		return &domain.InternalError{Message: "failed to store otp", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Message: "account not found"}
	}
	return nil
}

// ConsumeOTP clears the pending code only if it still equals code.
// The conditional update makes consumption single-use under concurrent verifications.
func (r *AccountRepository) ConsumeOTP(ctx context.Context, accountID int64, code string, markVerified bool) (bool, error) {
	updates := map[string]interface{}{
		"otp":            nil,
		"otp_created_at": nil,
	}
	if markVerified {
		updates["email_verified"] = true
	}

	res := r.db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("id = ? AND otp = ?", accountID, code).
		Updates(updates)
	if res.Error != nil {
		return false, &domain.InternalError{Message: "failed to consume otp", Err: res.Error}
	}
	return res.RowsAffected == 1, nil
}

// UpdatePassword replaces the stored password hash
func (r *AccountRepository) UpdatePassword(ctx context.Context, accountID int64, newPasswordHash string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("id = ?", accountID).
		Update("password_hash", newPasswordHash)
	if res.Error != nil {
		return &domain.InternalError{Message: "failed to update password", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Message: "account not found"}
	}
	return nil
}

// MarkEmailVerified flips the verification flag without an OTP (operator path)
func (r *AccountRepository) MarkEmailVerified(ctx context.Context, email string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("email = ?", email).
		Update("email_verified", true)
	if res.Error != nil {
		return &domain.InternalError{Message: "failed to verify email", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Message: "account not found"}
	}
	return nil
}

// SoftDelete removes an account and revokes its refresh token in one transaction
func (r *AccountRepository) SoftDelete(ctx context.Context, accountID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", accountID).Delete(&domain.RefreshToken{}).Error; err != nil {
			return &domain.InternalError{Message: "failed to revoke refresh tokens", Err: err}
		}

		res := tx.Delete(&domain.Account{}, accountID)
		if res.Error != nil {
			return &domain.InternalError{Message: "failed to delete account", Err: res.Error}
		}
		if res.RowsAffected == 0 {
			return &domain.NotFoundError{Message: "account not found"}
		}
		return nil
	})
}

func (r *AccountRepository) exists(ctx context.Context, query string, arg interface{}, msg string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Account{}).
		Where(query, arg).
		Count(&count).Error
	if err != nil {
		return false, &domain.InternalError{Message: msg, Err: err}
	}

	return count > 0, nil
}
