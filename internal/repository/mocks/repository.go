package mocks

import (
	"context"
	"time"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
)

// MockAccountRepository is a mock implementation of IAccountRepository
type MockAccountRepository struct {
	CreateFunc            func(ctx context.Context, account *domain.Account) error
	GetByEmailFunc        func(ctx context.Context, email string) (*domain.Account, error)
	GetByIDFunc           func(ctx context.Context, accountID int64) (*domain.Account, error)
	ExistsEmailFunc       func(ctx context.Context, email string) (bool, error)
	ExistsNicknameFunc    func(ctx context.Context, nickname string) (bool, error)
	SetOTPFunc            func(ctx context.Context, accountID int64, code string, issuedAt time.Time) error
	ConsumeOTPFunc        func(ctx context.Context, accountID int64, code string, markVerified bool) (bool, error)
	UpdatePasswordFunc    func(ctx context.Context, accountID int64, newPasswordHash string) error
	MarkEmailVerifiedFunc func(ctx context.Context, email string) error
	SoftDeleteFunc        func(ctx context.Context, accountID int64) error
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	return nil
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, &domain.NotFoundError{Message: "account not found"}
}

func (m *MockAccountRepository) GetByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, accountID)
	}
	return nil, &domain.NotFoundError{Message: "account not found"}
}

func (m *MockAccountRepository) ExistsEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsEmailFunc != nil {
		return m.ExistsEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *MockAccountRepository) ExistsNickname(ctx context.Context, nickname string) (bool, error) {
	if m.ExistsNicknameFunc != nil {
		return m.ExistsNicknameFunc(ctx, nickname)
	}
	return false, nil
}

func (m *MockAccountRepository) SetOTP(ctx context.Context, accountID int64, code string, issuedAt time.Time) error {
	if m.SetOTPFunc != nil {
		return m.SetOTPFunc(ctx, accountID, code, issuedAt)
	}
	return nil
}

func (m *MockAccountRepository) ConsumeOTP(ctx context.Context, accountID int64, code string, markVerified bool) (bool, error) {
	if m.ConsumeOTPFunc != nil {
		return m.ConsumeOTPFunc(ctx, accountID, code, markVerified)
	}
	return true, nil
}

func (m *MockAccountRepository) UpdatePassword(ctx context.Context, accountID int64, newPasswordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, accountID, newPasswordHash)
	}
	return nil
}

func (m *MockAccountRepository) MarkEmailVerified(ctx context.Context, email string) error {
	if m.MarkEmailVerifiedFunc != nil {
		return m.MarkEmailVerifiedFunc(ctx, email)
	}
	return nil
}

func (m *MockAccountRepository) SoftDelete(ctx context.Context, accountID int64) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, accountID)
	}
	return nil
}

// MockRefreshTokenRepository is a mock implementation of IRefreshTokenRepository
type MockRefreshTokenRepository struct {
	UpsertFunc            func(ctx context.Context, token *domain.RefreshToken) error
	GetByAccountIDFunc    func(ctx context.Context, accountID int64) ([]domain.RefreshToken, error)
	DeleteByAccountIDFunc func(ctx context.Context, accountID int64) error
	DeleteExpiredFunc     func(ctx context.Context, now time.Time) (int64, error)
}

func (m *MockRefreshTokenRepository) Upsert(ctx context.Context, token *domain.RefreshToken) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, token)
	}
	return nil
}

func (m *MockRefreshTokenRepository) GetByAccountID(ctx context.Context, accountID int64) ([]domain.RefreshToken, error) {
	if m.GetByAccountIDFunc != nil {
		return m.GetByAccountIDFunc(ctx, accountID)
	}
	return nil, nil
}

func (m *MockRefreshTokenRepository) DeleteByAccountID(ctx context.Context, accountID int64) error {
	if m.DeleteByAccountIDFunc != nil {
		return m.DeleteByAccountIDFunc(ctx, accountID)
	}
	return nil
}

func (m *MockRefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx, now)
	}
	return 0, nil
}

// MockPostRepository is a mock implementation of IPostRepository
type MockPostRepository struct {
	CreateFunc       func(ctx context.Context, post *domain.Post) error
	GetByIDFunc      func(ctx context.Context, postID int64) (*domain.Post, error)
	ListFunc         func(ctx context.Context, offset, limit int) ([]domain.Post, int64, error)
	ListByAuthorFunc func(ctx context.Context, authorID int64, offset, limit int) ([]domain.Post, int64, error)
	UpdateFunc       func(ctx context.Context, postID int64, fields map[string]interface{}) error
	SoftDeleteFunc   func(ctx context.Context, postID int64) error
}

func (m *MockPostRepository) Create(ctx context.Context, post *domain.Post) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, post)
	}
	return nil
}

func (m *MockPostRepository) GetByID(ctx context.Context, postID int64) (*domain.Post, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, postID)
	}
	return nil, &domain.NotFoundError{Message: "post not found"}
}

func (m *MockPostRepository) List(ctx context.Context, offset, limit int) ([]domain.Post, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, offset, limit)
	}
	return nil, 0, nil
}

func (m *MockPostRepository) ListByAuthor(ctx context.Context, authorID int64, offset, limit int) ([]domain.Post, int64, error) {
	if m.ListByAuthorFunc != nil {
		return m.ListByAuthorFunc(ctx, authorID, offset, limit)
	}
	return nil, 0, nil
}

func (m *MockPostRepository) Update(ctx context.Context, postID int64, fields map[string]interface{}) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, postID, fields)
	}
	return nil
}

func (m *MockPostRepository) SoftDelete(ctx context.Context, postID int64) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, postID)
	}
	return nil
}

// MockCommentRepository is a mock implementation of ICommentRepository
type MockCommentRepository struct {
	CreateFunc       func(ctx context.Context, comment *domain.Comment) error
	GetByIDFunc      func(ctx context.Context, commentID int64) (*domain.Comment, error)
	ListByPostFunc   func(ctx context.Context, postID int64, offset, limit int) ([]domain.Comment, int64, error)
	ListByAuthorFunc func(ctx context.Context, authorID int64, offset, limit int) ([]domain.Comment, int64, error)
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, commentID int64) (*domain.Comment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, commentID)
	}
	return nil, &domain.NotFoundError{Message: "comment not found"}
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID int64, offset, limit int) ([]domain.Comment, int64, error) {
	if m.ListByPostFunc != nil {
		return m.ListByPostFunc(ctx, postID, offset, limit)
	}
	return nil, 0, nil
}

func (m *MockCommentRepository) ListByAuthor(ctx context.Context, authorID int64, offset, limit int) ([]domain.Comment, int64, error) {
	if m.ListByAuthorFunc != nil {
		return m.ListByAuthorFunc(ctx, authorID, offset, limit)
	}
	return nil, 0, nil
}

// MockLikeRepository is a mock implementation of ILikeRepository
type MockLikeRepository struct {
	ToggleFunc func(ctx context.Context, target domain.LikeTarget, accountID, targetID int64) (bool, int, error)
	ExistsFunc func(ctx context.Context, target domain.LikeTarget, accountID, targetID int64) (bool, error)
}

func (m *MockLikeRepository) Toggle(ctx context.Context, target domain.LikeTarget, accountID, targetID int64) (bool, int, error) {
	if m.ToggleFunc != nil {
		return m.ToggleFunc(ctx, target, accountID, targetID)
	}
	return false, 0, nil
}

func (m *MockLikeRepository) Exists(ctx context.Context, target domain.LikeTarget, accountID, targetID int64) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, target, accountID, targetID)
	}
	return false, nil
}
