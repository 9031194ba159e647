package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
	"github.com/LeeCh0129/greenie-backend/internal/logger"
	"github.com/LeeCh0129/greenie-backend/internal/repository"
)

// UserService serves account profiles and account removal
type UserService struct {
	accountRepo repository.IAccountRepository
	postRepo    repository.IPostRepository
}

// NewUserService creates a new user service
func NewUserService(accountRepo repository.IAccountRepository, postRepo repository.IPostRepository) *UserService {
	return &UserService{accountRepo: accountRepo, postRepo: postRepo}
}

// Profile is an account together with its most recent posts
type Profile struct {
	Account *domain.Account
	Posts   []domain.Post
}

// GetProfile retrieves an account and the first page of its posts
func (s *UserService) GetProfile(ctx context.Context, accountID int64) (*Profile, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	posts, _, err := s.postRepo.ListByAuthor(ctx, accountID, 0, defaultPageSize)
	if err != nil {
		return nil, err
	}

	return &Profile{Account: account, Posts: posts}, nil
}

// DeleteAccount soft-deletes the caller's account and revokes its sessions
func (s *UserService) DeleteAccount(ctx context.Context, principal *domain.Principal) error {
	if principal == nil {
		return &domain.UnauthorizedError{Message: "authentication required"}
	}

	if err := s.accountRepo.SoftDelete(ctx, principal.ID); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("account deleted", zap.Int64("account_id", principal.ID))
	return nil
}

// MarkEmailVerified verifies an email without an OTP. Operator use only.
func (s *UserService) MarkEmailVerified(ctx context.Context, email string) error {
	if err := s.accountRepo.MarkEmailVerified(ctx, email); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("email verified by operator", zap.String("email", email))
	return nil
}
