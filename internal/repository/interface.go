package repository

import (
	"context"
	"time"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
)

// IAccountRepository defines the interface for account repository operations
type IAccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByID(ctx context.Context, accountID int64) (*domain.Account, error)
	ExistsEmail(ctx context.Context, email string) (bool, error)
	ExistsNickname(ctx context.Context, nickname string) (bool, error)
	SetOTP(ctx context.Context, accountID int64, code string, issuedAt time.Time) error
	ConsumeOTP(ctx context.Context, accountID int64, code string, markVerified bool) (bool, error)
	UpdatePassword(ctx context.Context, accountID int64, newPasswordHash string) error
	MarkEmailVerified(ctx context.Context, email string) error
	SoftDelete(ctx context.Context, accountID int64) error
}

// IRefreshTokenRepository defines the interface for refresh token repository operations
type IRefreshTokenRepository interface {
	Upsert(ctx context.Context, token *domain.RefreshToken) error
	GetByAccountID(ctx context.Context, accountID int64) ([]domain.RefreshToken, error)
	DeleteByAccountID(ctx context.Context, accountID int64) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// IPostRepository defines the interface for post repository operations
type IPostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, postID int64) (*domain.Post, error)
	List(ctx context.Context, offset, limit int) ([]domain.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID int64, offset, limit int) ([]domain.Post, int64, error)
	Update(ctx context.Context, postID int64, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, postID int64) error
}

// ICommentRepository defines the interface for comment repository operations
type ICommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, commentID int64) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID int64, offset, limit int) ([]domain.Comment, int64, error)
	ListByAuthor(ctx context.Context, authorID int64, offset, limit int) ([]domain.Comment, int64, error)
}

// ILikeRepository defines the interface for like toggling on posts and comments
type ILikeRepository interface {
	Toggle(ctx context.Context, target domain.LikeTarget, accountID, targetID int64) (bool, int, error)
	Exists(ctx context.Context, target domain.LikeTarget, accountID, targetID int64) (bool, error)
}

// Compile-time checks to ensure structs implement their interfaces
var (
	_ IAccountRepository      = (*AccountRepository)(nil)
	_ IRefreshTokenRepository = (*RefreshTokenRepository)(nil)
	_ IPostRepository         = (*PostRepository)(nil)
	_ ICommentRepository      = (*CommentRepository)(nil)
	_ ILikeRepository         = (*LikeRepository)(nil)
)
