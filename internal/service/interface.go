package service

import (
	"context"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
)

// IAuthService defines the interface for auth service
type IAuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, accountID int64) error
	RefreshToken(ctx context.Context, refreshToken string) (*RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
	RequestOTP(ctx context.Context, email, mode string) error
	VerifyOTP(ctx context.Context, email, code, mode string) (string, error)
	CheckNickname(ctx context.Context, nickname string) error
	Authenticate(ctx context.Context, bearerHeader string) *domain.Principal
}

// IUserService defines the interface for user service
type IUserService interface {
	GetProfile(ctx context.Context, accountID int64) (*Profile, error)
	DeleteAccount(ctx context.Context, principal *domain.Principal) error
}

// IPostService defines the interface for post service
type IPostService interface {
	Create(ctx context.Context, principal *domain.Principal, req CreatePostRequest) (*domain.Post, error)
	List(ctx context.Context, req PageRequest) (*Page[domain.Post], error)
	ListMine(ctx context.Context, principal *domain.Principal, req PageRequest) (*Page[domain.Post], error)
	Get(ctx context.Context, principal *domain.Principal, postID int64) (*PostDetail, error)
	Update(ctx context.Context, principal *domain.Principal, postID int64, req UpdatePostRequest) (*domain.Post, error)
	Delete(ctx context.Context, principal *domain.Principal, postID int64) error
}

// ICommentService defines the interface for comment service
type ICommentService interface {
	Create(ctx context.Context, principal *domain.Principal, req CreateCommentRequest) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID int64, req PageRequest) (*Page[domain.Comment], error)
	ListMine(ctx context.Context, principal *domain.Principal, req PageRequest) (*Page[domain.Comment], error)
}

// ILikeService defines the interface for like service
type ILikeService interface {
	TogglePost(ctx context.Context, principal *domain.Principal, postID int64) (*LikeResult, error)
	ToggleComment(ctx context.Context, principal *domain.Principal, postID, commentID int64) (*LikeResult, error)
}

// Compile-time checks to ensure services implement their interfaces
var (
	_ IAuthService    = (*AuthService)(nil)
	_ IUserService    = (*UserService)(nil)
	_ IPostService    = (*PostService)(nil)
	_ ICommentService = (*CommentService)(nil)
	_ ILikeService    = (*LikeService)(nil)
)
