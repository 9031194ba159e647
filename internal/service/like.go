package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
	"github.com/LeeCh0129/greenie-backend/internal/logger"
	"github.com/LeeCh0129/greenie-backend/internal/repository"
)

// LikeService toggles likes on posts and comments
type LikeService struct {
	likeRepo    repository.ILikeRepository
	commentRepo repository.ICommentRepository
}

// NewLikeService creates a new like service
func NewLikeService(likeRepo repository.ILikeRepository, commentRepo repository.ICommentRepository) *LikeService {
	return &LikeService{likeRepo: likeRepo, commentRepo: commentRepo}
}

// LikeResult is the state after a toggle
type LikeResult struct {
	Liked     bool
	LikeCount int
}

// TogglePost likes the post, or unlikes it when already liked
func (s *LikeService) TogglePost(ctx context.Context, principal *domain.Principal, postID int64) (*LikeResult, error) {
	if principal == nil {
		return nil, &domain.UnauthorizedError{Message: "authentication required"}
	}
	return s.toggle(ctx, domain.LikeTargetPost, principal.ID, postID)
}

// ToggleComment likes a comment of postID, or unlikes it when already liked
func (s *LikeService) ToggleComment(ctx context.Context, principal *domain.Principal, postID, commentID int64) (*LikeResult, error) {
	if principal == nil {
		return nil, &domain.UnauthorizedError{Message: "authentication required"}
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, &domain.NotFoundError{Message: "comment not found"}
	}

	return s.toggle(ctx, domain.LikeTargetComment, principal.ID, commentID)
}

func (s *LikeService) toggle(ctx context.Context, target domain.LikeTarget, accountID, targetID int64) (*LikeResult, error) {
	liked, count, err := s.likeRepo.Toggle(ctx, target, accountID, targetID)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debug("like toggled",
		zap.Stringer("target", target),
		zap.Int64("target_id", targetID),
		zap.Int64("account_id", accountID),
		zap.Bool("liked", liked),
	)
	return &LikeResult{Liked: liked, LikeCount: count}, nil
}
