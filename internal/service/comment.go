package service

import (
	"context"
	"strings"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
	"github.com/LeeCh0129/greenie-backend/internal/repository"
)

// CommentService handles comment business logic
type CommentService struct {
	commentRepo repository.ICommentRepository
	postRepo    repository.IPostRepository
}

// NewCommentService creates a new comment service
func NewCommentService(commentRepo repository.ICommentRepository, postRepo repository.IPostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// CreateCommentRequest represents comment creation input
type CreateCommentRequest struct {
	PostID    int64
	Content   string
	ParentID  *int64
	ReplyToID *int64
}

// Create adds a comment or a reply to a post
func (s *CommentService) Create(ctx context.Context, principal *domain.Principal, req CreateCommentRequest) (*domain.Comment, error) {
	if principal == nil {
		return nil, &domain.UnauthorizedError{Message: "authentication required"}
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, &domain.ValidationError{Message: "content is required", Field: "content"}
	}

	comment := &domain.Comment{
		PostID:    req.PostID,
		AuthorID:  principal.ID,
		Content:   req.Content,
		ParentID:  req.ParentID,
		ReplyToID: req.ReplyToID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByPost returns a page of a post's comments, newest thread first.
// A missing or deleted post is NotFound.
func (s *CommentService) ListByPost(ctx context.Context, postID int64, req PageRequest) (*Page[domain.Comment], error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	req = req.normalize()
	comments, total, err := s.commentRepo.ListByPost(ctx, postID, req.offset(), req.Take)
	if err != nil {
		return nil, err
	}
	return newPage(comments, total, req.Take), nil
}

// ListMine returns a page of the principal's own comments
func (s *CommentService) ListMine(ctx context.Context, principal *domain.Principal, req PageRequest) (*Page[domain.Comment], error) {
	if principal == nil {
		return nil, &domain.UnauthorizedError{Message: "authentication required"}
	}

	req = req.normalize()
	comments, total, err := s.commentRepo.ListByAuthor(ctx, principal.ID, req.offset(), req.Take)
	if err != nil {
		return nil, err
	}
	return newPage(comments, total, req.Take), nil
}
