package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
	"github.com/LeeCh0129/greenie-backend/internal/logger"
	"github.com/LeeCh0129/greenie-backend/internal/repository"
)

// PostService handles post business logic
type PostService struct {
	postRepo repository.IPostRepository
	likeRepo repository.ILikeRepository
}

// NewPostService creates a new post service
func NewPostService(postRepo repository.IPostRepository, likeRepo repository.ILikeRepository) *PostService {
	return &PostService{postRepo: postRepo, likeRepo: likeRepo}
}

// CreatePostRequest represents post creation input
type CreatePostRequest struct {
	Title     string
	Body      string
	Thumbnail *string
}

// UpdatePostRequest represents a partial post update; nil fields are left alone
type UpdatePostRequest struct {
	Title     *string
	Body      *string
	Thumbnail *string
}

// PostDetail is a post as seen by one caller
type PostDetail struct {
	Post      *domain.Post
	LikedByMe bool
}

// Create publishes a post authored by the principal
func (s *PostService) Create(ctx context.Context, principal *domain.Principal, req CreatePostRequest) (*domain.Post, error) {
	if principal == nil {
		return nil, &domain.UnauthorizedError{Message: "authentication required"}
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, &domain.ValidationError{Message: "title is required", Field: "title"}
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, &domain.ValidationError{Message: "body is required", Field: "body"}
	}

	post := &domain.Post{
		AuthorID:  principal.ID,
		Title:     req.Title,
		Body:      req.Body,
		Thumbnail: req.Thumbnail,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("post created", zap.Int64("post_id", post.ID), zap.Int64("author_id", principal.ID))
	return post, nil
}

// List returns a page of posts, newest first
func (s *PostService) List(ctx context.Context, req PageRequest) (*Page[domain.Post], error) {
	req = req.normalize()
	posts, total, err := s.postRepo.List(ctx, req.offset(), req.Take)
	if err != nil {
		return nil, err
	}
	return newPage(posts, total, req.Take), nil
}

// ListMine returns a page of the principal's own posts
func (s *PostService) ListMine(ctx context.Context, principal *domain.Principal, req PageRequest) (*Page[domain.Post], error) {
	if principal == nil {
		return nil, &domain.UnauthorizedError{Message: "authentication required"}
	}

	req = req.normalize()
	posts, total, err := s.postRepo.ListByAuthor(ctx, principal.ID, req.offset(), req.Take)
	if err != nil {
		return nil, err
	}
	return newPage(posts, total, req.Take), nil
}

// Get returns a post; for an authenticated principal it also reports whether they like it
func (s *PostService) Get(ctx context.Context, principal *domain.Principal, postID int64) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	detail := &PostDetail{Post: post}
	if principal != nil {
		liked, err := s.likeRepo.Exists(ctx, domain.LikeTargetPost, principal.ID, postID)
		if err != nil {
			return nil, err
		}
		detail.LikedByMe = liked
	}
	return detail, nil
}

// Update edits a post; only its author may do so
func (s *PostService) Update(ctx context.Context, principal *domain.Principal, postID int64, req UpdatePostRequest) (*domain.Post, error) {
	if _, err := s.authorize(ctx, principal, postID); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, &domain.ValidationError{Message: "title must not be empty", Field: "title"}
		}
		fields["title"] = *req.Title
	}
	if req.Body != nil {
		if strings.TrimSpace(*req.Body) == "" {
			return nil, &domain.ValidationError{Message: "body must not be empty", Field: "body"}
		}
		fields["body"] = *req.Body
	}
	if req.Thumbnail != nil {
		fields["thumbnail"] = *req.Thumbnail
	}

	if err := s.postRepo.Update(ctx, postID, fields); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

// Delete soft-deletes a post; only its author may do so
func (s *PostService) Delete(ctx context.Context, principal *domain.Principal, postID int64) error {
	if _, err := s.authorize(ctx, principal, postID); err != nil {
		return err
	}

	if err := s.postRepo.SoftDelete(ctx, postID); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("post deleted", zap.Int64("post_id", postID))
	return nil
}

func (s *PostService) authorize(ctx context.Context, principal *domain.Principal, postID int64) (*domain.Post, error) {
	if principal == nil {
		return nil, &domain.UnauthorizedError{Message: "authentication required"}
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != principal.ID {
		return nil, &domain.ForbiddenError{Message: "only the author can modify this post"}
	}
	return post, nil
}
