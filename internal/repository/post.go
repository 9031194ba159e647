package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
)

// PostRepository handles post-related database operations
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new post
func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	return translate(err, "post not found", "post already exists", "failed to create post")
}

// GetByID retrieves a post with its author
func (r *PostRepository) GetByID(ctx context.Context, postID int64) (*domain.Post, error) {
	var post domain.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ?", postID).
		First(&post).Error
	if err != nil {
		return nil, translate(err, "post not found", "", "failed to get post")
	}

	return &post, nil
}

// List returns a page of posts, newest first, with the total count
func (r *PostRepository) List(ctx context.Context, offset, limit int) ([]domain.Post, int64, error) {
	return r.list(r.db.WithContext(ctx).Model(&domain.Post{}), offset, limit)
}

// ListByAuthor returns a page of one author's posts, newest first
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID int64, offset, limit int) ([]domain.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Post{}).Where("author_id = ?", authorID)
	return r.list(q, offset, limit)
}

// Update applies a partial update to a post
func (r *PostRepository) Update(ctx context.Context, postID int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("id = ?", postID).
		Updates(fields)
	if res.Error != nil {
		return &domain.InternalError{Message: "failed to update post", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Message: "post not found"}
	}
	return nil
}

// SoftDelete hides a post from every subsequent query
func (r *PostRepository) SoftDelete(ctx context.Context, postID int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Post{}, postID)
	if res.Error != nil {
		return &domain.InternalError{Message: "failed to delete post", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Message: "post not found"}
	}
	return nil
}

func (r *PostRepository) list(q *gorm.DB, offset, limit int) ([]domain.Post, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, &domain.InternalError{Message: "failed to count posts", Err: err}
	}

	offset, limit = page(offset, limit)

	var posts []domain.Post
	err := q.Session(&gorm.Session{}).
		Preload("Author").
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, &domain.InternalError{Message: "failed to list posts", Err: err}
	}

	return posts, total, nil
}
