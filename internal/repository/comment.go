package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
)

// CommentRepository handles comment-related database operations
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a comment and assigns its group.
// A top-level comment opens the next group of its post; a reply joins the group of its thread root.
// The post row is locked for the duration so concurrent top-level comments get distinct groups.
func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post domain.Post
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", comment.PostID).
			First(&post).Error
		if err != nil {
			return translate(err, "post not found", "", "failed to lock post")
		}

		if comment.ReplyToID != nil {
			replyTo, err := r.threadMember(tx, comment.PostID, *comment.ReplyToID)
			if err != nil {
				return err
			}
			if comment.ParentID == nil {
				root := replyTo.ID
				if replyTo.ParentID != nil {
					root = *replyTo.ParentID
				}
				comment.ParentID = &root
			}
		}

		if comment.ParentID != nil {
			parent, err := r.threadMember(tx, comment.PostID, *comment.ParentID)
			if err != nil {
				return err
			}
			// replies always hang off the thread root
			if parent.ParentID != nil {
				comment.ParentID = parent.ParentID
			}
			comment.Group = parent.Group
		} else {
			var maxGroup int
			err := tx.Model(&domain.Comment{}).
				Unscoped().
				Where("post_id = ?", comment.PostID).
				Select("COALESCE(MAX(group_no), 0)").
				Scan(&maxGroup).Error
			if err != nil {
				return &domain.InternalError{Message: "failed to compute comment group", Err: err}
			}
			comment.Group = maxGroup + 1
		}

		if err := tx.Create(comment).Error; err != nil {
			return translate(err, "comment not found", "comment already exists", "failed to create comment")
		}
		return nil
	})
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, commentID int64) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ?", commentID).
		First(&comment).Error
	if err != nil {
		return nil, translate(err, "comment not found", "", "failed to get comment")
	}

	return &comment, nil
}

// ListByPost returns a page of a post's comments ordered by group (newest thread first), then id
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64, offset, limit int) ([]domain.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Comment{}).Where("post_id = ?", postID)
	return r.list(q, offset, limit, "group_no DESC", "id ASC")
}

// ListByAuthor returns a page of one author's comments, newest first
func (r *CommentRepository) ListByAuthor(ctx context.Context, authorID int64, offset, limit int) ([]domain.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Comment{}).Where("author_id = ?", authorID)
	return r.list(q, offset, limit, "created_at DESC", "id DESC")
}

// threadMember loads a live comment that must belong to postID
func (r *CommentRepository) threadMember(tx *gorm.DB, postID, commentID int64) (*domain.Comment, error) {
	var c domain.Comment
	err := tx.Where("id = ? AND post_id = ?", commentID, postID).First(&c).Error
	if err != nil {
		return nil, translate(err, "referenced comment not found", "", "failed to get comment")
	}
	return &c, nil
}

func (r *CommentRepository) list(q *gorm.DB, offset, limit int, orders ...string) ([]domain.Comment, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, &domain.InternalError{Message: "failed to count comments", Err: err}
	}

	offset, limit = page(offset, limit)

	find := q.Session(&gorm.Session{}).Preload("Author")
	for _, o := range orders {
		find = find.Order(o)
	}

	var comments []domain.Comment
	if err := find.Offset(offset).Limit(limit).Find(&comments).Error; err != nil {
		return nil, 0, &domain.InternalError{Message: "failed to list comments", Err: err}
	}

	return comments, total, nil
}
