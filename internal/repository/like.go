package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
)

// errLikeRace signals that a concurrent toggle inserted the same like row first
var errLikeRace = errors.New("like row inserted concurrently")

// likeTable describes the like relation of one target kind
type likeTable struct {
	target  func() interface{}
	like    func(accountID, targetID int64) interface{}
	fk      string
	missing string
}

var likeTables = map[domain.LikeTarget]likeTable{
	domain.LikeTargetPost: {
		target: func() interface{} { return &domain.Post{} },
		like: func(accountID, targetID int64) interface{} {
			return &domain.PostLike{AccountID: accountID, PostID: targetID}
		},
		fk:      "post_id",
		missing: "post not found",
	},
	domain.LikeTargetComment: {
		target: func() interface{} { return &domain.Comment{} },
		like: func(accountID, targetID int64) interface{} {
			return &domain.CommentLike{AccountID: accountID, CommentID: targetID}
		},
		fk:      "comment_id",
		missing: "comment not found",
	},
}

// LikeRepository toggles like relations and keeps the denormalized counters in step
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Toggle flips the like state of (accountID, targetID) and returns the new state with the
// counter value read back inside the same transaction.
// A lost insert race is retried once, at which point the row exists and the toggle becomes an unlike.
func (r *LikeRepository) Toggle(ctx context.Context, target domain.LikeTarget, accountID, targetID int64) (bool, int, error) {
	table, ok := likeTables[target]
	if !ok {
		return false, 0, &domain.ValidationError{Message: fmt.Sprintf("unsupported like target %d", target), Field: "target"}
	}

	for attempt := 0; attempt < 2; attempt++ {
		liked, count, err := r.toggleOnce(ctx, table, accountID, targetID)
		if errors.Is(err, errLikeRace) {
			continue
		}
		return liked, count, err
	}
	return false, 0, &domain.ConflictError{Message: "like toggled concurrently, try again"}
}

// Exists reports whether accountID currently likes targetID
func (r *LikeRepository) Exists(ctx context.Context, target domain.LikeTarget, accountID, targetID int64) (bool, error) {
	table, ok := likeTables[target]
	if !ok {
		return false, &domain.ValidationError{Message: fmt.Sprintf("unsupported like target %d", target), Field: "target"}
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(table.like(0, 0)).
		Where("account_id = ? AND "+table.fk+" = ?", accountID, targetID).
		Count(&count).Error
	if err != nil {
		return false, &domain.InternalError{Message: "failed to check like", Err: err}
	}
	return count > 0, nil
}

func (r *LikeRepository) toggleOnce(ctx context.Context, table likeTable, accountID, targetID int64) (bool, int, error) {
	var (
		liked bool
		count int
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found int64
		if err := tx.Model(table.target()).Where("id = ?", targetID).Count(&found).Error; err != nil {
			return &domain.InternalError{Message: "failed to get like target", Err: err}
		}
		if found == 0 {
			return &domain.NotFoundError{Message: table.missing}
		}

		delta := -1
		res := tx.Where("account_id = ? AND "+table.fk+" = ?", accountID, targetID).Delete(table.like(0, 0))
		if res.Error != nil {
			return &domain.InternalError{Message: "failed to remove like", Err: res.Error}
		}
		if res.RowsAffected == 0 {
			if err := tx.Create(table.like(accountID, targetID)).Error; err != nil {
				if isUniqueViolation(err) {
					return errLikeRace
				}
				return &domain.InternalError{Message: "failed to add like", Err: err}
			}
			delta = 1
			liked = true
		}

		err := tx.Model(table.target()).
			Where("id = ?", targetID).
			UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error
		if err != nil {
			return &domain.InternalError{Message: "failed to update like count", Err: err}
		}

		err = tx.Model(table.target()).
			Where("id = ?", targetID).
			Select("like_count").
			Scan(&count).Error
		if err != nil {
			return &domain.InternalError{Message: "failed to read like count", Err: err}
		}
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}
