package domain

import (
	"time"

	"gorm.io/gorm"
)

// Account represents the accounts table.
// Email and nickname are unique among rows that are not soft-deleted.
type Account struct {
	ID            int64      `gorm:"primaryKey;autoIncrement"`
	Email         string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_accounts_email,where:deleted_at IS NULL"`
	PasswordHash  string     `gorm:"type:varchar(255);not null"`
	EmailVerified bool       `gorm:"default:false;not null"`
	Nickname      string     `gorm:"type:varchar(30);not null;uniqueIndex:idx_accounts_nickname,where:deleted_at IS NULL"`
	OTP           *string    `gorm:"column:otp;type:varchar(16)"`
	OTPCreatedAt  *time.Time `gorm:"column:otp_created_at"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`

	// Relations
	RefreshToken *RefreshToken `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE"`
	Posts        []Post        `gorm:"foreignKey:AuthorID;references:ID"`
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}

// RefreshToken represents the refresh_tokens table (one row per account).
// TokenHash is an adaptive hash; the plaintext token is never stored.
type RefreshToken struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	AccountID int64     `gorm:"not null;uniqueIndex"`
	TokenHash string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Relation
	Account *Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the RefreshToken model
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// Post represents the posts table
type Post struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"`
	AuthorID  int64   `gorm:"not null;index"`
	Title     string  `gorm:"type:varchar(30);not null"`
	Body      string  `gorm:"type:text;not null"`
	Thumbnail *string `gorm:"type:varchar(512)"`
	LikeCount int     `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	// Relation
	Author *Account `gorm:"foreignKey:AuthorID;references:ID"`
}

// TableName specifies the table name for the Post model
func (Post) TableName() string {
	return "posts"
}

// Comment represents the comments table.
// Group orders a top-level comment together with all of its replies.
type Comment struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	PostID    int64  `gorm:"not null;index:idx_comments_post_group,priority:1"`
	AuthorID  int64  `gorm:"not null;index"`
	ParentID  *int64 `gorm:"index"`
	ReplyToID *int64
	Group     int    `gorm:"column:group_no;not null;index:idx_comments_post_group,priority:2"`
	Content   string `gorm:"type:text;not null"`
	LikeCount int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	// Relations
	Author *Account `gorm:"foreignKey:AuthorID;references:ID"`
	Post   *Post    `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for the Comment model
func (Comment) TableName() string {
	return "comments"
}

// PostLike represents "account likes post", at most once per pair
type PostLike struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	AccountID int64 `gorm:"not null;uniqueIndex:idx_post_likes_pair"`
	PostID    int64 `gorm:"not null;uniqueIndex:idx_post_likes_pair;index"`
	CreatedAt time.Time
}

// TableName specifies the table name for the PostLike model
func (PostLike) TableName() string {
	return "post_likes"
}

// CommentLike represents "account likes comment", at most once per pair
type CommentLike struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	AccountID int64 `gorm:"not null;uniqueIndex:idx_comment_likes_pair"`
	CommentID int64 `gorm:"not null;uniqueIndex:idx_comment_likes_pair;index"`
	CreatedAt time.Time
}

// TableName specifies the table name for the CommentLike model
func (CommentLike) TableName() string {
	return "comment_likes"
}

// AutoMigrate creates or updates the schema for every model
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Account{},
		&RefreshToken{},
		&Post{},
		&Comment{},
		&PostLike{},
		&CommentLike{},
	)
}
