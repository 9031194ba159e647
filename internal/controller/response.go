package controller

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
	"github.com/LeeCh0129/greenie-backend/internal/service"
	"github.com/LeeCh0129/greenie-backend/internal/utils"
)

// MessageResponse is returned by endpoints that only acknowledge
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthorResponse is the public view of an account embedded in posts and comments
type AuthorResponse struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
}

// AccountResponse is the public view of an account
type AccountResponse struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	Nickname      string    `json:"nickname"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PostResponse is the public view of a post
type PostResponse struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	Thumbnail *string         `json:"thumbnail"`
	LikeCount int             `json:"likeCount"`
	LikedByMe *bool           `json:"likedByMe,omitempty"`
	Author    *AuthorResponse `json:"author,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CommentResponse is the public view of a comment
type CommentResponse struct {
	ID        int64           `json:"id"`
	PostID    int64           `json:"postId"`
	ParentID  *int64          `json:"parentId"`
	ReplyToID *int64          `json:"replyToId"`
	Group     int             `json:"group"`
	Content   string          `json:"content"`
	LikeCount int             `json:"likeCount"`
	Author    *AuthorResponse `json:"author,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// PageResponse is one page of a listing
type PageResponse[T any] struct {
	TotalCount int64 `json:"totalCount"`
	TotalPage  int   `json:"totalPage"`
	Items      []T   `json:"items"`
}

// LikeResponse is the state of a like after a toggle
type LikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

func toAuthor(a *domain.Account) *AuthorResponse {
	if a == nil {
		return nil
	}
	return &AuthorResponse{ID: a.ID, Nickname: a.Nickname}
}

func toAccount(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:            a.ID,
		Email:         a.Email,
		Nickname:      a.Nickname,
		EmailVerified: a.EmailVerified,
		CreatedAt:     a.CreatedAt,
	}
}

func toPost(p *domain.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Body:      p.Body,
		Thumbnail: p.Thumbnail,
		LikeCount: p.LikeCount,
		Author:    toAuthor(p.Author),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toComment(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		ParentID:  c.ParentID,
		ReplyToID: c.ReplyToID,
		Group:     c.Group,
		Content:   c.Content,
		LikeCount: c.LikeCount,
		Author:    toAuthor(c.Author),
		CreatedAt: c.CreatedAt,
	}
}

func toPage[S, T any](page *service.Page[S], convert func(*S) T) PageResponse[T] {
	items := make([]T, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, convert(&page.Items[i]))
	}
	return PageResponse[T]{TotalCount: page.TotalCount, TotalPage: page.TotalPage, Items: items}
}

// bindJSON decodes and validates a JSON body
func bindJSON(c *gin.Context, v *utils.Validator, payload interface{}) error {
	if err := c.ShouldBindJSON(payload); err != nil {
		return &domain.ValidationError{Message: "malformed request body"}
	}
	return v.Validate(payload)
}

// bindPage reads page and take from the query string
func bindPage(c *gin.Context, v *utils.Validator) (service.PageRequest, error) {
	payload := utils.PaginationPayload{Page: 1, Take: 20}
	if err := c.ShouldBindQuery(&payload); err != nil {
		return service.PageRequest{}, &domain.ValidationError{Message: "page and take must be integers"}
	}
	if err := v.Validate(&payload); err != nil {
		return service.PageRequest{}, err
	}
	return service.PageRequest{Page: payload.Page, Take: payload.Take}, nil
}

// pathID parses a positive integer path parameter
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Message: "must be a positive integer", Field: name}
	}
	return id, nil
}
