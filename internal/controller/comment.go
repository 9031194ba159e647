package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LeeCh0129/greenie-backend/internal/middleware"
	"github.com/LeeCh0129/greenie-backend/internal/service"
	"github.com/LeeCh0129/greenie-backend/internal/utils"
)

// CommentController serves comments and comment likes
type CommentController struct {
	commentService service.ICommentService
	likeService    service.ILikeService
	validator      *utils.Validator
}

// NewCommentController creates a new comment controller
func NewCommentController(commentService service.ICommentService, likeService service.ILikeService, validator *utils.Validator) *CommentController {
	return &CommentController{
		commentService: commentService,
		likeService:    likeService,
		validator:      validator,
	}
}

// ListByPost returns a page of a post's comments grouped by thread
func (ctl *CommentController) ListByPost(c *gin.Context) {
	postID, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	req, err := bindPage(c, ctl.validator)
	if err != nil {
		_ = c.Error(err)
		return
	}

	page, err := ctl.commentService.ListByPost(c.Request.Context(), postID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toPage(page, toComment))
}

// ListMine returns a page of the caller's comments
func (ctl *CommentController) ListMine(c *gin.Context) {
	req, err := bindPage(c, ctl.validator)
	if err != nil {
		_ = c.Error(err)
		return
	}

	page, err := ctl.commentService.ListMine(c.Request.Context(), middleware.PrincipalFrom(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toPage(page, toComment))
}

// Create adds a comment or a reply to a post
func (ctl *CommentController) Create(c *gin.Context) {
	postID, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var payload utils.CreateCommentPayload
	if err := bindJSON(c, ctl.validator, &payload); err != nil {
		_ = c.Error(err)
		return
	}

	comment, err := ctl.commentService.Create(c.Request.Context(), middleware.PrincipalFrom(c), service.CreateCommentRequest{
		PostID:    postID,
		Content:   payload.Content,
		ParentID:  payload.ParentID,
		ReplyToID: payload.ReplyToID,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, toComment(comment))
}

// ToggleLike likes the comment, or unlikes it when the caller already does
func (ctl *CommentController) ToggleLike(c *gin.Context) {
	postID, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	commentID, err := pathID(c, "commentId")
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := ctl.likeService.ToggleComment(c.Request.Context(), middleware.PrincipalFrom(c), postID, commentID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, LikeResponse{Liked: result.Liked, LikeCount: result.LikeCount})
}
