package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LeeCh0129/greenie-backend/internal/middleware"
	"github.com/LeeCh0129/greenie-backend/internal/service"
	"github.com/LeeCh0129/greenie-backend/internal/utils"
)

// PostController serves posts and post likes
type PostController struct {
	postService service.IPostService
	likeService service.ILikeService
	validator   *utils.Validator
}

// NewPostController creates a new post controller
func NewPostController(postService service.IPostService, likeService service.ILikeService, validator *utils.Validator) *PostController {
	return &PostController{
		postService: postService,
		likeService: likeService,
		validator:   validator,
	}
}

// List returns a page of posts, newest first
func (ctl *PostController) List(c *gin.Context) {
	req, err := bindPage(c, ctl.validator)
	if err != nil {
		_ = c.Error(err)
		return
	}

	page, err := ctl.postService.List(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toPage(page, toPost))
}

// ListMine returns a page of the caller's posts
func (ctl *PostController) ListMine(c *gin.Context) {
	req, err := bindPage(c, ctl.validator)
	if err != nil {
		_ = c.Error(err)
		return
	}

	page, err := ctl.postService.ListMine(c.Request.Context(), middleware.PrincipalFrom(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toPage(page, toPost))
}

// Get returns one post; likedByMe is present only for authenticated callers
func (ctl *PostController) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	principal := middleware.PrincipalFrom(c)
	detail, err := ctl.postService.Get(c.Request.Context(), principal, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := toPost(detail.Post)
	if principal != nil {
		liked := detail.LikedByMe
		resp.LikedByMe = &liked
	}

	c.JSON(http.StatusOK, resp)
}

// Create publishes a post
func (ctl *PostController) Create(c *gin.Context) {
	var payload utils.CreatePostPayload
	if err := bindJSON(c, ctl.validator, &payload); err != nil {
		_ = c.Error(err)
		return
	}

	post, err := ctl.postService.Create(c.Request.Context(), middleware.PrincipalFrom(c), service.CreatePostRequest{
		Title:     payload.Title,
		Body:      payload.Body,
		Thumbnail: payload.Thumbnail,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, toPost(post))
}

// Update applies a partial update to the caller's post
func (ctl *PostController) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var payload utils.UpdatePostPayload
	if err := bindJSON(c, ctl.validator, &payload); err != nil {
		_ = c.Error(err)
		return
	}

	post, err := ctl.postService.Update(c.Request.Context(), middleware.PrincipalFrom(c), id, service.UpdatePostRequest{
		Title:     payload.Title,
		Body:      payload.Body,
		Thumbnail: payload.Thumbnail,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toPost(post))
}

// Delete soft-deletes the caller's post
func (ctl *PostController) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := ctl.postService.Delete(c.Request.Context(), middleware.PrincipalFrom(c), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "post deleted"})
}

// ToggleLike likes the post, or unlikes it when the caller already does
func (ctl *PostController) ToggleLike(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := ctl.likeService.TogglePost(c.Request.Context(), middleware.PrincipalFrom(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, LikeResponse{Liked: result.Liked, LikeCount: result.LikeCount})
}
