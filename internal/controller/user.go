package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LeeCh0129/greenie-backend/internal/middleware"
	"github.com/LeeCh0129/greenie-backend/internal/service"
)

// UserController serves profiles and account deletion
type UserController struct {
	userService service.IUserService
}

// NewUserController creates a new user controller
func NewUserController(userService service.IUserService) *UserController {
	return &UserController{userService: userService}
}

// ProfileResponse is an account with its most recent posts
type ProfileResponse struct {
	AccountResponse
	Posts []PostResponse `json:"posts"`
}

// GetProfile returns the public profile of an account
func (ctl *UserController) GetProfile(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	profile, err := ctl.userService.GetProfile(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := ProfileResponse{
		AccountResponse: toAccount(profile.Account),
		Posts:           make([]PostResponse, 0, len(profile.Posts)),
	}
	for i := range profile.Posts {
		resp.Posts = append(resp.Posts, toPost(&profile.Posts[i]))
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteMe soft-deletes the caller's account
func (ctl *UserController) DeleteMe(c *gin.Context) {
	if err := ctl.userService.DeleteAccount(c.Request.Context(), middleware.PrincipalFrom(c)); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "account deleted"})
}

