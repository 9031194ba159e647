package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
	"github.com/LeeCh0129/greenie-backend/internal/logger"
	"github.com/LeeCh0129/greenie-backend/internal/middleware"
	"github.com/LeeCh0129/greenie-backend/internal/service"
	"github.com/LeeCh0129/greenie-backend/internal/utils"
)

// AuthController serves registration, login, token refresh and the OTP flows
type AuthController struct {
	authService service.IAuthService
	validator   *utils.Validator
}

// NewAuthController creates a new auth controller
func NewAuthController(authService service.IAuthService, validator *utils.Validator) *AuthController {
	return &AuthController{
		authService: authService,
		validator:   validator,
	}
}

// RegisterResponse is returned after a successful registration
type RegisterResponse struct {
	Message   string `json:"message"`
	AccountID int64  `json:"accountId"`
}

// LoginResponse carries a fresh token pair
type LoginResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse carries a new access token and, near expiry, a rotated refresh token; otherwise refreshToken is null
type RefreshResponse struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken *string `json:"refreshToken"`
}

// VerifyOTPResponse is returned after a code verifies
type VerifyOTPResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// Register handles account registration
func (ctl *AuthController) Register(c *gin.Context) {
	var payload utils.RegisterPayload
	if err := bindJSON(c, ctl.validator, &payload); err != nil {
		logger.FromContext(c.Request.Context()).Warn("register validation error", zap.Error(err))
		_ = c.Error(err)
		return
	}

	resp, err := ctl.authService.Register(c.Request.Context(), service.RegisterRequest{
		Email:    payload.Email,
		Password: payload.Password,
		Nickname: payload.Nickname,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{Message: resp.Message, AccountID: resp.AccountID})
}

// Login handles credential login
func (ctl *AuthController) Login(c *gin.Context) {
	var payload utils.LoginPayload
	if err := bindJSON(c, ctl.validator, &payload); err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := ctl.authService.Login(c.Request.Context(), service.LoginRequest{
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Message:      resp.Message,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
}

// Refresh exchanges a refresh token for a new access token
func (ctl *AuthController) Refresh(c *gin.Context) {
	var payload utils.RefreshTokenPayload
	if err := bindJSON(c, ctl.validator, &payload); err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := ctl.authService.RefreshToken(c.Request.Context(), payload.RefreshToken)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
}

// Logout revokes the caller's refresh token
func (ctl *AuthController) Logout(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		_ = c.Error(&domain.UnauthorizedError{Message: "authentication required"})
		return
	}

	if err := ctl.authService.Logout(c.Request.Context(), principal.ID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

// CheckNickname answers 200 when the nickname is free and 409 when it is taken
func (ctl *AuthController) CheckNickname(c *gin.Context) {
	if err := ctl.authService.CheckNickname(c.Request.Context(), c.Query("nickname")); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "nickname is available"})
}

// RequestOTP mails a one-time code for the requested mode
func (ctl *AuthController) RequestOTP(c *gin.Context) {
	var payload utils.OTPRequestPayload
	if err := bindJSON(c, ctl.validator, &payload); err != nil {
		_ = c.Error(err)
		return
	}

	if err := ctl.authService.RequestOTP(c.Request.Context(), payload.Email, payload.Mode); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusAccepted, MessageResponse{Message: "verification code sent"})
}

// VerifyOTP checks a one-time code; for the email mode this verifies the account
func (ctl *AuthController) VerifyOTP(c *gin.Context) {
	var payload utils.OTPVerifyPayload
	if err := bindJSON(c, ctl.validator, &payload); err != nil {
		_ = c.Error(err)
		return
	}

	email, err := ctl.authService.VerifyOTP(c.Request.Context(), payload.Email, payload.OTP, payload.Mode)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, VerifyOTPResponse{Message: "verification succeeded", Email: email})
}

// ChangePassword replaces the password of the account owning a valid code
func (ctl *AuthController) ChangePassword(c *gin.Context) {
	var payload utils.ChangePasswordPayload
	if err := bindJSON(c, ctl.validator, &payload); err != nil {
		_ = c.Error(err)
		return
	}

	err := ctl.authService.ChangePassword(c.Request.Context(), service.ChangePasswordRequest{
		Email:       payload.Email,
		OTP:         payload.OTP,
		NewPassword: payload.NewPassword,
		Mode:        payload.Mode,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password changed"})
}
