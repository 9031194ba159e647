package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
)

// Validator wraps the validator library
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
	return &Validator{
		validate: v,
	}
}

// MaxPasswordBytes is the longest input bcrypt accepts
const MaxPasswordBytes = 72

// RegisterPayload validation
type RegisterPayload struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,bcryptmax"`
	Nickname string `json:"nickname" validate:"required,min=2,max=30"`
}

// LoginPayload validation
type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenPayload validation
type RefreshTokenPayload struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// OTPRequestPayload validation
type OTPRequestPayload struct {
	Email string `json:"email" validate:"required,email"`
	Mode  string `json:"mode" validate:"required,oneof=email changePassword"`
}

// OTPVerifyPayload validation
type OTPVerifyPayload struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=9"`
	Mode  string `json:"mode" validate:"required,oneof=email changePassword"`
}

// ChangePasswordPayload validation
type ChangePasswordPayload struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required,len=9"`
	NewPassword string `json:"newPassword" validate:"required,min=8,bcryptmax"`
	Mode        string `json:"mode" validate:"required,oneof=email changePassword"`
}

// CreatePostPayload validation
type CreatePostPayload struct {
	Title     string  `json:"title" validate:"required,max=30"`
	Body      string  `json:"body" validate:"required"`
	Thumbnail *string `json:"thumbnail" validate:"omitempty,max=512"`
}

// UpdatePostPayload validation
type UpdatePostPayload struct {
	Title     *string `json:"title" validate:"omitempty,min=1,max=30"`
	Body      *string `json:"body" validate:"omitempty,min=1"`
	Thumbnail *string `json:"thumbnail" validate:"omitempty,max=512"`
}

// CreateCommentPayload validation
type CreateCommentPayload struct {
	Content   string `json:"content" validate:"required"`
	ParentID  *int64 `json:"parentId" validate:"omitempty,gt=0"`
	ReplyToID *int64 `json:"replyToId" validate:"omitempty,gt=0"`
}

// PaginationPayload validation
type PaginationPayload struct {
	Page int `form:"page" validate:"min=1,max=1000000"`
	Take int `form:"take" validate:"min=1,max=100"`
}

// Validate validates a struct and converts the first failure into a domain.ValidationError
func (v *Validator) Validate(data interface{}) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &domain.ValidationError{
			Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
			Field:   lowerFirst(fe.Field()),
		}
	}
	return &domain.ValidationError{Message: err.Error()}
}

// ValidateEmail validates an email string
func (v *Validator) ValidateEmail(email string) error {
	return v.validate.Var(email, "required,email")
}

// ValidatePassword validates a password string
func (v *Validator) ValidatePassword(password string) error {
	if err := v.validate.Var(password, "required,min=8"); err != nil {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("password must not exceed %d bytes", MaxPasswordBytes)
	}
	return nil
}

// ValidateNickname validates a nickname string
func (v *Validator) ValidateNickname(nickname string) error {
	if err := v.validate.Var(nickname, "required,min=2,max=30"); err != nil {
		return fmt.Errorf("nickname must be between 2 and 30 characters")
	}
	return nil
}

// ValidateOTPCode validates the shape of a one-time code for a purpose
func (v *Validator) ValidateOTPCode(code string, purpose domain.OTPPurpose) error {
	if len(code) != 9 || !strings.HasPrefix(code, purpose.Prefix()) {
		return fmt.Errorf("otp code must be %s followed by 8 hex characters", purpose.Prefix())
	}
	return v.validate.Var(code[1:], "hexadecimal")
}

// ValidateTokenTTL validates a token lifetime
func ValidateTokenTTL(ttl time.Duration) error {
	if ttl < time.Minute || ttl > 90*24*time.Hour {
		return fmt.Errorf("token ttl must be between 1 minute and 90 days")
	}
	return nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
