package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
	"github.com/LeeCh0129/greenie-backend/internal/logger"
	"github.com/LeeCh0129/greenie-backend/internal/repository"
	"github.com/LeeCh0129/greenie-backend/internal/utils"
)

// AuthService orchestrates registration, login and the token lifecycle
type AuthService struct {
	accountRepo repository.IAccountRepository
	tokens      *TokenService
	otp         *OTPService
	hasher      *utils.PasswordHasher
	validator   *utils.Validator
	config      AuthServiceConfig
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	// RotateBelow is the remaining refresh-token lifetime under which a refresh also rotates it
	RotateBelow time.Duration
	Now         func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	accountRepo repository.IAccountRepository,
	tokens *TokenService,
	otp *OTPService,
	hasher *utils.PasswordHasher,
	validator *utils.Validator,
	config AuthServiceConfig,
) *AuthService {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.RotateBelow <= 0 {
		config.RotateBelow = 14 * 24 * time.Hour
	}
	return &AuthService{
		accountRepo: accountRepo,
		tokens:      tokens,
		otp:         otp,
		hasher:      hasher,
		validator:   validator,
		config:      config,
	}
}

// RegisterRequest represents registration input
type RegisterRequest struct {
	Email    string
	Password string
	Nickname string
}

// RegisterResponse represents registration output
type RegisterResponse struct {
	Message   string
	AccountID int64
}

// Register creates an unverified account
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if err := s.validator.ValidateEmail(req.Email); err != nil {
		return nil, &domain.ValidationError{Message: "invalid email format", Field: "email"}
	}
	if err := s.validator.ValidatePassword(req.Password); err != nil {
		return nil, &domain.ValidationError{Message: err.Error(), Field: "password"}
	}
	if err := s.validator.ValidateNickname(req.Nickname); err != nil {
		return nil, &domain.ValidationError{Message: err.Error(), Field: "nickname"}
	}

	exists, err := s.accountRepo.ExistsEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &domain.ConflictError{Message: "email already registered"}
	}

	exists, err = s.accountRepo.ExistsNickname(ctx, req.Nickname)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &domain.ConflictError{Message: "nickname already in use"}
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, &domain.InternalError{Message: "failed to process password", Err: err}
	}

	account := &domain.Account{
		Email:        req.Email,
		Nickname:     req.Nickname,
		PasswordHash: passwordHash,
	}
	// the unique indexes catch registrations that raced past the probes above
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("account registered", zap.Int64("account_id", account.ID))

	return &RegisterResponse{
		Message:   "registration successful, verify your email to log in",
		AccountID: account.ID,
	}, nil
}

// LoginRequest represents login input
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse represents login output
type LoginResponse struct {
	Message      string
	AccessToken  string
	RefreshToken string
}

// Login issues a token pair for a verified account.
// An unverified account is refused before the password is looked at.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	account, err := s.accountRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if !account.EmailVerified {
		return nil, &domain.ForbiddenError{Message: "email is not verified"}
	}

	if !s.hasher.Verify(account.PasswordHash, req.Password) {
		return nil, &domain.BadCredentialsError{Message: "password does not match"}
	}

	accessToken, err := s.tokens.IssueAccessToken(account)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.IssueRefreshToken(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("account logged in", zap.Int64("account_id", account.ID))

	return &LoginResponse{
		Message:      "login successful",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout revokes every refresh token of the account
func (s *AuthService) Logout(ctx context.Context, accountID int64) error {
	if err := s.tokens.RevokeAll(ctx, accountID); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("account logged out", zap.Int64("account_id", accountID))
	return nil
}

// RefreshTokenResponse represents token refresh output.
// RefreshToken is nil when the presented refresh token is far enough from expiry to keep using.
type RefreshTokenResponse struct {
	AccessToken  string
	RefreshToken *string
}

// RefreshToken mints a fresh access token and, near expiry, a new refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*RefreshTokenResponse, error) {
	claims := s.tokens.Decode(refreshToken)
	if claims == nil || claims.ExpiresAt == nil {
		return nil, &domain.ValidationError{Message: "refresh token is malformed", Field: "refreshToken"}
	}

	account, err := s.tokens.VerifyRefreshToken(ctx, claims.Subject, refreshToken)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.IssueAccessToken(account)
	if err != nil {
		return nil, err
	}

	resp := &RefreshTokenResponse{AccessToken: accessToken}
	if claims.ExpiresAt.Sub(s.config.Now()) < s.config.RotateBelow {
		rotated, err := s.tokens.IssueRefreshToken(ctx, account.ID)
		if err != nil {
			return nil, err
		}
		resp.RefreshToken = &rotated
		logger.FromContext(ctx).Info("refresh token rotated", zap.Int64("account_id", account.ID))
	}

	return resp, nil
}

// ChangePasswordRequest represents password change input
type ChangePasswordRequest struct {
	Email       string
	OTP         string
	NewPassword string
	Mode        string
}

// ChangePassword replaces the password after the OTP for mode verifies
func (s *AuthService) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	purpose, err := domain.ParseOTPPurpose(req.Mode)
	if err != nil {
		return err
	}
	if err := s.validator.ValidatePassword(req.NewPassword); err != nil {
		return &domain.ValidationError{Message: err.Error(), Field: "newPassword"}
	}

	email, err := s.otp.Verify(ctx, req.Email, req.OTP, purpose)
	if err != nil {
		return err
	}

	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	passwordHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return &domain.InternalError{Message: "failed to process password", Err: err}
	}

	if err := s.accountRepo.UpdatePassword(ctx, account.ID, passwordHash); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("password changed", zap.Int64("account_id", account.ID))
	return nil
}

// RequestOTP issues a code for the given mode
func (s *AuthService) RequestOTP(ctx context.Context, email, mode string) error {
	purpose, err := domain.ParseOTPPurpose(mode)
	if err != nil {
		return err
	}
	return s.otp.Issue(ctx, email, purpose)
}

// VerifyOTP verifies a code for the given mode and returns the account email
func (s *AuthService) VerifyOTP(ctx context.Context, email, code, mode string) (string, error) {
	purpose, err := domain.ParseOTPPurpose(mode)
	if err != nil {
		return "", err
	}
	return s.otp.Verify(ctx, email, code, purpose)
}

// CheckNickname reports Conflict when the nickname is already taken
func (s *AuthService) CheckNickname(ctx context.Context, nickname string) error {
	if nickname == "" {
		return &domain.ValidationError{Message: "nickname is required", Field: "nickname"}
	}

	exists, err := s.accountRepo.ExistsNickname(ctx, nickname)
	if err != nil {
		return err
	}
	if exists {
		return &domain.ConflictError{Message: "nickname already in use"}
	}
	return nil
}

// Authenticate turns an Authorization header into a principal; nil means anonymous
func (s *AuthService) Authenticate(ctx context.Context, bearerHeader string) *domain.Principal {
	claims := s.tokens.VerifyAccessToken(bearerHeader)
	if claims == nil {
		return nil
	}

	// the token may outlive the account; a deleted account is anonymous
	account, err := s.accountRepo.GetByID(ctx, claims.AccountID)
	if err != nil {
		if !domain.IsNotFound(err) {
			logger.FromContext(ctx).Warn("failed to load principal", zap.Error(err))
		}
		return nil
	}

	return &domain.Principal{
		ID:            account.ID,
		Email:         account.Email,
		Nickname:      account.Nickname,
		EmailVerified: account.EmailVerified,
	}
}
