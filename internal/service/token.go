package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
	"github.com/LeeCh0129/greenie-backend/internal/repository"
	"github.com/LeeCh0129/greenie-backend/internal/utils"
)

const bearerPrefix = "Bearer "

// AccessClaims is the payload of an access token
type AccessClaims struct {
	AccountID int64  `json:"id"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token: {sub, iat, exp} with a numeric subject
type RefreshClaims struct {
	Subject   int64            `json:"sub"`
	IssuedAt  *jwt.NumericDate `json:"iat,omitempty"`
	ExpiresAt *jwt.NumericDate `json:"exp,omitempty"`
}

func (c RefreshClaims) GetExpirationTime() (*jwt.NumericDate, error) { return c.ExpiresAt, nil }
func (c RefreshClaims) GetIssuedAt() (*jwt.NumericDate, error)       { return c.IssuedAt, nil }
func (c RefreshClaims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c RefreshClaims) GetIssuer() (string, error)                   { return "", nil }
func (c RefreshClaims) GetSubject() (string, error)                  { return "", nil }
func (c RefreshClaims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

// TokenServiceConfig holds configuration for the token service
type TokenServiceConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Now           func() time.Time
}

// TokenService signs, verifies and stores access and refresh tokens
type TokenService struct {
	accountRepo repository.IAccountRepository
	tokenRepo   repository.IRefreshTokenRepository
	hasher      *utils.PasswordHasher
	config      TokenServiceConfig
}

// NewTokenService creates a new token service
func NewTokenService(
	accountRepo repository.IAccountRepository,
	tokenRepo repository.IRefreshTokenRepository,
	hasher *utils.PasswordHasher,
	config TokenServiceConfig,
) *TokenService {
	if config.Now == nil {
		config.Now = time.Now
	}
	return &TokenService{
		accountRepo: accountRepo,
		tokenRepo:   tokenRepo,
		hasher:      hasher,
		config:      config,
	}
}

// IssueAccessToken signs a short-lived token carrying the account identity
func (s *TokenService) IssueAccessToken(account *domain.Account) (string, error) {
	now := s.config.Now()
	claims := AccessClaims{
		AccountID: account.ID,
		Email:     account.Email,
		Nickname:  account.Nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.AccessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.AccessSecret))
	if err != nil {
		return "", &domain.InternalError{Message: "failed to sign access token", Err: err}
	}
	return signed, nil
}

// IssueRefreshToken signs a long-lived token and replaces the account's stored hash with its hash
func (s *TokenService) IssueRefreshToken(ctx context.Context, accountID int64) (string, error) {
	now := s.config.Now()
	expiresAt := now.Add(s.config.RefreshTTL)
	claims := RefreshClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.RefreshSecret))
	if err != nil {
		return "", &domain.InternalError{Message: "failed to sign refresh token", Err: err}
	}

	hash, err := s.hasher.HashToken(signed)
	if err != nil {
		return "", &domain.InternalError{Message: "failed to process refresh token", Err: err}
	}

	err = s.tokenRepo.Upsert(ctx, &domain.RefreshToken{
		AccountID: accountID,
		TokenHash: hash,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return "", err
	}

	return signed, nil
}

// Decode extracts refresh claims without checking the signature.
// The result is untrusted until VerifyRefreshToken succeeds; nil when undecodable.
func (s *TokenService) Decode(token string) *RefreshClaims {
	var claims RefreshClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil
	}
	if claims.Subject <= 0 {
		return nil
	}
	return &claims
}

// VerifyAccessToken checks a "Bearer <token>" header value; nil on any failure
func (s *TokenService) VerifyAccessToken(bearerHeader string) *AccessClaims {
	token, ok := strings.CutPrefix(bearerHeader, bearerPrefix)
	if !ok || token == "" {
		return nil
	}

	var claims AccessClaims
	if _, err := s.parser().ParseWithClaims(token, &claims, secretKey(s.config.AccessSecret)); err != nil {
		return nil
	}
	if claims.AccountID <= 0 {
		return nil
	}
	return &claims
}

// VerifyRefreshToken requires the token to match the stored hash, carry a valid signature and
// expiry, and name accountID as subject. Any failure is Unauthorized.
func (s *TokenService) VerifyRefreshToken(ctx context.Context, accountID int64, token string) (*domain.Account, error) {
	rows, err := s.tokenRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	matched := false
	for _, row := range rows {
		if s.hasher.VerifyToken(row.TokenHash, token) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, &domain.UnauthorizedError{Message: "refresh token is not valid"}
	}

	var claims RefreshClaims
	if _, err := s.parser().ParseWithClaims(token, &claims, secretKey(s.config.RefreshSecret)); err != nil {
		return nil, &domain.UnauthorizedError{Message: "refresh token is not valid"}
	}
	if claims.Subject != accountID {
		return nil, &domain.UnauthorizedError{Message: "refresh token is not valid"}
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, &domain.UnauthorizedError{Message: "refresh token is not valid"}
		}
		return nil, err
	}
	return account, nil
}

// RevokeAll deletes every stored refresh token of the account
func (s *TokenService) RevokeAll(ctx context.Context, accountID int64) error {
	return s.tokenRepo.DeleteByAccountID(ctx, accountID)
}

func (s *TokenService) parser() *jwt.Parser {
	return jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.config.Now),
	)
}

func secretKey(secret string) jwt.Keyfunc {
	return func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}
}
