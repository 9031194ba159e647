package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
)

// PasswordHasher handles adaptive hashing of passwords and refresh tokens
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a new password hasher with the given bcrypt cost
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, &domain.ConfigError{
			Key:     "SALT_OR_ROUNDS",
			Message: fmt.Sprintf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost),
		}
	}
	return &PasswordHasher{cost: cost}, nil
}

// ParseHashCost parses the configured cost factor
func ParseHashCost(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &domain.ConfigError{Key: "SALT_OR_ROUNDS", Message: "is required"}
	}
	cost, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ConfigError{Key: "SALT_OR_ROUNDS", Message: "must be numeric"}
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return 0, &domain.ConfigError{
			Key:     "SALT_OR_ROUNDS",
			Message: fmt.Sprintf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost),
		}
	}
	return cost, nil
}

// Cost returns the configured bcrypt cost
func (ph *PasswordHasher) Cost() int {
	return ph.cost
}

// Hash hashes a password with a fresh salt
func (ph *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), ph.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify compares a password with its hash
func (ph *PasswordHasher) Verify(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// HashToken hashes a signed token for storage.
// bcrypt only reads the first 72 bytes and JWTs share their header prefix,
// so the token is reduced to a SHA-256 digest first.
func (ph *PasswordHasher) HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DigestToken(token)), ph.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}
	return string(hash), nil
}

// VerifyToken compares a candidate token with a hash produced by HashToken
func (ph *PasswordHasher) VerifyToken(hash, token string) bool {
	return ph.Verify(hash, DigestToken(token))
}

// DigestToken returns the hex SHA-256 digest of a token
func DigestToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// GenerateOTP generates a one-time code: the purpose prefix followed by 4 random bytes in hex
func GenerateOTP(prefix string) (string, error) {
	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return prefix + hex.EncodeToString(bytes), nil
}
