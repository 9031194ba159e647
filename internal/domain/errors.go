package domain

import (
	"errors"
	"fmt"
)

// Custom error types for the blog backend

// ValidationError represents malformed input
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ConflictError represents a uniqueness violation (e.g., duplicate email or nickname)
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Message)
}

// NotFoundError represents missing resource
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Message)
}

// UnauthorizedError represents token failures
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.Message)
}

// ForbiddenError represents an authenticated caller that is not allowed to act
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Message)
}

// BadCredentialsError represents a password mismatch
type BadCredentialsError struct {
	Message string
}

func (e *BadCredentialsError) Error() string {
	return fmt.Sprintf("bad credentials: %s", e.Message)
}

// InvalidOTPError represents a wrong, mismatched-purpose or expired one-time code
type InvalidOTPError struct {
	Message string
}

func (e *InvalidOTPError) Error() string {
	return fmt.Sprintf("invalid otp: %s", e.Message)
}

// RateLimitedError represents a request rejected by a throttle
type RateLimitedError struct {
	Message string
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited: %s", e.Message)
}

// ConfigError represents missing or malformed configuration
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Key, e.Message)
}

// InternalError represents unexpected server errors
type InternalError struct {
	Message string
	Err     error
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("internal error: %s - %v", e.Message, e.Err)
	}
	return fmt.Sprintf("internal error: %s", e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// IsConflict checks if an error is a ConflictError
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsUnauthorized checks if an error is an UnauthorizedError
func IsUnauthorized(err error) bool {
	var target *UnauthorizedError
	return errors.As(err, &target)
}

// IsForbidden checks if an error is a ForbiddenError
func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}

// IsBadCredentials checks if an error is a BadCredentialsError
func IsBadCredentials(err error) bool {
	var target *BadCredentialsError
	return errors.As(err, &target)
}

// IsInvalidOTP checks if an error is an InvalidOTPError
func IsInvalidOTP(err error) bool {
	var target *InvalidOTPError
	return errors.As(err, &target)
}

// IsRateLimited checks if an error is a RateLimitedError
func IsRateLimited(err error) bool {
	var target *RateLimitedError
	return errors.As(err, &target)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsConfig checks if an error is a ConfigError
func IsConfig(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

// IsInternal checks if an error is an InternalError
func IsInternal(err error) bool {
	var target *InternalError
	return errors.As(err, &target)
}
