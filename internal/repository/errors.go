package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
)

// translate maps gorm errors onto domain errors
func translate(err error, notFound, conflict, internal string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.NotFoundError{Message: notFound}
	}
	if isUniqueViolation(err) {
		return &domain.ConflictError{Message: conflict}
	}
	return &domain.InternalError{Message: internal, Err: err}
}

// isUniqueViolation reports whether err came from a unique constraint
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// page bounds a pagination window
func page(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}
