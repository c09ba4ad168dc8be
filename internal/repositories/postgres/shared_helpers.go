package postgres

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/lab-reservation-service/internal/repositories"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// handleDBError maps driver errors onto the repository sentinels.
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", operation, repositories.ErrNotFound)
	}
	if repositories.IsDuplicateError(err) {
		return fmt.Errorf("%s: %w: %v", operation, repositories.ErrDuplicate, err)
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// applyPagination bounds limit to [1, 100] and offset to >= 0.
func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}

// likePattern returns a lower-cased %keyword% pattern for portable
// case-insensitive matching on postgres and sqlite.
func likePattern(keyword string) string {
	return "%" + strings.ToLower(strings.TrimSpace(keyword)) + "%"
}
