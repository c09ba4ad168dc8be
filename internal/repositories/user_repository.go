package repositories

import (
	"context"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
)

// UserRepository is the identity directory.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByAccount(ctx context.Context, account string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []uint) (map[uint]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	// Uniqueness checks used before insert so callers get a precise conflict.
	ExistsAccount(ctx context.Context, account string) (bool, error)
	ExistsTeacherNo(ctx context.Context, teacherNo string) (bool, error)
	ExistsStudentNo(ctx context.Context, studentNo string) (bool, error)

	// StudentIDsByAdvisor returns the ids of students whose advisor_no is teacherNo.
	StudentIDsByAdvisor(ctx context.Context, teacherNo string) ([]uint, error)
}
