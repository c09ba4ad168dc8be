package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/lab-reservation-service/internal/cache"
	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/internal/repositories"
)

type userPostgreSQL struct {
	db        *gorm.DB
	cache     *cache.CacheManager
	readCache bool
}

func NewUserPostgreSQL(db *gorm.DB, cm *cache.CacheManager, readCache bool) repositories.UserRepository {
	return &userPostgreSQL{db: db, cache: cm, readCache: readCache}
}

func (r *userPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return handleDBError(err, "create user")
	}
	return nil
}

func (r *userPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, handleDBError(err, "get user by id")
	}
	return &user, nil
}

// GetByAccount is on the authentication path of every request, so it reads
// through the user cache outside transactions.
func (r *userPostgreSQL) GetByAccount(ctx context.Context, account string) (*models.User, error) {
	fetch := func() (*models.User, error) {
		var user models.User
		if err := r.db.WithContext(ctx).Where("account = ?", account).First(&user).Error; err != nil {
			return nil, handleDBError(err, "get user by account")
		}
		return &user, nil
	}

	if !r.readCache {
		return fetch()
	}

	var user models.User
	err := r.cache.User.CacheOrExecute(ctx, cache.UserKey(account), &user, cache.UserCacheConfig.TTL, func() (any, error) {
		return fetch()
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userPostgreSQL) GetByIDs(ctx context.Context, ids []uint) (map[uint]*models.User, error) {
	out := make(map[uint]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []*models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, handleDBError(err, "get users by ids")
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *userPostgreSQL) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return handleDBError(err, "update user")
	}
	cache.InvalidateUserCache(ctx, r.cache, user.Account)
	return nil
}

func (r *userPostgreSQL) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	query := r.db.WithContext(ctx).Model(&models.User{})
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.BorrowerType != nil {
		query = query.Where("borrower_type = ?", *filters.BorrowerType)
	}
	if kw := strings.TrimSpace(filters.Keyword); kw != "" {
		p := likePattern(kw)
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(account) LIKE ? OR LOWER(contact) LIKE ? OR LOWER(teacher_no) LIKE ? OR LOWER(student_no) LIKE ?",
			p, p, p, p, p)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count users")
	}

	query = applyPagination(query.Order("id DESC"), filters.Limit, filters.Offset)
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, handleDBError(err, "list users")
	}

	return users, total, nil
}

func (r *userPostgreSQL) ExistsAccount(ctx context.Context, account string) (bool, error) {
	return r.exists(ctx, "account = ?", account)
}

func (r *userPostgreSQL) ExistsTeacherNo(ctx context.Context, teacherNo string) (bool, error) {
	return r.exists(ctx, "teacher_no = ?", teacherNo)
}

func (r *userPostgreSQL) ExistsStudentNo(ctx context.Context, studentNo string) (bool, error) {
	return r.exists(ctx, "student_no = ?", studentNo)
}

func (r *userPostgreSQL) exists(ctx context.Context, cond string, arg any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where(cond, arg).Count(&count).Error; err != nil {
		return false, handleDBError(err, "check user exists")
	}
	return count > 0, nil
}

func (r *userPostgreSQL) StudentIDsByAdvisor(ctx context.Context, teacherNo string) ([]uint, error) {
	if teacherNo == "" {
		return nil, errors.New("teacher number is empty")
	}

	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("advisor_no = ? AND borrower_type = ?", teacherNo, models.BorrowerStudent).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, handleDBError(err, "list advisees")
	}
	return ids, nil
}
