package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/lab-reservation-service/internal/cache"
	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/internal/repositories"
	"github.com/SAP-F-2025/lab-reservation-service/internal/validator"
)

type identityService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	logger    *slog.Logger
	validator *validator.Validator
}

func NewIdentityService(repo repositories.Repository, cm *cache.CacheManager, logger *slog.Logger, validator *validator.Validator) IdentityService {
	return &identityService{
		repo:      repo,
		cache:     cm,
		logger:    logger,
		validator: validator,
	}
}

// ===== SELF-SERVICE =====

func (s *identityService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if errs := s.validator.GetBusinessValidator().ValidateRegister(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	teacherNo := strings.TrimSpace(derefString(req.TeacherNo))
	studentNo := strings.TrimSpace(derefString(req.StudentNo))
	contact := strings.TrimSpace(req.Contact)
	account := models.DeriveAccount(req.BorrowerType, teacherNo, studentNo, contact)

	s.logger.Info("Registering borrower", "account", account, "borrower_type", req.BorrowerType)

	bt := req.BorrowerType
	user := &models.User{
		Account:      account,
		Role:         models.RoleBorrower,
		BorrowerType: &bt,
		Name:         strings.TrimSpace(req.Name),
		Contact:      &contact,
		College:      req.College,
		OrgName:      req.OrgName,
		IsActive:     true,
	}
	switch bt {
	case models.BorrowerTeacher:
		user.TeacherNo = &teacherNo
	case models.BorrowerStudent:
		user.StudentNo = &studentNo
		advisor := strings.TrimSpace(derefString(req.AdvisorNo))
		user.AdvisorNo = &advisor
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := s.ensureUnique(ctx, tx, user); err != nil {
			return err
		}
		if err := tx.User().Create(ctx, user); err != nil {
			if repositories.IsDuplicateError(err) {
				return newConflict("account already exists")
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Borrower registered", "user_id", user.ID, "account", user.Account)
	return user, nil
}

// ensureUnique reports the first clashing identifier as a conflict.
func (s *identityService) ensureUnique(ctx context.Context, tx repositories.Repository, user *models.User) error {
	exists, err := tx.User().ExistsAccount(ctx, user.Account)
	if err != nil {
		return fmt.Errorf("failed to check account: %w", err)
	}
	if exists {
		return newConflict("account already exists")
	}

	if user.TeacherNo != nil {
		if exists, err = tx.User().ExistsTeacherNo(ctx, *user.TeacherNo); err != nil {
			return fmt.Errorf("failed to check teacher_no: %w", err)
		}
		if exists {
			return newConflict("teacher_no already exists")
		}
	}
	if user.StudentNo != nil {
		if exists, err = tx.User().ExistsStudentNo(ctx, *user.StudentNo); err != nil {
			return fmt.Errorf("failed to check student_no: %w", err)
		}
		if exists {
			return newConflict("student_no already exists")
		}
	}
	return nil
}

func (s *identityService) Me(ctx context.Context, actor *models.User) (*models.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	user, err := s.repo.User().GetByID(ctx, actor.ID)
	if err != nil {
		return nil, lookupError(err, "user")
	}
	return user, nil
}

func (s *identityService) Authenticate(ctx context.Context, account string) (*models.User, error) {
	if strings.TrimSpace(account) == "" {
		return nil, ErrUnauthorized
	}

	user, err := s.repo.User().GetByAccount(ctx, account)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, &AppError{Code: CodeUnauthorized, Message: "account is not registered"}
		}
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}
	if !user.IsActive {
		return nil, &AppError{Code: CodeUnauthorized, Message: "account is disabled"}
	}
	return user, nil
}

// ===== DIRECTORY =====

func (s *identityService) List(ctx context.Context, actor *models.User, q UserListQuery) (*UserListResponse, error) {
	if err := requireStaff(actor, "user", 0, "list"); err != nil {
		return nil, err
	}

	page := q.normalized()
	users, total, err := s.repo.User().List(ctx, repositories.UserFilters{
		BorrowerType: q.BorrowerType,
		Keyword:      strings.TrimSpace(q.Keyword),
		Limit:        page.Limit,
		Offset:       page.Skip,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return &UserListResponse{Items: users, Total: total, Skip: page.Skip, Limit: page.Limit}, nil
}

func (s *identityService) Get(ctx context.Context, actor *models.User, id uint) (*models.User, error) {
	if err := requireStaff(actor, "user", id, "read"); err != nil {
		return nil, err
	}
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user")
	}
	return user, nil
}

func (s *identityService) Update(ctx context.Context, actor *models.User, id uint, req *UpdateStaffRequest) (*models.User, error) {
	if err := requireStaff(actor, "user", id, "update"); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		user, err = tx.User().GetByID(ctx, id)
		if err != nil {
			return lookupError(err, "user")
		}

		if req.Name != nil {
			user.Name = strings.TrimSpace(*req.Name)
		}
		if req.Contact != nil {
			user.Contact = req.Contact
		}
		if req.College != nil {
			user.College = req.College
		}
		if req.AdvisorNo != nil {
			user.AdvisorNo = req.AdvisorNo
		}
		if req.OrgName != nil {
			user.OrgName = req.OrgName
		}
		if req.IsActive != nil {
			user.IsActive = *req.IsActive
		}

		return tx.User().Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateUserCache(ctx, s.cache, user.Account)
	s.logger.Info("User updated", "user_id", id, "actor_id", actor.ID)
	return user, nil
}

// Deactivate is a soft delete: the record stays, authentication stops.
func (s *identityService) Deactivate(ctx context.Context, actor *models.User, id uint) error {
	if err := requireStaff(actor, "user", id, "delete"); err != nil {
		return err
	}
	if actor.ID == id {
		return NewPermissionError(actor.ID, id, "user", "delete", "cannot deactivate own account")
	}

	var account string
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		user, err := tx.User().GetByID(ctx, id)
		if err != nil {
			return lookupError(err, "user")
		}
		account = user.Account
		user.IsActive = false
		return tx.User().Update(ctx, user)
	})
	if err != nil {
		return err
	}

	cache.InvalidateUserCache(ctx, s.cache, account)
	s.logger.Info("User deactivated", "user_id", id, "actor_id", actor.ID)
	return nil
}

func (s *identityService) CreateStaff(ctx context.Context, req *CreateStaffRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user := &models.User{
		Account:  strings.TrimSpace(req.Account),
		Role:     req.Role,
		Name:     strings.TrimSpace(req.Name),
		Contact:  req.Contact,
		IsActive: true,
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := s.ensureUnique(ctx, tx, user); err != nil {
			return err
		}
		return tx.User().Create(ctx, user)
	})
	if err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, newConflict("account already exists")
		}
		return nil, err
	}

	s.logger.Info("Staff account created", "user_id", user.ID, "account", user.Account, "role", user.Role)
	return user, nil
}
