package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sgmi-dev/sgmi-api/internal/models"
	appErrors "github.com/sgmi-dev/sgmi-api/pkg/errors"
)

type userStore interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	EmailExists(ctx context.Context, email, excludeID string) (bool, error)
}

type roleStore interface {
	List(ctx context.Context) ([]models.Role, error)
	FindByID(ctx context.Context, id int) (*models.Role, error)
}

// UserService manages user accounts and role lookups.
type UserService struct {
	users     userStore
	roles     roleStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(users userStore, roles roleStore, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{users: users, roles: roles, validator: validate, logger: logger}
}

// List returns users matching the filter, newest first.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, nil
}

// Get returns a single user by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	return user, nil
}

// Create registers a new account. Duplicate emails answer with a conflict.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	status := req.Status
	if status == "" {
		status = models.UserActive
	}
	if status != models.UserActive && status != models.UserInactive {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid user status")
	}

	if _, err := s.roles.FindByID(ctx, req.RoleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		RoleID:       req.RoleID,
		Department:   req.Department,
		Status:       status,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if isConflict(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	s.logger.Info("user created", zap.String("user_id", user.ID), zap.Int("role_id", user.RoleID))
	return user, nil
}

// Update mutates an existing account. Only provided fields change; an email
// already claimed by another account answers with a conflict.
func (s *UserService) Update(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.users.EmailExists(ctx, *req.Email, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.Status != nil {
		if *req.Status != models.UserActive && *req.Status != models.UserInactive {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid user status")
		}
		user.Status = *req.Status
	}
	if req.RoleID != nil {
		if _, err := s.roles.FindByID(ctx, *req.RoleID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch role")
		}
		user.RoleID = *req.RoleID
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		if isConflict(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	return s.Get(ctx, id)
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

// Roles returns all assignable roles with their permission matrices.
func (s *UserService) Roles(ctx context.Context) ([]models.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list roles")
	}
	return roles, nil
}
