package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sgmi-dev/sgmi-api/internal/models"
	appErrors "github.com/sgmi-dev/sgmi-api/pkg/errors"
)

const userColumns = `u.id, u.name, u.email, u.password_hash, u.role_id, u.department, u.status, u.last_access, u.refresh_token, u.created_at, u.updated_at, r.name AS role_name, r.permissions AS role_permissions`

// UserRepository provides database access for user management.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns a user with their role by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u JOIN roles r ON r.id = u.role_id WHERE u.email = $1 LIMIT 1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user with their role by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u JOIN roles r ON r.id = u.role_id WHERE u.id = $1 LIMIT 1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// List returns users matching the filter, newest first.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u JOIN roles r ON r.id = u.role_id WHERE 1=1`, userColumns)
	var args []interface{}

	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		query += fmt.Sprintf(" AND (LOWER(u.name) LIKE $%d OR LOWER(u.email) LIKE $%d)", len(args), len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND u.status = $%d", len(args))
	}
	if filter.RoleID != nil {
		args = append(args, *filter.RoleID)
		query += fmt.Sprintf(" AND u.role_id = $%d", len(args))
	}

	query += " ORDER BY u.created_at DESC"

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	const query = `INSERT INTO users (id, name, email, password_hash, role_id, department, status, created_at, updated_at) VALUES (:id, :name, :email, :password_hash, :role_id, :department, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		if IsUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a user.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	const query = `UPDATE users SET name = :name, email = :email, password_hash = :password_hash, role_id = :role_id, department = :department, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		if IsUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Delete removes a user permanently.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateSession stores the new refresh token and last access timestamp as a
// single statement; both fields change or neither does.
func (r *UserRepository) UpdateSession(ctx context.Context, id, refreshToken string, lastAccess time.Time) error {
	const query = `UPDATE users SET refresh_token = $2, last_access = $3, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, refreshToken, lastAccess); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// ClearRefreshToken removes the stored refresh token on logout.
func (r *UserRepository) ClearRefreshToken(ctx context.Context, id string) error {
	const query = `UPDATE users SET refresh_token = NULL, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// EmailExists checks email uniqueness, optionally excluding a user id.
func (r *UserRepository) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	query := `SELECT COUNT(*) FROM users WHERE email = $1`
	args := []interface{}{email}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}
