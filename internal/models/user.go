package models

import "time"

// UserStatus marks whether an account may log in.
type UserStatus string

const (
	UserActive   UserStatus = "ACTIVO"
	UserInactive UserStatus = "INACTIVO"
)

// User represents an application user stored in the users table. The
// refresh_token column holds the single active refresh token; it is
// overwritten on login and cleared on logout.
type User struct {
	ID           string     `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	RoleID       int        `db:"role_id" json:"role_id"`
	Department   string     `db:"department" json:"department"`
	Status       UserStatus `db:"status" json:"status"`
	LastAccess   *time.Time `db:"last_access" json:"last_access,omitempty"`
	RefreshToken *string    `db:"refresh_token" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`

	// Joined role fields, populated on reads that include the role.
	RoleName        string           `db:"role_name" json:"role,omitempty"`
	RolePermissions PermissionMatrix `db:"role_permissions" json:"permissions,omitempty"`
}

// CreateUserRequest creates an account on behalf of an administrator.
type CreateUserRequest struct {
	Name       string     `json:"name" validate:"required"`
	Email      string     `json:"email" validate:"required,email"`
	Password   string     `json:"password" validate:"required,min=6"`
	RoleID     int        `json:"role_id" validate:"required,min=1"`
	Department string     `json:"department"`
	Status     UserStatus `json:"status"`
}

// UpdateUserRequest mutates an account. Nil fields are left untouched; a
// non-nil Password triggers a rehash.
type UpdateUserRequest struct {
	Name       *string     `json:"name"`
	Email      *string     `json:"email" validate:"omitempty,email"`
	Password   *string     `json:"password" validate:"omitempty,min=6"`
	RoleID     *int        `json:"role_id" validate:"omitempty,min=1"`
	Department *string     `json:"department"`
	Status     *UserStatus `json:"status"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Search string
	Status *UserStatus
	RoleID *int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
