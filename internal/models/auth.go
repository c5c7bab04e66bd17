package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	DemoMode bool   `json:"demoMode"`
}

// LoginResponse returns the issued tokens and user info.
type LoginResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
	User         UserInfo  `json:"user"`
}

// RegisterRequest creates a new account. Role defaults to Technician when
// unset.
type RegisterRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	RoleID     int    `json:"role_id"`
	Department string `json:"department"`
}

// RefreshTokenRequest exchanges a refresh token for a new access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RefreshTokenResponse returns the refreshed access token.
type RefreshTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expires_in"`
	IssuedAt  time.Time `json:"issued_at"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Role        string           `json:"role"`
	Department  string           `json:"department"`
	Permissions PermissionMatrix `json:"permissions"`
	IsDemo      bool             `json:"isDemo"`
}

// JWTClaims is the access token payload. The role's full permission matrix is
// embedded so per-request checks need no store lookup; a role change only
// takes effect on the next login.
type JWTClaims struct {
	UserID      string           `json:"user_id"`
	Email       string           `json:"email"`
	Role        string           `json:"role"`
	Permissions PermissionMatrix `json:"permissions"`
	IsDemo      bool             `json:"is_demo"`
	jwt.RegisteredClaims
}

// RefreshClaims is the refresh token payload, identity only.
type RefreshClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
