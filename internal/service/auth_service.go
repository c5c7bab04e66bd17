package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sgmi-dev/sgmi-api/internal/models"
	appErrors "github.com/sgmi-dev/sgmi-api/pkg/errors"
)

// DefaultRoleID is assigned to self-registered accounts (Técnico).
const DefaultRoleID = 3

type authUserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	EmailExists(ctx context.Context, email, excludeID string) (bool, error)
	UpdateSession(ctx context.Context, id, refreshToken string, lastAccess time.Time) error
	ClearRefreshToken(ctx context.Context, id string) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	Issuer             string
	// Demo marks tokens issued against the fixture store.
	Demo bool
}

// AuthService mints and verifies tokens and owns the login session state.
type AuthService struct {
	store     authUserStore
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(store authUserStore, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{store: store, validator: validate, logger: logger, config: config}
}

// Login authenticates a user and returns issued tokens. The refresh token is
// stored against the user together with the last-access timestamp in a single
// update, so a login on a second device invalidates the first device's
// refresh token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.store.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	if user.Status != models.UserActive {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "account is inactive")
	}

	accessToken, issuedAt, err := s.generateAccessToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	refreshToken, err := s.generateRefreshToken(user.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create refresh token")
	}

	if err := s.store.UpdateSession(ctx, user.ID, refreshToken, time.Now().UTC()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("role", user.RoleName))

	return &models.LoginResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:     issuedAt,
		User:         s.userInfo(user),
	}, nil
}

// Register creates a new account. Unspecified roles default to Técnico.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.UserInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid register payload")
	}

	exists, err := s.store.EmailExists(ctx, req.Email, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	roleID := req.RoleID
	if roleID == 0 {
		roleID = DefaultRoleID
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		RoleID:       roleID,
		Department:   req.Department,
		Status:       models.UserActive,
	}

	if err := s.store.Create(ctx, user); err != nil {
		if isConflict(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	info := s.userInfo(user)
	return &info, nil
}

// Refresh exchanges a refresh token for a new access token. The presented
// token must verify and match the single token stored for that user; a stale
// token from a previous session is rejected even when its signature is valid.
func (s *AuthService) Refresh(ctx context.Context, req models.RefreshTokenRequest) (*models.RefreshTokenResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid refresh payload")
	}

	claims, err := s.parseRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrRefreshTokenInvalid, "refresh token is invalid or expired")
	}

	user, err := s.store.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrRefreshTokenInvalid, "refresh token is invalid or expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	if user.RefreshToken == nil || *user.RefreshToken != req.RefreshToken {
		return nil, appErrors.Clone(appErrors.ErrRefreshTokenInvalid, "refresh token has been revoked")
	}

	accessToken, issuedAt, err := s.generateAccessToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &models.RefreshTokenResponse{
		Token:     accessToken,
		ExpiresIn: int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:  issuedAt,
	}, nil
}

// Logout clears the stored refresh token. Logging out a session with no
// stored token, or a demo session, succeeds as a no-op.
func (s *AuthService) Logout(ctx context.Context, claims *models.JWTClaims) error {
	if claims.IsDemo {
		return nil
	}
	if err := s.store.ClearRefreshToken(ctx, claims.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear refresh token")
	}
	return nil
}

// CurrentUser resolves the authenticated user from the store.
func (s *AuthService) CurrentUser(ctx context.Context, claims *models.JWTClaims) (*models.UserInfo, error) {
	user, err := s.store.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	info := s.userInfo(user)
	return &info, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidToken.Code, appErrors.ErrInvalidToken.Status, "invalid or expired token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrInvalidToken, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) userInfo(user *models.User) models.UserInfo {
	return models.UserInfo{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.RoleName,
		Department:  user.Department,
		Permissions: user.RolePermissions,
		IsDemo:      s.config.Demo,
	}
}

func (s *AuthService) generateAccessToken(user *models.User) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	claims := &models.JWTClaims{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.RoleName,
		Permissions: user.RolePermissions,
		IsDemo:      s.config.Demo,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}

func (s *AuthService) generateRefreshToken(userID string) (string, error) {
	issuedAt := time.Now().UTC()
	// The jti makes every issued token unique even within the same second,
	// so replacing the stored token always revokes the previous one.
	claims := &models.RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.RefreshTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.RefreshTokenSecret))
}

func (s *AuthService) parseRefreshToken(tokenString string) (*models.RefreshClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.RefreshClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.RefreshTokenSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*models.RefreshClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid refresh claims")
	}
	return claims, nil
}
