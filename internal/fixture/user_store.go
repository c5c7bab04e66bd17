package fixture

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sgmi-dev/sgmi-api/internal/models"
	appErrors "github.com/sgmi-dev/sgmi-api/pkg/errors"
)

// UserStore keeps demo users and roles in memory.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*models.User
	roles map[int]models.Role
}

// NewUserStore seeds the store with the demo accounts.
func NewUserStore() *UserStore {
	s := &UserStore{
		users: make(map[string]*models.User),
		roles: make(map[int]models.Role),
	}
	for _, role := range demoRoles() {
		s.roles[role.ID] = role
	}
	for _, u := range demoUsers() {
		user := u
		s.users[user.ID] = &user
	}
	return s
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

// FindByEmail returns a user by email address.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, sql.ErrNoRows
}

// FindByID returns a user by identifier.
func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, sql.ErrNoRows
}

// List returns users matching the filter, newest first.
func (s *UserStore) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if filter.Status != nil && u.Status != *filter.Status {
			continue
		}
		if filter.RoleID != nil && u.RoleID != *filter.RoleID {
			continue
		}
		if filter.Search != "" && !containsFold(u.Name, filter.Search) && !containsFold(u.Email, filter.Search) {
			continue
		}
		out = append(out, *cloneUser(u))
	}
	sortByCreatedDesc(out, func(u models.User) time.Time { return u.CreatedAt })
	return out, nil
}

// Create inserts a new user, enforcing email uniqueness.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if role, ok := s.roles[user.RoleID]; ok {
		user.RoleName = role.Name
		user.RolePermissions = role.Permissions
	}
	s.users[user.ID] = cloneUser(user)
	return nil
}

// Update replaces the mutable fields of a user.
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return sql.ErrNoRows
	}
	for id, u := range s.users {
		if id != user.ID && u.Email == user.Email {
			return appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now().UTC()
	if role, ok := s.roles[user.RoleID]; ok {
		user.RoleName = role.Name
		user.RolePermissions = role.Permissions
	}
	s.users[user.ID] = cloneUser(user)
	return nil
}

// Delete removes a user permanently.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.users, id)
	return nil
}

// UpdateSession stores the refresh token and last access atomically.
func (s *UserStore) UpdateSession(ctx context.Context, id, refreshToken string, lastAccess time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	token := refreshToken
	u.RefreshToken = &token
	access := lastAccess
	u.LastAccess = &access
	u.UpdatedAt = lastAccess
	return nil
}

// ClearRefreshToken removes the stored refresh token.
func (s *UserStore) ClearRefreshToken(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.RefreshToken = nil
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// EmailExists checks email uniqueness, optionally excluding a user id.
func (s *UserStore) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, u := range s.users {
		if u.Email == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// RoleStore exposes the fixed demo roles.
type RoleStore struct{}

// NewRoleStore constructs a RoleStore.
func NewRoleStore() *RoleStore {
	return &RoleStore{}
}

// List returns the demo roles.
func (s *RoleStore) List(ctx context.Context) ([]models.Role, error) {
	return demoRoles(), nil
}

// FindByID returns a demo role by identifier.
func (s *RoleStore) FindByID(ctx context.Context, id int) (*models.Role, error) {
	for _, role := range demoRoles() {
		if role.ID == id {
			r := role
			return &r, nil
		}
	}
	return nil, sql.ErrNoRows
}
