package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sgmi-dev/sgmi-api/internal/models"
)

// RoleRepository reads the seeded role table.
type RoleRepository struct {
	db *sqlx.DB
}

// NewRoleRepository creates a new instance of RoleRepository.
func NewRoleRepository(db *sqlx.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// List returns all roles with their permission matrices.
func (r *RoleRepository) List(ctx context.Context) ([]models.Role, error) {
	const query = `SELECT id, name, description, permissions FROM roles ORDER BY id`
	var roles []models.Role
	if err := r.db.SelectContext(ctx, &roles, query); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// FindByID returns a role by identifier.
func (r *RoleRepository) FindByID(ctx context.Context, id int) (*models.Role, error) {
	const query = `SELECT id, name, description, permissions FROM roles WHERE id = $1 LIMIT 1`
	var role models.Role
	if err := r.db.GetContext(ctx, &role, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find role by id: %w", err)
	}
	return &role, nil
}
