package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sgmi-dev/sgmi-api/internal/models"
	appErrors "github.com/sgmi-dev/sgmi-api/pkg/errors"
)

const inventoryColumns = `id, code, name, category, quantity, min_quantity, location, supplier, created_at, updated_at`

// InventoryRepository provides database access for inventory items.
type InventoryRepository struct {
	db *sqlx.DB
}

// NewInventoryRepository creates a new instance of InventoryRepository.
func NewInventoryRepository(db *sqlx.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// List returns all items ordered by name.
func (r *InventoryRepository) List(ctx context.Context) ([]models.InventoryItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM inventory_items ORDER BY name ASC`, inventoryColumns)
	var items []models.InventoryItem
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return items, nil
}

// ListBelowMinimum returns items whose quantity sits under their threshold,
// lowest quantity first.
func (r *InventoryRepository) ListBelowMinimum(ctx context.Context) ([]models.InventoryItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM inventory_items WHERE quantity < min_quantity ORDER BY quantity ASC`, inventoryColumns)
	var items []models.InventoryItem
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list below minimum: %w", err)
	}
	return items, nil
}

// FindByID returns an item by identifier.
func (r *InventoryRepository) FindByID(ctx context.Context, id string) (*models.InventoryItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM inventory_items WHERE id = $1 LIMIT 1`, inventoryColumns)
	var item models.InventoryItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find inventory item: %w", err)
	}
	return &item, nil
}

// Create inserts a new item.
func (r *InventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	const query = `INSERT INTO inventory_items (id, code, name, category, quantity, min_quantity, location, supplier, created_at, updated_at) VALUES (:id, :code, :name, :category, :quantity, :min_quantity, :location, :supplier, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		if IsUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "item code already exists")
		}
		return fmt.Errorf("create inventory item: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of an item.
func (r *InventoryRepository) Update(ctx context.Context, item *models.InventoryItem) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE inventory_items SET code = :code, name = :name, category = :category, quantity = :quantity, min_quantity = :min_quantity, location = :location, supplier = :supplier, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		if IsUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "item code already exists")
		}
		return fmt.Errorf("update inventory item: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an item permanently.
func (r *InventoryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM inventory_items WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AdjustQuantity applies a signed delta as a single conditional update so the
// non-negativity invariant holds under concurrent adjustments. It returns
// sql.ErrNoRows when the guard rejects the write; the caller decides between
// not-found and insufficient stock.
func (r *InventoryRepository) AdjustQuantity(ctx context.Context, id string, delta int) (*models.InventoryItem, error) {
	query := fmt.Sprintf(`UPDATE inventory_items SET quantity = quantity + $2, updated_at = $3 WHERE id = $1 AND quantity + $2 >= 0 RETURNING %s`, inventoryColumns)
	var item models.InventoryItem
	if err := r.db.GetContext(ctx, &item, query, id, delta, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("adjust quantity: %w", err)
	}
	return &item, nil
}

// Statistics aggregates stock totals for reporting.
func (r *InventoryRepository) Statistics(ctx context.Context) (*models.InventoryStatistics, error) {
	const query = `SELECT COUNT(*) AS total_items, COALESCE(SUM(quantity), 0) AS total_quantity, COUNT(*) FILTER (WHERE quantity < min_quantity) AS below_minimum FROM inventory_items`
	var row struct {
		TotalItems    int `db:"total_items"`
		TotalQuantity int `db:"total_quantity"`
		BelowMinimum  int `db:"below_minimum"`
	}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return nil, fmt.Errorf("inventory statistics: %w", err)
	}
	return &models.InventoryStatistics{
		TotalItems:    row.TotalItems,
		TotalQuantity: row.TotalQuantity,
		BelowMinimum:  row.BelowMinimum,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}
