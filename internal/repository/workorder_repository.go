package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sgmi-dev/sgmi-api/internal/models"
	appErrors "github.com/sgmi-dev/sgmi-api/pkg/errors"
)

const workOrderColumns = `o.code, o.equipment, o.type, o.priority, o.status, o.description, o.technician_id, o.created_by, o.progress, o.started_at, o.completed_at, o.created_at, o.updated_at,
t.name AS technician_name, t.email AS technician_email, c.name AS creator_name, c.email AS creator_email`

const workOrderJoins = `FROM work_orders o
LEFT JOIN users t ON t.id = o.technician_id
LEFT JOIN users c ON c.id = o.created_by`

// WorkOrderRepository provides database access for work orders.
type WorkOrderRepository struct {
	db *sqlx.DB
}

// NewWorkOrderRepository creates a new instance of WorkOrderRepository.
func NewWorkOrderRepository(db *sqlx.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

// List returns all work orders newest first, enriched with the assigned
// technician's and creator's name and email.
func (r *WorkOrderRepository) List(ctx context.Context) ([]models.WorkOrder, error) {
	query := fmt.Sprintf(`SELECT %s %s ORDER BY o.created_at DESC`, workOrderColumns, workOrderJoins)
	var orders []models.WorkOrder
	if err := r.db.SelectContext(ctx, &orders, query); err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	return orders, nil
}

// ListByStatus returns work orders in the given state, newest first.
func (r *WorkOrderRepository) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.WorkOrder, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE o.status = $1 ORDER BY o.created_at DESC`, workOrderColumns, workOrderJoins)
	var orders []models.WorkOrder
	if err := r.db.SelectContext(ctx, &orders, query, status); err != nil {
		return nil, fmt.Errorf("list work orders by status: %w", err)
	}
	return orders, nil
}

// FindByCode returns a single work order by its sequential code.
func (r *WorkOrderRepository) FindByCode(ctx context.Context, code string) (*models.WorkOrder, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE o.code = $1 LIMIT 1`, workOrderColumns, workOrderJoins)
	var order models.WorkOrder
	if err := r.db.GetContext(ctx, &order, query, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find work order: %w", err)
	}
	return &order, nil
}

// Create inserts a new work order, claiming the next sequential code in the
// same statement. The primary key is the backstop for concurrent creators: a
// lost race surfaces as a unique violation and the caller retries.
func (r *WorkOrderRepository) Create(ctx context.Context, o *models.WorkOrder) error {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	// LPAD truncates once the value outgrows the target width, so the pad
	// width grows with the suffix: OT-999 is followed by OT-1000, not OT-100.
	const query = `INSERT INTO work_orders (code, equipment, type, priority, status, description, technician_id, created_by, progress, started_at, completed_at, created_at, updated_at)
SELECT $1 || LPAD(seq.next::text, GREATEST(3, LENGTH(seq.next::text)), '0'), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12
FROM (SELECT COALESCE(MAX(SUBSTRING(code FROM 4)::int), 0) + 1 AS next FROM work_orders WHERE code ~ '^OT-[0-9]+$') seq
RETURNING code`

	if err := r.db.GetContext(ctx, &o.Code, query,
		models.WorkOrderCodePrefix, o.Equipment, o.Type, o.Priority, o.Status, o.Description,
		o.TechnicianID, o.CreatedBy, o.Progress, o.StartedAt, o.CompletedAt, now,
	); err != nil {
		if IsUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "work order code already taken")
		}
		return fmt.Errorf("create work order: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a work order.
func (r *WorkOrderRepository) Update(ctx context.Context, o *models.WorkOrder) error {
	o.UpdatedAt = time.Now().UTC()
	const query = `UPDATE work_orders SET equipment = :equipment, type = :type, priority = :priority, status = :status, description = :description, technician_id = :technician_id, progress = :progress, started_at = :started_at, completed_at = :completed_at, updated_at = :updated_at WHERE code = :code`
	res, err := r.db.NamedExecContext(ctx, query, o)
	if err != nil {
		return fmt.Errorf("update work order: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateStatus persists a status transition with its timestamp side effects.
func (r *WorkOrderRepository) UpdateStatus(ctx context.Context, code string, status models.OrderStatus, startedAt, completedAt *time.Time) error {
	const query = `UPDATE work_orders SET status = $2, started_at = $3, completed_at = $4, updated_at = $5 WHERE code = $1`
	res, err := r.db.ExecContext(ctx, query, code, status, startedAt, completedAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update work order status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a work order permanently.
func (r *WorkOrderRepository) Delete(ctx context.Context, code string) error {
	const query = `DELETE FROM work_orders WHERE code = $1`
	res, err := r.db.ExecContext(ctx, query, code)
	if err != nil {
		return fmt.Errorf("delete work order: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Statistics aggregates order counts by status, type and priority.
func (r *WorkOrderRepository) Statistics(ctx context.Context) (*models.OrderStatistics, error) {
	stats := &models.OrderStatistics{
		ByStatus:    make(map[models.OrderStatus]int),
		ByType:      make(map[models.MaintenanceType]int),
		ByPriority:  make(map[models.Priority]int),
		GeneratedAt: time.Now().UTC(),
	}

	type bucket struct {
		Key   string `db:"key"`
		Count int    `db:"count"`
	}

	var byStatus []bucket
	if err := r.db.SelectContext(ctx, &byStatus, `SELECT status AS key, COUNT(*) AS count FROM work_orders GROUP BY status`); err != nil {
		return nil, fmt.Errorf("order stats by status: %w", err)
	}
	for _, b := range byStatus {
		stats.ByStatus[models.OrderStatus(b.Key)] = b.Count
		stats.Total += b.Count
	}

	var byType []bucket
	if err := r.db.SelectContext(ctx, &byType, `SELECT type AS key, COUNT(*) AS count FROM work_orders GROUP BY type`); err != nil {
		return nil, fmt.Errorf("order stats by type: %w", err)
	}
	for _, b := range byType {
		stats.ByType[models.MaintenanceType(b.Key)] = b.Count
	}

	var byPriority []bucket
	if err := r.db.SelectContext(ctx, &byPriority, `SELECT priority AS key, COUNT(*) AS count FROM work_orders GROUP BY priority`); err != nil {
		return nil, fmt.Errorf("order stats by priority: %w", err)
	}
	for _, b := range byPriority {
		stats.ByPriority[models.Priority(b.Key)] = b.Count
	}

	return stats, nil
}
