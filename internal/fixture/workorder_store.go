package fixture

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sgmi-dev/sgmi-api/internal/models"
)

// WorkOrderStore keeps demo work orders in memory.
type WorkOrderStore struct {
	mu     sync.RWMutex
	orders map[string]*models.WorkOrder
	users  *UserStore
}

// NewWorkOrderStore seeds the store with demo orders. The user store is used
// for the read-time technician/creator join.
func NewWorkOrderStore(users *UserStore) *WorkOrderStore {
	s := &WorkOrderStore{
		orders: make(map[string]*models.WorkOrder),
		users:  users,
	}
	for _, o := range demoOrders() {
		order := o
		s.orders[order.Code] = &order
	}
	return s
}

func (s *WorkOrderStore) enrich(o *models.WorkOrder) *models.WorkOrder {
	c := *o
	if s.users != nil {
		if c.TechnicianID != nil {
			if u, err := s.users.FindByID(context.Background(), *c.TechnicianID); err == nil {
				c.TechnicianName = &u.Name
				c.TechnicianEmail = &u.Email
			}
		}
		if u, err := s.users.FindByID(context.Background(), c.CreatedBy); err == nil {
			c.CreatorName = &u.Name
			c.CreatorEmail = &u.Email
		}
	}
	return &c
}

// List returns all work orders newest first.
func (s *WorkOrderStore) List(ctx context.Context) ([]models.WorkOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.WorkOrder, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, *s.enrich(o))
	}
	sortByCreatedDesc(out, func(o models.WorkOrder) time.Time { return o.CreatedAt })
	return out, nil
}

// ListByStatus returns orders in the given state, newest first.
func (s *WorkOrderStore) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.WorkOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.WorkOrder
	for _, o := range s.orders {
		if o.Status == status {
			out = append(out, *s.enrich(o))
		}
	}
	sortByCreatedDesc(out, func(o models.WorkOrder) time.Time { return o.CreatedAt })
	return out, nil
}

// FindByCode returns a single work order by its sequential code.
func (s *WorkOrderStore) FindByCode(ctx context.Context, code string) (*models.WorkOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if o, ok := s.orders[code]; ok {
		return s.enrich(o), nil
	}
	return nil, sql.ErrNoRows
}

// Create inserts a new work order with the next sequential code. The mutex
// makes code claiming race-free in this implementation.
func (s *WorkOrderStore) Create(ctx context.Context, o *models.WorkOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := 1
	for code := range s.orders {
		suffix := strings.TrimPrefix(code, models.WorkOrderCodePrefix)
		if suffix == code {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n >= next {
			next = n + 1
		}
	}
	o.Code = fmt.Sprintf("%s%03d", models.WorkOrderCodePrefix, next)

	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	order := *o
	s.orders[order.Code] = &order
	return nil
}

// Update replaces the mutable fields of a work order.
func (s *WorkOrderStore) Update(ctx context.Context, o *models.WorkOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.orders[o.Code]
	if !ok {
		return sql.ErrNoRows
	}
	o.CreatedAt = existing.CreatedAt
	o.UpdatedAt = time.Now().UTC()
	order := *o
	s.orders[order.Code] = &order
	return nil
}

// UpdateStatus persists a status transition with its timestamp side effects.
func (s *WorkOrderStore) UpdateStatus(ctx context.Context, code string, status models.OrderStatus, startedAt, completedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[code]
	if !ok {
		return sql.ErrNoRows
	}
	o.Status = status
	o.StartedAt = startedAt
	o.CompletedAt = completedAt
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete removes a work order permanently.
func (s *WorkOrderStore) Delete(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[code]; !ok {
		return sql.ErrNoRows
	}
	delete(s.orders, code)
	return nil
}

// Statistics aggregates order counts by status, type and priority.
func (s *WorkOrderStore) Statistics(ctx context.Context) (*models.OrderStatistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := &models.OrderStatistics{
		ByStatus:    make(map[models.OrderStatus]int),
		ByType:      make(map[models.MaintenanceType]int),
		ByPriority:  make(map[models.Priority]int),
		GeneratedAt: time.Now().UTC(),
	}
	for _, o := range s.orders {
		stats.Total++
		stats.ByStatus[o.Status]++
		stats.ByType[o.Type]++
		stats.ByPriority[o.Priority]++
	}
	return stats, nil
}
