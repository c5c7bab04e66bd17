package fixture

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sgmi-dev/sgmi-api/internal/models"
	appErrors "github.com/sgmi-dev/sgmi-api/pkg/errors"
)

// InventoryStore keeps demo inventory items in memory.
type InventoryStore struct {
	mu    sync.RWMutex
	items map[string]*models.InventoryItem
}

// NewInventoryStore seeds the store with demo items.
func NewInventoryStore() *InventoryStore {
	s := &InventoryStore{items: make(map[string]*models.InventoryItem)}
	for _, i := range demoInventory() {
		item := i
		s.items[item.ID] = &item
	}
	return s
}

func cloneItem(i *models.InventoryItem) *models.InventoryItem {
	c := *i
	return &c
}

// List returns all items ordered by name.
func (s *InventoryStore) List(ctx context.Context) ([]models.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.InventoryItem, 0, len(s.items))
	for _, i := range s.items {
		out = append(out, *cloneItem(i))
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out, nil
}

// ListBelowMinimum returns items under their threshold, lowest quantity first.
func (s *InventoryStore) ListBelowMinimum(ctx context.Context) ([]models.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.InventoryItem
	for _, i := range s.items {
		if i.Quantity < i.MinQuantity {
			out = append(out, *cloneItem(i))
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Quantity < out[b].Quantity })
	return out, nil
}

// FindByID returns an item by identifier.
func (s *InventoryStore) FindByID(ctx context.Context, id string) (*models.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i, ok := s.items[id]; ok {
		return cloneItem(i), nil
	}
	return nil, sql.ErrNoRows
}

// Create inserts a new item, enforcing code uniqueness.
func (s *InventoryStore) Create(ctx context.Context, item *models.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, i := range s.items {
		if i.Code == item.Code {
			return appErrors.Clone(appErrors.ErrConflict, "item code already exists")
		}
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	s.items[item.ID] = cloneItem(item)
	return nil
}

// Update replaces the mutable fields of an item.
func (s *InventoryStore) Update(ctx context.Context, item *models.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.items[item.ID]
	if !ok {
		return sql.ErrNoRows
	}
	for id, i := range s.items {
		if id != item.ID && i.Code == item.Code {
			return appErrors.Clone(appErrors.ErrConflict, "item code already exists")
		}
	}
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now().UTC()
	s.items[item.ID] = cloneItem(item)
	return nil
}

// Delete removes an item permanently.
func (s *InventoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.items, id)
	return nil
}

// AdjustQuantity applies a signed delta, refusing writes that would take the
// quantity negative.
func (s *InventoryStore) AdjustQuantity(ctx context.Context, id string, delta int) (*models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if item.Quantity+delta < 0 {
		return nil, sql.ErrNoRows
	}
	item.Quantity += delta
	item.UpdatedAt = time.Now().UTC()
	return cloneItem(item), nil
}

// Statistics aggregates stock totals for reporting.
func (s *InventoryStore) Statistics(ctx context.Context) (*models.InventoryStatistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := &models.InventoryStatistics{GeneratedAt: time.Now().UTC()}
	for _, i := range s.items {
		stats.TotalItems++
		stats.TotalQuantity += i.Quantity
		if i.Quantity < i.MinQuantity {
			stats.BelowMinimum++
		}
	}
	return stats, nil
}
