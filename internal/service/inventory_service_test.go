package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sgmi-dev/sgmi-api/internal/models"
	appErrors "github.com/sgmi-dev/sgmi-api/pkg/errors"
)

type mockInventoryStore struct {
	items  map[string]*models.InventoryItem
	nextID int
}

func newMockInventoryStore() *mockInventoryStore {
	return &mockInventoryStore{items: make(map[string]*models.InventoryItem), nextID: 1}
}

func (m *mockInventoryStore) List(ctx context.Context) ([]models.InventoryItem, error) {
	out := make([]models.InventoryItem, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, *item)
	}
	return out, nil
}

func (m *mockInventoryStore) ListBelowMinimum(ctx context.Context) ([]models.InventoryItem, error) {
	var out []models.InventoryItem
	for _, item := range m.items {
		if item.Quantity < item.MinQuantity {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (m *mockInventoryStore) FindByID(ctx context.Context, id string) (*models.InventoryItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *item
	return &cp, nil
}

func (m *mockInventoryStore) Create(ctx context.Context, item *models.InventoryItem) error {
	for _, existing := range m.items {
		if existing.Code == item.Code {
			return appErrors.Clone(appErrors.ErrConflict, "item code already exists")
		}
	}
	item.ID = fmt.Sprintf("inv-%03d", m.nextID)
	m.nextID++
	item.CreatedAt = time.Now().UTC()
	item.UpdatedAt = item.CreatedAt
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockInventoryStore) Update(ctx context.Context, item *models.InventoryItem) error {
	if _, ok := m.items[item.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockInventoryStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func (m *mockInventoryStore) AdjustQuantity(ctx context.Context, id string, delta int) (*models.InventoryItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if item.Quantity+delta < 0 {
		return nil, sql.ErrNoRows
	}
	item.Quantity += delta
	item.UpdatedAt = time.Now().UTC()
	cp := *item
	return &cp, nil
}

func newInventoryService(store *mockInventoryStore) *InventoryService {
	return NewInventoryService(store, validator.New(), zap.NewNop())
}

func seedItem(t *testing.T, svc *InventoryService, quantity, minQuantity int) *models.InventoryItem {
	t.Helper()
	item, err := svc.Create(context.Background(), models.CreateInventoryItemRequest{
		Code:        fmt.Sprintf("REP-%d-%d", quantity, minQuantity),
		Name:        "Sello mecánico",
		Category:    "Repuestos",
		Quantity:    quantity,
		MinQuantity: minQuantity,
	})
	require.NoError(t, err)
	return item
}

func TestInventoryAdjustEntrada(t *testing.T) {
	store := newMockInventoryStore()
	svc := newInventoryService(store)
	item := seedItem(t, svc, 10, 5)

	updated, err := svc.AdjustQuantity(context.Background(), item.ID, models.AdjustQuantityRequest{
		Quantity:  5,
		Direction: models.AdjustmentIn,
	})
	require.NoError(t, err)
	assert.Equal(t, 15, updated.Quantity)
}

func TestInventoryAdjustSalida(t *testing.T) {
	store := newMockInventoryStore()
	svc := newInventoryService(store)
	item := seedItem(t, svc, 10, 5)

	updated, err := svc.AdjustQuantity(context.Background(), item.ID, models.AdjustQuantityRequest{
		Quantity:  4,
		Direction: models.AdjustmentOut,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Quantity)
}

func TestInventoryAdjustInsufficientStock(t *testing.T) {
	store := newMockInventoryStore()
	svc := newInventoryService(store)
	item := seedItem(t, svc, 3, 5)

	_, err := svc.AdjustQuantity(context.Background(), item.ID, models.AdjustQuantityRequest{
		Quantity:  4,
		Direction: models.AdjustmentOut,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInsufficientStock.Code, appErrors.FromError(err).Code)

	// Quantity must be untouched after a rejected withdrawal.
	current, err := svc.Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, current.Quantity)
}

func TestInventoryAdjustDrainToZero(t *testing.T) {
	store := newMockInventoryStore()
	svc := newInventoryService(store)
	item := seedItem(t, svc, 3, 5)

	updated, err := svc.AdjustQuantity(context.Background(), item.ID, models.AdjustQuantityRequest{
		Quantity:  3,
		Direction: models.AdjustmentOut,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity)
}

func TestInventoryAdjustUnknownItem(t *testing.T) {
	svc := newInventoryService(newMockInventoryStore())

	_, err := svc.AdjustQuantity(context.Background(), "inv-404", models.AdjustQuantityRequest{
		Quantity:  1,
		Direction: models.AdjustmentOut,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestInventoryAdjustRejectsBadDirection(t *testing.T) {
	store := newMockInventoryStore()
	svc := newInventoryService(store)
	item := seedItem(t, svc, 10, 5)

	_, err := svc.AdjustQuantity(context.Background(), item.ID, models.AdjustQuantityRequest{
		Quantity:  1,
		Direction: "transferencia",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestInventoryBelowMinimumFlag(t *testing.T) {
	store := newMockInventoryStore()
	svc := newInventoryService(store)
	low := seedItem(t, svc, 2, 10)
	ok := seedItem(t, svc, 45, 20)

	fetched, err := svc.Get(context.Background(), low.ID)
	require.NoError(t, err)
	assert.True(t, fetched.BelowMinimum)

	fetched, err = svc.Get(context.Background(), ok.ID)
	require.NoError(t, err)
	assert.False(t, fetched.BelowMinimum)

	lowStock, err := svc.ListBelowMinimum(context.Background())
	require.NoError(t, err)
	require.Len(t, lowStock, 1)
	assert.Equal(t, low.ID, lowStock[0].ID)
	assert.True(t, lowStock[0].BelowMinimum)
}

func TestInventoryCreateDuplicateCode(t *testing.T) {
	store := newMockInventoryStore()
	svc := newInventoryService(store)
	seedItem(t, svc, 10, 5)

	_, err := svc.Create(context.Background(), models.CreateInventoryItemRequest{
		Code:     "REP-10-5",
		Name:     "Otro repuesto",
		Quantity: 1,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestInventoryUpdateMetadata(t *testing.T) {
	store := newMockInventoryStore()
	svc := newInventoryService(store)
	item := seedItem(t, svc, 10, 5)

	location := "Bodega B - Estante 2"
	minQuantity := 12
	updated, err := svc.Update(context.Background(), item.ID, models.UpdateInventoryItemRequest{
		Location:    &location,
		MinQuantity: &minQuantity,
	})
	require.NoError(t, err)
	assert.Equal(t, location, updated.Location)
	assert.Equal(t, 12, updated.MinQuantity)
	assert.Equal(t, 10, updated.Quantity)
	assert.True(t, updated.BelowMinimum)
}

func TestInventoryDelete(t *testing.T) {
	store := newMockInventoryStore()
	svc := newInventoryService(store)
	item := seedItem(t, svc, 10, 5)

	require.NoError(t, svc.Delete(context.Background(), item.ID))

	err := svc.Delete(context.Background(), item.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestInventoryAdjustFiresInvalidation(t *testing.T) {
	store := newMockInventoryStore()
	svc := newInventoryService(store)
	item := seedItem(t, svc, 10, 5)

	calls := 0
	svc.OnWrite(func(context.Context) { calls++ })

	_, err := svc.AdjustQuantity(context.Background(), item.ID, models.AdjustQuantityRequest{
		Quantity:  3,
		Direction: models.AdjustmentOut,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = svc.Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "reads must not invalidate")
}
