package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sgmi-dev/sgmi-api/internal/models"
	appErrors "github.com/sgmi-dev/sgmi-api/pkg/errors"
)

type mockReportOrders struct {
	completed  []models.WorkOrder
	statsCalls int
}

func (m *mockReportOrders) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.WorkOrder, error) {
	return m.completed, nil
}

func (m *mockReportOrders) Statistics(ctx context.Context) (*models.OrderStatistics, error) {
	m.statsCalls++
	return &models.OrderStatistics{
		Total:    3,
		ByStatus: map[models.OrderStatus]int{models.OrderPending: 1, models.OrderCompleted: 2},
	}, nil
}

type mockReportInventory struct {
	items      []models.InventoryItem
	statsCalls int
}

func (m *mockReportInventory) List(ctx context.Context) ([]models.InventoryItem, error) {
	return m.items, nil
}

func (m *mockReportInventory) Statistics(ctx context.Context) (*models.InventoryStatistics, error) {
	m.statsCalls++
	return &models.InventoryStatistics{TotalItems: 4, TotalQuantity: 65, BelowMinimum: 1}, nil
}

type mapCache struct {
	values map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{values: make(map[string][]byte)}
}

func (c *mapCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}

func (c *mapCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.values, key)
	}
	return nil
}

func completedOrder(code string) models.WorkOrder {
	started := time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC)
	completed := time.Date(2025, 12, 2, 16, 30, 0, 0, time.UTC)
	tech := "Juan Pérez"
	return models.WorkOrder{
		Code:           code,
		Equipment:      "Compresor CMP-012",
		Type:           models.MaintenancePreventive,
		Priority:       models.PriorityMedium,
		Status:         models.OrderCompleted,
		StartedAt:      &started,
		CompletedAt:    &completed,
		TechnicianName: &tech,
	}
}

func TestReportOrderStatisticsUsesCache(t *testing.T) {
	orders := &mockReportOrders{}
	inventory := &mockReportInventory{}
	cache := newMapCache()
	svc := NewReportService(orders, inventory, cache, nil, zap.NewNop(), time.Minute)

	first, err := svc.OrderStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, first.Total)

	second, err := svc.OrderStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, 1, orders.statsCalls)
}

func TestReportStatisticsWithoutCache(t *testing.T) {
	orders := &mockReportOrders{}
	inventory := &mockReportInventory{}
	svc := NewReportService(orders, inventory, nil, nil, zap.NewNop(), time.Minute)

	_, err := svc.OrderStatistics(context.Background())
	require.NoError(t, err)
	_, err = svc.OrderStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, orders.statsCalls)
}

func TestReportInvalidateStatistics(t *testing.T) {
	orders := &mockReportOrders{}
	inventory := &mockReportInventory{}
	cache := newMapCache()
	svc := NewReportService(orders, inventory, cache, nil, zap.NewNop(), time.Minute)

	_, err := svc.InventoryStatistics(context.Background())
	require.NoError(t, err)
	svc.InvalidateStatistics(context.Background())

	_, err = svc.InventoryStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inventory.statsCalls)
}

func TestReportExportCompletedOrdersCSV(t *testing.T) {
	orders := &mockReportOrders{completed: []models.WorkOrder{completedOrder("OT-003")}}
	svc := NewReportService(orders, &mockReportInventory{}, nil, nil, zap.NewNop(), time.Minute)

	file, err := svc.ExportCompletedOrders(context.Background(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))

	body := string(file.Content)
	assert.Contains(t, body, "Codigo")
	assert.Contains(t, body, "OT-003")
	assert.Contains(t, body, "Juan Pérez")
}

func TestReportExportUnassignedTechnician(t *testing.T) {
	order := completedOrder("OT-004")
	order.TechnicianName = nil
	orders := &mockReportOrders{completed: []models.WorkOrder{order}}
	svc := NewReportService(orders, &mockReportInventory{}, nil, nil, zap.NewNop(), time.Minute)

	file, err := svc.ExportCompletedOrders(context.Background(), FormatCSV)
	require.NoError(t, err)
	assert.Contains(t, string(file.Content), "sin asignar")
}

func TestReportExportInventoryPDF(t *testing.T) {
	inventory := &mockReportInventory{items: []models.InventoryItem{
		{Code: "REP-HYD-001", Name: "Sello mecánico", Category: "Repuestos", Quantity: 15, MinQuantity: 5},
	}}
	svc := NewReportService(&mockReportOrders{}, inventory, nil, nil, zap.NewNop(), time.Minute)

	file, err := svc.ExportInventory(context.Background(), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".pdf"))
	assert.True(t, strings.HasPrefix(string(file.Content), "%PDF"))
}

func TestReportExportUnknownFormat(t *testing.T) {
	svc := NewReportService(&mockReportOrders{}, &mockReportInventory{}, nil, nil, zap.NewNop(), time.Minute)

	_, err := svc.ExportInventory(context.Background(), ExportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
