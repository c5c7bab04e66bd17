package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sgmi-dev/sgmi-api/internal/models"
	appErrors "github.com/sgmi-dev/sgmi-api/pkg/errors"
	"github.com/sgmi-dev/sgmi-api/pkg/export"
)

// Cache keys for report payloads.
const (
	cacheKeyOrderStats     = "reports:orders:stats"
	cacheKeyInventoryStats = "reports:inventory:stats"
)

// ExportFormat selects the rendering of a report download.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

type orderReporter interface {
	ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.WorkOrder, error)
	Statistics(ctx context.Context) (*models.OrderStatistics, error)
}

type inventoryReporter interface {
	List(ctx context.Context) ([]models.InventoryItem, error)
	Statistics(ctx context.Context) (*models.InventoryStatistics, error)
}

// ReportCache caches rendered statistics payloads.
type ReportCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ExportFile is a rendered report ready for download.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ReportService aggregates statistics and renders report downloads.
// Statistics go through the cache with a short TTL; exports are always
// rendered fresh.
type ReportService struct {
	orders    orderReporter
	inventory inventoryReporter
	cache     ReportCache
	metrics   *MetricsService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
	ttl       time.Duration
}

// NewReportService constructs a ReportService instance. cache and metrics may
// be nil; caching then degrades to pass-through.
func NewReportService(orders orderReporter, inventory inventoryReporter, cache ReportCache, metrics *MetricsService, logger *zap.Logger, ttl time.Duration) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		orders:    orders,
		inventory: inventory,
		cache:     cache,
		metrics:   metrics,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
		ttl:       ttl,
	}
}

// OrderStatistics returns aggregated work order counts.
func (s *ReportService) OrderStatistics(ctx context.Context) (*models.OrderStatistics, error) {
	var cached models.OrderStatistics
	if s.lookupCache(ctx, cacheKeyOrderStats, &cached) {
		return &cached, nil
	}

	stats, err := s.orders.Statistics(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate order statistics")
	}
	stats.GeneratedAt = time.Now().UTC()

	s.storeCache(ctx, cacheKeyOrderStats, stats)
	return stats, nil
}

// InventoryStatistics returns aggregated stock counts.
func (s *ReportService) InventoryStatistics(ctx context.Context) (*models.InventoryStatistics, error) {
	var cached models.InventoryStatistics
	if s.lookupCache(ctx, cacheKeyInventoryStats, &cached) {
		return &cached, nil
	}

	stats, err := s.inventory.Statistics(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate inventory statistics")
	}
	stats.GeneratedAt = time.Now().UTC()

	s.storeCache(ctx, cacheKeyInventoryStats, stats)
	return stats, nil
}

// InvalidateStatistics drops cached statistics after a write.
func (s *ReportService) InvalidateStatistics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKeyOrderStats, cacheKeyInventoryStats); err != nil {
		s.logger.Warn("failed to invalidate report cache", zap.Error(err))
	}
}

// ExportCompletedOrders renders all completed work orders in the requested
// format.
func (s *ReportService) ExportCompletedOrders(ctx context.Context, format ExportFormat) (*ExportFile, error) {
	orders, err := s.orders.ListByStatus(ctx, models.OrderCompleted)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list completed orders")
	}

	dataset := export.Dataset{
		Headers: []string{"Codigo", "Equipo", "Tipo", "Prioridad", "Tecnico", "Inicio", "Fin"},
	}
	for _, o := range orders {
		row := map[string]string{
			"Codigo":    o.Code,
			"Equipo":    o.Equipment,
			"Tipo":      string(o.Type),
			"Prioridad": string(o.Priority),
			"Tecnico":   derefOr(o.TechnicianName, "sin asignar"),
			"Inicio":    formatTimestamp(o.StartedAt),
			"Fin":       formatTimestamp(o.CompletedAt),
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	return s.render(dataset, format, "ordenes-completadas", "Ordenes Completadas")
}

// ExportInventory renders the full inventory in the requested format.
func (s *ReportService) ExportInventory(ctx context.Context, format ExportFormat) (*ExportFile, error) {
	items, err := s.inventory.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list inventory")
	}

	dataset := export.Dataset{
		Headers: []string{"Codigo", "Nombre", "Categoria", "Cantidad", "Minimo", "Ubicacion", "Proveedor"},
	}
	for i := range items {
		items[i].DeriveStockFlag()
		row := map[string]string{
			"Codigo":    items[i].Code,
			"Nombre":    items[i].Name,
			"Categoria": items[i].Category,
			"Cantidad":  strconv.Itoa(items[i].Quantity),
			"Minimo":    strconv.Itoa(items[i].MinQuantity),
			"Ubicacion": items[i].Location,
			"Proveedor": items[i].Supplier,
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	return s.render(dataset, format, "inventario", "Inventario")
}

func (s *ReportService) render(dataset export.Dataset, format ExportFormat, basename, title string) (*ExportFile, error) {
	stamp := time.Now().UTC().Format("20060102")
	switch format {
	case FormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{
			Content:     content,
			ContentType: s.csv.ContentType(),
			Filename:    fmt.Sprintf("%s-%s.csv", basename, stamp),
		}, nil
	case FormatPDF:
		content, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{
			Content:     content,
			ContentType: s.pdf.ContentType(),
			Filename:    fmt.Sprintf("%s-%s.pdf", basename, stamp),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func (s *ReportService) lookupCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	err := s.cache.Get(ctx, key, dest)
	if err == nil {
		s.metrics.RecordCacheOperation(true)
		return true
	}
	s.metrics.RecordCacheOperation(false)
	if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("report cache lookup failed", zap.String("key", key), zap.Error(err))
	}
	return false
}

func (s *ReportService) storeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("report cache store failed", zap.String("key", key), zap.Error(err))
	}
}

func derefOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
