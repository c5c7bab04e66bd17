package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sgmi-dev/sgmi-api/internal/models"
	appErrors "github.com/sgmi-dev/sgmi-api/pkg/errors"
)

type inventoryStore interface {
	List(ctx context.Context) ([]models.InventoryItem, error)
	ListBelowMinimum(ctx context.Context) ([]models.InventoryItem, error)
	FindByID(ctx context.Context, id string) (*models.InventoryItem, error)
	Create(ctx context.Context, item *models.InventoryItem) error
	Update(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, id string) error
	AdjustQuantity(ctx context.Context, id string, delta int) (*models.InventoryItem, error)
}

// InventoryService manages stocked items and their quantity movements.
type InventoryService struct {
	store      inventoryStore
	validator  *validator.Validate
	logger     *zap.Logger
	invalidate func(context.Context)
}

// NewInventoryService constructs an InventoryService instance.
func NewInventoryService(store inventoryStore, validate *validator.Validate, logger *zap.Logger) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &InventoryService{store: store, validator: validate, logger: logger}
}

// OnWrite registers a callback run after every successful mutation, used to
// drop cached statistics.
func (s *InventoryService) OnWrite(fn func(context.Context)) {
	s.invalidate = fn
}

func (s *InventoryService) notifyWrite(ctx context.Context) {
	if s.invalidate != nil {
		s.invalidate(ctx)
	}
}

// List returns all items ordered by name, with the stock flag derived.
func (s *InventoryService) List(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list inventory")
	}
	for i := range items {
		items[i].DeriveStockFlag()
	}
	return items, nil
}

// ListBelowMinimum returns items whose quantity sits under their threshold,
// lowest stock first.
func (s *InventoryService) ListBelowMinimum(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.store.ListBelowMinimum(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list low stock items")
	}
	for i := range items {
		items[i].DeriveStockFlag()
	}
	return items, nil
}

// Get returns a single item by id.
func (s *InventoryService) Get(ctx context.Context, id string) (*models.InventoryItem, error) {
	item, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "inventory item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch inventory item")
	}
	item.DeriveStockFlag()
	return item, nil
}

// Create registers a new item. Duplicate item codes answer with a conflict.
func (s *InventoryService) Create(ctx context.Context, req models.CreateInventoryItemRequest) (*models.InventoryItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid inventory payload")
	}

	item := &models.InventoryItem{
		Code:        req.Code,
		Name:        req.Name,
		Category:    req.Category,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		Location:    req.Location,
		Supplier:    req.Supplier,
	}

	if err := s.store.Create(ctx, item); err != nil {
		if isConflict(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "item code already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create inventory item")
	}

	s.logger.Info("inventory item created", zap.String("item_id", item.ID), zap.String("code", item.Code))
	s.notifyWrite(ctx)
	item.DeriveStockFlag()
	return item, nil
}

// Update edits item metadata. Quantity moves only through AdjustQuantity.
func (s *InventoryService) Update(ctx context.Context, id string, req models.UpdateInventoryItemRequest) (*models.InventoryItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid inventory payload")
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		item.Code = *req.Code
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.MinQuantity != nil {
		item.MinQuantity = *req.MinQuantity
	}
	if req.Location != nil {
		item.Location = *req.Location
	}
	if req.Supplier != nil {
		item.Supplier = *req.Supplier
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, item); err != nil {
		if isConflict(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "item code already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update inventory item")
	}

	s.notifyWrite(ctx)
	item.DeriveStockFlag()
	return item, nil
}

// Delete removes an item.
func (s *InventoryService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "inventory item not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete inventory item")
	}
	s.logger.Info("inventory item deleted", zap.String("item_id", id))
	s.notifyWrite(ctx)
	return nil
}

// AdjustQuantity applies a stock movement. The store rejects the movement
// when it would drive the quantity negative; an existing item then answers
// with INSUFFICIENT_STOCK, a missing one with NOT_FOUND.
func (s *InventoryService) AdjustQuantity(ctx context.Context, id string, req models.AdjustQuantityRequest) (*models.InventoryItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid adjustment payload")
	}
	if !req.Direction.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid adjustment direction")
	}

	delta := req.Quantity
	if req.Direction == models.AdjustmentOut {
		delta = -delta
	}

	item, err := s.store.AdjustQuantity(ctx, id, delta)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, findErr := s.store.FindByID(ctx, id); findErr != nil {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "inventory item not found")
			}
			return nil, appErrors.Clone(appErrors.ErrInsufficientStock, "adjustment would drive stock below zero")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to adjust stock")
	}

	s.logger.Info("inventory adjusted",
		zap.String("item_id", id),
		zap.String("direction", string(req.Direction)),
		zap.Int("quantity", req.Quantity))

	s.notifyWrite(ctx)
	item.DeriveStockFlag()
	return item, nil
}
