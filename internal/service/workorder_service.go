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

// createRetries bounds how often a create is retried when two concurrent
// requests claim the same sequential code.
const createRetries = 3

type workOrderStore interface {
	List(ctx context.Context) ([]models.WorkOrder, error)
	ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.WorkOrder, error)
	FindByCode(ctx context.Context, code string) (*models.WorkOrder, error)
	Create(ctx context.Context, o *models.WorkOrder) error
	Update(ctx context.Context, o *models.WorkOrder) error
	UpdateStatus(ctx context.Context, code string, status models.OrderStatus, startedAt, completedAt *time.Time) error
	Delete(ctx context.Context, code string) error
}

// WorkOrderService owns the work order lifecycle.
type WorkOrderService struct {
	store      workOrderStore
	validator  *validator.Validate
	logger     *zap.Logger
	invalidate func(context.Context)
}

// NewWorkOrderService constructs a WorkOrderService instance.
func NewWorkOrderService(store workOrderStore, validate *validator.Validate, logger *zap.Logger) *WorkOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &WorkOrderService{store: store, validator: validate, logger: logger}
}

// OnWrite registers a callback run after every successful mutation, used to
// drop cached statistics.
func (s *WorkOrderService) OnWrite(fn func(context.Context)) {
	s.invalidate = fn
}

func (s *WorkOrderService) notifyWrite(ctx context.Context) {
	if s.invalidate != nil {
		s.invalidate(ctx)
	}
}

// List returns all work orders, newest first.
func (s *WorkOrderService) List(ctx context.Context) ([]models.WorkOrder, error) {
	orders, err := s.store.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list work orders")
	}
	return orders, nil
}

// Get returns a single work order by code.
func (s *WorkOrderService) Get(ctx context.Context, code string) (*models.WorkOrder, error) {
	order, err := s.store.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "work order not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch work order")
	}
	return order, nil
}

// Create opens a new work order. The sequential code is claimed by the store;
// when two requests race for the same code the losing insert is retried a
// bounded number of times. Orders created directly in EN_PROGRESO or
// COMPLETADA get their lifecycle timestamps set as if transitioned.
func (s *WorkOrderService) Create(ctx context.Context, req models.CreateWorkOrderRequest, createdBy string) (*models.WorkOrder, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid work order payload")
	}
	if !req.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid maintenance type")
	}
	if !req.Priority.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid priority")
	}

	status := req.Status
	if status == "" {
		status = models.OrderPending
	}
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid order status")
	}

	now := time.Now().UTC()
	order := &models.WorkOrder{
		Equipment:    req.Equipment,
		Type:         req.Type,
		Priority:     req.Priority,
		Status:       status,
		Description:  req.Description,
		TechnicianID: req.TechnicianID,
		CreatedBy:    createdBy,
		Progress:     req.Progress,
	}
	if status == models.OrderInProgress {
		order.StartedAt = &now
	}
	if status == models.OrderCompleted {
		order.StartedAt = &now
		order.CompletedAt = &now
	}

	var err error
	for attempt := 0; attempt < createRetries; attempt++ {
		err = s.store.Create(ctx, order)
		if err == nil {
			s.logger.Info("work order created",
				zap.String("code", order.Code),
				zap.String("status", string(order.Status)))
			s.notifyWrite(ctx)
			return s.Get(ctx, order.Code)
		}
		if !isConflict(err) {
			break
		}
	}
	if isConflict(err) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "could not allocate work order code")
	}
	return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create work order")
}

// Update edits work order fields. Status is untouched; transitions go
// through TransitionStatus.
func (s *WorkOrderService) Update(ctx context.Context, code string, req models.UpdateWorkOrderRequest) (*models.WorkOrder, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid work order payload")
	}

	order, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		if !req.Type.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid maintenance type")
		}
		order.Type = *req.Type
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid priority")
		}
		order.Priority = *req.Priority
	}
	if req.Equipment != nil {
		order.Equipment = *req.Equipment
	}
	if req.Description != nil {
		order.Description = *req.Description
	}
	if req.TechnicianID != nil {
		order.TechnicianID = req.TechnicianID
	}
	if req.Progress != nil {
		order.Progress = *req.Progress
	}
	order.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, order); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update work order")
	}
	s.notifyWrite(ctx)
	return s.Get(ctx, code)
}

// TransitionStatus moves a work order to a new state. Terminal states are
// final; attempting to leave one answers with a conflict. Entering
// EN_PROGRESO stamps started_at once; entering COMPLETADA overwrites
// completed_at.
func (s *WorkOrderService) TransitionStatus(ctx context.Context, code string, req models.TransitionStatusRequest) (*models.WorkOrder, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid order status")
	}

	order, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	if order.Status == req.Status {
		return order, nil
	}
	if order.Status.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrConflict, "work order is already closed")
	}

	now := time.Now().UTC()
	startedAt := order.StartedAt
	completedAt := order.CompletedAt
	if req.Status == models.OrderInProgress && startedAt == nil {
		startedAt = &now
	}
	if req.Status == models.OrderCompleted {
		if startedAt == nil {
			startedAt = &now
		}
		completedAt = &now
	}

	if err := s.store.UpdateStatus(ctx, code, req.Status, startedAt, completedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "work order not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update work order status")
	}

	s.logger.Info("work order status changed",
		zap.String("code", code),
		zap.String("from", string(order.Status)),
		zap.String("to", string(req.Status)))

	s.notifyWrite(ctx)
	return s.Get(ctx, code)
}

// Delete removes a work order.
func (s *WorkOrderService) Delete(ctx context.Context, code string) error {
	if err := s.store.Delete(ctx, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "work order not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete work order")
	}
	s.logger.Info("work order deleted", zap.String("code", code))
	s.notifyWrite(ctx)
	return nil
}
