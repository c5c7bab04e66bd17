package models

import "time"

// MaintenanceType classifies the nature of a work order.
type MaintenanceType string

const (
	MaintenancePreventive  MaintenanceType = "PREVENTIVO"
	MaintenanceCorrective  MaintenanceType = "CORRECTIVO"
	MaintenancePredictive  MaintenanceType = "PREDICTIVO"
	MaintenanceImprovement MaintenanceType = "MEJORA"
)

// Valid reports whether the value is a known maintenance type.
func (t MaintenanceType) Valid() bool {
	switch t {
	case MaintenancePreventive, MaintenanceCorrective, MaintenancePredictive, MaintenanceImprovement:
		return true
	}
	return false
}

// Priority ranks a work order's urgency.
type Priority string

const (
	PriorityLow      Priority = "BAJA"
	PriorityMedium   Priority = "MEDIA"
	PriorityHigh     Priority = "ALTA"
	PriorityCritical Priority = "CRITICA"
)

// Valid reports whether the value is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// OrderStatus is the lifecycle state of a work order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDIENTE"
	OrderInProgress OrderStatus = "EN_PROGRESO"
	OrderCompleted  OrderStatus = "COMPLETADA"
	OrderCancelled  OrderStatus = "CANCELADA"
)

// Valid reports whether the value is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderInProgress, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// WorkOrderCodePrefix prefixes every sequential work order code (OT-001...).
const WorkOrderCodePrefix = "OT-"

// CreateWorkOrderRequest opens a new work order. Status defaults to
// PENDIENTE when omitted.
type CreateWorkOrderRequest struct {
	Equipment    string          `json:"equipment" validate:"required"`
	Type         MaintenanceType `json:"type" validate:"required"`
	Priority     Priority        `json:"priority" validate:"required"`
	Status       OrderStatus     `json:"status"`
	Description  string          `json:"description"`
	TechnicianID *string         `json:"technician_id"`
	Progress     int             `json:"progress" validate:"min=0,max=100"`
}

// UpdateWorkOrderRequest edits work order fields. Nil fields are left
// untouched. Status is not editable here; transitions go through the
// dedicated status operation.
type UpdateWorkOrderRequest struct {
	Equipment    *string          `json:"equipment"`
	Type         *MaintenanceType `json:"type"`
	Priority     *Priority        `json:"priority"`
	Description  *string          `json:"description"`
	TechnicianID *string          `json:"technician_id"`
	Progress     *int             `json:"progress" validate:"omitempty,min=0,max=100"`
}

// TransitionStatusRequest moves a work order to a new lifecycle state.
type TransitionStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required"`
}

// WorkOrder is a unit of maintenance work identified by a human-readable
// sequential code. StartedAt is set the first time the order enters
// EN_PROGRESO and never cleared; CompletedAt is set whenever the order is
// completed.
type WorkOrder struct {
	Code         string          `db:"code" json:"id"`
	Equipment    string          `db:"equipment" json:"equipment"`
	Type         MaintenanceType `db:"type" json:"type"`
	Priority     Priority        `db:"priority" json:"priority"`
	Status       OrderStatus     `db:"status" json:"status"`
	Description  string          `db:"description" json:"description"`
	TechnicianID *string         `db:"technician_id" json:"technician_id,omitempty"`
	CreatedBy    string          `db:"created_by" json:"created_by"`
	Progress     int             `db:"progress" json:"progress"`
	StartedAt    *time.Time      `db:"started_at" json:"started_at,omitempty"`
	CompletedAt  *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`

	// Read-time join fields; never persisted.
	TechnicianName  *string `db:"technician_name" json:"technician_name,omitempty"`
	TechnicianEmail *string `db:"technician_email" json:"technician_email,omitempty"`
	CreatorName     *string `db:"creator_name" json:"creator_name,omitempty"`
	CreatorEmail    *string `db:"creator_email" json:"creator_email,omitempty"`
}
