package models

import "time"

// AdjustmentDirection distinguishes stock entries from withdrawals.
type AdjustmentDirection string

const (
	AdjustmentIn  AdjustmentDirection = "entrada"
	AdjustmentOut AdjustmentDirection = "salida"
)

// Valid reports whether the value is a known adjustment direction.
func (d AdjustmentDirection) Valid() bool {
	return d == AdjustmentIn || d == AdjustmentOut
}

// InventoryItem is a stocked part or consumable. Quantity never goes
// negative; BelowMinimum is derived on read and never stored.
type InventoryItem struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category"`
	Quantity    int       `db:"quantity" json:"quantity"`
	MinQuantity int       `db:"min_quantity" json:"min_quantity"`
	Location    string    `db:"location" json:"location"`
	Supplier    string    `db:"supplier" json:"supplier"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	BelowMinimum bool `db:"-" json:"below_minimum"`
}

// DeriveStockFlag recomputes the below-minimum flag from current quantities.
func (i *InventoryItem) DeriveStockFlag() {
	i.BelowMinimum = i.Quantity < i.MinQuantity
}

// CreateInventoryItemRequest registers a new stocked item.
type CreateInventoryItemRequest struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Category    string `json:"category"`
	Quantity    int    `json:"quantity" validate:"min=0"`
	MinQuantity int    `json:"min_quantity" validate:"min=0"`
	Location    string `json:"location"`
	Supplier    string `json:"supplier"`
}

// UpdateInventoryItemRequest edits item metadata. Quantity is not editable
// here; stock moves through the adjustment operation.
type UpdateInventoryItemRequest struct {
	Code        *string `json:"code"`
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	MinQuantity *int    `json:"min_quantity" validate:"omitempty,min=0"`
	Location    *string `json:"location"`
	Supplier    *string `json:"supplier"`
}

// AdjustQuantityRequest applies a stock movement to an item. The wire keys
// are Spanish, matching the client contract: cantidad is the absolute amount
// moved, tipo is entrada or salida.
type AdjustQuantityRequest struct {
	Quantity  int                 `json:"cantidad" validate:"required,min=1"`
	Direction AdjustmentDirection `json:"tipo" validate:"required"`
}
