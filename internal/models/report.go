package models

import "time"

// OrderStatistics aggregates work order counts for reporting.
type OrderStatistics struct {
	Total       int                     `json:"total"`
	ByStatus    map[OrderStatus]int     `json:"by_status"`
	ByType      map[MaintenanceType]int `json:"by_type"`
	ByPriority  map[Priority]int        `json:"by_priority"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// InventoryStatistics aggregates stock levels for reporting.
type InventoryStatistics struct {
	TotalItems    int       `json:"total_items"`
	TotalQuantity int       `json:"total_quantity"`
	BelowMinimum  int       `json:"below_minimum"`
	GeneratedAt   time.Time `json:"generated_at"`
}
