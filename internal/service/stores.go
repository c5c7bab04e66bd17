package service

import (
	"context"
	"time"

	"github.com/sgmi-dev/sgmi-api/internal/models"
)

// The union interfaces below are what a backing store must implement in
// full. Both the sqlx repositories and the in-memory fixture stores satisfy
// them; each service consumes only the narrow slice it needs.

// UserStore is the full user persistence surface.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	UpdateSession(ctx context.Context, id, refreshToken string, lastAccess time.Time) error
	ClearRefreshToken(ctx context.Context, id string) error
	EmailExists(ctx context.Context, email, excludeID string) (bool, error)
}

// RoleStore is the role persistence surface.
type RoleStore interface {
	List(ctx context.Context) ([]models.Role, error)
	FindByID(ctx context.Context, id int) (*models.Role, error)
}

// WorkOrderStore is the full work order persistence surface.
type WorkOrderStore interface {
	List(ctx context.Context) ([]models.WorkOrder, error)
	ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.WorkOrder, error)
	FindByCode(ctx context.Context, code string) (*models.WorkOrder, error)
	Create(ctx context.Context, o *models.WorkOrder) error
	Update(ctx context.Context, o *models.WorkOrder) error
	UpdateStatus(ctx context.Context, code string, status models.OrderStatus, startedAt, completedAt *time.Time) error
	Delete(ctx context.Context, code string) error
	Statistics(ctx context.Context) (*models.OrderStatistics, error)
}

// InventoryStore is the full inventory persistence surface.
type InventoryStore interface {
	List(ctx context.Context) ([]models.InventoryItem, error)
	ListBelowMinimum(ctx context.Context) ([]models.InventoryItem, error)
	FindByID(ctx context.Context, id string) (*models.InventoryItem, error)
	Create(ctx context.Context, item *models.InventoryItem) error
	Update(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, id string) error
	AdjustQuantity(ctx context.Context, id string, delta int) (*models.InventoryItem, error)
	Statistics(ctx context.Context) (*models.InventoryStatistics, error)
}
