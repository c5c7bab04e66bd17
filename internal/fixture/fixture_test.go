package fixture

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sgmi-dev/sgmi-api/internal/models"
	"github.com/sgmi-dev/sgmi-api/internal/service"
	appErrors "github.com/sgmi-dev/sgmi-api/pkg/errors"
)

func demoAuthService(store *UserStore) *service.AuthService {
	return service.NewAuthService(store, nil, zap.NewNop(), service.AuthConfig{
		AccessTokenSecret:  "demo-access-secret",
		RefreshTokenSecret: "demo-refresh-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "sgmi-api",
		Demo:               true,
	})
}

func TestDemoLoginRoundTrip(t *testing.T) {
	store := NewUserStore()
	auth := demoAuthService(store)

	resp, err := auth.Login(context.Background(), models.LoginRequest{
		Email:    "admin@demo.com",
		Password: "admin123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, models.RoleViewer, resp.User.Role)

	claims, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, claims.UserID)
	require.True(t, claims.IsDemo)
}

func TestDemoClaimsCarryViewerMatrix(t *testing.T) {
	store := NewUserStore()
	auth := demoAuthService(store)

	resp, err := auth.Login(context.Background(), models.LoginRequest{
		Email:    "tecnico@demo.com",
		Password: "tecnico123",
	})
	require.NoError(t, err)

	claims, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	require.Equal(t, viewerMatrix(), claims.Permissions)
	require.True(t, claims.Permissions.Allows(models.ModuleOrders, models.ActionView))
	require.False(t, claims.Permissions.Allows(models.ModuleOrders, models.ActionCreate))
	require.False(t, claims.Permissions.Allows(models.ModuleUsers, models.ActionView))
}

func TestDemoLoginWrongPassword(t *testing.T) {
	store := NewUserStore()
	auth := demoAuthService(store)

	_, err := auth.Login(context.Background(), models.LoginRequest{
		Email:    "admin@demo.com",
		Password: "incorrecta",
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestWorkOrderStoreSequentialCodes(t *testing.T) {
	store := NewWorkOrderStore(NewUserStore())
	ctx := context.Background()

	first := &models.WorkOrder{
		Equipment: "Ventilador extractor",
		Type:      models.MaintenancePreventive,
		Priority:  models.PriorityLow,
		Status:    models.OrderPending,
		CreatedBy: "demo-visualizador-002",
	}
	require.NoError(t, store.Create(ctx, first))
	// Seed data already holds OT-001 through OT-003.
	require.Equal(t, "OT-004", first.Code)

	second := &models.WorkOrder{
		Equipment: "Banda transportadora",
		Type:      models.MaintenanceCorrective,
		Priority:  models.PriorityHigh,
		Status:    models.OrderPending,
		CreatedBy: "demo-visualizador-002",
	}
	require.NoError(t, store.Create(ctx, second))
	require.Equal(t, "OT-005", second.Code)
}

func TestWorkOrderStoreCodesGrowPastThreeDigits(t *testing.T) {
	store := NewWorkOrderStore(NewUserStore())
	ctx := context.Background()

	store.orders["OT-999"] = &models.WorkOrder{
		Code:      "OT-999",
		Equipment: "Caldera auxiliar",
		Type:      models.MaintenanceCorrective,
		Priority:  models.PriorityHigh,
		Status:    models.OrderPending,
		CreatedBy: "demo-admin-001",
	}

	order := &models.WorkOrder{
		Equipment: "Caldera principal",
		Type:      models.MaintenanceCorrective,
		Priority:  models.PriorityHigh,
		Status:    models.OrderPending,
		CreatedBy: "demo-admin-001",
	}
	require.NoError(t, store.Create(ctx, order))
	// The width grows with the suffix: never a truncated OT-000.
	require.Equal(t, "OT-1000", order.Code)
}

func TestWorkOrderStoreCodesSurviveDeletes(t *testing.T) {
	store := NewWorkOrderStore(NewUserStore())
	ctx := context.Background()

	require.NoError(t, store.Delete(ctx, "OT-001"))

	order := &models.WorkOrder{
		Equipment: "Grúa puente",
		Type:      models.MaintenanceImprovement,
		Priority:  models.PriorityMedium,
		Status:    models.OrderPending,
		CreatedBy: "demo-visualizador-002",
	}
	require.NoError(t, store.Create(ctx, order))
	require.Equal(t, "OT-004", order.Code)
}

func TestWorkOrderStoreJoinsTechnician(t *testing.T) {
	store := NewWorkOrderStore(NewUserStore())

	order, err := store.FindByCode(context.Background(), "OT-002")
	require.NoError(t, err)
	require.NotNil(t, order.TechnicianName)
	require.Equal(t, "Técnico Demo", *order.TechnicianName)
	require.NotNil(t, order.CreatorName)
	require.Equal(t, "Supervisor Demo", *order.CreatorName)
}

func TestInventoryStoreAdjustGuard(t *testing.T) {
	store := NewInventoryStore()
	ctx := context.Background()

	// inv-003 is seeded with quantity 2.
	_, err := store.AdjustQuantity(ctx, "inv-003", -5)
	require.ErrorIs(t, err, sql.ErrNoRows)

	item, err := store.AdjustQuantity(ctx, "inv-003", -2)
	require.NoError(t, err)
	require.Equal(t, 0, item.Quantity)

	item, err = store.AdjustQuantity(ctx, "inv-003", 10)
	require.NoError(t, err)
	require.Equal(t, 10, item.Quantity)
}

func TestInventoryStoreListBelowMinimum(t *testing.T) {
	store := NewInventoryStore()

	items, err := store.ListBelowMinimum(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "LUB-MOT-020", items[0].Code)
}
