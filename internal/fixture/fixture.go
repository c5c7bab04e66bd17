// Package fixture provides in-memory stores backing demo mode. The stores
// satisfy the same interfaces the services consume, so demo deployments swap
// the persistence layer at startup instead of branching inside business
// logic.
package fixture

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sgmi-dev/sgmi-api/internal/models"
)

func viewerMatrix() models.PermissionMatrix {
	return models.PermissionMatrix{
		models.ModuleOrders:    {models.ActionView: true},
		models.ModuleUsers:     {},
		models.ModuleInventory: {models.ActionView: true},
		models.ModuleReports:   {models.ActionGenerate: true},
	}
}

func demoRoles() []models.Role {
	return []models.Role{
		{ID: 4, Name: models.RoleViewer, Description: "Solo lectura", Permissions: viewerMatrix()},
	}
}

func demoUsers() []models.User {
	now := time.Now().UTC()
	users := []models.User{
		{ID: "demo-visualizador-001", Name: "Visualizador Demo", Email: "admin@demo.com", Department: "Demo"},
		{ID: "demo-visualizador-002", Name: "Supervisor Demo", Email: "supervisor@demo.com", Department: "Demo"},
		{ID: "demo-visualizador-003", Name: "Técnico Demo", Email: "tecnico@demo.com", Department: "Demo"},
	}
	passwords := []string{"admin123", "super123", "tecnico123"}
	for i := range users {
		hash, _ := bcrypt.GenerateFromPassword([]byte(passwords[i]), bcrypt.DefaultCost)
		users[i].PasswordHash = string(hash)
		users[i].RoleID = 4
		users[i].Status = models.UserActive
		users[i].CreatedAt = now
		users[i].UpdatedAt = now
		users[i].RoleName = models.RoleViewer
		users[i].RolePermissions = viewerMatrix()
	}
	return users
}

func demoOrders() []models.WorkOrder {
	tech := "demo-visualizador-003"
	started := time.Date(2025, 12, 11, 8, 0, 0, 0, time.UTC)
	completed := time.Date(2025, 12, 8, 17, 0, 0, 0, time.UTC)
	return []models.WorkOrder{
		{
			Code:         "OT-001",
			Equipment:    "Bomba HYD-001",
			Type:         models.MaintenanceCorrective,
			Priority:     models.PriorityHigh,
			Status:       models.OrderPending,
			Description:  "La bomba principal presenta fugas y ruidos anormales",
			TechnicianID: &tech,
			CreatedBy:    "demo-visualizador-002",
			Progress:     0,
			CreatedAt:    time.Date(2025, 12, 10, 9, 0, 0, 0, time.UTC),
			UpdatedAt:    time.Date(2025, 12, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			Code:         "OT-002",
			Equipment:    "Motor MTR-045",
			Type:         models.MaintenancePreventive,
			Priority:     models.PriorityMedium,
			Status:       models.OrderInProgress,
			Description:  "Revisión trimestral según protocolo MP-003",
			TechnicianID: &tech,
			CreatedBy:    "demo-visualizador-002",
			Progress:     40,
			StartedAt:    &started,
			CreatedAt:    time.Date(2025, 12, 12, 9, 0, 0, 0, time.UTC),
			UpdatedAt:    time.Date(2025, 12, 13, 9, 0, 0, 0, time.UTC),
		},
		{
			Code:         "OT-003",
			Equipment:    "Compresor CMP-012",
			Type:         models.MaintenanceImprovement,
			Priority:     models.PriorityLow,
			Status:       models.OrderCompleted,
			Description:  "Instalación de sistema de lubricación automática",
			TechnicianID: &tech,
			CreatedBy:    "demo-visualizador-002",
			Progress:     100,
			StartedAt:    &started,
			CompletedAt:  &completed,
			CreatedAt:    time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC),
			UpdatedAt:    completed,
		},
	}
}

func demoInventory() []models.InventoryItem {
	now := time.Date(2025, 12, 13, 0, 0, 0, 0, time.UTC)
	return []models.InventoryItem{
		{ID: "inv-001", Code: "REP-HYD-001", Name: "Sello mecánico bomba hidráulica", Category: "Repuestos", Quantity: 15, MinQuantity: 5, Location: "Bodega A - Estante 12", Supplier: "Hidráulica Industrial Ltda", CreatedAt: now, UpdatedAt: now},
		{ID: "inv-002", Code: "HER-LLV-015", Name: "Llave dinamométrica 1/2\"", Category: "Herramientas", Quantity: 3, MinQuantity: 2, Location: "Taller - Gabinete 3", Supplier: "Herramientas Profesionales SAS", CreatedAt: now, UpdatedAt: now},
		{ID: "inv-003", Code: "LUB-MOT-020", Name: "Aceite motor SAE 15W-40", Category: "Lubricantes", Quantity: 2, MinQuantity: 10, Location: "Bodega B - Zona líquidos", Supplier: "Lubricantes Industriales SA", CreatedAt: now, UpdatedAt: now},
		{ID: "inv-004", Code: "REP-MTR-088", Name: "Rodamiento 6205", Category: "Repuestos", Quantity: 45, MinQuantity: 20, Location: "Bodega A - Estante 8", Supplier: "Rodamientos y Transmisiones", CreatedAt: now, UpdatedAt: now},
	}
}
