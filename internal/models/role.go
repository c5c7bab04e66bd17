package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Module enumerates the permission-gated areas of the application.
type Module string

const (
	ModuleOrders    Module = "ordenes"
	ModuleUsers     Module = "usuarios"
	ModuleInventory Module = "inventario"
	ModuleReports   Module = "reportes"
)

// Action enumerates the operations a role may be granted on a module.
type Action string

const (
	ActionView     Action = "ver"
	ActionCreate   Action = "crear"
	ActionEdit     Action = "editar"
	ActionDelete   Action = "eliminar"
	ActionGenerate Action = "generar"
	ActionExport   Action = "exportar"
)

// PermissionMatrix maps module to action to allowed. Missing modules or
// actions deny; there is no allow-by-default path.
type PermissionMatrix map[Module]map[Action]bool

// Allows reports whether the matrix grants the given module/action pair.
func (m PermissionMatrix) Allows(module Module, action Action) bool {
	if m == nil {
		return false
	}
	actions, ok := m[module]
	if !ok {
		return false
	}
	return actions[action]
}

// Value serialises the matrix for storage in a JSONB column.
func (m PermissionMatrix) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan loads the matrix from a JSONB column.
func (m *PermissionMatrix) Scan(src interface{}) error {
	if src == nil {
		*m = PermissionMatrix{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported permission matrix source %T", src)
	}
	return json.Unmarshal(raw, m)
}

// Role is a named permission set referenced by users.
type Role struct {
	ID          int              `db:"id" json:"id"`
	Name        string           `db:"name" json:"name"`
	Description string           `db:"description" json:"description"`
	Permissions PermissionMatrix `db:"permissions" json:"permissions"`
}

// Seeded role names.
const (
	RoleAdministrator = "Administrador"
	RoleSupervisor    = "Supervisor"
	RoleTechnician    = "Técnico"
	RoleViewer        = "Visualizador"
)
