package stock

import (
	"strings"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/google/uuid"
)

// WarehouseType classifies a warehouse. Only physical stock warehouses hold matchable quantity;
// the others are virtual locations standing for partners, production and inventory counts.
type WarehouseType string

const (
	WarehouseTypeStock      WarehouseType = "stock"
	WarehouseTypeSupplier   WarehouseType = "supplier"
	WarehouseTypeCustomer   WarehouseType = "customer"
	WarehouseTypeProduction WarehouseType = "production"
	WarehouseTypeInventory  WarehouseType = "inventory"
)

// IsValid returns true if the warehouse type is known
func (t WarehouseType) IsValid() bool {
	switch t {
	case WarehouseTypeStock, WarehouseTypeSupplier, WarehouseTypeCustomer,
		WarehouseTypeProduction, WarehouseTypeInventory:
		return true
	default:
		return false
	}
}

// Warehouse is a location stock moves in and out of
type Warehouse struct {
	shared.TenantEntity
	Code string
	Name string
	Type WarehouseType
}

// NewWarehouse creates a new warehouse
func NewWarehouse(tenantID uuid.UUID, code, name string, warehouseType WarehouseType) (*Warehouse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Warehouse code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	if warehouseType == "" {
		warehouseType = WarehouseTypeStock
	}
	if !warehouseType.IsValid() {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE_TYPE", "Unknown warehouse type: "+string(warehouseType))
	}
	return &Warehouse{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Code:         code,
		Name:         name,
		Type:         warehouseType,
	}, nil
}

// HoldsStock returns true if quantity moved through the warehouse takes part in matching
func (w *Warehouse) HoldsStock() bool {
	return w.Type == WarehouseTypeStock
}

// RequiresMatching reports whether a line of the good in the warehouse runs the allocator
func RequiresMatching(good *Good, warehouse *Warehouse) bool {
	return good.UsesMatching() && warehouse.HoldsStock()
}
