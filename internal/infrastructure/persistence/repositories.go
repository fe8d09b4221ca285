package persistence

import (
	appstock "github.com/erp/warehouse/internal/application/stock"
	"gorm.io/gorm"
)

// NewRepositories builds the non-transactional stock repositories over db
func NewRepositories(db *gorm.DB) appstock.Repositories {
	return appstock.Repositories{
		Lines:      NewGormMovementLineRepository(db),
		Matches:    NewGormMatchRepository(db),
		Goods:      NewGormGoodRepository(db),
		Warehouses: NewGormWarehouseRepository(db),
	}
}
