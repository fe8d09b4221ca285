package persistence

import (
	"context"

	appstock "github.com/erp/warehouse/internal/application/stock"
	"github.com/erp/warehouse/internal/domain/stock"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back; otherwise it is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories sharing one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) LineRepo() stock.MovementLineRepository {
	return NewGormMovementLineRepository(r.tx)
}

func (r *gormTransactionalRepositories) MatchRepo() stock.MatchRepository {
	return NewGormMatchRepository(r.tx)
}

func (r *gormTransactionalRepositories) GoodRepo() stock.GoodRepository {
	return NewGormGoodRepository(r.tx)
}

func (r *gormTransactionalRepositories) WarehouseRepo() stock.WarehouseRepository {
	return NewGormWarehouseRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appstock.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appstock.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
