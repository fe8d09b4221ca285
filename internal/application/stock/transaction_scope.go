package stock

import (
	"context"

	"github.com/erp/warehouse/internal/domain/stock"
)

// TransactionScope provides transactional access to the stock repositories.
// Every repository operation inside Execute is committed or rolled back as one unit,
// which is what keeps matches and remaining quantities consistent.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the stock repositories bound to one transaction
type TransactionalRepositories interface {
	LineRepo() stock.MovementLineRepository
	MatchRepo() stock.MatchRepository
	GoodRepo() stock.GoodRepository
	WarehouseRepo() stock.WarehouseRepository
}

// Repositories holds the stock repositories used for reads outside a transaction
type Repositories struct {
	Lines      stock.MovementLineRepository
	Matches    stock.MatchRepository
	Goods      stock.GoodRepository
	Warehouses stock.WarehouseRepository
}
