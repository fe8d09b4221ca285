package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/warehouse/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// setupTestDB opens a private in-memory sqlite database with the stock schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

// newMockDB creates a postgres-dialect GORM DB backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newGood(t *testing.T, mode stock.MatchingMode) *stock.Good {
	t.Helper()
	g, err := stock.NewGood(testTenantID, "G-"+uuid.NewString()[:8], "Good", mode)
	require.NoError(t, err)
	return g
}

func newWarehouse(t *testing.T) *stock.Warehouse {
	t.Helper()
	w, err := stock.NewWarehouse(testTenantID, "W-"+uuid.NewString()[:8], "Main", stock.WarehouseTypeStock)
	require.NoError(t, err)
	return w
}

func newLine(t *testing.T, good *stock.Good, wh *stock.Warehouse, dir stock.Direction, qty, unitCost, lot string) *stock.MovementLine {
	t.Helper()
	line, err := stock.NewMovementLine(testTenantID, uuid.New(), stock.LineInput{
		GoodID:      good.ID,
		WarehouseID: wh.ID,
		Direction:   dir,
		LotNumber:   lot,
		Quantity:    dec(qty),
		UnitCost:    dec(unitCost),
	})
	require.NoError(t, err)
	return line
}

var baseTime = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
