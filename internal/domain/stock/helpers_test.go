package stock

import (
	"testing"
	"time"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	testTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	testBaseTime = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func newTestGood(t *testing.T, mode MatchingMode) *Good {
	t.Helper()
	g, err := NewGood(testTenantID, "G-"+uuid.NewString()[:8], "Test good", mode)
	require.NoError(t, err)
	return g
}

func newTestWarehouse(t *testing.T, warehouseType WarehouseType) *Warehouse {
	t.Helper()
	w, err := NewWarehouse(testTenantID, "W-"+uuid.NewString()[:8], "Main", warehouseType)
	require.NoError(t, err)
	return w
}

// confirmedInbound creates an inbound line confirmed offset after testBaseTime
func confirmedInbound(t *testing.T, good *Good, wh *Warehouse, qty, secondary, unitCost string, offset time.Duration) *MovementLine {
	t.Helper()
	line, err := NewMovementLine(testTenantID, uuid.New(), LineInput{
		GoodID:            good.ID,
		WarehouseID:       wh.ID,
		Direction:         DirectionIn,
		Quantity:          dec(qty),
		SecondaryQuantity: dec(secondary),
		UnitCost:          dec(unitCost),
	})
	require.NoError(t, err)
	require.NoError(t, line.Confirm(testBaseTime.Add(offset)))
	return line
}

func draftOutbound(t *testing.T, good *Good, wh *Warehouse, qty string) *MovementLine {
	t.Helper()
	line, err := NewMovementLine(testTenantID, uuid.New(), LineInput{
		GoodID:      good.ID,
		WarehouseID: wh.ID,
		Direction:   DirectionOut,
		Quantity:    dec(qty),
	})
	require.NoError(t, err)
	return line
}

// matchesOf dereferences planned matches for the tracker
func matchesOf(alloc *Allocation) []Match {
	out := make([]Match, 0, len(alloc.Matches))
	for _, m := range alloc.Matches {
		out = append(out, *m)
	}
	return out
}

func newTenantEntityForTest() shared.TenantEntity {
	return shared.NewTenantEntity(testTenantID)
}
