package stock

import (
	"testing"
	"time"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReversal(t *testing.T) {
	good := newTestGood(t, MatchingModeLot)
	wh := newTestWarehouse(t, WarehouseTypeStock)

	setup := func(t *testing.T) (*MovementLine, *MovementLine, *MovementLine, *Allocation) {
		a := confirmedInbound(t, good, wh, "100", "0", "5", 0)
		a.LotNumber = "L"
		a.ExpirationDate = timePtr(testBaseTime.AddDate(1, 0, 0))
		b := confirmedInbound(t, good, wh, "50", "0", "8", time.Hour)
		b.LotNumber = "L"
		out := draftOutbound(t, good, wh, "120")
		out.LotNumber = "L"

		allocator := NewAllocator()
		alloc, err := allocator.Plan(out, good, []*MovementLine{a, b})
		require.NoError(t, err)
		require.NoError(t, out.Confirm(testBaseTime.Add(2*time.Hour)))
		allocator.Apply(out, good, alloc)
		require.NoError(t, a.RecomputeRemaining(matchesOf(alloc)))
		require.NoError(t, b.RecomputeRemaining(matchesOf(alloc)))
		return a, b, out, alloc
	}

	t.Run("reverting a consumed inbound line fails with AlreadyMatched", func(t *testing.T) {
		a, _, _, _ := setup(t)
		before := *a

		err := a.CheckReversible()
		var matched *AlreadyMatchedError
		require.ErrorAs(t, err, &matched)
		assert.Equal(t, a.ID, matched.LineID)
		assert.ErrorIs(t, err, shared.ErrAlreadyMatched)
		assert.Contains(t, err.Error(), "100 of 100")

		assert.ErrorIs(t, a.ResetToDraft(nil), shared.ErrAlreadyMatched)
		assert.Equal(t, before.State, a.State)
		assert.True(t, before.RemainingQuantity.Equal(a.RemainingQuantity))
	})

	t.Run("reverting the outbound line restores inbound lines", func(t *testing.T) {
		a, b, out, alloc := setup(t)
		released := matchesOf(alloc)

		require.NoError(t, out.CheckReversible())
		require.NoError(t, out.ResetToDraft(released))
		assert.True(t, out.IsDraft())
		assert.Nil(t, out.ConfirmedAt)
		assert.True(t, out.Cost.IsZero())
		assert.True(t, out.UnitCost.IsZero())
		assert.Nil(t, out.ExpirationDate)

		// matches deleted: recompute against the empty set
		require.NoError(t, a.RecomputeRemaining(nil))
		require.NoError(t, b.RecomputeRemaining(nil))
		assert.True(t, dec("100").Equal(a.RemainingQuantity))
		assert.True(t, dec("50").Equal(b.RemainingQuantity))

		events := out.GetDomainEvents()
		last := events[len(events)-1]
		assert.Equal(t, EventTypeMovementLineReverted, last.EventType())
		reverted, ok := last.(*MovementLineRevertedEvent)
		require.True(t, ok)
		assert.Len(t, reverted.Released, 2)

		// inbound lines are reversible again once nothing consumes them
		require.NoError(t, a.ResetToDraft(nil))
		assert.True(t, a.IsDraft())
		assert.True(t, dec("500").Equal(a.Cost), "inbound keeps its own cost")
	})

	t.Run("an outbound line without matches keeps its entered cost", func(t *testing.T) {
		none := newTestGood(t, MatchingModeNone)
		out, err := NewMovementLine(testTenantID, uuid.New(), LineInput{
			GoodID: none.ID, WarehouseID: wh.ID, Direction: DirectionOut,
			Quantity: dec("10"), UnitCost: dec("7"),
			ExpirationDate: timePtr(testBaseTime.AddDate(0, 6, 0)),
		})
		require.NoError(t, err)
		require.NoError(t, out.Confirm(testBaseTime))

		require.NoError(t, out.ResetToDraft(nil))
		assert.True(t, out.IsDraft())
		assert.True(t, dec("70").Equal(out.Cost))
		assert.True(t, dec("7").Equal(out.UnitCost))
		assert.NotNil(t, out.ExpirationDate)
	})

	t.Run("draft lines cannot be reverted", func(t *testing.T) {
		out := draftOutbound(t, good, wh, "1")
		assert.ErrorIs(t, out.CheckReversible(), ErrLineNotConfirmed)
	})
}
