package stock

import (
	"context"
	"testing"

	"github.com/erp/warehouse/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuditEventHandler(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := NewAuditEventHandler(zap.New(core))

	assert.ElementsMatch(t, []string{
		stock.EventTypeMovementLineConfirmed,
		stock.EventTypeStockMatched,
		stock.EventTypeMovementLineReverted,
	}, h.EventTypes())

	line, err := stock.NewMovementLine(uuid.New(), uuid.New(), stock.LineInput{
		GoodID:      uuid.New(),
		WarehouseID: uuid.New(),
		Direction:   stock.DirectionOut,
		Quantity:    decimal.NewFromInt(3),
	})
	require.NoError(t, err)

	require.NoError(t, h.Handle(context.Background(), stock.NewMovementLineConfirmedEvent(line)))
	require.NoError(t, h.Handle(context.Background(), stock.NewMovementLineRevertedEvent(line, nil)))

	entries := logs.FilterMessage("stock event").All()
	require.Len(t, entries, 2)
	first := entries[0].ContextMap()
	assert.Equal(t, stock.EventTypeMovementLineConfirmed, first["event_type"])
	assert.Equal(t, "3", first["quantity"])
	assert.Equal(t, line.ID.String(), first["line_id"])
	assert.Equal(t, int64(0), entries[1].ContextMap()["released"])
}
