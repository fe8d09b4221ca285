package persistence

import (
	"context"
	"testing"

	"github.com/erp/warehouse/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormMatchRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMatchRepository(db)
	ctx := context.Background()

	good := newGood(t, stock.MatchingModePlain)
	wh := newWarehouse(t)
	first := newLine(t, good, wh, stock.DirectionIn, "5", "1", "")
	require.NoError(t, first.Confirm(baseTime))
	second := newLine(t, good, wh, stock.DirectionIn, "5", "2", "")
	require.NoError(t, second.Confirm(baseTime))
	out := newLine(t, good, wh, stock.DirectionOut, "7", "0", "")

	m1, err := stock.NewMatch(first, out, dec("5"), dec("0"))
	require.NoError(t, err)
	m2, err := stock.NewMatch(second, out, dec("2"), dec("0"))
	require.NoError(t, err)
	require.NoError(t, repo.CreateBatch(ctx, []*stock.Match{m1, m2}))

	t.Run("empty batch is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.CreateBatch(ctx, nil))
	})

	t.Run("finds by either side", func(t *testing.T) {
		byOut, err := repo.FindByOutboundLine(ctx, testTenantID, out.ID)
		require.NoError(t, err)
		assert.Len(t, byOut, 2)

		byIn, err := repo.FindByInboundLine(ctx, testTenantID, second.ID)
		require.NoError(t, err)
		require.Len(t, byIn, 1)
		assert.True(t, dec("2").Equal(byIn[0].Quantity))
		assert.True(t, dec("2").Equal(byIn[0].UnitCost))

		byLine, err := repo.FindByLine(ctx, testTenantID, first.ID)
		require.NoError(t, err)
		assert.Len(t, byLine, 1)
	})

	t.Run("counts and deletes", func(t *testing.T) {
		count, err := repo.CountByLine(ctx, testTenantID, out.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		none, err := repo.CountByLine(ctx, uuid.New(), out.ID)
		require.NoError(t, err)
		assert.Zero(t, none)

		removed, err := repo.DeleteByLine(ctx, testTenantID, out.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)

		left, err := repo.FindByInboundLine(ctx, testTenantID, first.ID)
		require.NoError(t, err)
		assert.Empty(t, left)
	})
}
