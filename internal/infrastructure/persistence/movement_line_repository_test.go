package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/erp/warehouse/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormMovementLineRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMovementLineRepository(db)
	ctx := context.Background()

	good := newGood(t, stock.MatchingModePlain)
	wh := newWarehouse(t)
	line := newLine(t, good, wh, stock.DirectionIn, "10", "2.5", "")
	require.NoError(t, repo.Create(ctx, line))

	t.Run("finds by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, testTenantID, line.ID)
		require.NoError(t, err)
		assert.Equal(t, line.ID, found.ID)
		assert.Equal(t, stock.DirectionIn, found.Direction)
		assert.Equal(t, stock.LineStateDraft, found.State)
		assert.True(t, dec("10").Equal(found.RemainingQuantity))
		assert.True(t, dec("25").Equal(found.Cost))
		assert.Equal(t, 1, found.Version)
	})

	t.Run("is tenant scoped", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New(), line.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("finds by move", func(t *testing.T) {
		lines, err := repo.FindByMove(ctx, testTenantID, line.MoveID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, line.ID, lines[0].ID)
	})

	t.Run("for update falls back to a plain read on sqlite", func(t *testing.T) {
		found, err := repo.FindByIDForUpdate(ctx, testTenantID, line.ID)
		require.NoError(t, err)
		assert.Equal(t, line.ID, found.ID)
	})
}

func TestGormMovementLineRepository_Save(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMovementLineRepository(db)
	ctx := context.Background()

	good := newGood(t, stock.MatchingModePlain)
	wh := newWarehouse(t)
	line := newLine(t, good, wh, stock.DirectionIn, "10", "1", "")
	require.NoError(t, repo.Create(ctx, line))

	t.Run("saves and advances the version", func(t *testing.T) {
		require.NoError(t, line.Confirm(baseTime))
		require.NoError(t, repo.Save(ctx, line))
		assert.Equal(t, 2, line.Version)

		found, err := repo.FindByID(ctx, testTenantID, line.ID)
		require.NoError(t, err)
		assert.Equal(t, stock.LineStateDone, found.State)
		assert.Equal(t, 2, found.Version)
		require.NotNil(t, found.ConfirmedAt)
		assert.True(t, baseTime.Equal(*found.ConfirmedAt))
	})

	t.Run("rejects a stale version", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, testTenantID, line.ID)
		require.NoError(t, err)
		stale.Version = 1

		err = repo.Save(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestGormMovementLineRepository_FindCandidates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMovementLineRepository(db)
	ctx := context.Background()

	good := newGood(t, stock.MatchingModeLot)
	wh := newWarehouse(t)
	other := newWarehouse(t)

	late := newLine(t, good, wh, stock.DirectionIn, "5", "2", "LOT-A")
	require.NoError(t, late.Confirm(baseTime.Add(2*time.Hour)))
	early := newLine(t, good, wh, stock.DirectionIn, "5", "1", "LOT-A")
	require.NoError(t, early.Confirm(baseTime))
	lotB := newLine(t, good, wh, stock.DirectionIn, "5", "1", "LOT-B")
	require.NoError(t, lotB.Confirm(baseTime.Add(time.Hour)))
	elsewhere := newLine(t, good, other, stock.DirectionIn, "5", "1", "LOT-A")
	require.NoError(t, elsewhere.Confirm(baseTime))
	draft := newLine(t, good, wh, stock.DirectionIn, "5", "1", "LOT-A")
	exhausted := newLine(t, good, wh, stock.DirectionIn, "5", "1", "LOT-A")
	require.NoError(t, exhausted.Confirm(baseTime))
	exhausted.RemainingQuantity = dec("0")

	for _, l := range []*stock.MovementLine{late, early, lotB, elsewhere, draft, exhausted} {
		require.NoError(t, repo.Create(ctx, l))
	}

	t.Run("orders by confirmation and skips ineligible lines", func(t *testing.T) {
		found, err := repo.FindCandidates(ctx, stock.CandidateQuery{
			TenantID:    testTenantID,
			GoodID:      good.ID,
			WarehouseID: wh.ID,
		})
		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, early.ID, found[0].ID)
		assert.Equal(t, lotB.ID, found[1].ID)
		assert.Equal(t, late.ID, found[2].ID)
	})

	t.Run("restricts to a lot", func(t *testing.T) {
		lot := "LOT-A"
		found, err := repo.FindCandidatesForUpdate(ctx, stock.CandidateQuery{
			TenantID:    testTenantID,
			GoodID:      good.ID,
			WarehouseID: wh.ID,
			LotNumber:   &lot,
		})
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, early.ID, found[0].ID)
		assert.Equal(t, late.ID, found[1].ID)
	})
}

func TestGormMovementLineRepository_FindByIDsForUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMovementLineRepository(db)
	ctx := context.Background()

	good := newGood(t, stock.MatchingModePlain)
	wh := newWarehouse(t)
	late := newLine(t, good, wh, stock.DirectionIn, "5", "1", "")
	require.NoError(t, late.Confirm(baseTime.Add(time.Hour)))
	early := newLine(t, good, wh, stock.DirectionIn, "5", "1", "")
	require.NoError(t, early.Confirm(baseTime))
	for _, l := range []*stock.MovementLine{late, early} {
		require.NoError(t, repo.Create(ctx, l))
	}

	t.Run("returns lines in confirmation order", func(t *testing.T) {
		found, err := repo.FindByIDsForUpdate(ctx, testTenantID, []uuid.UUID{late.ID, early.ID})
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, early.ID, found[0].ID)
		assert.Equal(t, late.ID, found[1].ID)
	})

	t.Run("missing line is not found", func(t *testing.T) {
		_, err := repo.FindByIDsForUpdate(ctx, testTenantID, []uuid.UUID{early.ID, uuid.New()})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("no ids", func(t *testing.T) {
		found, err := repo.FindByIDsForUpdate(ctx, testTenantID, nil)
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestGormMovementLineRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMovementLineRepository(db)
	ctx := context.Background()

	line := newLine(t, newGood(t, stock.MatchingModePlain), newWarehouse(t), stock.DirectionOut, "1", "0", "")
	require.NoError(t, repo.Create(ctx, line))

	require.NoError(t, repo.Delete(ctx, testTenantID, line.ID))
	assert.ErrorIs(t, repo.Delete(ctx, testTenantID, line.ID), shared.ErrNotFound)
}

func TestGormMovementLineRepository_LocksCandidatesOnPostgres(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormMovementLineRepository(gormDB)

	goodID, warehouseID := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "movement_lines" WHERE .*remaining_quantity > 0\)? ORDER BY confirmed_at ASC, created_at ASC, id ASC FOR UPDATE`).
		WithArgs(testTenantID, goodID, warehouseID, "in", "done").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "good_id", "warehouse_id", "direction", "state", "quantity", "remaining_quantity"}).
			AddRow(uuid.NewString(), testTenantID.String(), goodID.String(), warehouseID.String(), "in", "done", "4", "4"))

	found, err := repo.FindCandidatesForUpdate(context.Background(), stock.CandidateQuery{
		TenantID:    testTenantID,
		GoodID:      goodID,
		WarehouseID: warehouseID,
	})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.True(t, dec("4").Equal(found[0].RemainingQuantity))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormMovementLineRepository_LocksByIDsInCandidateOrderOnPostgres(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormMovementLineRepository(gormDB)

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	mock.ExpectQuery(`SELECT \* FROM "movement_lines" WHERE tenant_id = \$1 AND id IN \(\$2,\$3\) ORDER BY confirmed_at ASC, created_at ASC, id ASC FOR UPDATE`).
		WithArgs(testTenantID, ids[0], ids[1]).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "direction", "state", "quantity", "remaining_quantity"}).
			AddRow(ids[1].String(), testTenantID.String(), "in", "done", "4", "4").
			AddRow(ids[0].String(), testTenantID.String(), "in", "done", "3", "1"))

	found, err := repo.FindByIDsForUpdate(context.Background(), testTenantID, ids)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, ids[1], found[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormMovementLineRepository_SaveConflictOnPostgres(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormMovementLineRepository(gormDB)

	line := newLine(t, newGood(t, stock.MatchingModePlain), newWarehouse(t), stock.DirectionIn, "1", "1", "")
	mock.ExpectExec(`UPDATE "movement_lines" SET .* WHERE tenant_id = \$\d+ AND id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Save(context.Background(), line)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.Equal(t, 1, line.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}
