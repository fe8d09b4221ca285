package dto

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/erp/warehouse/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{shared.CodeNotFound, http.StatusNotFound},
		{shared.CodeInsufficientStock, http.StatusUnprocessableEntity},
		{shared.CodeAlreadyMatched, http.StatusConflict},
		{shared.CodeInvariantViolation, http.StatusInternalServerError},
		{stock.ErrLineNotDraft.Code, http.StatusConflict},
		{ErrCodeTooLarge, http.StatusRequestEntityTooLarge},
		{"SOME_NEW_RULE", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, GetHTTPStatus(tt.code))
		})
	}
}

func TestFromError(t *testing.T) {
	t.Run("insufficient stock carries the shortfall", func(t *testing.T) {
		err := fmt.Errorf("confirm: %w", &stock.InsufficientStockError{
			GoodID:      uuid.New(),
			WarehouseID: uuid.New(),
			LotNumber:   "L7",
			Requested:   decimal.NewFromInt(200),
			Available:   decimal.NewFromInt(150),
		})

		status, resp := FromError(err, "req-1")
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		require.NotNil(t, resp.Error)
		assert.Equal(t, shared.CodeInsufficientStock, resp.Error.Code)
		assert.Equal(t, "req-1", resp.Error.RequestID)
		assert.True(t, decimal.NewFromInt(50).Equal(resp.Error.Context["shortfall"].(decimal.Decimal)))
		assert.Equal(t, "L7", resp.Error.Context["lot_number"])
	})

	t.Run("already matched", func(t *testing.T) {
		status, resp := FromError(&stock.AlreadyMatchedError{
			LineID: uuid.New(), Quantity: decimal.NewFromInt(10), Remaining: decimal.NewFromInt(4),
		}, "")
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, shared.CodeAlreadyMatched, resp.Error.Code)
		assert.Contains(t, resp.Error.Context, "remaining")
	})

	t.Run("invariant violation", func(t *testing.T) {
		status, resp := FromError(stock.NewInvariantViolation(uuid.New(), "remaining below zero"), "")
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, shared.CodeInvariantViolation, resp.Error.Code)
	})

	t.Run("plain domain error", func(t *testing.T) {
		status, resp := FromError(stock.ErrLineNotDraft, "")
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "LINE_NOT_DRAFT", resp.Error.Code)
		assert.False(t, resp.Success)
	})

	t.Run("unknown error hides its message", func(t *testing.T) {
		status, resp := FromError(errors.New("pq: connection refused"), "")
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, ErrCodeInternal, resp.Error.Code)
		assert.NotContains(t, resp.Error.Message, "pq")
	})
}

func TestNewListResponse(t *testing.T) {
	resp := NewListResponse([]int{1, 2}, 2, 1, 20)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Count)
	assert.Equal(t, 20, resp.Meta.PageSize)
}
