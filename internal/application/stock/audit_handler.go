package stock

import (
	"context"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/erp/warehouse/internal/domain/stock"
	"go.uber.org/zap"
)

// AuditEventHandler writes one structured log entry per stock event
type AuditEventHandler struct {
	logger *zap.Logger
}

// NewAuditEventHandler creates a new AuditEventHandler
func NewAuditEventHandler(logger *zap.Logger) *AuditEventHandler {
	return &AuditEventHandler{logger: logger.Named("stock_audit")}
}

// EventTypes returns the event types this handler is interested in
func (h *AuditEventHandler) EventTypes() []string {
	return []string{
		stock.EventTypeMovementLineConfirmed,
		stock.EventTypeStockMatched,
		stock.EventTypeMovementLineReverted,
	}
}

// Handle logs the event
func (h *AuditEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("line_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *stock.MovementLineConfirmedEvent:
		fields = append(fields,
			zap.String("move_id", e.MoveID.String()),
			zap.String("direction", string(e.Direction)),
			zap.String("quantity", e.Quantity.String()),
		)
	case *stock.StockMatchedEvent:
		fields = append(fields,
			zap.String("good_id", e.GoodID.String()),
			zap.String("quantity", e.Quantity.String()),
			zap.String("total_cost", e.TotalCost.String()),
			zap.Int("matches", len(e.Matches)),
		)
	case *stock.MovementLineRevertedEvent:
		fields = append(fields,
			zap.String("move_id", e.MoveID.String()),
			zap.String("direction", string(e.Direction)),
			zap.Int("released", len(e.Released)),
		)
	}

	h.logger.Info("stock event", fields...)
	return nil
}

var _ shared.EventHandler = (*AuditEventHandler)(nil)
