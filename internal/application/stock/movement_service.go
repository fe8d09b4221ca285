package stock

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/erp/warehouse/internal/domain/stock"
	"github.com/erp/warehouse/internal/infrastructure/logger"
	"github.com/erp/warehouse/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MovementService runs the stock movement workflow: line maintenance, confirmation
// with matching, and reversal. Every mutation happens inside one TransactionScope
// call; domain events are published only after the transaction committed.
type MovementService struct {
	txScope        TransactionScope
	repos          Repositories
	allocator      *stock.Allocator
	eventPublisher shared.EventPublisher
	metrics        *telemetry.MatchingMetrics
	now            func() time.Time
}

// MovementServiceOption configures a MovementService
type MovementServiceOption func(*MovementService)

// WithEventPublisher publishes domain events after commit
func WithEventPublisher(publisher shared.EventPublisher) MovementServiceOption {
	return func(s *MovementService) {
		s.eventPublisher = publisher
	}
}

// WithMatchingMetrics records allocation and reversal metrics
func WithMatchingMetrics(metrics *telemetry.MatchingMetrics) MovementServiceOption {
	return func(s *MovementService) {
		s.metrics = metrics
	}
}

// WithClock overrides the confirmation timestamp source
func WithClock(now func() time.Time) MovementServiceOption {
	return func(s *MovementService) {
		s.now = now
	}
}

// NewMovementService creates a new MovementService
func NewMovementService(txScope TransactionScope, repos Repositories, allocator *stock.Allocator, opts ...MovementServiceOption) *MovementService {
	s := &MovementService{
		txScope:   txScope,
		repos:     repos,
		allocator: allocator,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateLine creates a draft movement line
func (s *MovementService) CreateLine(ctx context.Context, tenantID uuid.UUID, req CreateLineRequest) (*LineResponse, error) {
	if _, err := s.repos.Goods.FindByID(ctx, tenantID, req.GoodID); err != nil {
		return nil, referenceError(err, "INVALID_GOOD", "Good not found")
	}
	if _, err := s.repos.Warehouses.FindByID(ctx, tenantID, req.WarehouseID); err != nil {
		return nil, referenceError(err, "INVALID_WAREHOUSE", "Warehouse not found")
	}

	line, err := stock.NewMovementLine(tenantID, req.MoveID, stock.LineInput{
		GoodID:            req.GoodID,
		WarehouseID:       req.WarehouseID,
		Direction:         req.Direction,
		LotNumber:         req.LotNumber,
		AttributeID:       req.AttributeID,
		Quantity:          req.Quantity,
		SecondaryQuantity: req.SecondaryQuantity,
		UnitCost:          req.UnitCost,
		ExpirationDate:    req.ExpirationDate,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repos.Lines.Create(ctx, line); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("movement line created",
		zap.String("line_id", line.ID.String()),
		zap.String("move_id", line.MoveID.String()),
		zap.String("direction", string(line.Direction)),
		zap.String("quantity", line.Quantity.String()),
	)
	resp := ToLineResponse(line)
	return &resp, nil
}

// UpdateLine changes a draft line
func (s *MovementService) UpdateLine(ctx context.Context, tenantID, lineID uuid.UUID, req UpdateLineRequest) (*LineResponse, error) {
	var updated *stock.MovementLine
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		line, err := repos.LineRepo().FindByIDForUpdate(ctx, tenantID, lineID)
		if err != nil {
			return err
		}
		if err := line.Update(stock.LineInput{
			LotNumber:         req.LotNumber,
			AttributeID:       req.AttributeID,
			Quantity:          req.Quantity,
			SecondaryQuantity: req.SecondaryQuantity,
			UnitCost:          req.UnitCost,
			ExpirationDate:    req.ExpirationDate,
		}); err != nil {
			return err
		}
		if err := repos.LineRepo().Save(ctx, line); err != nil {
			return err
		}
		updated = line
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToLineResponse(updated)
	return &resp, nil
}

// DeleteLine deletes a draft line no match refers to
func (s *MovementService) DeleteLine(ctx context.Context, tenantID, lineID uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		line, err := repos.LineRepo().FindByIDForUpdate(ctx, tenantID, lineID)
		if err != nil {
			return err
		}
		if !line.IsDraft() {
			return stock.ErrLineNotDraft
		}
		count, err := repos.MatchRepo().CountByLine(ctx, tenantID, lineID)
		if err != nil {
			return err
		}
		if count > 0 {
			return stock.ErrLineHasMatches
		}
		return repos.LineRepo().Delete(ctx, tenantID, lineID)
	})
}

// ConfirmLine confirms a draft line. Outbound lines of matched goods in stock
// warehouses are allocated against confirmed inbound lines; the whole quantity is
// matched or nothing changes.
func (s *MovementService) ConfirmLine(ctx context.Context, tenantID, lineID uuid.UUID) (*ConfirmResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "movement_line", "confirm",
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrLineID, lineID,
	)
	defer span.End()

	var (
		confirmed *stock.MovementLine
		alloc     *stock.Allocation
		samples   metricSamples
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		line, err := repos.LineRepo().FindByIDForUpdate(ctx, tenantID, lineID)
		if err != nil {
			return err
		}
		alloc, err = s.confirm(ctx, repos, line, &samples)
		if err != nil {
			return err
		}
		confirmed = line
		return nil
	})
	s.recordMetrics(ctx, &samples, err == nil)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publish(ctx, confirmed)

	result := &ConfirmResult{Line: ToLineResponse(confirmed), Matches: []MatchResponse{}}
	if alloc != nil {
		for _, m := range alloc.Matches {
			result.Matches = append(result.Matches, ToMatchResponse(m))
		}
		telemetry.SetAttributes(span, telemetry.SpanAttrMatches, len(alloc.Matches))
	}
	return result, nil
}

// RevertLine returns a confirmed line to draft. Outbound lines release their matches;
// inbound lines are refused while any of their quantity is consumed.
func (s *MovementService) RevertLine(ctx context.Context, tenantID, lineID uuid.UUID) (*RevertResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "movement_line", "revert",
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrLineID, lineID,
	)
	defer span.End()

	var (
		reverted *stock.MovementLine
		released []stock.Match
		samples  metricSamples
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		line, err := repos.LineRepo().FindByIDForUpdate(ctx, tenantID, lineID)
		if err != nil {
			return err
		}
		released, err = s.revert(ctx, repos, line, &samples)
		if err != nil {
			return err
		}
		reverted = line
		return nil
	})
	s.recordMetrics(ctx, &samples, err == nil)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publish(ctx, reverted)
	return &RevertResult{Line: ToLineResponse(reverted), Released: ToMatchResponses(released)}, nil
}

// ConfirmMove confirms every draft line of a movement document in one transaction.
// Inbound lines go first so outbound lines of the same document can consume them.
func (s *MovementService) ConfirmMove(ctx context.Context, tenantID, moveID uuid.UUID) (*MoveResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "move", "confirm",
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrMoveID, moveID,
	)
	defer span.End()

	var (
		changed []*stock.MovementLine
		samples metricSamples
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		changed, err = s.forEachLine(ctx, repos, tenantID, moveID, stock.LineStateDraft, stock.DirectionIn,
			func(line *stock.MovementLine) error {
				_, err := s.confirm(ctx, repos, line, &samples)
				return err
			})
		return err
	})
	s.recordMetrics(ctx, &samples, err == nil)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publish(ctx, changed...)
	return s.moveResult(ctx, tenantID, moveID, len(changed))
}

// ResetMove returns every confirmed line of a movement document to draft in one
// transaction. Outbound lines go first so inbound lines of the same document are freed.
func (s *MovementService) ResetMove(ctx context.Context, tenantID, moveID uuid.UUID) (*MoveResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "move", "reset",
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrMoveID, moveID,
	)
	defer span.End()

	var (
		changed []*stock.MovementLine
		samples metricSamples
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		changed, err = s.forEachLine(ctx, repos, tenantID, moveID, stock.LineStateDone, stock.DirectionOut,
			func(line *stock.MovementLine) error {
				_, err := s.revert(ctx, repos, line, &samples)
				return err
			})
		return err
	})
	s.recordMetrics(ctx, &samples, err == nil)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publish(ctx, changed...)
	return s.moveResult(ctx, tenantID, moveID, len(changed))
}

// GetLine returns one movement line
func (s *MovementService) GetLine(ctx context.Context, tenantID, lineID uuid.UUID) (*LineResponse, error) {
	line, err := s.repos.Lines.FindByID(ctx, tenantID, lineID)
	if err != nil {
		return nil, err
	}
	resp := ToLineResponse(line)
	return &resp, nil
}

// ListMoveLines returns the lines of a movement document
func (s *MovementService) ListMoveLines(ctx context.Context, tenantID, moveID uuid.UUID) ([]LineResponse, error) {
	lines, err := s.repos.Lines.FindByMove(ctx, tenantID, moveID)
	if err != nil {
		return nil, err
	}
	return ToLineResponses(lines), nil
}

// ListLineMatches returns the matches in which the line is either side
func (s *MovementService) ListLineMatches(ctx context.Context, tenantID, lineID uuid.UUID) ([]MatchResponse, error) {
	if _, err := s.repos.Lines.FindByID(ctx, tenantID, lineID); err != nil {
		return nil, err
	}
	matches, err := s.repos.Matches.FindByLine(ctx, tenantID, lineID)
	if err != nil {
		return nil, err
	}
	return ToMatchResponses(matches), nil
}

// ListAvailable returns the inbound lines an outbound line of the good could consume,
// in the order the active ordering policy would consume them
func (s *MovementService) ListAvailable(ctx context.Context, tenantID uuid.UUID, q AvailableQuery) (*AvailableResponse, error) {
	good, err := s.repos.Goods.FindByID(ctx, tenantID, q.GoodID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repos.Warehouses.FindByID(ctx, tenantID, q.WarehouseID); err != nil {
		return nil, err
	}

	query := stock.CandidateQuery{
		TenantID:    tenantID,
		GoodID:      q.GoodID,
		WarehouseID: q.WarehouseID,
		AttributeID: q.AttributeID,
	}
	if good.UsesLotMatching() {
		query.LotNumber = q.LotNumber
	}
	lines, err := s.repos.Lines.FindCandidates(ctx, query)
	if err != nil {
		return nil, err
	}

	ordered := s.allocator.OrderLines(toPointers(lines))
	resp := &AvailableResponse{
		GoodID:      q.GoodID,
		WarehouseID: q.WarehouseID,
		Ordering:    s.allocator.OrderingName(),
		Lines:       make([]LineResponse, 0, len(ordered)),
	}
	for _, l := range ordered {
		resp.Total = resp.Total.Add(l.RemainingQuantity)
		resp.Lines = append(resp.Lines, ToLineResponse(l))
	}
	return resp, nil
}

// confirm confirms a draft line inside a transaction and, when matching applies,
// stores the allocation and recomputes the consumed inbound lines
func (s *MovementService) confirm(ctx context.Context, repos TransactionalRepositories, line *stock.MovementLine, samples *metricSamples) (*stock.Allocation, error) {
	if !line.IsDraft() {
		return nil, stock.ErrLineNotDraft
	}
	good, err := repos.GoodRepo().FindByID(ctx, line.TenantID, line.GoodID)
	if err != nil {
		return nil, err
	}
	warehouse, err := repos.WarehouseRepo().FindByID(ctx, line.TenantID, line.WarehouseID)
	if err != nil {
		return nil, err
	}

	if line.IsInbound() || !stock.RequiresMatching(good, warehouse) {
		if err := line.Confirm(s.now()); err != nil {
			return nil, err
		}
		if err := repos.LineRepo().Save(ctx, line); err != nil {
			return nil, err
		}
		logger.L(ctx).Info("movement line confirmed",
			zap.String("line_id", line.ID.String()),
			zap.String("direction", string(line.Direction)),
			zap.Bool("matched", false),
		)
		return nil, nil
	}

	started := time.Now()
	alloc, err := s.allocate(ctx, repos, line, good)
	outcome := telemetry.OutcomeMatched
	switch {
	case errors.Is(err, shared.ErrInsufficientStock):
		outcome = telemetry.OutcomeInsufficient
	case err != nil:
		outcome = telemetry.OutcomeFailed
	}
	matches := 0
	if alloc != nil {
		matches = len(alloc.Matches)
	}
	samples.allocations = append(samples.allocations, allocationSample{
		ordering: s.allocator.OrderingName(),
		outcome:  outcome,
		matches:  matches,
		quantity: line.Quantity,
		elapsed:  time.Since(started),
	})
	if err != nil {
		logger.L(ctx).Warn("outbound line not matched",
			zap.String("line_id", line.ID.String()),
			zap.String("good_id", line.GoodID.String()),
			zap.String("quantity", line.Quantity.String()),
			zap.Error(err),
		)
		return nil, err
	}

	logger.L(ctx).Info("outbound line matched",
		zap.String("line_id", line.ID.String()),
		zap.Int("matches", matches),
		zap.String("cost", alloc.TotalCost.String()),
		zap.String("unit_cost", alloc.UnitCost.String()),
		zap.String("ordering", s.allocator.OrderingName()),
	)
	return alloc, nil
}

func (s *MovementService) allocate(ctx context.Context, repos TransactionalRepositories, line *stock.MovementLine, good *stock.Good) (*stock.Allocation, error) {
	candidates, err := repos.LineRepo().FindCandidatesForUpdate(ctx, stock.CandidateQueryFor(line, good))
	if err != nil {
		return nil, err
	}

	alloc, err := s.allocator.Plan(line, good, toPointers(candidates))
	if err != nil {
		return nil, err
	}
	if err := line.Confirm(s.now()); err != nil {
		return nil, err
	}
	s.allocator.Apply(line, good, alloc)

	if err := repos.MatchRepo().CreateBatch(ctx, alloc.Matches); err != nil {
		return nil, err
	}
	for _, c := range alloc.Consumptions {
		if err := s.recompute(ctx, repos, c.Line); err != nil {
			return nil, err
		}
	}
	if err := repos.LineRepo().Save(ctx, line); err != nil {
		return nil, err
	}
	return alloc, nil
}

// revert returns a confirmed line to draft inside a transaction
func (s *MovementService) revert(ctx context.Context, repos TransactionalRepositories, line *stock.MovementLine, samples *metricSamples) ([]stock.Match, error) {
	if err := line.CheckReversible(); err != nil {
		return nil, err
	}

	var released []stock.Match
	if line.IsOutbound() {
		var err error
		released, err = repos.MatchRepo().FindByOutboundLine(ctx, line.TenantID, line.ID)
		if err != nil {
			return nil, err
		}
		if len(released) > 0 {
			inbound, err := repos.LineRepo().FindByIDsForUpdate(ctx, line.TenantID, inboundLineIDs(released))
			if err != nil {
				return nil, err
			}
			if _, err := repos.MatchRepo().DeleteByLine(ctx, line.TenantID, line.ID); err != nil {
				return nil, err
			}
			for i := range inbound {
				if err := s.recompute(ctx, repos, &inbound[i]); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := line.ResetToDraft(released); err != nil {
		return nil, err
	}
	if err := repos.LineRepo().Save(ctx, line); err != nil {
		return nil, err
	}

	samples.reversals = append(samples.reversals, reversalSample{
		direction: string(line.Direction),
		released:  len(released),
	})
	logger.L(ctx).Info("movement line reverted",
		zap.String("line_id", line.ID.String()),
		zap.String("direction", string(line.Direction)),
		zap.Int("released", len(released)),
	)
	return released, nil
}

// recompute reloads the inbound line's matches and stores its remaining quantity
func (s *MovementService) recompute(ctx context.Context, repos TransactionalRepositories, inbound *stock.MovementLine) error {
	matches, err := repos.MatchRepo().FindByInboundLine(ctx, inbound.TenantID, inbound.ID)
	if err != nil {
		return err
	}
	if err := inbound.RecomputeRemaining(matches); err != nil {
		return err
	}
	return repos.LineRepo().Save(ctx, inbound)
}

// forEachLine locks the lines of a move in the given state and applies fn to them,
// lines of the first direction before the others
func (s *MovementService) forEachLine(
	ctx context.Context,
	repos TransactionalRepositories,
	tenantID, moveID uuid.UUID,
	state stock.LineState,
	first stock.Direction,
	fn func(line *stock.MovementLine) error,
) ([]*stock.MovementLine, error) {
	lines, err := repos.LineRepo().FindByMove(ctx, tenantID, moveID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, shared.ErrNotFound
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Direction == first && lines[j].Direction != first
	})

	var changed []*stock.MovementLine
	for i := range lines {
		if lines[i].State != state {
			continue
		}
		line, err := repos.LineRepo().FindByIDForUpdate(ctx, tenantID, lines[i].ID)
		if err != nil {
			return nil, err
		}
		if err := fn(line); err != nil {
			return nil, err
		}
		changed = append(changed, line)
	}
	return changed, nil
}

func (s *MovementService) moveResult(ctx context.Context, tenantID, moveID uuid.UUID, changed int) (*MoveResult, error) {
	lines, err := s.ListMoveLines(ctx, tenantID, moveID)
	if err != nil {
		return nil, err
	}
	return &MoveResult{MoveID: moveID, Lines: lines, Changed: changed}, nil
}

// publish hands the lines' pending events to the publisher; delivery failures are
// logged by the bus and never undo the committed change
func (s *MovementService) publish(ctx context.Context, lines ...*stock.MovementLine) {
	var events []shared.DomainEvent
	for _, l := range lines {
		events = append(events, l.GetDomainEvents()...)
		l.ClearDomainEvents()
	}
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// metricSamples holds measurements taken inside a transaction until it has ended
type metricSamples struct {
	allocations []allocationSample
	reversals   []reversalSample
}

type allocationSample struct {
	ordering string
	outcome  string
	matches  int
	quantity decimal.Decimal
	elapsed  time.Duration
}

type reversalSample struct {
	direction string
	released  int
}

// recordMetrics reports the samples of a finished transaction. After a rollback only
// refused allocations are reported; matches and reversals did not happen.
func (s *MovementService) recordMetrics(ctx context.Context, samples *metricSamples, committed bool) {
	for _, a := range samples.allocations {
		if !committed && a.outcome == telemetry.OutcomeMatched {
			continue
		}
		s.metrics.RecordAllocation(ctx, a.ordering, a.outcome, a.matches, a.quantity, a.elapsed)
	}
	if !committed {
		return
	}
	for _, r := range samples.reversals {
		s.metrics.RecordReversal(ctx, r.direction, r.released)
	}
}

func inboundLineIDs(matches []stock.Match) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(matches))
	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m.InboundLineID]; ok {
			continue
		}
		seen[m.InboundLineID] = struct{}{}
		ids = append(ids, m.InboundLineID)
	}
	return ids
}

func toPointers(lines []stock.MovementLine) []*stock.MovementLine {
	out := make([]*stock.MovementLine, len(lines))
	for i := range lines {
		out[i] = &lines[i]
	}
	return out
}

func referenceError(err error, code, message string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError(code, message)
	}
	return err
}
