package stock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	appstock "github.com/erp/warehouse/internal/application/stock"
	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/erp/warehouse/internal/domain/stock"
	"github.com/erp/warehouse/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var tenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

// stepClock returns a timestamp one minute later on every call
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

type fixture struct {
	db        *gorm.DB
	repos     appstock.Repositories
	service   *appstock.MovementService
	catalog   *appstock.CatalogService
	publisher *recordingPublisher
	moveID    uuid.UUID
}

func newFixture(t *testing.T, opts ...appstock.MovementServiceOption) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, persistence.AutoMigrate(db))

	publisher := &recordingPublisher{}
	clock := &stepClock{now: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	repos := persistence.NewRepositories(db)
	opts = append([]appstock.MovementServiceOption{
		appstock.WithEventPublisher(publisher),
		appstock.WithClock(clock.Now),
	}, opts...)

	return &fixture{
		db:        db,
		repos:     repos,
		service:   appstock.NewMovementService(persistence.NewGormTransactionScope(db), repos, stock.NewAllocator(), opts...),
		catalog:   appstock.NewCatalogService(repos.Goods, repos.Warehouses),
		publisher: publisher,
		moveID:    uuid.New(),
	}
}

func (f *fixture) good(t *testing.T, code string, mode stock.MatchingMode) uuid.UUID {
	t.Helper()
	g, err := f.catalog.CreateGood(context.Background(), tenantID, appstock.CreateGoodRequest{
		Code: code, Name: code, MatchingMode: mode,
	})
	require.NoError(t, err)
	return g.ID
}

func (f *fixture) warehouse(t *testing.T, code string, typ stock.WarehouseType) uuid.UUID {
	t.Helper()
	w, err := f.catalog.CreateWarehouse(context.Background(), tenantID, appstock.CreateWarehouseRequest{
		Code: code, Name: code, Type: typ,
	})
	require.NoError(t, err)
	return w.ID
}

type lineSpec struct {
	good, warehouse uuid.UUID
	direction       stock.Direction
	qty, unitCost   string
	lot             string
	expires         *time.Time
	move            uuid.UUID
}

func (f *fixture) line(t *testing.T, spec lineSpec) uuid.UUID {
	t.Helper()
	move := spec.move
	if move == uuid.Nil {
		move = uuid.New()
	}
	unitCost := spec.unitCost
	if unitCost == "" {
		unitCost = "0"
	}
	l, err := f.service.CreateLine(context.Background(), tenantID, appstock.CreateLineRequest{
		MoveID:         move,
		GoodID:         spec.good,
		WarehouseID:    spec.warehouse,
		Direction:      spec.direction,
		LotNumber:      spec.lot,
		Quantity:       dec(spec.qty),
		UnitCost:       dec(unitCost),
		ExpirationDate: spec.expires,
	})
	require.NoError(t, err)
	return l.ID
}

// confirmedIn creates and confirms an inbound line
func (f *fixture) confirmedIn(t *testing.T, good, wh uuid.UUID, qty, unitCost, lot string) uuid.UUID {
	t.Helper()
	id := f.line(t, lineSpec{good: good, warehouse: wh, direction: stock.DirectionIn, qty: qty, unitCost: unitCost, lot: lot})
	_, err := f.service.ConfirmLine(context.Background(), tenantID, id)
	require.NoError(t, err)
	return id
}

func (f *fixture) get(t *testing.T, id uuid.UUID) *appstock.LineResponse {
	t.Helper()
	l, err := f.service.GetLine(context.Background(), tenantID, id)
	require.NoError(t, err)
	return l
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
