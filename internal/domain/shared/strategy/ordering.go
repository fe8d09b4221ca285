package strategy

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Candidate is the view of an inbound line an ordering strategy needs to rank it.
type Candidate struct {
	ID             uuid.UUID
	ConfirmedAt    time.Time
	CreatedAt      time.Time
	ExpirationDate *time.Time
	Remaining      decimal.Decimal
}

// OrderingStrategy decides the consumption order of eligible inbound lines.
// Implementations must be deterministic and must not drop or add candidates.
type OrderingStrategy interface {
	Strategy
	// Order returns the candidates in consumption order. The input slice is not modified.
	Order(candidates []Candidate) []Candidate
	// ConsidersExpiry returns true if expiration dates influence the order
	ConsidersExpiry() bool
}

// ConfirmedBefore is the FIFO tie-break chain shared by ordering strategies:
// confirmation time, then creation time, then id.
func ConfirmedBefore(a, b Candidate) bool {
	if !a.ConfirmedAt.Equal(b.ConfirmedAt) {
		return a.ConfirmedAt.Before(b.ConfirmedAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}
