package stock

import (
	"strings"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/google/uuid"
)

// MatchingMode selects how outbound quantity of a good is matched against inbound lines
type MatchingMode string

const (
	// MatchingModeNone goods are shipped without matching or cost flow
	MatchingModeNone MatchingMode = "none"
	// MatchingModePlain goods match any eligible inbound line in strategy order
	MatchingModePlain MatchingMode = "plain"
	// MatchingModeLot goods match only inbound lines of the identical lot
	MatchingModeLot MatchingMode = "lot"
)

// IsValid returns true if the mode is known
func (m MatchingMode) IsValid() bool {
	switch m {
	case MatchingModeNone, MatchingModePlain, MatchingModeLot:
		return true
	default:
		return false
	}
}

// Good is an item whose stock movements are tracked
type Good struct {
	shared.TenantEntity
	Code         string
	Name         string
	MatchingMode MatchingMode
}

// NewGood creates a new good
func NewGood(tenantID uuid.UUID, code, name string, mode MatchingMode) (*Good, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Good code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Good name cannot be empty")
	}
	if mode == "" {
		mode = MatchingModePlain
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_MATCHING_MODE", "Unknown matching mode: "+string(mode))
	}
	return &Good{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Code:         code,
		Name:         name,
		MatchingMode: mode,
	}, nil
}

// UsesMatching returns true if outbound movements of the good consume inbound lines
func (g *Good) UsesMatching() bool {
	return g.MatchingMode == MatchingModePlain || g.MatchingMode == MatchingModeLot
}

// UsesLotMatching returns true if allocations are restricted to the outbound line's lot
func (g *Good) UsesLotMatching() bool {
	return g.MatchingMode == MatchingModeLot
}
