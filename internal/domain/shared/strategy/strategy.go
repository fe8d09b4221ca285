package strategy

// StrategyType groups strategies that are interchangeable for one decision
type StrategyType string

// StrategyTypeOrdering selects the order in which inbound lines are consumed
const StrategyTypeOrdering StrategyType = "ordering"

func (t StrategyType) String() string {
	return string(t)
}

// Strategy is implemented by every pluggable policy held in a registry
type Strategy interface {
	Name() string
	Type() StrategyType
	Description() string
}

// BaseStrategy carries the identity fields of a Strategy; embed it in implementations
type BaseStrategy struct {
	name         string
	strategyType StrategyType
	description  string
}

func NewBaseStrategy(name string, strategyType StrategyType, description string) BaseStrategy {
	return BaseStrategy{name: name, strategyType: strategyType, description: description}
}

func (s BaseStrategy) Name() string        { return s.name }
func (s BaseStrategy) Type() StrategyType  { return s.strategyType }
func (s BaseStrategy) Description() string { return s.description }
