package domain

import "github.com/shopspring/decimal"

// ProfitOutcome is what a partial profit check ended up doing.
type ProfitOutcome string

const (
	ProfitNoPosition     ProfitOutcome = "no_position"
	ProfitBelowThreshold ProfitOutcome = "below_threshold"
	ProfitTaken          ProfitOutcome = "closed"
)

// ProfitTake describes one evaluation of the partial profit rule.
// Order is set only when Outcome is ProfitTaken.
type ProfitTake struct {
	Symbol          string
	Outcome         ProfitOutcome
	Profit          decimal.Decimal // unrealized P/L fraction at evaluation time
	Threshold       decimal.Decimal
	ClosePercentage decimal.Decimal
	Order           *Order
}
