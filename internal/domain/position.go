package domain

import "github.com/shopspring/decimal"

// Position is a point-in-time view of an open position as reported by the brokerage.
// Optional fields are nil when the brokerage did not report them.
type Position struct {
	Symbol         string
	Side           string
	Qty            decimal.Decimal
	AvgEntryPrice  decimal.Decimal
	CostBasis      decimal.Decimal
	CurrentPrice   *decimal.Decimal
	MarketValue    *decimal.Decimal
	UnrealizedPL   *decimal.Decimal
	UnrealizedPLPC *decimal.Decimal // fraction of cost basis, 0.2 == 20%
}

// ProfitFraction returns the brokerage-reported unrealized P/L as a fraction of cost basis.
// A missing value counts as zero.
func (p *Position) ProfitFraction() decimal.Decimal {
	if p == nil || p.UnrealizedPLPC == nil {
		return decimal.Zero
	}
	return *p.UnrealizedPLPC
}
