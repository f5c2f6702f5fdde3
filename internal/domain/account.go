package domain

import "github.com/shopspring/decimal"

// Account is an immutable snapshot of the brokerage account, fetched fresh on every request.
type Account struct {
	AccountNumber         string
	Status                string
	Currency              string
	BuyingPower           decimal.Decimal
	Cash                  decimal.Decimal
	PortfolioValue        decimal.Decimal
	Equity                decimal.Decimal
	DaytradingBuyingPower decimal.Decimal
	PatternDayTrader      bool
	TradingBlocked        bool
	TransfersBlocked      bool
	AccountBlocked        bool
}
