package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the latest NBBO-style quote for a symbol.
type Quote struct {
	Symbol    string
	BidPrice  decimal.Decimal
	AskPrice  decimal.Decimal
	BidSize   uint32
	AskSize   uint32
	Timestamp time.Time
}

// Bar represents a single daily candlestick.
type Bar struct {
	Symbol    string
	Timestamp time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    uint64
}
