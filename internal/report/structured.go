package report

import (
	"investPilot/internal/domain"
)

// Key-value documents for json/yaml output. Optional values are pointers so a
// missing value encodes as null.

type accountView struct {
	AccountNumber         string `json:"account_number" yaml:"account_number"`
	Status                string `json:"status" yaml:"status"`
	Currency              string `json:"currency" yaml:"currency"`
	BuyingPower           string `json:"buying_power" yaml:"buying_power"`
	Cash                  string `json:"cash" yaml:"cash"`
	PortfolioValue        string `json:"portfolio_value" yaml:"portfolio_value"`
	Equity                string `json:"equity" yaml:"equity"`
	DaytradingBuyingPower string `json:"daytrading_buying_power" yaml:"daytrading_buying_power"`
	PatternDayTrader      bool   `json:"pattern_day_trader" yaml:"pattern_day_trader"`
	TradingBlocked        bool   `json:"trading_blocked" yaml:"trading_blocked"`
	TransfersBlocked      bool   `json:"transfers_blocked" yaml:"transfers_blocked"`
	AccountBlocked        bool   `json:"account_blocked" yaml:"account_blocked"`
}

type positionView struct {
	Symbol         string  `json:"symbol" yaml:"symbol"`
	Side           string  `json:"side" yaml:"side"`
	Qty            string  `json:"qty" yaml:"qty"`
	AvgEntryPrice  string  `json:"avg_entry_price" yaml:"avg_entry_price"`
	CostBasis      string  `json:"cost_basis" yaml:"cost_basis"`
	CurrentPrice   *string `json:"current_price" yaml:"current_price"`
	MarketValue    *string `json:"market_value" yaml:"market_value"`
	UnrealizedPL   *string `json:"unrealized_pl" yaml:"unrealized_pl"`
	UnrealizedPLPC *string `json:"unrealized_plpc" yaml:"unrealized_plpc"`
}

type positionsView struct {
	Message   string         `json:"message" yaml:"message"`
	Positions []positionView `json:"positions" yaml:"positions"`
}

type orderView struct {
	ID             string  `json:"id" yaml:"id"`
	ClientOrderID  string  `json:"client_order_id,omitempty" yaml:"client_order_id,omitempty"`
	Symbol         string  `json:"symbol" yaml:"symbol"`
	Side           string  `json:"side" yaml:"side"`
	OrderType      string  `json:"order_type" yaml:"order_type"`
	OrderClass     string  `json:"order_class" yaml:"order_class"`
	TimeInForce    string  `json:"time_in_force" yaml:"time_in_force"`
	Status         string  `json:"status" yaml:"status"`
	Qty            *string `json:"qty" yaml:"qty"`
	FilledQty      string  `json:"filled_qty" yaml:"filled_qty"`
	LimitPrice     *string `json:"limit_price" yaml:"limit_price"`
	StopPrice      *string `json:"stop_price" yaml:"stop_price"`
	AvgFillPrice   *string `json:"avg_fill_price" yaml:"avg_fill_price"`
	TrailPrice     *string `json:"trail_price" yaml:"trail_price"`
	TrailPercent   *string `json:"trail_percent" yaml:"trail_percent"`
	CreatedAt      *string `json:"created_at" yaml:"created_at"`
	UpdatedAt      *string `json:"updated_at" yaml:"updated_at"`
	SubmittedAt    *string `json:"submitted_at" yaml:"submitted_at"`
}

type ordersView struct {
	Message string      `json:"message" yaml:"message"`
	Orders  []orderView `json:"orders" yaml:"orders"`
}

type quoteView struct {
	Symbol    string  `json:"symbol" yaml:"symbol"`
	BidPrice  string  `json:"bid_price" yaml:"bid_price"`
	AskPrice  string  `json:"ask_price" yaml:"ask_price"`
	BidSize   uint32  `json:"bid_size" yaml:"bid_size"`
	AskSize   uint32  `json:"ask_size" yaml:"ask_size"`
	Timestamp *string `json:"timestamp" yaml:"timestamp"`
}

type quoteResultView struct {
	Message string     `json:"message" yaml:"message"`
	Quote   *quoteView `json:"quote" yaml:"quote"`
}

type barView struct {
	Date   string `json:"date" yaml:"date"`
	Open   string `json:"open" yaml:"open"`
	High   string `json:"high" yaml:"high"`
	Low    string `json:"low" yaml:"low"`
	Close  string `json:"close" yaml:"close"`
	Volume uint64 `json:"volume" yaml:"volume"`
}

type barsView struct {
	Message string    `json:"message" yaml:"message"`
	Symbol  string    `json:"symbol" yaml:"symbol"`
	Bars    []barView `json:"bars" yaml:"bars"`
}

type orderPlacedView struct {
	Message            string    `json:"message" yaml:"message"`
	Order              orderView `json:"order" yaml:"order"`
	EntryLimitPrice    *string   `json:"entry_limit_price,omitempty" yaml:"entry_limit_price,omitempty"`
	TakeProfitPrice    *string   `json:"take_profit_price,omitempty" yaml:"take_profit_price,omitempty"`
	StopLossPrice      *string   `json:"stop_loss_price,omitempty" yaml:"stop_loss_price,omitempty"`
	StopLossLimitPrice *string   `json:"stop_loss_limit_price,omitempty" yaml:"stop_loss_limit_price,omitempty"`
	TrailAmount        *string   `json:"trail_amount,omitempty" yaml:"trail_amount,omitempty"`
}

type bulkView struct {
	Message string      `json:"message" yaml:"message"`
	Orders  []orderView `json:"orders" yaml:"orders"`
}

type profitView struct {
	Message         string     `json:"message" yaml:"message"`
	Symbol          string     `json:"symbol" yaml:"symbol"`
	Outcome         string     `json:"outcome" yaml:"outcome"`
	Profit          *string    `json:"profit" yaml:"profit"`
	Threshold       string     `json:"threshold" yaml:"threshold"`
	ClosePercentage string     `json:"close_percentage" yaml:"close_percentage"`
	Order           *orderView `json:"order" yaml:"order"`
}

type pingView struct {
	Message       string `json:"message" yaml:"message"`
	AccountStatus string `json:"account_status" yaml:"account_status"`
}

type failureView struct {
	Error    string `json:"error" yaml:"error"`
	Category string `json:"category" yaml:"category"`
}

// --- Builders ---

func newAccountView(a *domain.Account) accountView {
	return accountView{
		AccountNumber:         a.AccountNumber,
		Status:                a.Status,
		Currency:              a.Currency,
		BuyingPower:           Money(a.BuyingPower),
		Cash:                  Money(a.Cash),
		PortfolioValue:        Money(a.PortfolioValue),
		Equity:                Money(a.Equity),
		DaytradingBuyingPower: Money(a.DaytradingBuyingPower),
		PatternDayTrader:      a.PatternDayTrader,
		TradingBlocked:        a.TradingBlocked,
		TransfersBlocked:      a.TransfersBlocked,
		AccountBlocked:        a.AccountBlocked,
	}
}

func newPositionView(p *domain.Position) positionView {
	return positionView{
		Symbol:         p.Symbol,
		Side:           p.Side,
		Qty:            Quantity(p.Qty),
		AvgEntryPrice:  Money(p.AvgEntryPrice),
		CostBasis:      Money(p.CostBasis),
		CurrentPrice:   optMoney(p.CurrentPrice),
		MarketValue:    optMoney(p.MarketValue),
		UnrealizedPL:   optMoney(p.UnrealizedPL),
		UnrealizedPLPC: optPercent(p.UnrealizedPLPC),
	}
}

func newOrderView(o *domain.Order) orderView {
	return orderView{
		ID:            o.ID,
		ClientOrderID: o.ClientOrderID,
		Symbol:        o.Symbol,
		Side:          string(o.Side),
		OrderType:     string(o.Type),
		OrderClass:    string(o.Class),
		TimeInForce:   string(o.TimeInForce),
		Status:        o.Status,
		Qty:           optQuantity(o.Qty),
		FilledQty:     Quantity(o.FilledQty),
		LimitPrice:    optMoney(o.LimitPrice),
		StopPrice:     optMoney(o.StopPrice),
		AvgFillPrice:  optMoney(o.FilledAvgPrice),
		TrailPrice:    optMoney(o.TrailPrice),
		TrailPercent:  optPercent(o.TrailPercent),
		CreatedAt:     optTimestamp(o.CreatedAt),
		UpdatedAt:     optTimestamp(o.UpdatedAt),
		SubmittedAt:   optTimestamp(o.SubmittedAt),
	}
}

func newOrderViews(orders []*domain.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderView(o))
	}
	return out
}

func newQuoteView(q *domain.Quote) *quoteView {
	return &quoteView{
		Symbol:    q.Symbol,
		BidPrice:  Money(q.BidPrice),
		AskPrice:  Money(q.AskPrice),
		BidSize:   q.BidSize,
		AskSize:   q.AskSize,
		Timestamp: optTimestamp(q.Timestamp),
	}
}

func newBarView(b *domain.Bar) barView {
	return barView{
		Date:   b.Timestamp.UTC().Format("2006-01-02"),
		Open:   Money(b.Open),
		High:   Money(b.High),
		Low:    Money(b.Low),
		Close:  Money(b.Close),
		Volume: b.Volume,
	}
}
