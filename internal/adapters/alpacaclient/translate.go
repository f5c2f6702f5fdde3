package alpacaclient

import (
	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"

	"investPilot/internal/domain"
)

// --- Translation Helpers ---

var hundred = decimal.NewFromInt(100)

func translateAccount(a *alpaca.Account) *domain.Account {
	return &domain.Account{
		AccountNumber:         a.AccountNumber,
		Status:                string(a.Status),
		Currency:              a.Currency,
		BuyingPower:           a.BuyingPower,
		Cash:                  a.Cash,
		PortfolioValue:        a.PortfolioValue,
		Equity:                a.Equity,
		DaytradingBuyingPower: a.DaytradingBuyingPower,
		PatternDayTrader:      a.PatternDayTrader,
		TradingBlocked:        a.TradingBlocked,
		TransfersBlocked:      a.TransfersBlocked,
		AccountBlocked:        a.AccountBlocked,
	}
}

func translatePosition(p *alpaca.Position) *domain.Position {
	return &domain.Position{
		Symbol:         p.Symbol,
		Side:           string(p.Side),
		Qty:            p.Qty,
		AvgEntryPrice:  p.AvgEntryPrice,
		CostBasis:      p.CostBasis,
		CurrentPrice:   copyDecimal(p.CurrentPrice),
		MarketValue:    copyDecimal(p.MarketValue),
		UnrealizedPL:   copyDecimal(p.UnrealizedPL),
		UnrealizedPLPC: copyDecimal(p.UnrealizedPLPC),
	}
}

func translateOrders(orders []alpaca.Order) []*domain.Order {
	out := make([]*domain.Order, 0, len(orders))
	for i := range orders {
		out = append(out, translateOrder(&orders[i]))
	}
	return out
}

func translateOrder(o *alpaca.Order) *domain.Order {
	order := &domain.Order{
		ID:             o.ID,
		ClientOrderID:  o.ClientOrderID,
		Symbol:         o.Symbol,
		Side:           domain.OrderSide(o.Side),
		Type:           domain.OrderType(o.Type),
		Class:          domain.OrderClass(o.OrderClass),
		TimeInForce:    domain.TimeInForce(o.TimeInForce),
		Status:         string(o.Status),
		Qty:            copyDecimal(o.Qty),
		FilledQty:      o.FilledQty,
		LimitPrice:     copyDecimal(o.LimitPrice),
		StopPrice:      copyDecimal(o.StopPrice),
		FilledAvgPrice: copyDecimal(o.FilledAvgPrice),
		TrailPrice:     copyDecimal(o.TrailPrice),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
		SubmittedAt:    o.SubmittedAt,
	}
	// Alpaca reports trail_percent on a 0-100 scale; the domain uses fractions.
	if o.TrailPercent != nil {
		pct := o.TrailPercent.Div(hundred)
		order.TrailPercent = &pct
	}
	if order.Class == "" {
		order.Class = domain.OrderClassSimple
	}
	return order
}

func translateOrderRequest(r *domain.OrderRequest) alpaca.PlaceOrderRequest {
	qty := r.Qty
	req := alpaca.PlaceOrderRequest{
		Symbol:        r.Symbol,
		Qty:           &qty,
		Side:          alpaca.Side(r.Side),
		Type:          alpaca.OrderType(r.Type),
		TimeInForce:   alpaca.TimeInForce(r.TimeInForce),
		LimitPrice:    copyDecimal(r.LimitPrice),
		TrailPrice:    copyDecimal(r.TrailPrice),
		ClientOrderID: r.ClientOrderID,
	}
	if r.Class != "" && r.Class != domain.OrderClassSimple {
		req.OrderClass = alpaca.OrderClass(r.Class)
	}
	if r.TrailPercent != nil {
		pct := r.TrailPercent.Mul(hundred)
		req.TrailPercent = &pct
	}
	if r.TakeProfit != nil {
		tp := r.TakeProfit.LimitPrice
		req.TakeProfit = &alpaca.TakeProfit{LimitPrice: &tp}
	}
	if r.StopLoss != nil {
		sp := r.StopLoss.StopPrice
		req.StopLoss = &alpaca.StopLoss{StopPrice: &sp, LimitPrice: copyDecimal(r.StopLoss.LimitPrice)}
	}
	return req
}

func translateQuote(symbol string, q *marketdata.Quote) *domain.Quote {
	return &domain.Quote{
		Symbol:    symbol,
		BidPrice:  decimal.NewFromFloat(q.BidPrice),
		AskPrice:  decimal.NewFromFloat(q.AskPrice),
		BidSize:   q.BidSize,
		AskSize:   q.AskSize,
		Timestamp: q.Timestamp,
	}
}

func translateBar(symbol string, b *marketdata.Bar) *domain.Bar {
	return &domain.Bar{
		Symbol:    symbol,
		Timestamp: b.Timestamp,
		Open:      decimal.NewFromFloat(b.Open),
		High:      decimal.NewFromFloat(b.High),
		Low:       decimal.NewFromFloat(b.Low),
		Close:     decimal.NewFromFloat(b.Close),
		Volume:    b.Volume,
	}
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
