package report

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"

	"investPilot/internal/domain"
)

// Account renders an account snapshot.
func (f *Formatter) Account(a *domain.Account) string {
	return f.render(newAccountView(a), func() string {
		var b strings.Builder
		b.WriteString("Account Information:\n")
		fmt.Fprintf(&b, "- Account Number: %s\n", valueOr(a.AccountNumber, Unknown))
		fmt.Fprintf(&b, "- Status: %s\n", valueOr(a.Status, Unknown))
		fmt.Fprintf(&b, "- Currency: %s\n", valueOr(a.Currency, Unknown))
		fmt.Fprintf(&b, "- Buying Power: %s\n", Money(a.BuyingPower))
		fmt.Fprintf(&b, "- Cash: %s\n", Money(a.Cash))
		fmt.Fprintf(&b, "- Portfolio Value: %s\n", Money(a.PortfolioValue))
		fmt.Fprintf(&b, "- Equity: %s\n", Money(a.Equity))
		fmt.Fprintf(&b, "- Day Trading Buying Power: %s\n", Money(a.DaytradingBuyingPower))
		fmt.Fprintf(&b, "- Pattern Day Trader: %t\n", a.PatternDayTrader)
		fmt.Fprintf(&b, "- Trading Blocked: %t\n", a.TradingBlocked)
		fmt.Fprintf(&b, "- Transfers Blocked: %t\n", a.TransfersBlocked)
		fmt.Fprintf(&b, "- Account Blocked: %t", a.AccountBlocked)
		return b.String()
	})
}

// Positions renders all open positions.
func (f *Formatter) Positions(positions []*domain.Position) string {
	view := positionsView{Positions: make([]positionView, 0, len(positions))}
	for _, p := range positions {
		view.Positions = append(view.Positions, newPositionView(p))
	}
	if len(positions) == 0 {
		view.Message = "No open positions found."
	} else {
		view.Message = fmt.Sprintf("Found %d open positions", len(positions))
	}

	return f.render(view, func() string {
		if len(positions) == 0 {
			return view.Message
		}
		var b strings.Builder
		b.WriteString("Current Positions:\n")
		for _, p := range positions {
			fmt.Fprintf(&b, "\n- %s:\n", p.Symbol)
			fmt.Fprintf(&b, "  • Quantity: %s\n", Quantity(p.Qty))
			fmt.Fprintf(&b, "  • Side: %s\n", valueOr(p.Side, Unknown))
			fmt.Fprintf(&b, "  • Market Value: %s\n", MoneyPtr(p.MarketValue))
			fmt.Fprintf(&b, "  • Cost Basis: %s\n", Money(p.CostBasis))
			fmt.Fprintf(&b, "  • Unrealized P&L: %s (%s)\n", MoneyPtr(p.UnrealizedPL), PercentPtr(p.UnrealizedPLPC))
			fmt.Fprintf(&b, "  • Current Price: %s\n", MoneyPtr(p.CurrentPrice))
			fmt.Fprintf(&b, "  • Average Entry Price: %s\n", Money(p.AvgEntryPrice))
		}
		return strings.TrimRight(b.String(), "\n")
	})
}

// Orders renders an order listing for a status filter.
func (f *Formatter) Orders(status domain.OrderQueryStatus, orders []*domain.Order) string {
	view := ordersView{Orders: newOrderViews(orders)}
	switch {
	case len(orders) == 0 && status == domain.OrderQueryAll:
		view.Message = "No orders found."
	case len(orders) == 0:
		view.Message = fmt.Sprintf("No %s orders found.", status)
	default:
		view.Message = fmt.Sprintf("Found %d %s orders", len(orders), status)
	}

	return f.render(view, func() string {
		if len(orders) == 0 {
			return view.Message
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%s Orders (Last %d):\n", capitalize(string(status)), len(orders))

		table := newTable(&b)
		table.SetHeader([]string{"Order ID", "Symbol", "Side", "Type", "Qty", "Filled", "Avg Fill", "Status", "Submitted At"})
		for _, o := range orders {
			table.Append([]string{
				o.ID,
				o.Symbol,
				string(o.Side),
				string(o.Type),
				QuantityPtr(o.Qty),
				Quantity(o.FilledQty),
				MoneyPtr(o.FilledAvgPrice),
				valueOr(o.Status, Unknown),
				Timestamp(o.SubmittedAt),
			})
		}
		table.Render()
		return strings.TrimRight(b.String(), "\n")
	})
}

// Quote renders the latest quote for symbol. A nil quote means none was found.
func (f *Formatter) Quote(symbol string, q *domain.Quote) string {
	if q == nil {
		msg := fmt.Sprintf("No quote data found for symbol %s.", symbol)
		return f.render(quoteResultView{Message: msg}, func() string { return msg })
	}

	view := quoteResultView{Message: fmt.Sprintf("Latest quote for %s", symbol), Quote: newQuoteView(q)}
	return f.render(view, func() string {
		var b strings.Builder
		fmt.Fprintf(&b, "Latest Quote for %s:\n", symbol)
		fmt.Fprintf(&b, "- Bid Price: %s\n", Money(q.BidPrice))
		fmt.Fprintf(&b, "- Ask Price: %s\n", Money(q.AskPrice))
		fmt.Fprintf(&b, "- Bid Size: %s\n", f.count(uint64(q.BidSize)))
		fmt.Fprintf(&b, "- Ask Size: %s\n", f.count(uint64(q.AskSize)))
		fmt.Fprintf(&b, "- Timestamp: %s", Timestamp(q.Timestamp))
		return b.String()
	})
}

// Bars renders daily bars for symbol, oldest first.
func (f *Formatter) Bars(symbol string, bars []*domain.Bar) string {
	view := barsView{Symbol: symbol, Bars: make([]barView, 0, len(bars))}
	for _, bar := range bars {
		view.Bars = append(view.Bars, newBarView(bar))
	}
	if len(bars) == 0 {
		view.Message = fmt.Sprintf("No bar data found for symbol %s.", symbol)
	} else {
		view.Message = fmt.Sprintf("Historical Price Data for %s (Last %d trading days)", symbol, len(bars))
	}

	return f.render(view, func() string {
		if len(bars) == 0 {
			return view.Message
		}
		var b strings.Builder
		b.WriteString(view.Message + ":\n")

		table := newTable(&b)
		table.SetHeader([]string{"Date", "Open", "High", "Low", "Close", "Volume"})
		for _, row := range view.Bars {
			table.Append([]string{row.Date, row.Open, row.High, row.Low, row.Close, f.count(row.Volume)})
		}
		table.Render()
		return strings.TrimRight(b.String(), "\n")
	})
}

// OrderPlaced renders the brokerage's acknowledgement of an order built from intent.
func (f *Formatter) OrderPlaced(intent *domain.OrderIntent, order *domain.Order) string {
	view := orderPlacedView{
		Message: intentTitle(intent.Kind) + " placed successfully",
		Order:   newOrderView(order),
	}
	hasEntryLimit := intent.LimitPrice != nil && (intent.Kind == domain.IntentBracket || intent.Kind == domain.IntentOTO)
	if hasEntryLimit {
		view.EntryLimitPrice = optMoney(intent.LimitPrice)
	}
	view.TakeProfitPrice = optMoney(intent.TakeProfitPrice)
	view.StopLossPrice = optMoney(intent.StopLossPrice)
	view.StopLossLimitPrice = optMoney(intent.StopLossLimitPrice)
	if intent.Kind == domain.IntentTrailingStop {
		s := trailValue(intent)
		view.TrailAmount = &s
	}

	return f.render(view, func() string {
		var b strings.Builder
		b.WriteString(view.Message + ":\n")
		fmt.Fprintf(&b, "- Order ID: %s\n", order.ID)
		fmt.Fprintf(&b, "- Symbol: %s\n", order.Symbol)
		fmt.Fprintf(&b, "- Side: %s\n", order.Side)
		fmt.Fprintf(&b, "- Quantity: %s\n", QuantityPtr(order.Qty))

		switch intent.Kind {
		case domain.IntentLimit:
			limit := order.LimitPrice
			if limit == nil {
				limit = intent.LimitPrice
			}
			fmt.Fprintf(&b, "- Limit Price: %s\n", MoneyPtr(limit))
		case domain.IntentBracket, domain.IntentOTO:
			fmt.Fprintf(&b, "- Order Type: %s\n", order.Type)
			fmt.Fprintf(&b, "- Order Class: %s\n", order.Class)
		case domain.IntentOCO:
			fmt.Fprintf(&b, "- Order Class: %s\n", order.Class)
		case domain.IntentTrailingStop:
			fmt.Fprintf(&b, "- Order Type: %s\n", order.Type)
			fmt.Fprintf(&b, "- %s\n", trailDescription(intent))
			fmt.Fprintf(&b, "- Time in Force: %s\n", intent.TimeInForce)
		}

		if intent.TakeProfitPrice != nil {
			fmt.Fprintf(&b, "- Take Profit Price: %s\n", Money(*intent.TakeProfitPrice))
		}
		if intent.StopLossPrice != nil {
			fmt.Fprintf(&b, "- Stop Loss Price: %s\n", Money(*intent.StopLossPrice))
		}
		fmt.Fprintf(&b, "- Status: %s\n", valueOr(order.Status, Unknown))
		fmt.Fprintf(&b, "- Submitted At: %s", Timestamp(order.SubmittedAt))

		if hasEntryLimit {
			fmt.Fprintf(&b, "\n- Entry Limit Price: %s", Money(*intent.LimitPrice))
		}
		if intent.StopLossLimitPrice != nil {
			fmt.Fprintf(&b, "\n- Stop Loss Limit Price: %s", Money(*intent.StopLossLimitPrice))
		}
		return b.String()
	})
}

// CancelledOrders renders the result of cancelling every open order.
func (f *Formatter) CancelledOrders(orders []*domain.Order) string {
	view := bulkView{Orders: newOrderViews(orders)}
	if len(orders) == 0 {
		view.Message = "No orders to cancel."
	} else {
		view.Message = fmt.Sprintf("Successfully cancelled %d orders", len(orders))
	}
	return f.render(view, func() string { return bulkText(view.Message, orders) })
}

// ClosedPositions renders the closing orders submitted by a close-all.
func (f *Formatter) ClosedPositions(orders []*domain.Order) string {
	view := bulkView{Orders: newOrderViews(orders)}
	if len(orders) == 0 {
		view.Message = "No positions to close."
	} else {
		view.Message = fmt.Sprintf("Successfully closed %d positions", len(orders))
	}
	return f.render(view, func() string { return bulkText(view.Message, orders) })
}

// ProfitTake renders one partial profit evaluation.
func (f *Formatter) ProfitTake(r *domain.ProfitTake) string {
	view := profitView{
		Symbol:          r.Symbol,
		Outcome:         string(r.Outcome),
		Threshold:       Percent(r.Threshold),
		ClosePercentage: Percent(r.ClosePercentage),
	}
	if r.Outcome != domain.ProfitNoPosition {
		p := Percent(r.Profit)
		view.Profit = &p
	}
	if r.Order != nil {
		o := newOrderView(r.Order)
		view.Order = &o
	}

	switch r.Outcome {
	case domain.ProfitNoPosition:
		view.Message = fmt.Sprintf("No position found for symbol %s.", r.Symbol)
	case domain.ProfitBelowThreshold:
		view.Message = fmt.Sprintf("Position for %s does not meet profit threshold", r.Symbol)
	default:
		view.Message = fmt.Sprintf("Partial profit taken for %s", r.Symbol)
	}

	return f.render(view, func() string {
		switch r.Outcome {
		case domain.ProfitNoPosition:
			return view.Message
		case domain.ProfitBelowThreshold:
			return fmt.Sprintf("%s:\n- Current profit: %s\n- Required threshold: %s\n- No action taken.",
				view.Message, Percent(r.Profit), Percent(r.Threshold))
		}
		id, status := Unknown, Unknown
		if r.Order != nil {
			id, status = valueOr(r.Order.ID, Unknown), valueOr(r.Order.Status, Unknown)
		}
		return fmt.Sprintf("%s:\n- Profit percentage: %s\n- Threshold met: %s\n- Closed percentage: %s\n- Order ID: %s\n- Status: %s",
			view.Message, Percent(r.Profit), Percent(r.Threshold), Percent(r.ClosePercentage), id, status)
	})
}

// Pong renders the health check reply.
func (f *Formatter) Pong(a *domain.Account) string {
	view := pingView{Message: "Pong! Server is responding.", AccountStatus: valueOr(a.Status, Unknown)}
	return f.render(view, func() string {
		return fmt.Sprintf("%s Account status: %s", view.Message, view.AccountStatus)
	})
}

// Failure renders an error message. category is validation, broker or unexpected.
func (f *Formatter) Failure(category, msg string) string {
	return f.render(failureView{Error: msg, Category: category}, func() string { return msg })
}

// --- Text helpers ---

func newTable(b *strings.Builder) *tablewriter.Table {
	table := tablewriter.NewWriter(b)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func bulkText(msg string, orders []*domain.Order) string {
	if len(orders) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg + ":")
	for _, o := range orders {
		fmt.Fprintf(&b, "\n- %s %s %s (Order ID: %s)", o.Symbol, valueOr(string(o.Side), Unknown), QuantityPtr(o.Qty), o.ID)
	}
	return b.String()
}

func intentTitle(kind domain.IntentKind) string {
	switch kind {
	case domain.IntentMarket:
		return "Market order"
	case domain.IntentLimit:
		return "Limit order"
	case domain.IntentBracket:
		return "Bracket order"
	case domain.IntentOCO:
		return "OCO order"
	case domain.IntentOTO:
		return "OTO order"
	case domain.IntentTrailingStop:
		return "Trailing stop order"
	default:
		return "Order"
	}
}

func trailValue(intent *domain.OrderIntent) string {
	if intent.TrailType == domain.TrailPercent {
		return Percent(intent.TrailAmount)
	}
	return Money(intent.TrailAmount)
}

func trailDescription(intent *domain.OrderIntent) string {
	if intent.TrailType == domain.TrailPercent {
		return "Trail Percentage: " + trailValue(intent)
	}
	return "Trail Amount: " + trailValue(intent)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
