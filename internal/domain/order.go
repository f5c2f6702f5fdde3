package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the brokerage's record of an order. Status values are owned by the
// brokerage (new, accepted, partially_filled, filled, canceled, rejected, expired, ...)
// and are only displayed here.
type Order struct {
	ID             string
	ClientOrderID  string
	Symbol         string
	Side           OrderSide
	Type           OrderType
	Class          OrderClass
	TimeInForce    TimeInForce
	Status         string
	Qty            *decimal.Decimal
	FilledQty      decimal.Decimal
	LimitPrice     *decimal.Decimal
	StopPrice      *decimal.Decimal
	FilledAvgPrice *decimal.Decimal
	TrailPrice     *decimal.Decimal
	TrailPercent   *decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
	SubmittedAt    time.Time
}

// TakeProfitLeg is the limit exit of a composite order.
type TakeProfitLeg struct {
	LimitPrice decimal.Decimal
}

// StopLossLeg is the stop exit of a composite order. A non-nil LimitPrice makes it stop-limit.
type StopLossLeg struct {
	StopPrice  decimal.Decimal
	LimitPrice *decimal.Decimal
}

// OrderRequest is a fully populated, broker-neutral order ready for submission.
type OrderRequest struct {
	Symbol        string
	Side          OrderSide
	Qty           decimal.Decimal
	Type          OrderType
	TimeInForce   TimeInForce
	Class         OrderClass
	LimitPrice    *decimal.Decimal
	TakeProfit    *TakeProfitLeg
	StopLoss      *StopLossLeg
	TrailPrice    *decimal.Decimal
	TrailPercent  *decimal.Decimal // fraction, 0.05 == 5%
	ClientOrderID string
}

// IntentKind names the user-facing order intents that build an OrderRequest.
type IntentKind string

const (
	IntentMarket       IntentKind = "market"
	IntentLimit        IntentKind = "limit"
	IntentBracket      IntentKind = "bracket"
	IntentOCO          IntentKind = "oco"
	IntentOTO          IntentKind = "oto"
	IntentTrailingStop IntentKind = "trailing_stop"
)

// OrderIntent is a validated request to perform one trading action.
// Which optional fields are set depends on Kind.
type OrderIntent struct {
	Kind               IntentKind
	Symbol             string
	Side               OrderSide
	Qty                decimal.Decimal
	TimeInForce        TimeInForce
	EntryType          OrderType
	LimitPrice         *decimal.Decimal
	TakeProfitPrice    *decimal.Decimal
	StopLossPrice      *decimal.Decimal
	StopLossLimitPrice *decimal.Decimal
	TrailType          TrailType
	TrailAmount        decimal.Decimal
}

// Request builds the brokerage order request for the intent.
func (i *OrderIntent) Request() *OrderRequest {
	req := &OrderRequest{
		Symbol:      i.Symbol,
		Side:        i.Side,
		Qty:         i.Qty,
		Type:        i.EntryType,
		TimeInForce: i.TimeInForce,
		Class:       OrderClassSimple,
		LimitPrice:  i.LimitPrice,
	}

	switch i.Kind {
	case IntentMarket:
		req.Type = OrderTypeMarket
		req.LimitPrice = nil
	case IntentLimit:
		req.Type = OrderTypeLimit
	case IntentBracket:
		req.Class = OrderClassBracket
		req.TakeProfit = i.takeProfitLeg()
		req.StopLoss = i.stopLossLeg()
	case IntentOCO:
		// Exits on an existing long position: a sell limit at the take-profit price.
		req.Side = Sell
		req.Type = OrderTypeLimit
		req.Class = OrderClassOCO
		tp := *i.TakeProfitPrice
		req.LimitPrice = &tp
		req.TakeProfit = i.takeProfitLeg()
		req.StopLoss = i.stopLossLeg()
	case IntentOTO:
		req.Class = OrderClassOTO
		if i.TakeProfitPrice != nil {
			req.TakeProfit = i.takeProfitLeg()
		} else {
			req.StopLoss = i.stopLossLeg()
		}
	case IntentTrailingStop:
		req.Type = OrderTypeTrailingStop
		req.LimitPrice = nil
		amount := i.TrailAmount
		if i.TrailType == TrailPercent {
			req.TrailPercent = &amount
		} else {
			req.TrailPrice = &amount
		}
	}

	if req.Type != OrderTypeLimit {
		req.LimitPrice = nil
	}
	return req
}

func (i *OrderIntent) takeProfitLeg() *TakeProfitLeg {
	if i.TakeProfitPrice == nil {
		return nil
	}
	return &TakeProfitLeg{LimitPrice: *i.TakeProfitPrice}
}

func (i *OrderIntent) stopLossLeg() *StopLossLeg {
	if i.StopLossPrice == nil {
		return nil
	}
	return &StopLossLeg{StopPrice: *i.StopLossPrice, LimitPrice: i.StopLossLimitPrice}
}
