package app

import (
	"context"
	"fmt"

	"investPilot/internal/domain"
)

// ParamType is the JSON type of a tool parameter.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamNumber  ParamType = "number"
	ParamInteger ParamType = "integer"
	ParamBoolean ParamType = "boolean"
)

// Param describes one tool argument.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Default     any // nil when there is no default
	Enum        []string
}

// Tool is one entry of the tool table. Transports read Name, Description and
// Params to publish the tool and call ToolService.Invoke to run it.
type Tool struct {
	Name        string
	Description string
	Params      []Param

	failure func(Args) string
	handle  func(ctx context.Context, args Args) (string, error)
}

func fixed(prefix string) func(Args) string {
	return func(Args) string { return prefix }
}

func forSymbol(format string) func(Args) string {
	return func(a Args) string {
		return fmt.Sprintf(format, domain.NormalizeSymbol(a.String("symbol", "")))
	}
}

var (
	symbolParam = Param{Name: "symbol", Type: ParamString, Required: true, Description: "Stock ticker symbol (e.g., AAPL, MSFT)"}
	sideParam   = Param{Name: "side", Type: ParamString, Required: true, Description: "Order side (buy or sell)", Enum: []string{"buy", "sell"}}
	qtyParam    = Param{Name: "quantity", Type: ParamNumber, Required: true, Description: "Number of shares to buy or sell"}
)

func tifParam(def domain.TimeInForce) Param {
	return Param{Name: "time_in_force", Type: ParamString, Default: string(def), Enum: []string{"day", "gtc"},
		Description: "Time in force (day or gtc)"}
}

func entryParams() []Param {
	return []Param{
		{Name: "order_type", Type: ParamString, Default: "market", Enum: []string{"market", "limit"}, Description: "Entry order type (market or limit)"},
		{Name: "limit_price", Type: ParamNumber, Description: "Entry limit price, required when order_type is limit"},
	}
}

// buildTools returns the tool table. Every transport registers exactly these tools.
func (s *ToolService) buildTools() []Tool {
	return []Tool{
		{
			Name:        "ping",
			Description: "Test if the server is responding and the brokerage is reachable.",
			failure:     fixed("Ping failed"),
			handle:      s.ping,
		},
		{
			Name:        "get_account_info",
			Description: "Get the current account information including balances and status.",
			failure:     fixed("Error getting account information"),
			handle:      s.getAccountInfo,
		},
		{
			Name:        "get_positions",
			Description: "Get all current positions in the portfolio.",
			failure:     fixed("Error getting positions"),
			handle:      s.getPositions,
		},
		{
			Name:        "get_stock_quote",
			Description: "Get the latest quote for a stock.",
			Params:      []Param{symbolParam},
			failure:     forSymbol("Error getting quote for %s"),
			handle:      s.getStockQuote,
		},
		{
			Name:        "get_stock_bars",
			Description: "Get historical daily price bars for a stock.",
			Params: []Param{
				symbolParam,
				{Name: "days", Type: ParamInteger, Default: float64(5), Description: "Number of trading days to look back (1-365)"},
			},
			failure: forSymbol("Error getting bars for %s"),
			handle:  s.getStockBars,
		},
		{
			Name:        "get_orders",
			Description: "Get orders with the specified status.",
			Params: []Param{
				{Name: "status", Type: ParamString, Default: "all", Enum: []string{"open", "closed", "all"}, Description: "Order status to filter by (open, closed, all)"},
				{Name: "limit", Type: ParamInteger, Default: float64(10), Description: "Maximum number of orders to return (1-500)"},
			},
			failure: fixed("Error getting orders"),
			handle:  s.getOrders,
		},
		{
			Name:        "place_market_order",
			Description: "Place a market order.",
			Params:      []Param{symbolParam, sideParam, qtyParam},
			failure:     fixed("Error placing market order"),
			handle:      s.placeOrder(domain.IntentMarket),
		},
		{
			Name:        "place_limit_order",
			Description: "Place a limit order.",
			Params: []Param{symbolParam, sideParam, qtyParam,
				{Name: "limit_price", Type: ParamNumber, Required: true, Description: "Limit price for the order"},
			},
			failure: fixed("Error placing limit order"),
			handle:  s.placeOrder(domain.IntentLimit),
		},
		{
			Name:        "cancel_all_orders",
			Description: "Cancel all open orders.",
			failure:     fixed("Error cancelling orders"),
			handle:      s.cancelAllOrders,
		},
		{
			Name:        "close_all_positions",
			Description: "Close all open positions with market orders.",
			Params: []Param{
				{Name: "cancel_orders", Type: ParamBoolean, Default: true, Description: "Cancel all open orders before closing positions"},
			},
			failure: fixed("Error closing positions"),
			handle:  s.closeAllPositions,
		},
		{
			Name:        "take_partial_profit",
			Description: "Close part of a position when its unrealized profit meets or exceeds the threshold.",
			Params: []Param{
				symbolParam,
				{Name: "profit_threshold", Type: ParamNumber, Default: 0.2, Description: "Minimum unrealized profit as a fraction (0.2 for 20%)"},
				{Name: "close_percentage", Type: ParamNumber, Default: 0.5, Description: "Fraction of the position to close (0.5 for 50%)"},
			},
			failure: fixed("Error taking partial profit"),
			handle:  s.takePartialProfitTool,
		},
		{
			Name:        "place_bracket_order",
			Description: "Place a bracket order: an entry with take-profit and stop-loss exits.",
			Params: append([]Param{symbolParam, sideParam, qtyParam,
				{Name: "take_profit_price", Type: ParamNumber, Required: true, Description: "Take profit limit price"},
				{Name: "stop_loss_price", Type: ParamNumber, Required: true, Description: "Stop loss trigger price"},
				{Name: "stop_loss_limit_price", Type: ParamNumber, Description: "Stop loss limit price, makes the stop leg a stop-limit"},
				tifParam(domain.GTC),
			}, entryParams()...),
			failure: fixed("Error placing bracket order"),
			handle:  s.placeOrder(domain.IntentBracket),
		},
		{
			Name:        "place_oco_order",
			Description: "Place a one-cancels-other exit on an existing position: a sell limit at the take-profit price and a stop loss.",
			Params: []Param{symbolParam, qtyParam,
				{Name: "take_profit_price", Type: ParamNumber, Required: true, Description: "Take profit limit price"},
				{Name: "stop_loss_price", Type: ParamNumber, Required: true, Description: "Stop loss trigger price"},
				{Name: "stop_loss_limit_price", Type: ParamNumber, Description: "Stop loss limit price, makes the stop leg a stop-limit"},
				tifParam(domain.GTC),
			},
			failure: fixed("Error placing OCO order"),
			handle:  s.placeOrder(domain.IntentOCO),
		},
		{
			Name:        "place_oto_order",
			Description: "Place a one-triggers-other order: an entry with exactly one exit (take profit or stop loss).",
			Params: append([]Param{symbolParam, sideParam, qtyParam,
				{Name: "take_profit_price", Type: ParamNumber, Description: "Take profit limit price (give this or stop_loss_price)"},
				{Name: "stop_loss_price", Type: ParamNumber, Description: "Stop loss trigger price (give this or take_profit_price)"},
				{Name: "stop_loss_limit_price", Type: ParamNumber, Description: "Stop loss limit price, only with stop_loss_price"},
				tifParam(domain.GTC),
			}, entryParams()...),
			failure: fixed("Error placing OTO order"),
			handle:  s.placeOrder(domain.IntentOTO),
		},
		{
			Name:        "place_trailing_stop_order",
			Description: "Place a trailing stop order that follows the market by a dollar amount or a percentage.",
			Params: []Param{symbolParam, sideParam, qtyParam,
				{Name: "trail_type", Type: ParamString, Required: true, Enum: []string{"price", "percent"}, Description: "Trail by a dollar amount (price) or a fraction (percent)"},
				{Name: "trail_amount", Type: ParamNumber, Required: true, Description: "Dollar offset for price, fraction for percent (0.05 for 5%)"},
				tifParam(domain.Day),
			},
			failure: fixed("Error placing trailing stop order"),
			handle:  s.placeOrder(domain.IntentTrailingStop),
		},
	}
}

// withDefaults returns a copy of args with absent parameters set to their defaults.
func withDefaults(params []Param, args Args) Args {
	out := make(Args, len(args)+len(params))
	for k, v := range args {
		out[k] = v
	}
	for _, p := range params {
		if p.Default != nil && !out.Has(p.Name) {
			out[p.Name] = p.Default
		}
	}
	return out
}

func checkRequired(params []Param, args Args) error {
	for _, p := range params {
		if p.Required && !args.Has(p.Name) {
			return invalid(p.Name, "is required")
		}
	}
	return nil
}
