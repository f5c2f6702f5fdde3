package app

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"investPilot/internal/domain"
	"investPilot/internal/ports"
	"investPilot/internal/report"
)

const (
	maxOrderLimit = 500
	maxBarDays    = 365
)

// ToolService runs tool invocations against the brokerage. It holds no mutable
// state; concurrent invocations share only the injected broker client.
type ToolService struct {
	logger    ports.Logger
	broker    ports.Broker
	formatter *report.Formatter
	tools     []Tool
	byName    map[string]int
}

// NewToolService creates a new application service instance.
func NewToolService(logger ports.Logger, broker ports.Broker, formatter *report.Formatter) (*ToolService, error) {
	// Validate dependencies
	if logger == nil || broker == nil || formatter == nil {
		return nil, fmt.Errorf("missing required dependencies for ToolService")
	}

	s := &ToolService{
		logger:    logger,
		broker:    broker,
		formatter: formatter,
	}
	s.tools = s.buildTools()
	s.byName = make(map[string]int, len(s.tools))
	for i, t := range s.tools {
		s.byName[t.Name] = i
	}
	return s, nil
}

// Tools returns the tool table in registration order.
func (s *ToolService) Tools() []Tool {
	out := make([]Tool, len(s.tools))
	copy(out, s.tools)
	return out
}

// Invoke runs the named tool. Every failure inside the tool is rendered into
// the returned text; an error is returned only for an unknown tool name.
func (s *ToolService) Invoke(ctx context.Context, name string, args Args) (string, error) {
	i, ok := s.byName[name]
	if !ok {
		return "", fmt.Errorf("unknown tool %q: %w", name, ports.ErrInvalidRequest)
	}
	return s.run(ctx, s.tools[i], args), nil
}

func (s *ToolService) run(ctx context.Context, tool Tool, args Args) (out string) {
	if args == nil {
		args = Args{}
	}
	s.logger.Info(ctx, "Executing tool", map[string]interface{}{"tool": tool.Name, "params": args.Safe()})

	defer func() {
		if r := recover(); r != nil {
			out = s.fail(ctx, tool, args, fmt.Errorf("panic in tool %s: %v", tool.Name, r))
		}
	}()

	args = withDefaults(tool.Params, args)
	if err := checkRequired(tool.Params, args); err != nil {
		return s.fail(ctx, tool, args, err)
	}

	out, err := tool.handle(ctx, args)
	if err != nil {
		return s.fail(ctx, tool, args, err)
	}
	s.logger.Debug(ctx, "Tool completed", map[string]interface{}{"tool": tool.Name})
	return out
}

func (s *ToolService) fail(ctx context.Context, tool Tool, args Args, err error) string {
	cat, msg := failureMessage(tool.failure(args), err)
	fields := map[string]interface{}{"tool": tool.Name, "category": string(cat)}

	switch cat {
	case CategoryValidation:
		fields["reason"] = err.Error()
		s.logger.Warn(ctx, "Invalid tool parameters", fields)
	case CategoryBroker:
		fields["reason"] = err.Error()
		s.logger.Warn(ctx, "Brokerage rejected tool call", fields)
	default:
		s.logger.Error(ctx, err, "Unexpected tool failure", fields)
	}
	return s.formatter.Failure(string(cat), msg)
}

// --- Handlers ---

func (s *ToolService) ping(ctx context.Context, _ Args) (string, error) {
	acct, err := s.broker.GetAccount(ctx)
	if err != nil {
		return "", err
	}
	return s.formatter.Pong(acct), nil
}

func (s *ToolService) getAccountInfo(ctx context.Context, _ Args) (string, error) {
	acct, err := s.broker.GetAccount(ctx)
	if err != nil {
		return "", err
	}
	return s.formatter.Account(acct), nil
}

func (s *ToolService) getPositions(ctx context.Context, _ Args) (string, error) {
	positions, err := s.broker.GetPositions(ctx)
	if err != nil {
		return "", err
	}
	return s.formatter.Positions(positions), nil
}

func (s *ToolService) getStockQuote(ctx context.Context, args Args) (string, error) {
	symbol := domain.NormalizeSymbol(args.String("symbol", ""))
	quote, err := s.broker.GetLatestQuote(ctx, symbol)
	if err != nil {
		return "", err
	}
	if quote == nil {
		s.logger.Warn(ctx, "No quote data found", map[string]interface{}{"symbol": symbol})
	}
	return s.formatter.Quote(symbol, quote), nil
}

func (s *ToolService) getStockBars(ctx context.Context, args Args) (string, error) {
	symbol := domain.NormalizeSymbol(args.String("symbol", ""))
	days, err := args.Int("days", 5)
	if err != nil {
		return "", err
	}
	if days < 1 || days > maxBarDays {
		return "", invalid("days", fmt.Sprintf("must be between 1 and %d", maxBarDays))
	}

	bars, err := s.broker.GetBars(ctx, symbol, days)
	if err != nil {
		return "", err
	}
	// The request window is padded for weekends and holidays; keep the latest days bars.
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return s.formatter.Bars(symbol, bars), nil
}

func (s *ToolService) getOrders(ctx context.Context, args Args) (string, error) {
	status := domain.ParseOrderQueryStatus(args.String("status", string(domain.OrderQueryAll)))
	limit, err := args.Int("limit", 10)
	if err != nil {
		return "", err
	}
	if limit < 1 || limit > maxOrderLimit {
		return "", invalid("limit", fmt.Sprintf("must be between 1 and %d", maxOrderLimit))
	}

	orders, err := s.broker.GetOrders(ctx, status, limit)
	if err != nil {
		return "", err
	}
	return s.formatter.Orders(status, orders), nil
}

// placeOrder returns the handler for one order intent kind.
func (s *ToolService) placeOrder(kind domain.IntentKind) func(context.Context, Args) (string, error) {
	return func(ctx context.Context, args Args) (string, error) {
		intent, err := ParseIntent(kind, args)
		if err != nil {
			return "", err
		}

		order, err := s.broker.SubmitOrder(ctx, intent.Request())
		if err != nil {
			return "", err
		}
		s.logger.Info(ctx, "Order placed", map[string]interface{}{
			"kind":    string(kind),
			"symbol":  intent.Symbol,
			"side":    string(intent.Side),
			"qty":     intent.Qty.String(),
			"orderID": order.ID,
		})
		return s.formatter.OrderPlaced(intent, order), nil
	}
}

func (s *ToolService) cancelAllOrders(ctx context.Context, _ Args) (string, error) {
	orders, err := s.broker.CancelAllOrders(ctx)
	if err != nil {
		return "", err
	}
	return s.formatter.CancelledOrders(orders), nil
}

func (s *ToolService) closeAllPositions(ctx context.Context, args Args) (string, error) {
	cancelOrders, err := args.Bool("cancel_orders", true)
	if err != nil {
		return "", err
	}
	orders, err := s.broker.CloseAllPositions(ctx, cancelOrders)
	if err != nil {
		return "", err
	}
	return s.formatter.ClosedPositions(orders), nil
}

func (s *ToolService) takePartialProfitTool(ctx context.Context, args Args) (string, error) {
	symbol := domain.NormalizeSymbol(args.String("symbol", ""))

	threshold, err := args.Decimal("profit_threshold")
	if err != nil {
		return "", err
	}
	closeFraction, err := args.Decimal("close_percentage")
	if err != nil {
		return "", err
	}
	if threshold == nil || closeFraction == nil {
		return "", invalid("profit_threshold/close_percentage", "is required")
	}
	if !closeFraction.IsPositive() || closeFraction.GreaterThan(decimal.NewFromInt(1)) {
		return "", invalid("close_percentage", "must be greater than 0 and at most 1 (0.5 for 50%)")
	}

	result, err := s.takePartialProfit(ctx, symbol, *threshold, *closeFraction)
	if err != nil {
		return "", err
	}
	return s.formatter.ProfitTake(result), nil
}
