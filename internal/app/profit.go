package app

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"investPilot/internal/domain"
	"investPilot/internal/ports"
)

// meetsThreshold is the partial profit trigger: the position's unrealized P/L
// fraction must meet or exceed the threshold.
func meetsThreshold(profit, threshold decimal.Decimal) bool {
	return profit.GreaterThanOrEqual(threshold)
}

// takePartialProfit closes closeFraction of the position in symbol when its
// unrealized P/L fraction meets threshold. No order is sent otherwise.
func (s *ToolService) takePartialProfit(ctx context.Context, symbol string, threshold, closeFraction decimal.Decimal) (*domain.ProfitTake, error) {
	result := &domain.ProfitTake{
		Symbol:          symbol,
		Threshold:       threshold,
		ClosePercentage: closeFraction,
	}
	fields := map[string]interface{}{"symbol": symbol, "threshold": threshold.String(), "closeFraction": closeFraction.String()}

	pos, err := s.broker.GetPosition(ctx, symbol)
	if errors.Is(err, ports.ErrPositionNotFound) {
		s.logger.Warn(ctx, "No position found for partial profit", fields)
		result.Outcome = domain.ProfitNoPosition
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	result.Profit = pos.ProfitFraction()
	fields["profit"] = result.Profit.String()
	if !meetsThreshold(result.Profit, threshold) {
		s.logger.Info(ctx, "Profit threshold not met, no action taken", fields)
		result.Outcome = domain.ProfitBelowThreshold
		return result, nil
	}

	order, err := s.broker.ClosePosition(ctx, symbol, closeFraction)
	if errors.Is(err, ports.ErrPositionNotFound) {
		// Closed elsewhere between the lookup and the close.
		s.logger.Warn(ctx, "Position disappeared before partial close", fields)
		result.Outcome = domain.ProfitNoPosition
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	result.Outcome = domain.ProfitTaken
	result.Order = order
	fields["orderID"] = order.ID
	s.logger.Info(ctx, "Partial profit taken", fields)
	return result, nil
}
