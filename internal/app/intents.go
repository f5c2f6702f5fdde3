package app

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"investPilot/internal/domain"
)

// ParseIntent validates args for an order of the given kind and returns the
// typed intent. It never contacts the brokerage.
func ParseIntent(kind domain.IntentKind, args Args) (*domain.OrderIntent, error) {
	intent := &domain.OrderIntent{Kind: kind}

	intent.Symbol = domain.NormalizeSymbol(args.String("symbol", ""))
	if intent.Symbol == "" {
		return nil, invalid("symbol", "is required")
	}

	if kind == domain.IntentOCO {
		// OCO exits an existing long position.
		intent.Side = domain.Sell
	} else {
		side, err := parseSide(args.String("side", ""))
		if err != nil {
			return nil, err
		}
		intent.Side = side
	}

	qty, err := positive(args, "quantity", true)
	if err != nil {
		return nil, err
	}
	intent.Qty = *qty

	intent.TimeInForce = domain.ParseTimeInForce(args.String("time_in_force", ""), defaultTimeInForce(kind))

	switch kind {
	case domain.IntentMarket:
		intent.EntryType = domain.OrderTypeMarket

	case domain.IntentLimit:
		intent.EntryType = domain.OrderTypeLimit
		if intent.LimitPrice, err = positive(args, "limit_price", true); err != nil {
			return nil, err
		}

	case domain.IntentBracket:
		if err := parseEntry(intent, args); err != nil {
			return nil, err
		}
		if err := parseExits(intent, args, true, true); err != nil {
			return nil, err
		}

	case domain.IntentOCO:
		intent.EntryType = domain.OrderTypeLimit
		if err := parseExits(intent, args, true, true); err != nil {
			return nil, err
		}

	case domain.IntentOTO:
		if err := parseEntry(intent, args); err != nil {
			return nil, err
		}
		if args.Has("take_profit_price") == args.Has("stop_loss_price") {
			return nil, invalid("take_profit_price/stop_loss_price", "exactly one of take_profit_price or stop_loss_price must be provided for OTO orders")
		}
		if err := parseExits(intent, args, false, false); err != nil {
			return nil, err
		}
		if intent.StopLossLimitPrice != nil && intent.StopLossPrice == nil {
			return nil, invalid("stop_loss_limit_price", "requires stop_loss_price")
		}

	case domain.IntentTrailingStop:
		intent.EntryType = domain.OrderTypeTrailingStop
		if err := parseTrail(intent, args); err != nil {
			return nil, err
		}

	default:
		return nil, invalid("order", fmt.Sprintf("unsupported order kind %q", kind))
	}

	return intent, nil
}

// defaultTimeInForce is GTC for orders with attached exits and DAY otherwise.
func defaultTimeInForce(kind domain.IntentKind) domain.TimeInForce {
	switch kind {
	case domain.IntentBracket, domain.IntentOCO, domain.IntentOTO:
		return domain.GTC
	default:
		return domain.Day
	}
}

func parseSide(s string) (domain.OrderSide, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(domain.Buy):
		return domain.Buy, nil
	case string(domain.Sell):
		return domain.Sell, nil
	case "":
		return "", invalid("side", "is required")
	default:
		return "", invalid("side", fmt.Sprintf("invalid order side '%s', must be 'buy' or 'sell'", s))
	}
}

// parseEntry reads order_type and, for limit entries, limit_price.
func parseEntry(intent *domain.OrderIntent, args Args) error {
	switch strings.ToLower(args.String("order_type", string(domain.OrderTypeMarket))) {
	case string(domain.OrderTypeMarket):
		intent.EntryType = domain.OrderTypeMarket
		return nil
	case string(domain.OrderTypeLimit):
		intent.EntryType = domain.OrderTypeLimit
	default:
		return invalid("order_type", "must be 'market' or 'limit'")
	}

	limit, err := positive(args, "limit_price", false)
	if err != nil {
		return err
	}
	if limit == nil {
		return invalid("limit_price", "is required for limit orders")
	}
	intent.LimitPrice = limit
	return nil
}

func parseExits(intent *domain.OrderIntent, args Args, needTakeProfit, needStopLoss bool) error {
	var err error
	if intent.TakeProfitPrice, err = positive(args, "take_profit_price", needTakeProfit); err != nil {
		return err
	}
	if intent.StopLossPrice, err = positive(args, "stop_loss_price", needStopLoss); err != nil {
		return err
	}
	if intent.StopLossLimitPrice, err = positive(args, "stop_loss_limit_price", false); err != nil {
		return err
	}
	return nil
}

func parseTrail(intent *domain.OrderIntent, args Args) error {
	switch domain.TrailType(strings.ToLower(args.String("trail_type", ""))) {
	case domain.TrailPrice:
		intent.TrailType = domain.TrailPrice
	case domain.TrailPercent:
		intent.TrailType = domain.TrailPercent
	case "":
		return invalid("trail_type", "is required")
	default:
		return invalid("trail_type", "must be 'price' or 'percent'")
	}

	amount, err := positive(args, "trail_amount", true)
	if err != nil {
		return err
	}
	if intent.TrailType == domain.TrailPercent && amount.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return invalid("trail_amount", "must be a fraction below 1 for percent trails (0.05 is 5%)")
	}
	intent.TrailAmount = *amount
	return nil
}

// positive reads key as a decimal that must be greater than zero.
// Absent optional values return nil.
func positive(args Args, key string, required bool) (*decimal.Decimal, error) {
	d, err := args.Decimal(key)
	if err != nil {
		return nil, err
	}
	if d == nil {
		if required {
			return nil, invalid(key, "is required")
		}
		return nil, nil
	}
	if !d.IsPositive() {
		return nil, invalid(key, "must be greater than zero")
	}
	return d, nil
}
