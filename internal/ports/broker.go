package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"investPilot/internal/domain"
)

// Broker is the sole boundary to the brokerage. Every call either returns the
// brokerage's result translated to domain types or an error; nothing is cached
// or synthesized locally.
type Broker interface {
	// GetAccount retrieves a fresh account snapshot.
	GetAccount(ctx context.Context) (*domain.Account, error)

	// GetPositions retrieves all open positions.
	GetPositions(ctx context.Context) ([]*domain.Position, error)

	// GetPosition retrieves the open position for symbol.
	// Fails with an error matching ErrPositionNotFound if there is none.
	GetPosition(ctx context.Context, symbol string) (*domain.Position, error)

	// GetOrders lists orders matching status, newest first, up to limit.
	GetOrders(ctx context.Context, status domain.OrderQueryStatus, limit int) ([]*domain.Order, error)

	// SubmitOrder sends a fully built order request.
	SubmitOrder(ctx context.Context, req *domain.OrderRequest) (*domain.Order, error)

	// CancelAllOrders cancels every open order and returns the orders that were cancelled.
	CancelAllOrders(ctx context.Context) ([]*domain.Order, error)

	// CloseAllPositions liquidates every position, optionally cancelling open orders first.
	// Returns the closing orders.
	CloseAllPositions(ctx context.Context, cancelOrders bool) ([]*domain.Order, error)

	// ClosePosition closes fraction (0 < fraction <= 1) of the position in symbol.
	// Fails with an error matching ErrPositionNotFound if there is no such position.
	ClosePosition(ctx context.Context, symbol string, fraction decimal.Decimal) (*domain.Order, error)

	// GetLatestQuote retrieves the latest quote for symbol. Returns nil, nil if none exists.
	GetLatestQuote(ctx context.Context, symbol string) (*domain.Quote, error)

	// GetBars retrieves daily bars covering roughly the last lookbackDays trading days.
	GetBars(ctx context.Context, symbol string, lookbackDays int) ([]*domain.Bar, error)
}
