package alpacaclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"investPilot/internal/domain"
	"investPilot/internal/ports"
)

const (
	// Base URLs
	baseURLLive  = "https://api.alpaca.markets"
	baseURLPaper = "https://paper-api.alpaca.markets"

	// maxOrderPage is the largest page the orders endpoint returns.
	maxOrderPage = 500

	// Alpaca's error code for "position does not exist".
	codePositionNotFound = 40410000
)

// tradingAPI is the subset of *alpaca.Client used by the adapter.
type tradingAPI interface {
	GetAccount() (*alpaca.Account, error)
	GetPositions() ([]alpaca.Position, error)
	GetPosition(symbol string) (*alpaca.Position, error)
	GetOrders(req alpaca.GetOrdersRequest) ([]alpaca.Order, error)
	PlaceOrder(req alpaca.PlaceOrderRequest) (*alpaca.Order, error)
	CancelAllOrders() error
	CloseAllPositions(req alpaca.CloseAllPositionsRequest) ([]alpaca.Order, error)
	ClosePosition(symbol string, req alpaca.ClosePositionRequest) (*alpaca.Order, error)
}

// marketDataAPI is the subset of *marketdata.Client used by the adapter.
type marketDataAPI interface {
	GetLatestQuote(symbol string, req marketdata.GetLatestQuoteRequest) (*marketdata.Quote, error)
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// Client implements the ports.Broker interface using the Alpaca Go SDK.
type Client struct {
	trading tradingAPI
	data    marketDataAPI
	logger  ports.Logger
	feed    string
	now     func() time.Time
	newID   func() string
}

// Config holds configuration specific to the Alpaca client adapter.
type Config struct {
	APIKey    string
	SecretKey string
	Paper     bool
	BaseURL   string // overrides the paper/live default when set
	DataFeed  string // iex or sip
	Logger    ports.Logger
}

// New creates a new Alpaca client adapter. It is built once at startup and
// shared by every tool handler.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Alpaca client")
	}
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("alpaca credentials are required: %w", ports.ErrConfigurationError)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Paper {
			baseURL = baseURLPaper
		} else {
			baseURL = baseURLLive
		}
	}
	feed := cfg.DataFeed
	if feed == "" {
		feed = "iex"
	}

	trading := alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    cfg.APIKey,
		APISecret: cfg.SecretKey,
		BaseURL:   baseURL,
	})
	data := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    cfg.APIKey,
		APISecret: cfg.SecretKey,
		Feed:      marketdata.Feed(feed),
	})

	cfg.Logger.Info(context.Background(), "Alpaca client configured", map[string]interface{}{"baseURL": baseURL, "paper": cfg.Paper, "feed": feed})
	return newClient(trading, data, cfg.Logger, feed), nil
}

func newClient(trading tradingAPI, data marketDataAPI, logger ports.Logger, feed string) *Client {
	return &Client{
		trading: trading,
		data:    data,
		logger:  logger,
		feed:    feed,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

const opSubmitOrder = "SubmitOrder"

// handleError translates Alpaca failures into standardized ports errors.
// Rejections reported by the API become *ports.BrokerAPIError; anything else
// (network, context, decoding) is wrapped with a sentinel and stays unexpected.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var apiErr *alpaca.APIError
	if errors.As(err, &apiErr) {
		fields["statusCode"] = apiErr.StatusCode
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message

		c.logger.Error(ctx, err, fmt.Sprintf("%s failed with API error", operation), fields)
		return &ports.BrokerAPIError{
			Op:         operation,
			Kind:       classifyAPIError(apiErr, operation),
			StatusCode: apiErr.StatusCode,
			Err:        err,
		}
	}

	var finalErr error
	if errors.Is(err, context.DeadlineExceeded) {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrTimeout, err)
	} else if errors.Is(err, context.Canceled) {
		finalErr = fmt.Errorf("%s operation canceled: %w: %w", operation, ports.ErrContextCanceled, err)
	} else if strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "connection reset by peer") ||
		strings.Contains(err.Error(), "no such host") ||
		strings.Contains(err.Error(), "i/o timeout") {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrConnectionFailed, err)
	} else {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrUnknown, err)
	}

	c.logger.Error(ctx, err, fmt.Sprintf("%s failed", operation), fields)
	return finalErr
}

// classifyAPIError maps an API rejection to a sentinel. A 403/422 on order
// submission is an order reject rather than a permission or request problem.
func classifyAPIError(apiErr *alpaca.APIError, operation string) error {
	msg := strings.ToLower(apiErr.Message)
	switch {
	case strings.Contains(msg, "buying power"), strings.Contains(msg, "insufficient"):
		return ports.ErrInsufficientFunds
	case strings.Contains(msg, "market is closed"), strings.Contains(msg, "market hours"):
		return ports.ErrMarketClosed
	}

	if operation == opSubmitOrder {
		switch apiErr.StatusCode {
		case http.StatusForbidden, http.StatusUnprocessableEntity:
			return ports.ErrOrderPlacementFailed
		}
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		return ports.ErrAuthenticationFailed
	case http.StatusForbidden:
		return ports.ErrPermissionDenied
	case http.StatusNotFound:
		return ports.ErrNotFound
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return ports.ErrInvalidRequest
	case http.StatusTooManyRequests:
		return ports.ErrRateLimited
	default:
		return ports.ErrUnknown
	}
}

// isPositionNotFound reports whether err means the symbol has no open position.
// Alpaca signals this with HTTP 404 / code 40410000; older responses only carry
// the "position does not exist" text, so the message is matched as a fallback.
func isPositionNotFound(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *alpaca.APIError
	if errors.As(err, &apiErr) && (apiErr.Code == codePositionNotFound || apiErr.StatusCode == http.StatusNotFound) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "position does not exist") || strings.Contains(msg, "position not found")
}

func (c *Client) positionNotFound(ctx context.Context, err error, operation, symbol string) error {
	c.logger.Debug(ctx, operation+": no open position", map[string]interface{}{"symbol": symbol, "originalError": err.Error()})
	return &ports.BrokerAPIError{
		Op:         fmt.Sprintf("%s %s", operation, symbol),
		Kind:       ports.ErrPositionNotFound,
		StatusCode: http.StatusNotFound,
		Err:        err,
	}
}

// GetAccount retrieves a fresh account snapshot.
func (c *Client) GetAccount(ctx context.Context) (*domain.Account, error) {
	op := "GetAccount"
	acct, err := c.trading.GetAccount()
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	if acct == nil {
		return nil, c.handleError(ctx, errors.New("empty account response"), op)
	}
	return translateAccount(acct), nil
}

// GetPositions retrieves all open positions.
func (c *Client) GetPositions(ctx context.Context) ([]*domain.Position, error) {
	op := "GetPositions"
	positions, err := c.trading.GetPositions()
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	out := make([]*domain.Position, 0, len(positions))
	for i := range positions {
		out = append(out, translatePosition(&positions[i]))
	}
	c.logger.Debug(ctx, op+" successful", map[string]interface{}{"count": len(out)})
	return out, nil
}

// GetPosition retrieves the open position for a symbol.
func (c *Client) GetPosition(ctx context.Context, symbol string) (*domain.Position, error) {
	op := "GetPosition"
	pos, err := c.trading.GetPosition(symbol)
	if err != nil {
		if isPositionNotFound(err) {
			return nil, c.positionNotFound(ctx, err, op, symbol)
		}
		return nil, c.handleError(ctx, err, op)
	}
	if pos == nil {
		return nil, c.positionNotFound(ctx, errors.New("position does not exist"), op, symbol)
	}
	return translatePosition(pos), nil
}

// GetOrders lists orders by status, newest first.
func (c *Client) GetOrders(ctx context.Context, status domain.OrderQueryStatus, limit int) ([]*domain.Order, error) {
	op := "GetOrders"
	if limit <= 0 || limit > maxOrderPage {
		limit = maxOrderPage
	}
	orders, err := c.trading.GetOrders(alpaca.GetOrdersRequest{
		Status:    string(status),
		Limit:     limit,
		Direction: "desc",
	})
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	return translateOrders(orders), nil
}

// SubmitOrder sends an order request. A client order id is assigned when the
// request has none so the submission can be correlated in logs.
func (c *Client) SubmitOrder(ctx context.Context, req *domain.OrderRequest) (*domain.Order, error) {
	op := opSubmitOrder
	if req == nil {
		return nil, c.handleError(ctx, errors.New("nil order request"), op)
	}
	placeReq := translateOrderRequest(req)
	if placeReq.ClientOrderID == "" {
		placeReq.ClientOrderID = c.newID()
	}

	fields := map[string]interface{}{
		"symbol":        placeReq.Symbol,
		"side":          placeReq.Side,
		"type":          placeReq.Type,
		"class":         placeReq.OrderClass,
		"qty":           req.Qty.String(),
		"clientOrderID": placeReq.ClientOrderID,
	}
	c.logger.Debug(ctx, op+": submitting order", fields)

	order, err := c.trading.PlaceOrder(placeReq)
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	if order == nil {
		return nil, c.handleError(ctx, errors.New("empty order response"), op)
	}

	resp := translateOrder(order)
	fields["orderID"] = resp.ID
	fields["status"] = resp.Status
	c.logger.Info(ctx, op+" successful", fields)
	return resp, nil
}

// CancelAllOrders cancels every open order. The open orders are listed first so
// the caller can report what was cancelled; with none open, nothing is sent.
func (c *Client) CancelAllOrders(ctx context.Context) ([]*domain.Order, error) {
	op := "CancelAllOrders"
	open, err := c.trading.GetOrders(alpaca.GetOrdersRequest{Status: string(domain.OrderQueryOpen), Limit: maxOrderPage})
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	if len(open) == 0 {
		c.logger.Debug(ctx, op+": no open orders")
		return []*domain.Order{}, nil
	}

	if err := c.trading.CancelAllOrders(); err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	c.logger.Info(ctx, op+" successful", map[string]interface{}{"count": len(open)})
	return translateOrders(open), nil
}

// CloseAllPositions liquidates every position.
func (c *Client) CloseAllPositions(ctx context.Context, cancelOrders bool) ([]*domain.Order, error) {
	op := "CloseAllPositions"
	orders, err := c.trading.CloseAllPositions(alpaca.CloseAllPositionsRequest{CancelOrders: cancelOrders})
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	c.logger.Info(ctx, op+" successful", map[string]interface{}{"count": len(orders), "cancelOrders": cancelOrders})
	return translateOrders(orders), nil
}

// ClosePosition closes fraction of the position in symbol.
func (c *Client) ClosePosition(ctx context.Context, symbol string, fraction decimal.Decimal) (*domain.Order, error) {
	op := "ClosePosition"
	if !fraction.IsPositive() || fraction.GreaterThan(decimal.NewFromInt(1)) {
		return nil, c.handleError(ctx, fmt.Errorf("close fraction %s outside (0, 1]: %w", fraction, ports.ErrInvalidRequest), op)
	}

	// Alpaca expects the percentage on a 0-100 scale.
	order, err := c.trading.ClosePosition(symbol, alpaca.ClosePositionRequest{
		Percentage: fraction.Mul(decimal.NewFromInt(100)),
	})
	if err != nil {
		if isPositionNotFound(err) {
			return nil, c.positionNotFound(ctx, err, op, symbol)
		}
		return nil, c.handleError(ctx, err, op)
	}
	if order == nil {
		return nil, c.handleError(ctx, errors.New("empty order response"), op)
	}

	resp := translateOrder(order)
	c.logger.Info(ctx, op+" successful", map[string]interface{}{"symbol": symbol, "fraction": fraction.String(), "orderID": resp.ID})
	return resp, nil
}

// GetLatestQuote retrieves the latest quote for a symbol.
func (c *Client) GetLatestQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	op := "GetLatestQuote"
	q, err := c.data.GetLatestQuote(symbol, marketdata.GetLatestQuoteRequest{Feed: marketdata.Feed(c.feed)})
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}
	if q == nil {
		return nil, nil
	}
	return translateQuote(symbol, q), nil
}

// GetBars retrieves daily bars. The window spans twice the requested days to
// cover weekends and market holidays; callers trim to the last lookbackDays bars.
func (c *Client) GetBars(ctx context.Context, symbol string, lookbackDays int) ([]*domain.Bar, error) {
	op := "GetBars"
	if lookbackDays <= 0 {
		return nil, c.handleError(ctx, fmt.Errorf("lookback days must be positive: %w", ports.ErrInvalidRequest), op)
	}

	end := c.now()
	start := end.AddDate(0, 0, -2*lookbackDays)
	bars, err := c.data.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     start,
		End:       end,
		Feed:      marketdata.Feed(c.feed),
	})
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	out := make([]*domain.Bar, 0, len(bars))
	for i := range bars {
		out = append(out, translateBar(symbol, &bars[i]))
	}
	c.logger.Debug(ctx, op+" successful", map[string]interface{}{"symbol": symbol, "count": len(out), "start": start.Format(time.RFC3339)})
	return out, nil
}
