package alpacaclient

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investPilot/internal/domain"
	"investPilot/internal/ports"
)

// Mock implementations
type mockLogger struct {
	errorMsgs []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	m.errorMsgs = append(m.errorMsgs, msg)
}

type fakeTrading struct {
	account    *alpaca.Account
	accountErr error

	positions   []alpaca.Position
	position    *alpaca.Position
	positionErr error

	orders      []alpaca.Order
	ordersErr   error
	ordersReqs  []alpaca.GetOrdersRequest
	cancelCalls int
	cancelErr   error

	placed   []alpaca.PlaceOrderRequest
	placeErr error

	closeAllReq alpaca.CloseAllPositionsRequest
	closeAll    []alpaca.Order

	closeSymbol string
	closeReq    alpaca.ClosePositionRequest
	closeErr    error
}

func (f *fakeTrading) GetAccount() (*alpaca.Account, error) { return f.account, f.accountErr }
func (f *fakeTrading) GetPositions() ([]alpaca.Position, error) {
	return f.positions, nil
}
func (f *fakeTrading) GetPosition(symbol string) (*alpaca.Position, error) {
	return f.position, f.positionErr
}
func (f *fakeTrading) GetOrders(req alpaca.GetOrdersRequest) ([]alpaca.Order, error) {
	f.ordersReqs = append(f.ordersReqs, req)
	return f.orders, f.ordersErr
}
func (f *fakeTrading) PlaceOrder(req alpaca.PlaceOrderRequest) (*alpaca.Order, error) {
	f.placed = append(f.placed, req)
	if f.placeErr != nil {
		return nil, f.placeErr
	}
	return &alpaca.Order{ID: "order-1", Symbol: req.Symbol, Side: req.Side, Type: req.Type, OrderClass: req.OrderClass, Qty: req.Qty, Status: "accepted"}, nil
}
func (f *fakeTrading) CancelAllOrders() error {
	f.cancelCalls++
	return f.cancelErr
}
func (f *fakeTrading) CloseAllPositions(req alpaca.CloseAllPositionsRequest) ([]alpaca.Order, error) {
	f.closeAllReq = req
	return f.closeAll, nil
}
func (f *fakeTrading) ClosePosition(symbol string, req alpaca.ClosePositionRequest) (*alpaca.Order, error) {
	f.closeSymbol = symbol
	f.closeReq = req
	if f.closeErr != nil {
		return nil, f.closeErr
	}
	return &alpaca.Order{ID: "close-1", Symbol: symbol, Status: "accepted"}, nil
}

type fakeData struct {
	quote   *marketdata.Quote
	bars    []marketdata.Bar
	barsReq marketdata.GetBarsRequest
}

func (f *fakeData) GetLatestQuote(symbol string, req marketdata.GetLatestQuoteRequest) (*marketdata.Quote, error) {
	return f.quote, nil
}
func (f *fakeData) GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error) {
	f.barsReq = req
	return f.bars, nil
}

func newTestClient(tr *fakeTrading, data *fakeData) (*Client, *mockLogger) {
	log := &mockLogger{}
	c := newClient(tr, data, log, "iex")
	c.newID = func() string { return "client-id-1" }
	return c, log
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestNewRequiresLoggerAndCredentials(t *testing.T) {
	_, err := New(Config{APIKey: "k", SecretKey: "s"})
	assert.Error(t, err)

	_, err = New(Config{Logger: &mockLogger{}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrConfigurationError)
}

func TestSubmitOrderTrailingPercentUsesAlpacaScale(t *testing.T) {
	tr := &fakeTrading{}
	c, _ := newTestClient(tr, &fakeData{})

	pct := dec("0.05")
	order, err := c.SubmitOrder(context.Background(), &domain.OrderRequest{
		Symbol:       "AAPL",
		Side:         domain.Sell,
		Qty:          dec("10"),
		Type:         domain.OrderTypeTrailingStop,
		TimeInForce:  domain.Day,
		Class:        domain.OrderClassSimple,
		TrailPercent: &pct,
	})
	require.NoError(t, err)
	require.Len(t, tr.placed, 1)

	req := tr.placed[0]
	require.NotNil(t, req.TrailPercent)
	assert.True(t, req.TrailPercent.Equal(dec("5")), "got %s", req.TrailPercent)
	assert.Nil(t, req.TrailPrice)
	assert.Equal(t, alpaca.TrailingStop, req.Type)
	assert.Equal(t, alpaca.OrderClass(""), req.OrderClass)
	assert.Equal(t, "client-id-1", req.ClientOrderID)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, "accepted", order.Status)
}

func TestSubmitOrderBracketLegs(t *testing.T) {
	tr := &fakeTrading{}
	c, _ := newTestClient(tr, &fakeData{})

	_, err := c.SubmitOrder(context.Background(), &domain.OrderRequest{
		Symbol:      "MSFT",
		Side:        domain.Buy,
		Qty:         dec("3"),
		Type:        domain.OrderTypeLimit,
		TimeInForce: domain.GTC,
		Class:       domain.OrderClassBracket,
		LimitPrice:  decPtr("400"),
		TakeProfit:  &domain.TakeProfitLeg{LimitPrice: dec("450")},
		StopLoss:    &domain.StopLossLeg{StopPrice: dec("380"), LimitPrice: decPtr("379.5")},
	})
	require.NoError(t, err)

	req := tr.placed[0]
	assert.Equal(t, alpaca.Bracket, req.OrderClass)
	assert.Equal(t, alpaca.GTC, req.TimeInForce)
	require.NotNil(t, req.TakeProfit)
	assert.True(t, req.TakeProfit.LimitPrice.Equal(dec("450")))
	require.NotNil(t, req.StopLoss)
	assert.True(t, req.StopLoss.StopPrice.Equal(dec("380")))
	assert.True(t, req.StopLoss.LimitPrice.Equal(dec("379.5")))
	assert.True(t, req.LimitPrice.Equal(dec("400")))
}

func TestClosePositionConvertsFraction(t *testing.T) {
	tr := &fakeTrading{}
	c, _ := newTestClient(tr, &fakeData{})

	order, err := c.ClosePosition(context.Background(), "AAPL", dec("0.5"))
	require.NoError(t, err)
	assert.Equal(t, "AAPL", tr.closeSymbol)
	assert.True(t, tr.closeReq.Percentage.Equal(dec("50")))
	assert.Equal(t, "close-1", order.ID)
}

func TestClosePositionNotFound(t *testing.T) {
	tr := &fakeTrading{closeErr: &alpaca.APIError{StatusCode: http.StatusNotFound, Code: codePositionNotFound, Message: "position does not exist"}}
	c, log := newTestClient(tr, &fakeData{})

	_, err := c.ClosePosition(context.Background(), "TSLA", dec("0.25"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrPositionNotFound)

	var brokerErr *ports.BrokerAPIError
	require.ErrorAs(t, err, &brokerErr)
	assert.Equal(t, http.StatusNotFound, brokerErr.StatusCode)
	assert.Empty(t, log.errorMsgs, "a missing position is not logged as an error")
}

func TestGetPositionNotFoundByMessage(t *testing.T) {
	tr := &fakeTrading{positionErr: errors.New("request failed: position does not exist")}
	c, _ := newTestClient(tr, &fakeData{})

	_, err := c.GetPosition(context.Background(), "NVDA")
	assert.ErrorIs(t, err, ports.ErrPositionNotFound)
}

func TestHandleErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind error
		wantAPI  bool
	}{
		{"unauthorized", &alpaca.APIError{StatusCode: http.StatusUnauthorized, Message: "request is not authorized"}, ports.ErrAuthenticationFailed, true},
		{"buying power", &alpaca.APIError{StatusCode: http.StatusForbidden, Code: 40310000, Message: "insufficient buying power"}, ports.ErrInsufficientFunds, true},
		{"forbidden", &alpaca.APIError{StatusCode: http.StatusForbidden, Message: "forbidden"}, ports.ErrPermissionDenied, true},
		{"unprocessable", &alpaca.APIError{StatusCode: http.StatusUnprocessableEntity, Message: "invalid symbol"}, ports.ErrInvalidRequest, true},
		{"rate limited", &alpaca.APIError{StatusCode: http.StatusTooManyRequests, Message: "rate limit exceeded"}, ports.ErrRateLimited, true},
		{"network", errors.New("dial tcp: connection refused"), ports.ErrConnectionFailed, false},
		{"deadline", context.DeadlineExceeded, ports.ErrTimeout, false},
		{"other", errors.New("unexpected EOF"), ports.ErrUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, log := newTestClient(&fakeTrading{}, &fakeData{})
			err := c.handleError(context.Background(), tt.err, "GetAccount")

			assert.ErrorIs(t, err, tt.wantKind)
			assert.ErrorIs(t, err, tt.err)
			var brokerErr *ports.BrokerAPIError
			assert.Equal(t, tt.wantAPI, errors.As(err, &brokerErr))
			assert.Len(t, log.errorMsgs, 1)
		})
	}
}

func TestSubmitOrderRejectionKind(t *testing.T) {
	tests := []struct {
		name     string
		apiErr   *alpaca.APIError
		wantKind error
	}{
		{"unprocessable", &alpaca.APIError{StatusCode: http.StatusUnprocessableEntity, Message: "qty must be > 0"}, ports.ErrOrderPlacementFailed},
		{"forbidden", &alpaca.APIError{StatusCode: http.StatusForbidden, Message: "trading is not allowed"}, ports.ErrOrderPlacementFailed},
		{"buying power", &alpaca.APIError{StatusCode: http.StatusForbidden, Message: "insufficient buying power"}, ports.ErrInsufficientFunds},
		{"rate limited", &alpaca.APIError{StatusCode: http.StatusTooManyRequests, Message: "rate limit exceeded"}, ports.ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(&fakeTrading{placeErr: tt.apiErr}, &fakeData{})

			_, err := c.SubmitOrder(context.Background(), &domain.OrderRequest{Symbol: "AAPL", Side: domain.Buy, Qty: dec("1"), Type: domain.OrderTypeMarket, TimeInForce: domain.Day})
			var brokerErr *ports.BrokerAPIError
			require.ErrorAs(t, err, &brokerErr)
			assert.ErrorIs(t, err, tt.wantKind)
			assert.Equal(t, tt.apiErr.StatusCode, brokerErr.StatusCode)
		})
	}
}

func TestBrokerErrorCarriesBrokerText(t *testing.T) {
	tr := &fakeTrading{placeErr: &alpaca.APIError{StatusCode: http.StatusForbidden, Message: "insufficient buying power"}}
	c, _ := newTestClient(tr, &fakeData{})

	_, err := c.SubmitOrder(context.Background(), &domain.OrderRequest{Symbol: "AAPL", Side: domain.Buy, Qty: dec("1"), Type: domain.OrderTypeMarket, TimeInForce: domain.Day})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SubmitOrder failed")
	assert.Contains(t, err.Error(), "insufficient buying power")
}

func TestCancelAllOrdersWithNothingOpen(t *testing.T) {
	tr := &fakeTrading{}
	c, _ := newTestClient(tr, &fakeData{})

	orders, err := c.CancelAllOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, 0, tr.cancelCalls)
	require.Len(t, tr.ordersReqs, 1)
	assert.Equal(t, "open", tr.ordersReqs[0].Status)
}

func TestCancelAllOrdersReturnsOpenOrders(t *testing.T) {
	qty := dec("5")
	tr := &fakeTrading{orders: []alpaca.Order{{ID: "a", Symbol: "AAPL", Side: alpaca.Buy, Qty: &qty, Status: "new"}}}
	c, _ := newTestClient(tr, &fakeData{})

	orders, err := c.CancelAllOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "a", orders[0].ID)
	assert.Equal(t, 1, tr.cancelCalls)
}

func TestCloseAllPositionsForwardsCancelFlag(t *testing.T) {
	tr := &fakeTrading{closeAll: []alpaca.Order{{ID: "x", Symbol: "AAPL"}}}
	c, _ := newTestClient(tr, &fakeData{})

	orders, err := c.CloseAllPositions(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, tr.closeAllReq.CancelOrders)
	assert.Len(t, orders, 1)
	assert.Equal(t, domain.OrderClassSimple, orders[0].Class)
}

func TestGetOrdersClampsLimit(t *testing.T) {
	tr := &fakeTrading{}
	c, _ := newTestClient(tr, &fakeData{})

	_, err := c.GetOrders(context.Background(), domain.OrderQueryClosed, 10000)
	require.NoError(t, err)
	assert.Equal(t, maxOrderPage, tr.ordersReqs[0].Limit)
	assert.Equal(t, "closed", tr.ordersReqs[0].Status)
}

func TestGetBarsWindow(t *testing.T) {
	now := time.Date(2024, 3, 15, 16, 0, 0, 0, time.UTC)
	data := &fakeData{bars: []marketdata.Bar{{Timestamp: now.AddDate(0, 0, -1), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 1000}}}
	c, _ := newTestClient(&fakeTrading{}, data)
	c.now = func() time.Time { return now }

	bars, err := c.GetBars(context.Background(), "AAPL", 5)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, now.AddDate(0, 0, -10), data.barsReq.Start)
	assert.Equal(t, now, data.barsReq.End)
	assert.Equal(t, marketdata.OneDay, data.barsReq.TimeFrame)
	assert.True(t, bars[0].Close.Equal(dec("1.5")))
	assert.Equal(t, uint64(1000), bars[0].Volume)
}

func TestGetLatestQuoteNil(t *testing.T) {
	c, _ := newTestClient(&fakeTrading{}, &fakeData{})
	q, err := c.GetLatestQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestTranslatePositionKeepsOptionalNil(t *testing.T) {
	p := translatePosition(&alpaca.Position{Symbol: "AAPL", Qty: dec("10"), UnrealizedPLPC: decPtr("0.25")})
	assert.Nil(t, p.CurrentPrice)
	assert.Nil(t, p.MarketValue)
	assert.True(t, p.ProfitFraction().Equal(dec("0.25")))
}

func TestTranslateOrderPassesStopTypesThrough(t *testing.T) {
	o := translateOrder(&alpaca.Order{
		ID:           "leg-1",
		Symbol:       "AAPL",
		Side:         alpaca.Sell,
		Type:         alpaca.StopLimit,
		Qty:          decPtr("5"),
		StopPrice:    decPtr("90"),
		LimitPrice:   decPtr("89.5"),
		TrailPercent: decPtr("5"),
	})
	assert.Equal(t, domain.OrderType("stop_limit"), o.Type)
	assert.Equal(t, domain.OrderClassSimple, o.Class)
	assert.True(t, o.StopPrice.Equal(dec("90")))
	assert.True(t, o.TrailPercent.Equal(dec("0.05")))
}
