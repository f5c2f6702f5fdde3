package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investPilot/internal/app"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

type mockRunner struct {
	tools    []app.Tool
	lastName string
	lastArgs app.Args
}

func (m *mockRunner) Tools() []app.Tool { return m.tools }

func (m *mockRunner) Invoke(ctx context.Context, name string, args app.Args) (string, error) {
	m.lastName = name
	m.lastArgs = args
	if name == "missing" {
		return "", fmt.Errorf("unknown tool %q", name)
	}
	return "ok: " + name, nil
}

func quoteTool() app.Tool {
	return app.Tool{
		Name:        "get_stock_bars",
		Description: "Get bars.",
		Params: []app.Param{
			{Name: "symbol", Type: app.ParamString, Required: true, Description: "Ticker"},
			{Name: "days", Type: app.ParamInteger, Default: float64(5), Description: "Days"},
			{Name: "cancel_orders", Type: app.ParamBoolean, Default: true},
		},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	default:
		t.Fatalf("unexpected content type %T", c)
		return ""
	}
}

func TestNewToolSchema(t *testing.T) {
	tool := newTool(quoteTool())

	assert.Equal(t, "get_stock_bars", tool.Name)
	assert.Equal(t, "Get bars.", tool.Description)
	assert.Equal(t, []string{"symbol"}, tool.InputSchema.Required)
	assert.Contains(t, tool.InputSchema.Properties, "symbol")
	assert.Contains(t, tool.InputSchema.Properties, "days")
	assert.Contains(t, tool.InputSchema.Properties, "cancel_orders")

	days, ok := tool.InputSchema.Properties["days"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "integer", days["type"])
	assert.Equal(t, float64(5), days["default"])
}

func TestNewToolKeepsNumberType(t *testing.T) {
	tool := newTool(app.Tool{
		Name:   "place_limit_order",
		Params: []app.Param{{Name: "limit_price", Type: app.ParamNumber, Required: true}},
	})

	price, ok := tool.InputSchema.Properties["limit_price"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "number", price["type"])
	assert.Equal(t, []string{"limit_price"}, tool.InputSchema.Required)
}

func TestHandlerPassesArguments(t *testing.T) {
	runner := &mockRunner{tools: []app.Tool{quoteTool()}}
	s, err := New("invest-pilot", "test", runner, &mockLogger{})
	require.NoError(t, err)

	var req mcp.CallToolRequest
	req.Params.Name = "get_stock_bars"
	req.Params.Arguments = map[string]any{"symbol": "AAPL", "days": float64(3)}

	res, err := s.handler("get_stock_bars")(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "ok: get_stock_bars", resultText(t, res))
	assert.False(t, res.IsError)
	assert.Equal(t, "AAPL", runner.lastArgs["symbol"])
	assert.Equal(t, float64(3), runner.lastArgs["days"])
}

func TestHandlerReportsInvokeError(t *testing.T) {
	runner := &mockRunner{}
	s, err := New("invest-pilot", "test", runner, &mockLogger{})
	require.NoError(t, err)

	res, err := s.handler("missing")(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "unknown tool")
}

func TestHealthz(t *testing.T) {
	s, err := New("invest-pilot", "test", &mockRunner{}, &mockLogger{})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New("invest-pilot", "test", nil, &mockLogger{})
	assert.Error(t, err)
}
