package domain

// OrderSide represents the side of an order (buy or sell).
type OrderSide string

const (
	Buy  OrderSide = "buy"
	Sell OrderSide = "sell"
)

// OrderType is the execution type of an order or of its entry leg.
type OrderType string

const (
	OrderTypeMarket       OrderType = "market"
	OrderTypeLimit        OrderType = "limit"
	OrderTypeTrailingStop OrderType = "trailing_stop"
)

// OrderClass groups linked orders (bracket, OCO, OTO) as the brokerage understands them.
type OrderClass string

const (
	OrderClassSimple  OrderClass = "simple"
	OrderClassBracket OrderClass = "bracket"
	OrderClassOCO     OrderClass = "oco"
	OrderClassOTO     OrderClass = "oto"
)

// TimeInForce controls how long an order stays working.
type TimeInForce string

const (
	Day TimeInForce = "day"
	GTC TimeInForce = "gtc"
)

// TrailType selects between a fixed-dollar and a percentage trailing offset.
type TrailType string

const (
	TrailPrice   TrailType = "price"
	TrailPercent TrailType = "percent"
)

// OrderQueryStatus filters order listings.
type OrderQueryStatus string

const (
	OrderQueryOpen   OrderQueryStatus = "open"
	OrderQueryClosed OrderQueryStatus = "closed"
	OrderQueryAll    OrderQueryStatus = "all"
)

// ParseOrderQueryStatus normalizes a status filter. Anything unrecognized means "all".
func ParseOrderQueryStatus(s string) OrderQueryStatus {
	switch OrderQueryStatus(normalize(s)) {
	case OrderQueryOpen:
		return OrderQueryOpen
	case OrderQueryClosed:
		return OrderQueryClosed
	default:
		return OrderQueryAll
	}
}

// ParseTimeInForce maps user input to a TimeInForce. Empty input yields def;
// any other unrecognized value falls back to Day.
func ParseTimeInForce(s string, def TimeInForce) TimeInForce {
	switch normalize(s) {
	case "":
		return def
	case string(GTC):
		return GTC
	default:
		return Day
	}
}
