package ports

import (
	"errors"
	"fmt"
)

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrTimeout            = errors.New("operation timed out")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Brokerage Specific Errors
	ErrConnectionFailed     = errors.New("failed to connect to the brokerage")
	ErrRateLimited          = errors.New("API rate limit exceeded")
	ErrAuthenticationFailed = errors.New("brokerage authentication failed (check API keys)")
	ErrInsufficientFunds    = errors.New("insufficient buying power for operation")
	ErrMarketClosed         = errors.New("market is closed")
	ErrPositionNotFound     = errors.New("position not found at the brokerage")
	ErrOrderPlacementFailed = errors.New("failed to place order")
)

// BrokerAPIError is returned when the brokerage itself rejected or failed a call.
// Kind is one of the sentinel errors above; Err is the SDK error carrying the
// brokerage's own message.
type BrokerAPIError struct {
	Op         string
	Kind       error
	StatusCode int
	Err        error
}

func (e *BrokerAPIError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

// Unwrap exposes both the sentinel kind and the underlying SDK error to errors.Is/As.
func (e *BrokerAPIError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
