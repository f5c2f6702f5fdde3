package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Format selects how tool responses are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Unknown is shown in text output for values the brokerage did not report.
const Unknown = "unknown"

// TimestampLayout renders timestamps as a full date-time, always in UTC.
const TimestampLayout = "Monday, January 2, 2006 15:04:05 MST"

// Formatter renders domain values as tool responses. It holds no mutable
// state and is safe to share between concurrent tool calls.
type Formatter struct {
	format  Format
	printer *message.Printer
}

// New returns a Formatter for format. Unrecognized formats fall back to text.
func New(format string) *Formatter {
	f := Format(strings.ToLower(strings.TrimSpace(format)))
	switch f {
	case FormatJSON, FormatYAML:
	default:
		f = FormatText
	}
	return &Formatter{format: f, printer: message.NewPrinter(language.English)}
}

// Format returns the active output format.
func (f *Formatter) Format() Format {
	return f.format
}

// Structured reports whether responses are key-value documents rather than text.
func (f *Formatter) Structured() bool {
	return f.format != FormatText
}

// render picks the text layout or encodes the structured view.
func (f *Formatter) render(view any, text func() string) string {
	if !f.Structured() {
		return text()
	}

	var (
		out []byte
		err error
	)
	if f.format == FormatYAML {
		out, err = yaml.Marshal(view)
	} else {
		out, err = json.MarshalIndent(view, "", "  ")
	}
	if err != nil {
		return fmt.Sprintf("Unexpected error: failed to encode response: %v", err)
	}
	return strings.TrimRight(string(out), "\n")
}

// --- Value helpers ---

// Money renders d with a dollar prefix and two decimals, rounding half away from zero.
func Money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// MoneyPtr is Money for optional values.
func MoneyPtr(d *decimal.Decimal) string {
	if d == nil {
		return Unknown
	}
	return Money(*d)
}

// Percent renders a fraction (0.2) as a percentage with two decimals ("20.00%").
func Percent(fraction decimal.Decimal) string {
	return fraction.Shift(2).StringFixed(2) + "%"
}

// PercentPtr is Percent for optional values.
func PercentPtr(fraction *decimal.Decimal) string {
	if fraction == nil {
		return Unknown
	}
	return Percent(*fraction)
}

// Timestamp renders t in UTC using TimestampLayout. A zero time is unknown.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return Unknown
	}
	return t.UTC().Format(TimestampLayout)
}

// Quantity renders a share count without trailing zeros.
func Quantity(d decimal.Decimal) string {
	return d.String()
}

// QuantityPtr is Quantity for optional values.
func QuantityPtr(d *decimal.Decimal) string {
	if d == nil {
		return Unknown
	}
	return Quantity(*d)
}

func (f *Formatter) count(n uint64) string {
	return f.printer.Sprintf("%d", n)
}

// Structured documents use nil for missing values so they encode as null.

func optMoney(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := Money(*d)
	return &s
}

func optPercent(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := Percent(*d)
	return &s
}

func optQuantity(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := Quantity(*d)
	return &s
}

func optTimestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := Timestamp(t)
	return &s
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
