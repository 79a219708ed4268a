// package shared defines shared helpers
package shared

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// TimestampLayout is a fixed-width ISO-8601 layout in UTC.
//
// Fixed width keeps lexical order equal to chronological order, so timestamp columns sort correctly as text.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z"

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// NewFileLogger creates a [log.Logger] that appends to the file at path, creating parent directories as needed.
//
// Used by the TUI so log lines do not draw over the terminal screen.
func NewFileLogger(path string) (*log.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return NewLogger(f), nil
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// FormatTimestamp renders t in [TimestampLayout].
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp reads a timestamp written by [FormatTimestamp], or any RFC 3339 value.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// FormatDate renders a stored timestamp or YYYY-MM-DD date as "Jan 2, 2006".
//
// Values that cannot be parsed are returned unchanged.
func FormatDate(s string) string {
	if s == "" {
		return ""
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("Jan 2, 2006")
	}
	if t, err := ParseTimestamp(s); err == nil {
		return t.Format("Jan 2, 2006")
	}
	return s
}

// FormatCurrency renders an amount with a symbol prefix and thousands separators, e.g. "$1,499.99".
//
// A nil or zero amount renders as "Not specified".
func FormatCurrency(symbol string, amount *float64) string {
	if amount == nil || *amount == 0 {
		return "Not specified"
	}

	sign := ""
	v := *amount
	if v < 0 {
		sign = "-"
		v = math.Abs(v)
	}

	whole, frac := math.Modf(v)
	cents := int(math.Round(frac * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	digits := strconv.FormatInt(int64(whole), 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return fmt.Sprintf("%s%s%s.%02d", sign, symbol, b.String(), cents)
}

// MarshalJSON encodes v, indenting when pretty is set.
func MarshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// Pluralize returns singular when n is 1, plural otherwise.
func Pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
