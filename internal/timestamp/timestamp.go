// Package timestamp normalises protocol timestamps of uncertain resolution.
//
// Timestamps arrive as event created_at values (unix seconds), as tag strings
// (usually seconds, occasionally milliseconds), or as values already converted
// by a client. Every operation here shares one normalisation rule and never
// panics: malformed input degrades to a fallback value.
package timestamp

import (
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// MillisecondThreshold separates second and millisecond resolution.
// Values strictly greater are read as milliseconds; all others as seconds.
// This is a heuristic: second-resolution values above it only occur after
// the year 2286.
const MillisecondThreshold = 1e10

// maxMillis is the largest representable instant magnitude, ±100,000,000 days from the epoch.
const maxMillis = 8.64e15

// DefaultLayout is the absolute date layout used when none is given.
const DefaultLayout = "Jan 2, 2006"

// Fallback labels.
const (
	UnknownDate = "Unknown date"
	InvalidDate = "Invalid date"
	Recently    = "recently"
)

// Status classifies the outcome of Normalize.
type Status int

const (
	// Absent means no timestamp was supplied (nil, zero or empty).
	Absent Status = iota

	// Invalid means a value was supplied but is not a usable instant.
	Invalid

	// Valid means the returned time is meaningful.
	Valid
)

func (s Status) String() string {
	switch s {
	case Absent:
		return "absent"
	case Invalid:
		return "invalid"
	default:
		return "valid"
	}
}

// Normalize converts v into an instant.
//
// Accepted inputs are nil, signed and unsigned integers, floats, numeric
// strings and time.Time. Strings are parsed like a lenient integer parser:
// leading whitespace and sign are accepted, leading digits are used and any
// trailing characters are ignored. A zero number is absent, while the
// string "0" is the epoch.
func Normalize(v any) (time.Time, Status) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, Absent
	case time.Time:
		if x.IsZero() {
			return time.Time{}, Absent
		}
		return x, Valid
	case *time.Time:
		if x == nil {
			return time.Time{}, Absent
		}
		return Normalize(*x)
	case string:
		if x == "" {
			return time.Time{}, Absent
		}
		n, ok := parseLeadingInt(x)
		if !ok {
			return time.Time{}, Invalid
		}
		return fromNumber(n)
	case int:
		return fromNonZero(float64(x))
	case int32:
		return fromNonZero(float64(x))
	case int64:
		return fromNonZero(float64(x))
	case uint:
		return fromNonZero(float64(x))
	case uint32:
		return fromNonZero(float64(x))
	case uint64:
		return fromNonZero(float64(x))
	case float32:
		return fromNonZero(float64(x))
	case float64:
		return fromNonZero(x)
	default:
		return time.Time{}, Invalid
	}
}

func fromNonZero(n float64) (time.Time, Status) {
	if n == 0 || math.IsNaN(n) {
		return time.Time{}, Absent
	}
	return fromNumber(n)
}

func fromNumber(n float64) (time.Time, Status) {
	ms := n
	if n <= MillisecondThreshold {
		ms = n * 1000
	}
	if math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxMillis {
		return time.Time{}, Invalid
	}
	ms = math.Trunc(ms)
	return time.UnixMilli(int64(ms)), Valid
}

// parseLeadingInt reads an optionally signed run of leading decimal digits.
func parseLeadingInt(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	var n float64
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		n = n*10 + float64(s[digits]-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// IsValid reports whether v normalises to a usable instant.
func IsValid(v any) bool {
	_, st := Normalize(v)
	return st == Valid
}

// FormatDate renders v with layout (DefaultLayout when empty).
// Absent input yields UnknownDate and unusable input yields InvalidDate.
func FormatDate(v any, layout string) string {
	t, st := Normalize(v)
	switch st {
	case Absent:
		return UnknownDate
	case Invalid:
		return InvalidDate
	}
	if layout == "" {
		layout = DefaultLayout
	}
	return t.UTC().Format(layout)
}

// FormatRelative renders v relative to now, e.g. "3 days ago".
// Absent or unusable input yields Recently.
func FormatRelative(v any, now time.Time) string {
	t, st := Normalize(v)
	if st != Valid {
		return Recently
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// SafeTime returns the normalised instant, or now when v is absent or unusable.
func SafeTime(v any, now time.Time) time.Time {
	t, st := Normalize(v)
	if st != Valid {
		return now
	}
	return t
}
