package framecap

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
)

// ErrNegativeLimit is returned by ParseLimit when the input coerces to a
// negative value, including negative infinity.
var ErrNegativeLimit = errors.New("stack limit must not be negative")

// ErrUnsupportedLimit is returned by ParseLimit when the input is not a
// number, a string, a Number, or a Limit.
var ErrUnsupportedLimit = errors.New("stack limit is not a number")

// Number is anything which can convert itself to a float64.  json.Number
// implements it.  If the conversion fails, ParseLimit returns the conversion
// error unchanged.
type Number interface {
	Float64() (float64, error)
}

type limitKind int

const (
	limitUnset limitKind = iota
	limitDepth
	limitUnbounded
)

// Limit bounds how many stack frames are captured for a single error.  The
// zero Limit is unset: a capture with an unset limit falls back to the
// process-wide default (see StackTraceLimit).  A depth of 0 is a valid,
// distinct limit which captures no frames at all.
//
// Limit values are only produced by Depth, Unbounded, and ParseLimit, so a
// Limit in hand is always valid: it cannot hold a negative depth.
type Limit struct {
	kind  limitKind
	depth int
}

// Unbounded returns a limit which captures every available frame, subject
// only to the runtime's own stack limits.
func Unbounded() Limit {
	return Limit{kind: limitUnbounded}
}

// Depth returns a limit of exactly n frames.  n must not be negative: a
// negative n is a programming error and panics.  Use ParseLimit for
// untrusted input.
func Depth(n int) Limit {
	if n < 0 {
		panic(fmt.Sprintf("framecap: Depth(%d): %v", n, ErrNegativeLimit))
	}
	return Limit{kind: limitDepth, depth: n}
}

// IsUnset returns true for the zero Limit.
func (l Limit) IsUnset() bool { return l.kind == limitUnset }

// IsUnbounded returns true if the limit captures every available frame.
func (l Limit) IsUnbounded() bool { return l.kind == limitUnbounded }

// Bound returns the frame count and true for a depth limit, or 0 and false
// for unset and unbounded limits.
func (l Limit) Bound() (int, bool) {
	return l.depth, l.kind == limitDepth
}

func (l Limit) String() string {
	switch l.kind {
	case limitUnbounded:
		return "unbounded"
	case limitDepth:
		return strconv.Itoa(l.depth)
	default:
		return "unset"
	}
}

// ParseLimit converts an arbitrary value into a Limit.  It follows
// ToIntegerOrInfinity-style coercion:
//
//   - nil and an unset Limit mean no limit was requested, and return the
//     unset Limit.
//   - NaN coerces to a depth of 0.
//   - Positive infinity coerces to Unbounded().
//   - Fractional values are truncated toward zero.
//   - Negative values, including negative infinity, return ErrNegativeLimit.
//
// Strings and Numbers are converted to a float64 first; if that conversion
// fails, the conversion error is returned unchanged.  All other types return
// ErrUnsupportedLimit.
//
// ParseLimit is pure: on failure no state anywhere has changed, so a failed
// parse can never leave a partly configured error behind.
func ParseLimit(v interface{}) (Limit, error) {
	switch n := v.(type) {
	case nil:
		return Limit{}, nil
	case Limit:
		return n, nil
	case int:
		return limitFromInt(int64(n))
	case int8:
		return limitFromInt(int64(n))
	case int16:
		return limitFromInt(int64(n))
	case int32:
		return limitFromInt(int64(n))
	case int64:
		return limitFromInt(n)
	case uint:
		return limitFromUint(uint64(n))
	case uint8:
		return limitFromUint(uint64(n))
	case uint16:
		return limitFromUint(uint64(n))
	case uint32:
		return limitFromUint(uint64(n))
	case uint64:
		return limitFromUint(n)
	case float32:
		return limitFromFloat(float64(n))
	case float64:
		return limitFromFloat(n)
	case Number:
		f, err := n.Float64()
		if err != nil {
			return Limit{}, err
		}
		return limitFromFloat(f)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return Limit{}, err
		}
		return limitFromFloat(f)
	default:
		return Limit{}, fmt.Errorf("%w: %T", ErrUnsupportedLimit, v)
	}
}

func limitFromInt(n int64) (Limit, error) {
	if n < 0 {
		return Limit{}, fmt.Errorf("%w: %d", ErrNegativeLimit, n)
	}
	if n > int64(maxInt) {
		n = int64(maxInt)
	}
	return Limit{kind: limitDepth, depth: int(n)}, nil
}

func limitFromUint(n uint64) (Limit, error) {
	if n > uint64(maxInt) {
		n = uint64(maxInt)
	}
	return Limit{kind: limitDepth, depth: int(n)}, nil
}

func limitFromFloat(f float64) (Limit, error) {
	switch {
	case math.IsNaN(f):
		return Limit{kind: limitDepth}, nil
	case math.IsInf(f, 1):
		return Limit{kind: limitUnbounded}, nil
	case f < 0:
		return Limit{}, fmt.Errorf("%w: %v", ErrNegativeLimit, f)
	case f >= float64(maxInt):
		return Limit{kind: limitDepth, depth: maxInt}, nil
	default:
		return Limit{kind: limitDepth, depth: int(math.Trunc(f))}, nil
	}
}

const maxInt = int(^uint(0) >> 1)

// DefaultStackTraceLimit is the process-wide capture depth in effect at
// startup.
const DefaultStackTraceLimit = 50

var (
	policyMu        sync.RWMutex
	stackTraceLimit = Depth(DefaultStackTraceLimit)
	captureStacks   = true
)

// StackTraceLimit returns the process-wide default capture depth.  It applies
// to every capture which does not carry a per-error override
// (see WithStackLimit).
func StackTraceLimit() Limit {
	policyMu.RLock()
	defer policyMu.RUnlock()
	return stackTraceLimit
}

// SetStackTraceLimit changes the process-wide default capture depth.  The new
// value applies to subsequent captures only: a stack already attached to an
// error is never re-walked.  Unset limits are ignored.
func SetStackTraceLimit(l Limit) {
	if l.IsUnset() {
		return
	}
	policyMu.Lock()
	defer policyMu.Unlock()
	stackTraceLimit = l
}

// SetStackTraceLimitValue coerces v with ParseLimit and, on success, applies
// the result as the process-wide default.  It is the untrusted-input form of
// SetStackTraceLimit: a validation or coercion failure is returned and leaves
// the current default unchanged, and a nil v means no change was requested.
func SetStackTraceLimitValue(v interface{}) error {
	l, err := ParseLimit(v)
	if err != nil {
		return err
	}
	SetStackTraceLimit(l)
	return nil
}

// StackCaptureEnabled returns whether stack capturing is enabled.
func StackCaptureEnabled() bool {
	policyMu.RLock()
	defer policyMu.RUnlock()
	return captureStacks
}

// SetStackCaptureEnabled sets stack capturing globally.  Disabling stack
// capture can increase performance.  WithCaptureForced overrides this.
func SetStackCaptureEnabled(enabled bool) {
	policyMu.Lock()
	defer policyMu.Unlock()
	captureStacks = enabled
}
