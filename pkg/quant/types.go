// Package quant defines the fixed-point numeric types shared by every
// component of the simulator: prices in integer nanos, quantities in
// integer shares, and timestamps in integer nanoseconds since an
// implementation-defined epoch. Nothing on the hot path uses float64.
package quant

import (
	"fmt"
	"math"

	"github.com/rishav/fillsim/pkg/safe"
)

// Price is a signed price in nanos of currency (10^-9 of a currency unit).
type Price int64

// Qty is a quantity of shares.
type Qty uint32

// Timestamp is nanoseconds since an implementation-defined epoch.
type Timestamp uint64

const (
	// NoAskPrice is the sentinel for "no ask known".
	NoAskPrice Price = math.MaxInt64

	// MaxReasonablePrice is the upper bound of a valid Price.
	MaxReasonablePrice Price = 10_000 * 1_000_000_000

	// MinInterTopIntervalNS is the minimum spacing between accepted book tops.
	MinInterTopIntervalNS Timestamp = 100_000
)

// Valid reports whether p is in (0, MaxReasonablePrice].
func (p Price) Valid() bool {
	return p > 0 && p <= MaxReasonablePrice
}

// String renders a Price as a decimal currency string with 9 fraction digits.
func (p Price) String() string {
	return fmt.Sprintf("%d.%09d", int64(p)/1_000_000_000, abs64(int64(p)%1_000_000_000))
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Notional returns price*qty as a signed nanos*shares product, using the
// unrounded form (no truncation through an intermediate /1000*1000 step).
func Notional(p Price, q Qty) int64 {
	return safe.Mul(int64(p), int64(q))
}

// Mid computes the integer-division midpoint of a bid/ask pair.
func Mid(bid, ask Price) Price {
	return (bid + ask) / 2
}
