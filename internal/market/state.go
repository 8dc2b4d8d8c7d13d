// Package market holds the most-recently-validated view of the book that C6
// matches against, plus the book-top acceptance filter described in the
// matcher's design: invalid tops are dropped, and an inter-update coalescer
// collapses tops that arrive too close together in time.
//
// The coalescer interval was a process-wide static in the source; here it is
// a field on State, so two simulator instances never share gating state.
package market

import (
	"github.com/rishav/fillsim/internal/domain"
	"github.com/rishav/fillsim/pkg/quant"
)

// State is the driver's C3: the most recent validated top of book (with its
// best-effort second and third levels) and the most recent valid mid. It
// keeps no separate per-price depth maps.
type State struct {
	LastBookTop  domain.BookTop
	HaveTop      bool
	LastValidMid quant.Price

	lastAcceptedTs quant.Timestamp
	haveAccepted   bool
}

// New creates an empty market state.
func New() *State {
	return &State{}
}

// Accept runs the book-top acceptance filter and, if the top passes,
// updates LastBookTop and LastValidMid. It returns false if the top was
// dropped (invalid, or arriving inside the minimum inter-update interval),
// in which case no state is mutated — feeding the same rejected top twice
// is therefore a no-op both times.
func (s *State) Accept(top domain.BookTop) bool {
	if !top.Valid() {
		return false
	}
	if s.haveAccepted {
		gap := top.Ts - s.lastAcceptedTs
		if gap < quant.MinInterTopIntervalNS {
			return false
		}
	}

	s.LastBookTop = top
	s.HaveTop = true
	s.LastValidMid = top.Mid()
	s.lastAcceptedTs = top.Ts
	s.haveAccepted = true
	return true
}

// BestBid returns the current best bid price, or 0 if no valid top has
// ever been accepted.
func (s *State) BestBid() quant.Price {
	if !s.HaveTop {
		return 0
	}
	return s.LastBookTop.TopLevel.BidPrice
}

// BestAsk returns the current best ask price, or the no-ask sentinel if no
// valid top has ever been accepted.
func (s *State) BestAsk() quant.Price {
	if !s.HaveTop {
		return quant.NoAskPrice
	}
	return s.LastBookTop.TopLevel.AskPrice
}
