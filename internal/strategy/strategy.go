// Package strategy defines the three-callback contract the simulation
// driver calls into, and a basic reference strategy used for smoke testing
// and scenario walkthroughs.
//
// The source exposes this contract through a single abstract base with
// three virtual methods plus setters/getters; here it is a plain interface,
// and concrete strategies are values implementing it, with no shared
// ownership required since the driver is the sole owner for a run's
// lifetime.
package strategy

import (
	"github.com/rishav/fillsim/internal/domain"
	"github.com/rishav/fillsim/pkg/quant"
)

// Strategy is the capability set a pluggable trading strategy must
// implement. Each callback returns a possibly-empty ordered list of
// OrderActions. Strategies receive no direct access to the book
// reconstructor or matcher; they see only what the driver hands them.
type Strategy interface {
	OnBookTopUpdate(top domain.BookTop) []domain.OrderAction
	OnPublicFill(fill domain.PublicFill) []domain.OrderAction
	OnOrderFilled(orderID uint64, fillPrice quant.Price, fillQty quant.Qty, isBid bool) []domain.OrderAction
	SetSymbolID(symbolIdx uint64)
	Name() string
}
