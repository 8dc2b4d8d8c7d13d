// Package sim implements the simulation driver (C7): it merges input
// streams in timestamp order, dispatches book tops and public fills through
// the latency model to the strategy, feeds queue-mode book events through
// the book reconstructor, and drives the matcher and final reporting.
//
// The driver is the sole executor; nothing here spawns a goroutine. This
// mirrors the single-threaded, lock-free dispatch loop the matching engine
// package documents as its reason for determinism and replayability.
package sim

import (
	"log/slog"

	"github.com/rishav/fillsim/internal/book"
	"github.com/rishav/fillsim/internal/domain"
	"github.com/rishav/fillsim/internal/latency"
	"github.com/rishav/fillsim/internal/market"
	"github.com/rishav/fillsim/internal/matcher"
	"github.com/rishav/fillsim/internal/strategy"
	"github.com/rishav/fillsim/internal/wire"
)

// Mode selects how the driver interprets its input streams.
type Mode int

const (
	// ModeTopsFills merges a book_top stream and a book_fill_snapshot
	// stream by timestamp.
	ModeTopsFills Mode = iota
	// ModeQueue replays a single book-events stream through the book
	// reconstructor, which synthesizes tops and fills.
	ModeQueue
)

// Driver wires C2 (book), C3 (market), C4 (strategy), C5 (latency), C6
// (matcher), and C8 (record writer) together and owns the dispatch loop.
type Driver struct {
	Mode     Mode
	Strategy strategy.Strategy
	Market   *market.State
	Latency  *latency.Model
	Matcher  *matcher.Matcher
	Book     *book.Reconstructor
	log      *slog.Logger

	TopsReader   *wire.TopsReader
	FillsReader  *wire.FillsReader
	EventsReader *wire.EventsReader
}

// New creates a Driver for the given mode, wiring a fresh market state,
// book reconstructor, and matcher around the given strategy, latency
// model, and output record writer.
func New(mode Mode, strat strategy.Strategy, lat *latency.Model, w matcher.RecordWriter, log *slog.Logger) *Driver {
	if log == nil {
		log = slog.Default()
	}
	mkt := market.New()
	return &Driver{
		Mode:     mode,
		Strategy: strat,
		Market:   mkt,
		Latency:  lat,
		Matcher:  matcher.New(mkt, lat, strat, w, log),
		Book:     book.NewReconstructor(),
		log:      log,
	}
}

// dispatchTop runs the full top-of-book dispatch sequence: validate/accept
// into C3, deliver latency-adjusted to the strategy, process its returned
// actions, then re-evaluate every resting order.
func (d *Driver) dispatchTop(top domain.BookTop) {
	if !d.Market.Accept(top) {
		return
	}

	delayedTs := d.Latency.DelayMD(top.Ts)
	delayedTop := top
	delayedTop.Ts = delayedTs

	actions := d.Strategy.OnBookTopUpdate(delayedTop)
	for _, a := range actions {
		a.SentTs, a.MdTs = d.Latency.StampAction(a.SentTs, delayedTs)
		d.Matcher.ProcessAction(a)
	}

	d.Matcher.Reevaluate()
}

// dispatchFill delivers a latency-adjusted public fill to the strategy and
// processes any actions it returns. No direct match is triggered by a
// public fill: only an ADD/REPLACE's own immediate-fill check and the
// re-evaluation pass after a book-top dispatch can fill a resting order.
func (d *Driver) dispatchFill(fill domain.PublicFill) {
	delayedTs := d.Latency.DelayMD(fill.Ts)
	delayedFill := fill
	delayedFill.Ts = delayedTs

	actions := d.Strategy.OnPublicFill(delayedFill)
	for _, a := range actions {
		a.SentTs, a.MdTs = d.Latency.StampAction(a.SentTs, delayedTs)
		d.Matcher.ProcessAction(a)
	}
}

// RunTopsFills drives the tops/fills mode dispatch loop until both streams
// are exhausted. Ties break tops-first.
func (d *Driver) RunTopsFills() error {
	tr, fr := d.TopsReader, d.FillsReader
	d.Strategy.SetSymbolID(tr.Header.SymbolIdx)

	haveTop := tr.Next()
	haveFill := fr.Next()

	for haveTop || haveFill {
		switch {
		case haveTop && haveFill:
			top, fill := tr.Record(), fr.Record()
			if top.Ts <= fill.Ts {
				d.dispatchTop(top)
				haveTop = tr.Next()
			} else {
				d.dispatchFill(fill)
				haveFill = fr.Next()
			}
		case haveTop:
			d.dispatchTop(tr.Record())
			haveTop = tr.Next()
		default:
			d.dispatchFill(fr.Record())
			haveFill = fr.Next()
		}
	}

	if err := tr.Err(); err != nil {
		return err
	}
	return fr.Err()
}

// RunQueue drives the queue-mode dispatch loop: every book event is applied
// to C2, and whatever it synthesizes (a PublicFill, a BookTop, or both) is
// dispatched downstream through the same paths tops/fills mode uses.
func (d *Driver) RunQueue() error {
	er := d.EventsReader
	d.Strategy.SetSymbolID(er.Header.SymbolIdx)

	for er.Next() {
		ev := er.Record()
		fill, top := d.Book.ApplyEvent(ev)
		if fill != nil {
			d.dispatchFill(*fill)
		}
		if top != nil {
			d.dispatchTop(*top)
		}
	}
	return er.Err()
}

// Run executes the dispatch loop for the driver's configured mode.
func (d *Driver) Run() error {
	if d.Mode == ModeQueue {
		return d.RunQueue()
	}
	return d.RunTopsFills()
}
