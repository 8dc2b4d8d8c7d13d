// Package latency applies the simulator's fixed additive delay model at the
// three boundaries described in the spec's component design: market-data to
// strategy, strategy to exchange, and exchange to fill notification. The
// model never reorders events; it only shifts timestamps forward before
// they are stamped on downstream records.
package latency

import "github.com/rishav/fillsim/pkg/quant"

// Model holds the two fixed configuration parameters and the three running
// accumulators that, together with ExpectedRoundTrip, make up the latency
// figures of the shutdown report.
type Model struct {
	MDLatencyNS   quant.Timestamp
	ExchLatencyNS quant.Timestamp

	MDToStrategy       uint64
	StrategyToExchange uint64
	ExchangeToNotif    uint64
}

// New creates a Model with the given fixed delays.
func New(mdLatencyNS, exchLatencyNS quant.Timestamp) *Model {
	return &Model{MDLatencyNS: mdLatencyNS, ExchLatencyNS: exchLatencyNS}
}

// DelayMD shifts a market-data timestamp forward before it is handed to a
// strategy callback, accumulating the md_to_strategy statistic.
func (m *Model) DelayMD(ts quant.Timestamp) quant.Timestamp {
	m.MDToStrategy += uint64(m.MDLatencyNS)
	return ts + m.MDLatencyNS
}

// StampAction fills in an action's SentTs (if unset, defaulting to the
// delayed market-data timestamp it is responding to) and MdTs, accumulating
// the strategy_to_exchange statistic.
func (m *Model) StampAction(sentTs, delayedMDTs quant.Timestamp) (outSentTs, mdTs quant.Timestamp) {
	if sentTs == 0 {
		sentTs = delayedMDTs
	}
	m.StrategyToExchange += uint64(m.ExchLatencyNS)
	return sentTs, sentTs + m.ExchLatencyNS
}

// FillNotificationTs computes the simulated fill-notification timestamp
// from an action's exchange timestamp, accumulating the
// exchange_to_notification statistic.
func (m *Model) FillNotificationTs(mdTs quant.Timestamp) quant.Timestamp {
	ts := mdTs + m.ExchLatencyNS
	if ts != 0 {
		m.ExchangeToNotif += uint64(m.ExchLatencyNS)
	}
	return ts
}

// ExpectedRoundTrip is the round-trip latency reported at shutdown:
// md_latency_ns + 2*exch_latency_ns.
func (m *Model) ExpectedRoundTrip() quant.Timestamp {
	return m.MDLatencyNS + 2*m.ExchLatencyNS
}
