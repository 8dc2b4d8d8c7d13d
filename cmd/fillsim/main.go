// Command fillsim replays a historical per-symbol market-data stream
// through a pluggable trading strategy and produces a binary order-lifecycle
// log plus summary P&L and latency statistics.
//
// Architecture Overview:
//
//	┌──────────────┐    ┌──────────────┐    ┌──────────────┐
//	│ Event Readers │──▶│   Book       │──▶│   Market     │
//	│   (C1/wire)   │    │ Reconstructor│    │    State     │
//	└──────────────┘    │    (C2)      │    │    (C3)      │
//	                     └──────┬───────┘    └──────┬───────┘
//	                            │                    │
//	                            ▼                    ▼
//	                     ┌──────────────┐    ┌──────────────┐
//	                     │   Latency    │◀──▶│   Strategy   │
//	                     │  Model (C5)  │    │    (C4)      │
//	                     └──────┬───────┘    └──────────────┘
//	                            ▼
//	                     ┌──────────────┐    ┌──────────────┐
//	                     │ Order Manager│──▶│ Record Writer│
//	                     │ / Matcher(C6)│    │    (C8)      │
//	                     └──────────────┘    └──────────────┘
//
// The simulation driver (C7) owns this whole pipeline and is the only
// executor: the run is single-threaded and deterministic from start to
// finish.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/rishav/fillsim/internal/config"
	"github.com/rishav/fillsim/internal/latency"
	"github.com/rishav/fillsim/internal/logging"
	"github.com/rishav/fillsim/internal/sim"
	"github.com/rishav/fillsim/internal/strategy"
	"github.com/rishav/fillsim/internal/wire"
	"github.com/rishav/fillsim/pkg/quant"
)

func quantTs(ns uint64) quant.Timestamp { return quant.Timestamp(ns) }

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to YAML run configuration")
	logPath := flag.String("log", "", "diagnostic log file path (stderr only if empty)")
	flag.Parse()

	log := logging.New(logging.Options{Path: *logPath})

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "fillsim: -config is required")
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("load config", "err", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		return 2
	}

	strat, err := newStrategy(cfg.Strategy)
	if err != nil {
		log.Error("build strategy", "err", err)
		return 2
	}

	outFile, err := os.Create(cfg.OutputFile)
	if err != nil {
		log.Error("open output file", "err", err)
		return 1
	}
	defer outFile.Close()
	recordWriter := wire.NewWriter(outFile)

	lat := latency.New(quantTs(cfg.MDLatencyNS), quantTs(cfg.ExchLatencyNS))

	mode := sim.ModeTopsFills
	if cfg.Mode == config.ModeQueue {
		mode = sim.ModeQueue
	}
	driver := sim.New(mode, strat, lat, recordWriter, log)

	if err := openInputs(driver, cfg, mode); err != nil {
		log.Error("open input streams", "err", err)
		return 1
	}

	if err := driver.Run(); err != nil {
		log.Error("simulation run failed", "err", err)
		return 1
	}

	report(log, driver, lat)
	return 0
}

func openInputs(driver *sim.Driver, cfg config.Config, mode sim.Mode) error {
	if mode == sim.ModeQueue {
		f, err := os.Open(cfg.EventsFile)
		if err != nil {
			return err
		}
		er, err := wire.NewEventsReader(f)
		if err != nil {
			return err
		}
		driver.EventsReader = er
		return nil
	}

	tf, err := os.Open(cfg.TopsFile)
	if err != nil {
		return err
	}
	tr, err := wire.NewTopsReader(tf)
	if err != nil {
		return err
	}
	ff, err := os.Open(cfg.FillsFile)
	if err != nil {
		return err
	}
	fr, err := wire.NewFillsReader(ff)
	if err != nil {
		return err
	}
	driver.TopsReader = tr
	driver.FillsReader = fr
	return nil
}

func newStrategy(name string) (strategy.Strategy, error) {
	switch name {
	case "", "basic":
		return strategy.NewBasic(), nil
	default:
		return nil, fmt.Errorf("unrecognized strategy %q", name)
	}
}

func report(log *slog.Logger, d *sim.Driver, lat *latency.Model) {
	m := d.Matcher
	finalPnL := m.FinalPnL(d.Market.LastValidMid)
	log.Info("simulation complete",
		"orders_placed", m.OrdersPlaced,
		"orders_filled", m.OrdersFilled,
		"position", m.Position,
		"cash_flow_nanos", m.CashFlow,
		"final_pnl_nanos", finalPnL,
		"final_pnl", float64(finalPnL)/1e9,
		"total_buy_volume", m.TotalBuyVolume,
		"total_sell_volume", m.TotalSellVolume,
		"expected_round_trip_ns", lat.ExpectedRoundTrip(),
		"md_to_strategy_ns", lat.MDToStrategy,
		"strategy_to_exchange_ns", lat.StrategyToExchange,
		"exchange_to_notification_ns", lat.ExchangeToNotif,
	)
}
