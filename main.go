// ════════════════════════════════════════════════════════════════════════════════════════════════
// Equity Feed Ingest & Book Maintenance — Main Entry Point
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Low-Latency ITCH Market-Data Pipeline
// Component: Main Entry Point & Mode Dispatch
//
// Description:
//   Two run modes share the same decode → apply → book pipeline:
//     replay — decodes a recorded ITCH stream from a file, sequentially,
//              with no arbitration (a single ordered source needs none).
//     net    — joins the A and B multicast feeds, arbitrates them into one
//              gapless stream, and runs until interrupted or --duration
//              elapses.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	rtdebug "runtime/debug"
	"syscall"
	"time"

	"itchfeed/apply"
	"itchfeed/arbiter"
	"itchfeed/bookrouter"
	"itchfeed/bootstrap"
	"itchfeed/config"
	"itchfeed/control"
	"itchfeed/debug"
	"itchfeed/decoder"
	"itchfeed/feedlistener"
	"itchfeed/metrics"
	"itchfeed/symboltable"
	"itchfeed/types"
	"itchfeed/utils"
)

func main() {
	cfg := config.Default()

	cfg, err := config.LoadFile(scanConfigFlag(os.Args[1:]), cfg)
	if err != nil {
		debug.DropMessage("CONFIG", "failed to load config file: "+err.Error())
		os.Exit(1)
	}

	fs := flag.NewFlagSet("itchfeed", flag.ExitOnError)
	fs.String("config", "", "path to a JSON config file (read before flag parsing)")
	config.BindFlags(fs, &cfg)
	fs.Parse(os.Args[1:])

	if cfg.Ultra {
		runtime.LockOSThread()
		rtdebug.SetGCPercent(-1)
	}

	switch cfg.Mode {
	case "replay":
		if err := runReplay(cfg); err != nil {
			debug.DropMessage("REPLAY", err.Error())
			os.Exit(1)
		}
	case "net":
		if err := runNet(cfg); err != nil {
			debug.DropMessage("NET", err.Error())
			os.Exit(1)
		}
	default:
		debug.DropMessage("CONFIG", "unknown mode "+cfg.Mode)
		os.Exit(1)
	}
}

// runReplay decodes a recorded stream from disk, applying every event to a
// per-symbol set of books in a single pass.
func runReplay(cfg config.Config) error {
	if cfg.ReplayPath == "" {
		return fmt.Errorf("replay mode requires -replay PATH")
	}
	data, err := os.ReadFile(cfg.ReplayPath)
	if err != nil {
		return err
	}

	symbols := symboltable.New()
	dec := decoder.New(symbols)
	router := bookrouter.New(cfg.NumShards, cfg.BaseCore, 12)
	disp := apply.New(router, nil)

	var consumed, applied int
	for off := 0; off < len(data); {
		ev, n := dec.DecodeOne(data[off:])
		if n == 0 {
			break
		}
		off += int(n)
		consumed++
		if ev.Kind != 0 {
			disp.Apply(ev)
			applied++
		}
	}
	router.Stop()

	debug.DropMessage("REPLAY", "consumed "+utils.Itoa(consumed)+" messages, applied "+utils.Itoa(applied)+" events")
	printSummary(router, symbols)
	return nil
}

// runNet joins both multicast feeds, arbitrates them, and decodes/applies
// events until interrupted or cfg.DurationSecs elapses.
func runNet(cfg config.Config) error {
	store, err := bootstrap.Open(cfg.SymbolDBPath)
	if err != nil {
		return fmt.Errorf("open symbol directory: %w", err)
	}
	defer store.Close()

	symbols := symboltable.New()
	if n, err := store.Load(symbols); err != nil {
		debug.DropMessage("BOOTSTRAP", "symbol directory load failed: "+err.Error())
	} else {
		debug.DropMessage("BOOTSTRAP", "restored "+utils.Itoa(n)+" symbols")
	}

	listenerA := feedlistener.New(cfg.MulticastGroup, cfg.PortA)
	listenerB := feedlistener.New(cfg.MulticastGroup, cfg.PortB)
	if !listenerA.Start() {
		return fmt.Errorf("failed to start feed A listener")
	}
	if !listenerB.Start() {
		listenerA.Stop()
		return fmt.Errorf("failed to start feed B listener")
	}

	arb := arbiter.New(listenerA.Pop, listenerB.Pop, cfg.GapCapacity, time.Duration(cfg.GapTTLMs)*time.Millisecond)
	dec := decoder.New(symbols)
	router := bookrouter.New(cfg.NumShards, cfg.BaseCore, 12)
	disp := apply.New(router, nil)
	reg := metrics.New()
	metricsSrv := reg.Serve(cfg.MetricsAddr)

	stop := make(chan struct{})
	setupSignalHandling(stop)

	var deadline <-chan time.Time
	if cfg.DurationSecs > 0 {
		deadline = time.After(time.Duration(cfg.DurationSecs) * time.Second)
	}

	var consumed, applied int
	lastMetrics := arb.Metrics()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

runLoop:
	for {
		select {
		case <-stop:
			break runLoop
		case <-deadline:
			break runLoop
		case <-ticker.C:
			cur := arb.Metrics()
			reg.ObserveArbiter(lastMetrics, cur)
			lastMetrics = cur
		default:
		}

		pkt, ok := arb.NextMessage()
		if !ok {
			control.PollCooldown()
			continue
		}

		before := symbols.Len()
		ev, n := dec.DecodeOne(pkt.Data)
		if n == 0 {
			continue
		}
		consumed++
		if after := symbols.Len(); after > before {
			newID := types.SymbolID(after)
			if view := symbols.View(newID); view != nil {
				_ = store.Persist(newID, view)
			}
		}
		if ev.Kind != 0 {
			disp.Apply(ev)
			applied++
		}
	}

	listenerA.Stop()
	listenerB.Stop()
	router.Stop()
	metricsSrv.Close()

	debug.DropMessage("NET", "consumed "+utils.Itoa(consumed)+" messages, applied "+utils.Itoa(applied)+" events")
	printSummary(router, symbols)
	return nil
}

// printSummary writes each symbol's best five levels per side at shutdown.
func printSummary(router *bookrouter.Router, symbols *symboltable.Table) {
	for _, sym := range router.Symbols() {
		b, ok := router.Book(sym)
		if !ok {
			continue
		}
		name := string(symbols.View(sym))
		bids, asks := b.Snapshot(5)
		debug.DropMessage("BOOK", name+" depth="+utils.Itoa(b.Depth())+
			" bestBid="+utils.Itoa(int(b.BestBid()))+" bestAsk="+utils.Itoa(int(b.BestAsk()))+
			" bidLevels="+utils.Itoa(len(bids))+" askLevels="+utils.Itoa(len(asks)))
	}
}

// setupSignalHandling closes stop on SIGINT/SIGTERM.
func setupSignalHandling(stop chan struct{}) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		debug.DropMessage("SIGNAL", "received interrupt, shutting down")
		control.Shutdown()
		close(stop)
	}()
}

// scanConfigFlag pulls -config/--config's value out of args without
// registering a flag.FlagSet, so the config file can be loaded before the
// rest of the flags (whose defaults depend on it) are bound.
func scanConfigFlag(args []string) string {
	for i, a := range args {
		switch {
		case a == "-config" || a == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case len(a) > 8 && a[:8] == "-config=":
			return a[8:]
		case len(a) > 9 && a[:9] == "--config=":
			return a[9:]
		}
	}
	return ""
}
