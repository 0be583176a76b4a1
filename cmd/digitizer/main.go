package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/driftlab/dch-digitizer/core"
	"github.com/driftlab/dch-digitizer/internal/logging"
	"github.com/driftlab/dch-digitizer/internal/observability"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "digitizer: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("digitizer", flag.ContinueOnError)
	configPath := fs.String("config", "", "configuration file path")
	inputFile := fs.String("input", "", "input simulated-hit event file (overrides config)")
	outputFile := fs.String("output", "", "output digi file (overrides config)")
	workers := fs.Int("workers", 0, "number of event workers (overrides config)")
	debugHistos := fs.Bool("debug-histograms", false, "write diagnostic histograms")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *inputFile != "" {
		cfg.InputFile = *inputFile
	}
	if *outputFile != "" {
		cfg.OutputFile = *outputFile
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *debugHistos {
		cfg.DebugHistograms = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.NewFromEnv()

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	var metrics *observability.DigiCollector
	if cfg.MetricsAddr != "" {
		metrics, err = observability.NewDigiCollector(nil)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Warn(ctx, "metrics server stopped", logging.String("error", err.Error()))
			}
		}()
	}

	// Startup: geometry descriptor and cluster table. Failures here abort
	// the whole run before any event is touched.
	descriptorFile, err := os.Open(cfg.ChamberDescriptor)
	if err != nil {
		return fmt.Errorf("open chamber descriptor: %w", err)
	}
	params, codec, err := core.LoadChamberDescriptor(descriptorFile)
	descriptorFile.Close()
	if err != nil {
		return err
	}

	tableFile, err := os.Open(cfg.ClusterTable)
	if err != nil {
		return fmt.Errorf("open cluster table: %w", err)
	}
	table, err := core.LoadClusterTable(tableFile)
	tableFile.Close()
	if err != nil {
		return err
	}

	digi, err := core.NewDigitizer(params, codec, table, log)
	if err != nil {
		return err
	}
	engine := core.NewEngine(digi, core.EngineConfig{
		Workers: cfg.Workers,
		Resolution: core.Resolution{
			AlongWireMM:     cfg.ZResolutionMM,
			PerpendicularMM: cfg.XYResolutionMM,
		},
		DebugHistograms: cfg.DebugHistograms,
	}, log, metrics)

	in, err := os.Open(cfg.InputFile)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	events, err := core.LoadSimEvents(in)
	in.Close()
	if err != nil {
		return err
	}

	log.Info(ctx, "starting digitization",
		logging.Int("events", len(events)),
		logging.Int("workers", cfg.Workers),
		logging.Float64("z_resolution_mm", cfg.ZResolutionMM),
		logging.Float64("xy_resolution_mm", cfg.XYResolutionMM),
	)

	digis, runErr := engine.Run(ctx, events)
	if runErr != nil {
		// Failed events are already logged individually; the remaining
		// events were still digitized and are worth writing.
		log.Warn(ctx, "run finished with failed events", logging.String("error", runErr.Error()))
	}

	out, err := os.Create(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()
	if err := core.WriteDigiEvents(out, digis); err != nil {
		return err
	}

	if cfg.DebugHistograms && engine.Hists != nil {
		histOut, err := os.Create(cfg.DebugHistogramOut)
		if err != nil {
			return fmt.Errorf("create debug histogram output: %w", err)
		}
		defer histOut.Close()
		if err := engine.Hists.WriteJSON(histOut); err != nil {
			return err
		}
	}

	log.Info(ctx, "digitization finished", logging.Int("events_written", len(digis)))
	return runErr
}
