package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dd0wney/cluso-communities/pkg/analysis"
	"github.com/dd0wney/cluso-communities/pkg/config"
	"github.com/dd0wney/cluso-communities/pkg/export"
	"github.com/dd0wney/cluso-communities/pkg/loader"
	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
)

var errNoInput = errors.New("-input is required")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("✗ "+err.Error()))
		stop()
		os.Exit(1)
	}
}

type flags struct {
	configPath    string
	input         string
	jsonPath      string
	csvPath       string
	metricsFile   string
	minSize       int
	workers       int
	rssiThreshold float64
	window        float64
}

func parseFlags(args []string, stderr io.Writer) (*flags, map[string]bool, error) {
	fs := flag.NewFlagSet("dyncom", flag.ContinueOnError)
	fs.SetOutput(stderr)

	f := &flags{}
	fs.StringVar(&f.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&f.input, "input", "", "RSSI trace CSV (time,node_id,rssi)")
	fs.StringVar(&f.jsonPath, "json", "", "Write per-snapshot results as JSON (.sz for snappy)")
	fs.StringVar(&f.csvPath, "csv", "", "Write per-snapshot results as CSV")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to a .prom textfile")
	fs.IntVar(&f.minSize, "min-size", config.DefaultMinSize, "Minimum community size")
	fs.IntVar(&f.workers, "workers", config.DefaultWorkers, "Snapshots detected concurrently")
	fs.Float64Var(&f.rssiThreshold, "rssi-threshold", config.DefaultRSSIThreshold, "Pair RSSI threshold in dBm")
	fs.Float64Var(&f.window, "window", config.DefaultWindowSeconds, "Window size in seconds")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return f, set, nil
}

// resolveConfig layers defaults, the config file, the environment and
// explicitly set flags, in that order
func resolveConfig(f *flags, set map[string]bool) (*config.Config, error) {
	var cfg *config.Config
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
		if err := cfg.ApplyEnv(); err != nil {
			return nil, err
		}
	}

	if set["json"] {
		cfg.Output.JSONPath = f.jsonPath
	}
	if set["csv"] {
		cfg.Output.CSVPath = f.csvPath
	}
	if set["metrics-file"] {
		cfg.Output.MetricsFile = f.metricsFile
	}
	if set["min-size"] {
		cfg.Detection.MinSize = f.minSize
	}
	if set["workers"] {
		cfg.Detection.Workers = f.workers
	}
	if set["rssi-threshold"] {
		cfg.Loader.RSSIThreshold = f.rssiThreshold
	}
	if set["window"] {
		cfg.Loader.WindowSeconds = f.window
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	f, set, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if f.input == "" {
		return errNoInput
	}

	cfg, err := resolveConfig(f, set)
	if err != nil {
		return err
	}

	logger := logging.NewJSONLogger(stderr, logging.ParseLevel(cfg.LogLevel)).
		With(logging.Component("dyncom"))
	registry := metrics.NewRegistry()

	trace, err := loader.LoadFile(f.input, loader.Options{
		RSSIThreshold: cfg.Loader.RSSIThreshold,
		WindowSeconds: cfg.Loader.WindowSeconds,
		Logger:        logger,
		Metrics:       registry,
	})
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", f.input, err)
	}

	analyzer := analysis.NewAnalyzer(analysis.Options{
		MinSize:         cfg.Detection.MinSize,
		Workers:         cfg.Detection.Workers,
		StableThreshold: cfg.Tracking.StableThreshold,
		DedupStable:     cfg.Tracking.DedupStable,
	}, logger, registry)

	report, err := analyzer.Run(ctx, trace.Graphs())
	if err != nil {
		return err
	}

	if path := cfg.Output.JSONPath; path != "" {
		if err := export.WriteJSON(path, report.Snapshots); err != nil {
			return err
		}
		logger.Info("results written", logging.Path(path))
	}
	if path := cfg.Output.CSVPath; path != "" {
		if err := export.WriteCSV(path, report.Snapshots); err != nil {
			return err
		}
		logger.Info("results written", logging.Path(path))
	}
	if path := cfg.Output.MetricsFile; path != "" {
		if err := registry.WriteTextfile(path); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		logger.Info("metrics written", logging.Path(path))
	}

	fmt.Fprintln(stdout, renderSummary(report, trace))
	return nil
}
