package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/KwachuQ/trading-dashboard/internal/config"
	"github.com/KwachuQ/trading-dashboard/internal/dataprocessing"
	"github.com/KwachuQ/trading-dashboard/internal/exporter"
	"github.com/KwachuQ/trading-dashboard/internal/files"
	"github.com/KwachuQ/trading-dashboard/internal/infrastructure"
	"github.com/KwachuQ/trading-dashboard/internal/services"
	"github.com/KwachuQ/trading-dashboard/internal/validation"
	"github.com/KwachuQ/trading-dashboard/pkg/contracts"
)

// options are the parsed command-line flags
type options struct {
	file        string
	dir         string
	from        string
	to          string
	out         string
	export      string
	exportOut   string
	columns     string
	pretty      bool
	maxBytes    int64
	showVersion bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	// stdout carries the JSON payload
	cfg.Logging.Output = "stderr"

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	if err := run(context.Background(), os.Args[1:], os.Stdout, cfg, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		logger.Error("Processing failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseFlags(args []string, cfg *config.Config, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("processor", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.file, "file", "", "trading journal CSV to analyse")
	fs.StringVar(&opts.dir, "dir", "", "analyse the newest journal export in this directory")
	fs.StringVar(&opts.from, "from", "", "first trading day to include, YYYY-MM-DD")
	fs.StringVar(&opts.to, "to", "", "last trading day to include, YYYY-MM-DD")
	fs.StringVar(&opts.out, "out", "", "write the JSON payload to this file instead of stdout")
	fs.StringVar(&opts.export, "export", "", "also export the trades as csv, xlsx or daily")
	fs.StringVar(&opts.exportOut, "export-out", "", "export destination (defaults next to -file)")
	fs.StringVar(&opts.columns, "columns", cfg.Columns.CandidatesFile, "YAML file of extra column candidates")
	fs.BoolVar(&opts.pretty, "pretty", false, "indent the JSON payload")
	fs.Int64Var(&opts.maxBytes, "max-bytes", cfg.Upload.MaxSizeBytes, "reject files larger than this")
	fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.showVersion {
		return opts, nil
	}
	if opts.file == "" && fs.NArg() > 0 {
		opts.file = fs.Arg(0)
	}
	if opts.file == "" && opts.dir == "" {
		return nil, fmt.Errorf("-file or -dir is required")
	}
	switch opts.export {
	case "", services.FormatCSV, services.FormatXLSX, "daily":
	default:
		return nil, fmt.Errorf("unsupported export format %q", opts.export)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout io.Writer, cfg *config.Config, logger *slog.Logger) error {
	opts, err := parseFlags(args, cfg, os.Stderr)
	if err != nil {
		return err
	}
	if opts.showVersion {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return nil
	}

	if opts.file == "" {
		latest, err := files.NewDiscovery("", cfg.Upload.AllowedExtensions...).LatestJournal(opts.dir)
		if err != nil {
			return err
		}
		logger.Info("Using newest journal export",
			slog.String("dir", opts.dir),
			slog.String("file", latest.Name))
		opts.file = latest.Path
	}

	validator := validation.NewFileValidator(logger, cfg.Upload.AllowedExtensions, opts.maxBytes)
	if err := validator.ValidateJournalFile(opts.file); err != nil {
		return err
	}

	rng, err := dataprocessing.ParseDateRange(opts.from, opts.to)
	if err != nil {
		return fmt.Errorf("invalid date range: %w", err)
	}

	candidates, err := dataprocessing.LoadCandidates(opts.columns)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", opts.file, err)
	}

	logger.Info("Processing trading journal",
		slog.String("file", opts.file),
		slog.Int("bytes", len(data)),
		slog.String("from", opts.from),
		slog.String("to", opts.to))

	processor := dataprocessing.NewProcessor(logger, dataprocessing.WithCandidates(candidates))
	journal := services.NewJournalService(processor, config.CacheConfig{}, logger)

	_, result, _, err := journal.Analyze(ctx, data, rng)
	if err != nil {
		return err
	}

	if err := writePayload(opts, stdout, result); err != nil {
		return err
	}

	if opts.export != "" {
		path := opts.exportOut
		if path == "" {
			path = defaultExportPath(opts.file, opts.export)
		}
		if err := validator.ValidateOutputDirectory(filepath.Dir(path)); err != nil {
			return err
		}
		f, err := exporter.CreateFile(path)
		if err != nil {
			return err
		}
		defer f.Close()

		if opts.export == "daily" {
			err = exporter.NewTradeCSVWriter(logger).WriteDaily(f, result.Charts.DailyPnL)
		} else {
			err = journal.Write(ctx, result, opts.export, f)
		}
		if err != nil {
			return err
		}
		logger.Info("Export written",
			slog.String("format", opts.export),
			slog.String("path", path))
	}

	return nil
}

func writePayload(opts *options, stdout io.Writer, result interface{}) error {
	w := stdout
	if opts.out != "" {
		f, err := exporter.CreateFile(opts.out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	return nil
}

// defaultExportPath places the export next to the input, e.g.
// trades.csv -> trades_export.csv, trades_daily.csv or trades.xlsx
func defaultExportPath(input, format string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	switch format {
	case "daily":
		return base + "_daily.csv"
	case services.FormatXLSX:
		return base + ".xlsx"
	default:
		return base + "_export.csv"
	}
}
