// Command dataclean profiles a tabular data file or runs one cleaning
// operation on it and writes the cleaned CSV.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dataclean/internal/config"
	"dataclean/internal/dataprocessing"
	"dataclean/internal/exporter"
	"dataclean/internal/infrastructure"
	"dataclean/internal/services"
	"dataclean/internal/validation"
	"dataclean/pkg/contracts/domain"
)

// opProfile is the -op value that only profiles the input
const opProfile = "profile"

type options struct {
	in         string
	op         string
	out        string
	edge       string
	configPath string
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if opts.edge != "" {
		cfg.Cleaning.EdgePolicy = opts.edge
	}

	logger := infrastructure.NewLoggerWithWriter(stderr, cfg.Logging)
	slog.SetDefault(logger)
	ctx = infrastructure.EnsureTraceID(ctx)

	if err := execute(ctx, opts, cfg, stdout, logger); err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "dataclean failed",
			slog.String("input", opts.in),
			slog.String("operation", opts.op))
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("dataclean", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.in, "in", "", "input file (csv, txt, xlsx, xls, json, xml)")
	fs.StringVar(&opts.op, "op", opProfile, "profile | remove-missing | handle-missing | remove-duplicates | handle-missing-remove-duplicates")
	fs.StringVar(&opts.out, "out", ".", "output directory for the cleaned CSV")
	fs.StringVar(&opts.edge, "edge", "", "interpolation edge policy: nearest | forward | none (overrides config)")
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.in == "" {
		return opts, errors.New("-in is required")
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

func execute(ctx context.Context, opts options, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	var op domain.Operation
	if opts.op != opProfile {
		parsed, err := services.ParseOperation(opts.op)
		if err != nil {
			return err
		}
		op = parsed
	}

	edge, err := dataprocessing.ParseEdgePolicy(cfg.Cleaning.EdgePolicy)
	if err != nil {
		return err
	}

	svc := services.NewDatasetService(services.DatasetServiceConfig{
		Cleaner:     dataprocessing.NewCleaner(logger, dataprocessing.ProcessingOptions{EdgePolicy: edge}),
		Profiler:    dataprocessing.NewProfiler(logger, dataprocessing.ProfilerConfig{PreviewRows: cfg.Datasets.PreviewRows}),
		PreviewRows: cfg.Datasets.PreviewRows,
	}, logger)

	files := validation.NewFileValidator(logger, cfg.Datasets.MaxUploadBytes)
	if _, err := files.ValidateInputFile(opts.in); err != nil {
		return err
	}
	if op != "" {
		if err := files.ValidateOutputDirectory(opts.out); err != nil {
			return err
		}
	}

	f, err := os.Open(opts.in)
	if err != nil {
		return err
	}
	defer f.Close()

	ds, err := svc.Ingest(ctx, filepath.Base(opts.in), f)
	if err != nil {
		return err
	}

	if op == "" {
		return printProfile(stdout, ds.Profile)
	}

	res, err := svc.CleanTable(ctx, ds.Table, op)
	if err != nil {
		return err
	}

	path, err := exporter.NewCSVWriter(opts.out).WriteExport(res.Export)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Cleaning complete",
		slog.String("operation", string(op)),
		slog.Int("rows_before", res.Stats.RowsBefore),
		slog.Int("rows_after", res.Stats.RowsAfter),
		slog.Int("cells_filled", res.Stats.CellsFilled),
		slog.String("output", path))
	fmt.Fprintf(stdout, "%s: %d rows -> %d rows, wrote %s\n",
		op.Label(), res.Stats.RowsBefore, res.Stats.RowsAfter, path)
	return nil
}

func printProfile(w io.Writer, p domain.Profile) error {
	fmt.Fprintln(w, strings.TrimRight(p.Summary, "\n"))
	fmt.Fprintf(w, "Total missing values: %d\n", p.TotalNulls)
	fmt.Fprintf(w, "Total duplicate rows: %d\n", p.DuplicateRows)

	if p.Preview == nil {
		return nil
	}
	preview, err := exporter.MarshalCSV(p.Preview)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Preview:")
	_, err = w.Write(preview)
	return err
}
