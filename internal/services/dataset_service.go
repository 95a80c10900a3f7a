package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"dataclean/internal/config"
	"dataclean/internal/dataprocessing"
	"dataclean/internal/datasets"
	"dataclean/internal/exporter"
	"dataclean/internal/infrastructure"
	"dataclean/internal/ingest"
	"dataclean/pkg/contracts/domain"
)

// DatasetServiceConfig holds the collaborators of a DatasetService.
// Nil fields get working defaults.
type DatasetServiceConfig struct {
	Store    datasets.Store
	Cleaner  *dataprocessing.Cleaner
	Profiler *dataprocessing.Profiler
	Tracer   trace.Tracer
	Metrics  *infrastructure.BusinessMetrics

	// TTL is reported as the dataset expiry; zero means datasets never expire
	TTL time.Duration
	// PreviewRows is the preview size when the caller does not ask for one
	PreviewRows int
}

// DatasetService ingests, profiles, stores and cleans datasets
type DatasetService struct {
	store       datasets.Store
	cleaner     *dataprocessing.Cleaner
	profiler    *dataprocessing.Profiler
	tracer      trace.Tracer
	metrics     *infrastructure.BusinessMetrics
	ttl         time.Duration
	previewRows int
	logger      *slog.Logger
	newID       func() string
}

// CleanResult is the outcome of one cleaning run
type CleanResult struct {
	DatasetID string
	Table     *domain.Table
	Export    domain.Export
	Stats     dataprocessing.CleaningStatistics
}

// NewDatasetService creates a dataset service
func NewDatasetService(cfg DatasetServiceConfig, logger *slog.Logger) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "dataset_service")

	if cfg.Store == nil {
		cfg.Store = datasets.NewMemoryStore(cfg.TTL, 0)
	}
	if cfg.Cleaner == nil {
		cfg.Cleaner = dataprocessing.NewCleaner(logger, dataprocessing.DefaultOptions())
	}
	if cfg.PreviewRows <= 0 {
		cfg.PreviewRows = dataprocessing.DefaultPreviewRows
	}
	if cfg.Profiler == nil {
		cfg.Profiler = dataprocessing.NewProfiler(logger, dataprocessing.ProfilerConfig{PreviewRows: cfg.PreviewRows})
	}
	if cfg.Tracer == nil {
		cfg.Tracer = defaultTracer()
	}

	logger.Info("DatasetService initialized",
		slog.String("edge_policy", string(cfg.Cleaner.Options().EdgePolicy)),
		slog.Duration("ttl", cfg.TTL),
		slog.Int("preview_rows", cfg.PreviewRows))

	return &DatasetService{
		store:       cfg.Store,
		cleaner:     cfg.Cleaner,
		profiler:    cfg.Profiler,
		tracer:      cfg.Tracer,
		metrics:     cfg.Metrics,
		ttl:         cfg.TTL,
		previewRows: cfg.PreviewRows,
		logger:      logger,
		newID:       func() string { return uuid.New().String() },
	}
}

// Ingest reads and profiles an upload without storing it
func (s *DatasetService) Ingest(ctx context.Context, filename string, r io.Reader) (ds *datasets.Dataset, err error) {
	ctx, span := startSpan(ctx, s.tracer, SpanIngest, attribute.String("dataset.filename", filename))
	format := ""
	rows := 0
	defer func() {
		infrastructure.RecordIngestMetrics(ctx, s.metrics, format, rows, err)
		endSpan(span, err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", filename, err)
	}

	res, err := ingest.LoadBytes(filename, data)
	if err != nil {
		s.logger.WarnContext(ctx, "Dataset ingest failed",
			slog.String("filename", filename),
			slog.String("error", err.Error()))
		return nil, err
	}
	format = string(res.Format)
	rows = res.Table.NumRows()
	span.SetAttributes(
		attribute.String("dataset.format", format),
		attribute.Int("dataset.rows", rows),
		attribute.Int("dataset.columns", res.Table.NumColumns()),
	)

	ds = &datasets.Dataset{
		ID:       s.newID(),
		Filename: filename,
		Format:   format,
		Table:    res.Table,
		Profile:  s.profile(ctx, res.Table),
	}
	if res.Delimiter != 0 {
		ds.Delimiter = string(res.Delimiter)
	}

	s.logger.InfoContext(ctx, "Dataset ingested",
		slog.String("dataset_id", ds.ID),
		slog.String("filename", filename),
		slog.String("format", format),
		slog.Int("rows", rows),
		slog.Int("columns", res.Table.NumColumns()))
	return ds, nil
}

func (s *DatasetService) profile(ctx context.Context, t *domain.Table) domain.Profile {
	_, span := startSpan(ctx, s.tracer, SpanProfile)
	defer span.End()

	prof := s.profiler.Profile(t)
	span.SetAttributes(
		attribute.Int("profile.total_nulls", prof.TotalNulls),
		attribute.Int("profile.duplicate_rows", prof.DuplicateRows),
	)
	return prof
}

// Upload ingests an upload and keeps it in the store
func (s *DatasetService) Upload(ctx context.Context, filename string, r io.Reader) (*datasets.Dataset, error) {
	ds, err := s.Ingest(ctx, filename, r)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ds); err != nil {
		return nil, fmt.Errorf("store dataset: %w", err)
	}
	return ds, nil
}

// Get returns a stored dataset
func (s *DatasetService) Get(ctx context.Context, id string) (*datasets.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, err := s.store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}
	return ds, nil
}

// Preview returns the first rows of a stored dataset. rows <= 0 selects the
// configured default; larger requests are capped at config.MaxPreviewRows.
func (s *DatasetService) Preview(ctx context.Context, id string, rows int) (*domain.Table, *datasets.Dataset, error) {
	ds, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return ds.Table.Head(s.previewSize(rows)), ds, nil
}

func (s *DatasetService) previewSize(rows int) int {
	switch {
	case rows <= 0:
		return s.previewRows
	case rows > config.MaxPreviewRows:
		return config.MaxPreviewRows
	default:
		return rows
	}
}

// Delete removes a stored dataset
func (s *DatasetService) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.Delete(id); err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	s.logger.InfoContext(ctx, "Dataset deleted", slog.String("dataset_id", id))
	return nil
}

// Clean runs the named operation on a stored dataset. The stored table is
// left untouched.
func (s *DatasetService) Clean(ctx context.Context, id, operation string) (*CleanResult, error) {
	op, err := ParseOperation(operation)
	if err != nil {
		return nil, err
	}
	ds, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, ds.ID, ds.Table, op)
}

// CleanUpload ingests an upload and cleans it in one step without storing it
func (s *DatasetService) CleanUpload(ctx context.Context, filename string, r io.Reader, operation string) (*CleanResult, error) {
	op, err := ParseOperation(operation)
	if err != nil {
		return nil, err
	}
	ds, err := s.Ingest(ctx, filename, r)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, ds.ID, ds.Table, op)
}

// CleanTable runs op on an already loaded table
func (s *DatasetService) CleanTable(ctx context.Context, t *domain.Table, op domain.Operation) (*CleanResult, error) {
	return s.run(ctx, "", t, op)
}

func (s *DatasetService) run(ctx context.Context, datasetID string, t *domain.Table, op domain.Operation) (res *CleanResult, err error) {
	ctx, span := startSpan(ctx, s.tracer, SpanClean,
		attribute.String("dataset.id", datasetID),
		attribute.String("cleaning.operation", string(op)),
	)
	start := time.Now()
	var stats dataprocessing.CleaningStatistics
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrCleaningFailed, op, r)
			res = nil
			s.logger.ErrorContext(ctx, "Cleaning operation panicked",
				slog.String("dataset_id", datasetID),
				slog.String("operation", string(op)),
				slog.Any("panic", r))
		}
		infrastructure.RecordCleaningMetrics(ctx, s.metrics, string(op), time.Since(start),
			stats.RowsRemoved(), stats.CellsFilled, err)
		endSpan(span, err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, stats, err := s.cleaner.Clean(op, t)
	if err != nil {
		return nil, err
	}
	export, err := exporter.NewExport(op, out)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCleaningFailed, err)
	}
	span.SetAttributes(
		attribute.Int("cleaning.rows_before", stats.RowsBefore),
		attribute.Int("cleaning.rows_after", stats.RowsAfter),
		attribute.Int("cleaning.cells_filled", stats.CellsFilled),
	)

	s.logger.InfoContext(ctx, "Cleaning operation completed",
		slog.String("dataset_id", datasetID),
		slog.String("operation", string(op)),
		slog.Int("rows_before", stats.RowsBefore),
		slog.Int("rows_after", stats.RowsAfter),
		slog.Int("cells_filled", stats.CellsFilled),
		slog.Duration("duration", time.Since(start)))

	return &CleanResult{
		DatasetID: datasetID,
		Table:     out,
		Export:    export,
		Stats:     stats,
	}, nil
}

// Operations lists the cleaning operations in their fixed order
func (s *DatasetService) Operations() []domain.Operation {
	ops := make([]domain.Operation, len(domain.Operations))
	copy(ops, domain.Operations)
	return ops
}

// EdgePolicy is the edge policy applied by handle-missing
func (s *DatasetService) EdgePolicy() dataprocessing.EdgePolicy {
	return s.cleaner.Options().EdgePolicy
}

// ExpiresAt reports when ds leaves the store, or nil when datasets do not expire
func (s *DatasetService) ExpiresAt(ds *datasets.Dataset) *time.Time {
	if s.ttl <= 0 {
		return nil
	}
	t := ds.CreatedAt.Add(s.ttl)
	return &t
}

// Count returns the number of live datasets
func (s *DatasetService) Count() int {
	return s.store.Count()
}

// ParseOperation resolves an operation name, wrapping failures in
// ErrUnknownOperation
func ParseOperation(name string) (domain.Operation, error) {
	op, err := domain.ParseOperation(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	return op, nil
}
