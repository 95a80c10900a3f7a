package http

import (
	"context"
	"io"
	"time"

	"dataclean/internal/dataprocessing"
	"dataclean/internal/datasets"
	"dataclean/internal/services"
	"dataclean/pkg/contracts/domain"
)

// DatasetServiceInterface defines the dataset operations the handlers need
type DatasetServiceInterface interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*datasets.Dataset, error)
	Get(ctx context.Context, id string) (*datasets.Dataset, error)
	Preview(ctx context.Context, id string, rows int) (*domain.Table, *datasets.Dataset, error)
	Delete(ctx context.Context, id string) error
	Clean(ctx context.Context, id, operation string) (*services.CleanResult, error)
	CleanUpload(ctx context.Context, filename string, r io.Reader, operation string) (*services.CleanResult, error)
	Operations() []domain.Operation
	EdgePolicy() dataprocessing.EdgePolicy
	ExpiresAt(ds *datasets.Dataset) *time.Time
}

var _ DatasetServiceInterface = (*services.DatasetService)(nil)
