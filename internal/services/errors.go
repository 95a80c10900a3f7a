package services

import (
	"errors"

	"dataclean/internal/dataprocessing"
	"dataclean/internal/datasets"
)

// Dataset service errors
var (
	// ErrDatasetNotFound is returned for unknown or expired dataset ids
	ErrDatasetNotFound = datasets.ErrNotFound

	// ErrUnknownOperation is returned for operation names outside the fixed set
	ErrUnknownOperation = dataprocessing.ErrUnknownOperation

	// ErrCleaningFailed wraps failures inside a cleaning run
	ErrCleaningFailed = errors.New("cleaning failed")
)
