// Package services implements the dataset workflow behind the HTTP and CLI
// front ends: ingest an upload, profile it, keep it in a store, and run the
// cleaning operations that produce CSV exports.
//
// # Service Layer Responsibilities
//
//	- Orchestrating ingest, profiling and cleaning
//	- Tracing each stage with OpenTelemetry spans
//	- Recording the dataset and cleaning business metrics
//	- Converting panics in the cleaning path into ErrCleaningFailed
//
// # Error Handling
//
// Services never build HTTP errors. They wrap the lower-level sentinels
// with %w so the transport can map them:
//
//	- *ingest.FormatError for unreadable uploads
//	- ErrDatasetNotFound for unknown or expired ids
//	- ErrUnknownOperation for operation names outside the fixed set
//	- ErrCleaningFailed for failures inside a cleaning run
//
// # Testing
//
// The store is an interface, so tests can substitute MockStore:
//
//	store := &MockStore{}
//	store.On("Get", "abc").Return(nil, datasets.ErrNotFound)
//	svc := NewDatasetService(DatasetServiceConfig{Store: store}, logger)
package services
