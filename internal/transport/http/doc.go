// Package http implements the HTTP handlers of the dataclean web service.
// Handlers stay thin: they parse the request, call the dataset service and
// format the response.
//
// # Routes
//
//	POST   /api/datasets                         upload (multipart field "file")
//	GET    /api/datasets/{id}                    metadata and profile
//	GET    /api/datasets/{id}/preview?rows=N     first N rows
//	POST   /api/datasets/{id}/clean/{operation}  CSV attachment
//	DELETE /api/datasets/{id}                    discard
//	POST   /api/clean/{operation}                one-shot upload and clean
//	GET    /api/operations                       operation catalogue
//	GET    /api/health                           liveness
//	GET    /metrics                              Prometheus exposition
//
// # Error Handling
//
// All errors are RFC 7807 problem documents written by
// internal/errors.ErrorHandler:
//
//	{
//	    "type": "/errors/dataset/unreadable",
//	    "title": "Unprocessable Entity",
//	    "status": 422,
//	    "detail": "unsupported format",
//	    "instance": "/api/datasets"
//	}
//
// # Testing
//
// Handlers depend on DatasetServiceInterface so tests can substitute a
// testify mock, and are exercised with httptest.
package http
