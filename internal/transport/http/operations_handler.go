package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"dataclean/internal/dataprocessing"
	apiv1 "dataclean/pkg/contracts/api/v1"
)

// OperationsHandler lists the cleaning operations
type OperationsHandler struct {
	service DatasetServiceInterface
	logger  *slog.Logger
}

// NewOperationsHandler creates a new operations handler
func NewOperationsHandler(service DatasetServiceInterface, logger *slog.Logger) *OperationsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OperationsHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "operations")),
	}
}

// ListOperations handles GET /api/operations
func (h *OperationsHandler) ListOperations(w http.ResponseWriter, r *http.Request) {
	ops := h.service.Operations()
	resp := apiv1.OperationsResponse{
		Operations: make([]apiv1.OperationInfo, 0, len(ops)),
		EdgePolicy: string(h.service.EdgePolicy()),
		EdgePolicies: []string{
			string(dataprocessing.EdgeNearest),
			string(dataprocessing.EdgeForward),
			string(dataprocessing.EdgeNone),
		},
	}
	for _, op := range ops {
		resp.Operations = append(resp.Operations, apiv1.NewOperationInfo(op))
	}
	render.JSON(w, r, resp)
}
