package http

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"dataclean/internal/config"
	"dataclean/internal/datasets"
	apierrors "dataclean/internal/errors"
	"dataclean/internal/exporter"
	appmiddleware "dataclean/internal/middleware"
	"dataclean/internal/services"
	apiv1 "dataclean/pkg/contracts/api/v1"
	"dataclean/pkg/contracts/domain"
)

// UploadField is the multipart form field carrying the data file
const UploadField = "file"

// multipartMemory is how much of an upload is buffered in memory before
// spilling to temp files
const multipartMemory = 8 << 20

// Cleaning result headers
const (
	HeaderRowsBefore  = "X-Rows-Before"
	HeaderRowsAfter   = "X-Rows-After"
	HeaderCellsFilled = "X-Cells-Filled"
)

// Preview renderings
const (
	PreviewJSON = "json"
	PreviewCSV  = "csv"
)

var previewFormats = []string{PreviewJSON, PreviewCSV}

// uploadRequest is the validated shape of a multipart upload
type uploadRequest struct {
	Filename string `validate:"required,max=255"`
	Size     int64  `validate:"gte=0"`
}

// DatasetHandler handles dataset and cleaning HTTP requests with RFC 7807
// error responses
type DatasetHandler struct {
	service        DatasetServiceInterface
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	queryValidator *appmiddleware.QueryParamValidator
	validate       *validator.Validate
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service DatasetServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DatasetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	return &DatasetHandler{
		service:        service,
		logger:         logger.With(slog.String("component", "dataset_handler")),
		errorHandler:   errorHandler,
		queryValidator: appmiddleware.NewQueryParamValidator(logger, errorHandler),
		validate:       validator.New(),
	}
}

// Routes returns the dataset routes, mounted at /api/datasets
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(appmiddleware.ContentTypeValidator("multipart/form-data")).Post("/", h.Upload)

	r.Route("/{id}", func(r chi.Router) {
		r.Use(h.DatasetCtx)
		r.Get("/", h.Get)
		r.Delete("/", h.Delete)
		r.Get("/preview", h.Preview)
		r.Post("/clean/{operation}", h.Clean)
	})

	return r
}

// CleanRoutes returns the one-shot cleaning routes, mounted at /api/clean
func (h *DatasetHandler) CleanRoutes() chi.Router {
	r := chi.NewRouter()
	r.With(appmiddleware.ContentTypeValidator("multipart/form-data")).Post("/{operation}", h.CleanUpload)
	return r
}

// DatasetCtx validates the dataset id path parameter
func (h *DatasetHandler) DatasetCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("id", "Dataset id is required"))
			return
		}
		if len(id) > 64 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("id", "Dataset id is too long"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Upload handles POST /api/datasets
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	file, req, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	ds, err := h.service.Upload(r.Context(), req.Filename, file)
	if err != nil {
		h.logger.WarnContext(r.Context(), "upload failed",
			slog.String("request_id", reqID),
			slog.String("filename", req.Filename),
			slog.String("error", err.Error()))
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "dataset uploaded",
		slog.String("request_id", reqID),
		slog.String("dataset_id", ds.ID),
		slog.String("filename", ds.Filename),
		slog.Int64("size", req.Size))

	w.Header().Set("Location", fmt.Sprintf("%s/%s", strings.TrimSuffix(r.URL.Path, "/"), ds.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, h.datasetResponse(ds))
}

// Get handles GET /api/datasets/{id}
func (h *DatasetHandler) Get(w http.ResponseWriter, r *http.Request) {
	ds, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, h.datasetResponse(ds))
}

// Preview handles GET /api/datasets/{id}/preview?rows=N&format=json|csv
func (h *DatasetHandler) Preview(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.queryValidator.ValidateInt(w, r, "rows", 1, config.MaxPreviewRows, config.DefaultPreviewRows)
	if !ok {
		return
	}

	format, ok := h.queryValidator.ValidateEnum(w, r, "format", previewFormats, PreviewJSON)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	preview, ds, err := h.service.Preview(r.Context(), id, rows)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if format == PreviewCSV {
		content, err := exporter.MarshalCSV(preview)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", exporter.ContentTypeCSV+"; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
		return
	}
	render.JSON(w, r, apiv1.NewPreviewResponse(ds.ID, preview, ds.Table.NumRows()))
}

// Delete handles DELETE /api/datasets/{id}
func (h *DatasetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clean handles POST /api/datasets/{id}/clean/{operation}
func (h *DatasetHandler) Clean(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Clean(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "operation"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeExport(w, r, res)
}

// CleanUpload handles POST /api/clean/{operation}
func (h *DatasetHandler) CleanUpload(w http.ResponseWriter, r *http.Request) {
	operation := chi.URLParam(r, "operation")
	if _, err := services.ParseOperation(operation); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	file, req, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	res, err := h.service.CleanUpload(r.Context(), req.Filename, file, operation)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeExport(w, r, res)
}

// readUpload parses the multipart body and returns the uploaded file. On
// failure the error response has been written and ok is false.
func (h *DatasetHandler) readUpload(w http.ResponseWriter, r *http.Request) (multipart.File, uploadRequest, bool) {
	var req uploadRequest

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.errorHandler.HandleError(w, r, uploadError(err))
		return nil, req, false
	}

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation(UploadField, "A data file is required"))
			return nil, req, false
		}
		h.errorHandler.HandleError(w, r, uploadError(err))
		return nil, req, false
	}

	req = uploadRequest{Filename: header.Filename, Size: header.Size}
	if err := h.validate.Struct(req); err != nil {
		file.Close()
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation(UploadField, "Uploaded file must have a name of at most 255 characters"))
		return nil, req, false
	}
	return file, req, true
}

// uploadError classifies a multipart parsing failure
func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		return apierrors.ErrPayloadTooLarge
	}
	return apierrors.InvalidRequestWithError(err)
}

// handleServiceError maps service errors onto API errors. Errors it does not
// recognise go to the error handler's generic mapping.
func (h *DatasetHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownOperation):
		h.errorHandler.HandleError(w, r, apierrors.UnknownOperationError(
			chi.URLParam(r, "operation"), operationNames(h.service.Operations())))
	case errors.Is(err, services.ErrDatasetNotFound):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusNotFound,
			apierrors.CodeDatasetNotFound,
			apierrors.ErrDatasetNotFound.Message,
			map[string]string{"id": chi.URLParam(r, "id")},
		))
	case errors.Is(err, services.ErrCleaningFailed):
		h.errorHandler.HandleError(w, r, apierrors.ErrCleaningFailed)
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

// writeExport streams a cleaning result as a CSV attachment
func (h *DatasetHandler) writeExport(w http.ResponseWriter, r *http.Request, res *services.CleanResult) {
	export := res.Export

	w.Header().Set("Content-Type", export.ContentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": export.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Content)))
	w.Header().Set(HeaderRowsBefore, strconv.Itoa(res.Stats.RowsBefore))
	w.Header().Set(HeaderRowsAfter, strconv.Itoa(res.Stats.RowsAfter))
	w.Header().Set(HeaderCellsFilled, strconv.Itoa(res.Stats.CellsFilled))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(export.Content); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export",
			slog.String("filename", export.Filename),
			slog.String("error", err.Error()))
	}
}

func (h *DatasetHandler) datasetResponse(ds *datasets.Dataset) apiv1.DatasetResponse {
	return apiv1.DatasetResponse{
		ID:        ds.ID,
		Filename:  ds.Filename,
		Format:    ds.Format,
		Delimiter: ds.Delimiter,
		CreatedAt: ds.CreatedAt,
		ExpiresAt: h.service.ExpiresAt(ds),
		Profile:   apiv1.NewProfileResponse(ds.Profile),
	}
}

func operationNames(ops []domain.Operation) []string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	return names
}
