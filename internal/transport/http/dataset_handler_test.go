package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dataclean/internal/dataprocessing"
	"dataclean/internal/datasets"
	apierrors "dataclean/internal/errors"
	"dataclean/internal/ingest"
	"dataclean/internal/services"
	"dataclean/internal/shared/testutil"
	apiv1 "dataclean/pkg/contracts/api/v1"
	"dataclean/pkg/contracts/domain"
)

// MockDatasetService is a mock implementation of DatasetServiceInterface
type MockDatasetService struct {
	mock.Mock
}

func (m *MockDatasetService) Upload(ctx context.Context, filename string, r io.Reader) (*datasets.Dataset, error) {
	args := m.Called(filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*datasets.Dataset), args.Error(1)
}

func (m *MockDatasetService) Get(ctx context.Context, id string) (*datasets.Dataset, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*datasets.Dataset), args.Error(1)
}

func (m *MockDatasetService) Preview(ctx context.Context, id string, rows int) (*domain.Table, *datasets.Dataset, error) {
	args := m.Called(id, rows)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Table), args.Get(1).(*datasets.Dataset), args.Error(2)
}

func (m *MockDatasetService) Delete(ctx context.Context, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockDatasetService) Clean(ctx context.Context, id, operation string) (*services.CleanResult, error) {
	args := m.Called(id, operation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CleanResult), args.Error(1)
}

func (m *MockDatasetService) CleanUpload(ctx context.Context, filename string, r io.Reader, operation string) (*services.CleanResult, error) {
	args := m.Called(filename, operation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CleanResult), args.Error(1)
}

func (m *MockDatasetService) Operations() []domain.Operation {
	return domain.Operations
}

func (m *MockDatasetService) EdgePolicy() dataprocessing.EdgePolicy {
	return dataprocessing.EdgeNearest
}

func (m *MockDatasetService) ExpiresAt(ds *datasets.Dataset) *time.Time {
	return nil
}

func newTestRouter(t *testing.T, svc DatasetServiceInterface) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewDatasetHandler(svc, logger, apierrors.NewErrorHandler(logger, false))
	ops := NewOperationsHandler(svc, logger)

	r := chi.NewRouter()
	r.Mount("/api/datasets", h.Routes())
	r.Mount("/api/clean", h.CleanRoutes())
	r.Get("/api/operations", ops.ListOperations)
	return r
}

func multipartRequest(t *testing.T, method, target, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		part, err := mw.CreateFormFile(UploadField, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem), rec.Body.String())
	return problem
}

func sampleTable(t *testing.T) *domain.Table {
	t.Helper()
	tbl, err := domain.NewTable([]domain.Column{
		{Name: "a", Cells: []domain.Cell{domain.Int(1), domain.Int(2)}},
		{Name: "b", Cells: []domain.Cell{domain.Null(), domain.String("x")}},
	})
	require.NoError(t, err)
	return tbl
}

func TestDatasetHandler_Upload(t *testing.T) {
	tests := []struct {
		name           string
		filename       string
		setupMock      func(*MockDatasetService)
		expectedStatus int
		expectedType   string
	}{
		{
			name:     "success",
			filename: "data.csv",
			setupMock: func(m *MockDatasetService) {
				m.On("Upload", "data.csv").Return(&datasets.Dataset{
					ID:        "abc",
					Filename:  "data.csv",
					Format:    "csv",
					Delimiter: ",",
					Table:     sampleTable(t),
					CreatedAt: time.Now(),
				}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:     "unreadable file",
			filename: "data.pdf",
			setupMock: func(m *MockDatasetService) {
				m.On("Upload", "data.pdf").Return(nil,
					&ingest.FormatError{Filename: "data.pdf", Err: ingest.ErrUnsupportedFormat})
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedType:   apierrors.TypeUnreadableDataset,
		},
		{
			name:           "missing file field",
			filename:       "",
			setupMock:      func(m *MockDatasetService) {},
			expectedStatus: http.StatusBadRequest,
			expectedType:   apierrors.TypeValidation,
		},
		{
			name:     "unexpected failure",
			filename: "data.csv",
			setupMock: func(m *MockDatasetService) {
				m.On("Upload", "data.csv").Return(nil, errors.New("disk on fire"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedType:   apierrors.TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDatasetService)
			tt.setupMock(svc)
			router := newTestRouter(t, svc)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, multipartRequest(t, http.MethodPost, "/api/datasets", tt.filename, "a,b\n1,2\n"))

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			if tt.expectedType != "" {
				assert.Equal(t, tt.expectedType, decodeProblem(t, rec)["type"])
			} else {
				var resp apiv1.DatasetResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "abc", resp.ID)
				assert.Equal(t, "/api/datasets/abc", rec.Header().Get("Location"))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestDatasetHandler_UploadWrongContentType(t *testing.T) {
	router := newTestRouter(t, new(MockDatasetService))

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", strings.NewReader(`{"a":1}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestDatasetHandler_Clean(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setupMock      func(*MockDatasetService)
		expectedStatus int
		expectedType   string
	}{
		{
			name: "success",
			path: "/api/datasets/abc/clean/remove-missing",
			setupMock: func(m *MockDatasetService) {
				m.On("Clean", "abc", "remove-missing").Return(&services.CleanResult{
					DatasetID: "abc",
					Export: domain.Export{
						Filename:    "cleaned_no_missing.csv",
						ContentType: "text/csv",
						Content:     []byte("a,b\n2,x\n"),
					},
					Stats: dataprocessing.CleaningStatistics{Operation: domain.OpRemoveMissing, RowsBefore: 2, RowsAfter: 1},
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unknown dataset",
			path: "/api/datasets/nope/clean/remove-missing",
			setupMock: func(m *MockDatasetService) {
				m.On("Clean", "nope", "remove-missing").Return(nil, fmt.Errorf("get dataset: %w", services.ErrDatasetNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedType:   apierrors.TypeDatasetNotFound,
		},
		{
			name: "unknown operation",
			path: "/api/datasets/abc/clean/sort",
			setupMock: func(m *MockDatasetService) {
				m.On("Clean", "abc", "sort").Return(nil, fmt.Errorf("%w: %q", services.ErrUnknownOperation, "sort"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedType:   apierrors.TypeUnknownOperation,
		},
		{
			name: "cleaning failure",
			path: "/api/datasets/abc/clean/handle-missing",
			setupMock: func(m *MockDatasetService) {
				m.On("Clean", "abc", "handle-missing").Return(nil, fmt.Errorf("%w: boom", services.ErrCleaningFailed))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedType:   apierrors.TypeCleaningFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDatasetService)
			tt.setupMock(svc)
			router := newTestRouter(t, svc)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			if tt.expectedType != "" {
				assert.Equal(t, tt.expectedType, decodeProblem(t, rec)["type"])
			} else {
				assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
				assert.Equal(t, `attachment; filename=cleaned_no_missing.csv`, rec.Header().Get("Content-Disposition"))
				assert.Equal(t, "2", rec.Header().Get(HeaderRowsBefore))
				assert.Equal(t, "1", rec.Header().Get(HeaderRowsAfter))
				assert.Equal(t, "a,b\n2,x\n", rec.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestDatasetHandler_Preview(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockDatasetService)
		expectedStatus int
	}{
		{
			name:  "default rows",
			query: "",
			setupMock: func(m *MockDatasetService) {
				tbl := sampleTable(t)
				m.On("Preview", "abc", 10).Return(tbl, &datasets.Dataset{ID: "abc", Table: tbl}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "explicit rows",
			query: "?rows=1",
			setupMock: func(m *MockDatasetService) {
				tbl := sampleTable(t)
				m.On("Preview", "abc", 1).Return(tbl.Head(1), &datasets.Dataset{ID: "abc", Table: tbl}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "csv rendering",
			query: "?format=CSV",
			setupMock: func(m *MockDatasetService) {
				tbl := sampleTable(t)
				m.On("Preview", "abc", 10).Return(tbl, &datasets.Dataset{ID: "abc", Table: tbl}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown rendering",
			query:          "?format=xlsx",
			setupMock:      func(m *MockDatasetService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "rows out of range",
			query:          "?rows=1000",
			setupMock:      func(m *MockDatasetService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "rows not a number",
			query:          "?rows=many",
			setupMock:      func(m *MockDatasetService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDatasetService)
			tt.setupMock(svc)
			router := newTestRouter(t, svc)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/datasets/abc/preview"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			if rec.Code == http.StatusOK && strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
				assert.Equal(t, "a,b\n1,\n2,x\n", rec.Body.String())
			} else if rec.Code == http.StatusOK {
				var resp apiv1.PreviewResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, []string{"a", "b"}, resp.Columns)
				assert.Equal(t, 2, resp.Total)
				require.NotEmpty(t, resp.Rows)
				assert.Nil(t, resp.Rows[0][1])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestDatasetHandler_GetAndDelete(t *testing.T) {
	svc := new(MockDatasetService)
	svc.On("Get", "abc").Return(&datasets.Dataset{ID: "abc", Filename: "data.csv", Table: sampleTable(t)}, nil)
	svc.On("Delete", "abc").Return(nil)
	svc.On("Delete", "gone").Return(fmt.Errorf("delete dataset: %w", datasets.ErrNotFound))
	router := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/datasets/abc", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"filename":"data.csv"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/datasets/abc", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/datasets/gone", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	svc.AssertExpectations(t)
}

func TestDatasetHandler_CleanUploadRejectsUnknownOperationEarly(t *testing.T) {
	svc := new(MockDatasetService)
	router := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, http.MethodPost, "/api/clean/shuffle", "data.csv", testutil.SampleCSV))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, apierrors.TypeUnknownOperation, problem["type"])
	svc.AssertNotCalled(t, "CleanUpload", mock.Anything, mock.Anything)
}

func TestOperationsHandler_ListOperations(t *testing.T) {
	router := newTestRouter(t, new(MockDatasetService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/operations", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp apiv1.OperationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Operations, 4)
	assert.Equal(t, "remove-missing", resp.Operations[0].Name)
	assert.Equal(t, "cleaned_handled_no_duplicates.csv", resp.Operations[3].Filename)
	assert.Equal(t, "nearest", resp.EdgePolicy)
	assert.Equal(t, []string{"nearest", "forward", "none"}, resp.EdgePolicies)
}

// Round trip through the real service and store.
func TestDatasetHandler_RoundTrip(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	svc := services.NewDatasetService(services.DatasetServiceConfig{
		Store: datasets.NewMemoryStore(time.Hour, 5),
		TTL:   time.Hour,
	}, logger)
	router := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, http.MethodPost, "/api/datasets", "data.csv", testutil.SampleCSV))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var ds apiv1.DatasetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ds))
	assert.Equal(t, 3, ds.Profile.RowCount)
	assert.Equal(t, 2, ds.Profile.TotalMissing)
	assert.Equal(t, 1, ds.Profile.DuplicateRows)
	require.NotNil(t, ds.ExpiresAt)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/datasets/"+ds.ID+"/clean/handle-missing", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "a,b\n1,3.0\n1,3.0\n2,3.0\n", rec.Body.String())
	assert.Equal(t, "3", rec.Header().Get(HeaderRowsAfter))
	assert.Equal(t, "2", rec.Header().Get(HeaderCellsFilled))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, http.MethodPost, "/api/clean/remove-duplicates", "data.json", testutil.SampleJSON))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "cleaned_no_duplicates.csv")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, http.MethodPost, "/api/datasets", "report.docx", "x"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, apierrors.TypeUnreadableDataset, decodeProblem(t, rec)["type"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/datasets/does-not-exist", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
