package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localtaxdash/internal/shared/testutil"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"validation", NewValidationErrors([]ValidationError{{Field: "year", Message: "must be between 1900 and 2100"}}), http.StatusBadRequest, TypeValidation},
		{"wrapped api error", fmt.Errorf("query: %w", ErrDatasetUnavailable), http.StatusServiceUnavailable, TypeDataUnavailable},
		{"boundaries", ErrBoundaryUnavailable, http.StatusServiceUnavailable, TypeBoundaryUnavailable},
		{"export", ExportError(fmt.Errorf("disk full")), http.StatusInternalServerError, TypeExportFailed},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, TypeTimeout},
		{"app not found", NewNotFoundError("region"), http.StatusNotFound, TypeNotFound},
		{"problem passthrough", NewProblemDetails(http.StatusConflict, "/errors/x", "Conflict", "", ""), http.StatusConflict, "/errors/x"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			h := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodGet, "/api/dashboard/deltas", nil)
			rec := httptest.NewRecorder()
			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.EqualValues(t, tt.wantStatus, body["status"])
			assert.Contains(t, body, "trace_id")
			assert.NotContains(t, body, "stack")
			assert.True(t, logs.ContainsMessage("request failed"))
		})
	}
}

func TestErrorHandler_HandleError_Nil(t *testing.T) {
	h := NewErrorHandler(slog.Default(), false)
	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Zero(t, rec.Body.Len())
}

func TestErrorHandler_ValidationErrorsLifted(t *testing.T) {
	h := NewErrorHandler(nil, false)
	err := NewValidationErrors([]ValidationError{
		{Field: "year", Value: "20x9", Message: "must be a number"},
		{Field: "theme", Value: "jet", Message: "must be one of the color themes"},
	})

	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/selection", nil), err)

	body := decodeProblem(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 2)
	assert.Equal(t, "year", errs[0].(map[string]any)["field"])
}

func TestErrorHandler_IncludeStack(t *testing.T) {
	h := NewErrorHandler(nil, true)
	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), fmt.Errorf("boom"))
	assert.Contains(t, decodeProblem(t, rec), "stack")
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	h.HandlePanic(rec, httptest.NewRequest(http.MethodGet, "/x", nil), "kaboom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.NotContains(t, body, "panic")
	testutil.AssertLogContains(t, logs, slog.LevelError, "panic recovered")
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	h := NewErrorHandler(nil, false)
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)
	r.Get("/only-get", func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, TypeNotFound, body["type"])
	assert.NotEmpty(t, body["trace_id"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/only-get", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, TypeMethodNotAllowed, decodeProblem(t, rec)["type"])
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	p := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "year out of range", "/api/x").
		WithExtension("error_code", "VALIDATION_FAILED").
		WithExtension("status", 999)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "/errors/validation",
		"title": "Bad Request",
		"status": 400,
		"detail": "year out of range",
		"instance": "/api/x",
		"error_code": "VALIDATION_FAILED"
	}`, string(data))
	assert.Equal(t, "Bad Request: year out of range", p.Error())
}

func TestAppError(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := NewStorageError("write export", cause).WithContext("path", "/tmp/x.csv")

	assert.Equal(t, "[STORAGE] write export: permission denied", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "/tmp/x.csv", err.Context["path"])
	assert.True(t, IsType(fmt.Errorf("wrapped: %w", err), ErrTypeStorage))
	assert.False(t, IsType(err, ErrTypeParsing))
	assert.Equal(t, "[NOT_FOUND] boundaries not found", NewNotFoundError("boundaries").Error())
}
