package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlens/internal/infrastructure"
)

func TestAPIError(t *testing.T) {
	err := New(http.StatusNotFound, "DATA_NOT_FOUND", "Price data not found")

	assert.Equal(t, "Price data not found", err.Error())
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "DATA_NOT_FOUND", err.ErrorCode)
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("type", "Invalid chart type")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	detail, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "type", detail.Field)
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", "bad input", "/api/chart/foo")
	pd.WithExtension("trace_id", "abc-123")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, TypeValidation, out["type"])
	assert.Equal(t, float64(http.StatusBadRequest), out["status"])
	assert.Equal(t, "bad input", out["detail"])
	assert.Equal(t, "abc-123", out["trace_id"])
}

func TestErrorHandlerHandleError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewErrorHandler(logger, false)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "api error maps by code",
			err:        ErrDataNotFound,
			wantStatus: http.StatusNotFound,
			wantType:   TypeDataMissing,
		},
		{
			name:       "validation error",
			err:        ErrValidation("type", "unknown chart type"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "plain not found string",
			err:        fmt.Errorf("report not found"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "unknown error hides internals",
			err:        fmt.Errorf("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/analytics", nil)

			handler.HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantType, body["type"])

			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, body["detail"], "pq:")
			}
		})
	}
}

func TestErrorHandlerTraceID(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/analytics", nil)
	r = r.WithContext(infrastructure.WithTraceID(r.Context(), "trace-42"))

	handler.HandleError(w, r, ErrDataNotFound)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "trace-42", body["trace_id"])
}

func TestErrorHandlerNotFound(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/nope", nil)
	handler.NotFound(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
