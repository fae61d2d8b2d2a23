package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/study-sensei/pkg/apperrors"
)

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()

	err := ErrorResponse(w, http.StatusNotFound, "subject_not_found", "Subject not found")
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "subject_not_found", body["error"])
	assert.Equal(t, "Subject not found", body["message"])
}

func TestWriteJSON_StatusCodes(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteJSON(w, http.StatusOK, map[string]string{"key": "value"}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"key":"value"}`, w.Body.String())

	w = httptest.NewRecorder()
	require.NoError(t, WriteJSON(w, http.StatusCreated, map[string]int{"count": 5}))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestWriteJSON_UnencodableData(t *testing.T) {
	w := httptest.NewRecorder()
	err := WriteJSON(w, http.StatusOK, make(chan int))
	assert.Error(t, err)
}

func TestDecodeJSONBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "object", body: `{"name":"Math"}`},
		{name: "object with trailing newline", body: "{\"name\":\"Math\"}\n"},
		{name: "empty body", body: ``, wantErr: true},
		{name: "malformed", body: `{"name":`, wantErr: true},
		{name: "wrong type", body: `{"name":5}`, wantErr: true},
		{name: "two objects", body: `{"name":"a"}{"name":"b"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst struct {
				Name string `json:"name"`
			}
			err := decodeJSONBody(req, httptest.NewRecorder(), &dst)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Math", dst.Name)
		})
	}
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		entity     string
		wantStatus int
		wantCode   string
	}{
		{"validation", fmt.Errorf("%w: name is required", apperrors.ErrValidation), "subject", http.StatusBadRequest, "validation_error"},
		{"unknown subject", fmt.Errorf("subject x: %w", apperrors.ErrInvalidReference), "topic", http.StatusBadRequest, "unknown_subject"},
		{"subject not found", fmt.Errorf("subject x: %w", apperrors.ErrNotFound), "subject", http.StatusNotFound, "subject_not_found"},
		{"topic not found", fmt.Errorf("topic x: %w", apperrors.ErrNotFound), "topic", http.StatusNotFound, "topic_not_found"},
		{"unexpected", errors.New("boom"), "topic", http.StatusInternalServerError, "some_failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeServiceError(w, zap.NewNop(), tt.err, tt.entity, "some_failure")

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body["error"])
		})
	}
}

func TestWriteServiceError_HidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	writeServiceError(w, zap.NewNop(), errors.New("secret internals"), "subject", "list_subjects_failed")

	assert.NotContains(t, w.Body.String(), "secret internals")
}
