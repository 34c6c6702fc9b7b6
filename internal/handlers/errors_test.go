package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsmoney/internal/service"
	"kidsmoney/internal/validation"
)

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantDetail string
	}{
		{"kid not found", service.ErrKidNotFound, http.StatusNotFound, CodeNotFound, "Kid not found"},
		{"wrapped not found", fmt.Errorf("lookup: %w", service.ErrTaskNotFound), http.StatusNotFound, CodeNotFound, "lookup: Task not found"},
		{"invalid state", service.ErrTaskNotPending, http.StatusBadRequest, CodeInvalidState, "Task is not pending"},
		{"insufficient funds", service.ErrInsufficientFunds, http.StatusBadRequest, CodeInsufficientFunds, "Insufficient balance"},
		{"credit too low", service.ErrCreditTooLow, http.StatusBadRequest, CodeCreditTooLow, "Credit score too low for a loan"},
		{"email taken", service.ErrEmailTaken, http.StatusBadRequest, CodeEmailTaken, "Email already registered"},
		{"bad credentials", service.ErrInvalidKidLogin, http.StatusUnauthorized, CodeUnauthorized, "Invalid parent email, kid name or PIN"},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, CodeForbidden, "forbidden"},
		{"validation", validation.ValidationError{Field: "age", Message: "age must be between 3 and 18"}, http.StatusUnprocessableEntity, CodeValidation, "age must be between 3 and 18"},
		{"malformed body", badRequest("Invalid request body"), http.StatusBadRequest, CodeBadRequest, "Invalid request body"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, CodeInternal, ErrInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := errorResponse(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantDetail, body.Detail)
		})
	}
}

func TestRespondWithErrorWritesJSON(t *testing.T) {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/kids/x", nil)

	respondWithError(recorder, req, service.ErrKidNotFound)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var body errorBody
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, errorBody{Detail: "Kid not found", Code: CodeNotFound}, body)
}

func TestRespondWithErrorLogsInternalFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/goals", nil)
	req = req.WithContext(logger.WithContext(req.Context()))

	respondWithError(recorder, req, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "boom")
	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), "/api/goals")
}
