package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"kidsmoney/internal/service"
	"kidsmoney/internal/validation"
)

// Error codes returned in the "code" field of error bodies
const (
	CodeNotFound          = "not_found"
	CodeInvalidState      = "invalid_state"
	CodeInsufficientFunds = "insufficient_funds"
	CodeCreditTooLow      = "credit_too_low"
	CodeEmailTaken        = "email_taken"
	CodeValidation        = "validation_error"
	CodeBadRequest        = "bad_request"
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeRateLimited       = "rate_limited"
	CodeInternal          = "internal"

	ErrInternalServerError = "Internal server error"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

type errorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
	Field  string `json:"field,omitempty"`
}

type messageBody struct {
	Message string `json:"message"`
}

// requestError is a malformed request caught before reaching a service
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...interface{}) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// the status is already sent; a failed write means the client went away
	_ = json.NewEncoder(w).Encode(v)
}

func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorResponse(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	writeJSON(w, status, body)
}

func respondWithStatus(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, errorBody{Detail: detail, Code: code})
}

// errorResponse maps service and validation errors to a status and body.
// Unknown errors become a 500 with a generic message.
func errorResponse(err error) (int, errorBody) {
	var ve validation.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorBody{Detail: ve.Message, Code: CodeValidation, Field: ve.Field}
	}
	var re *requestError
	if errors.As(err, &re) {
		return http.StatusBadRequest, errorBody{Detail: re.msg, Code: CodeBadRequest}
	}

	kinds := []struct {
		kind   error
		status int
		code   string
	}{
		{service.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{service.ErrInsufficientFunds, http.StatusBadRequest, CodeInsufficientFunds},
		{service.ErrCreditTooLow, http.StatusBadRequest, CodeCreditTooLow},
		{service.ErrEmailTaken, http.StatusBadRequest, CodeEmailTaken},
		{service.ErrPreconditionFailed, http.StatusBadRequest, CodeInvalidState},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, CodeUnauthorized},
		{service.ErrForbidden, http.StatusForbidden, CodeForbidden},
	}
	for _, k := range kinds {
		if errors.Is(err, k.kind) {
			return k.status, errorBody{Detail: err.Error(), Code: k.code}
		}
	}
	return http.StatusInternalServerError, errorBody{Detail: ErrInternalServerError, Code: CodeInternal}
}

// decodeJSON reads a JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("Invalid request body: %v", err)
	}
	return nil
}
