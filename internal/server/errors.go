package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/dxfsvg/pkg/errors"
)

// apiError is the JSON body of every error response.
type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps error codes to HTTP statuses.
var statusFor = map[errors.Code]int{
	errors.ErrCodeInvalidInput:    http.StatusBadRequest,
	errors.ErrCodeInvalidFormat:   http.StatusBadRequest,
	errors.ErrCodeInvalidDocument: http.StatusBadRequest,
	errors.ErrCodeInvalidPath:     http.StatusBadRequest,
	errors.ErrCodeInvalidCodepage: http.StatusBadRequest,
	errors.ErrCodeTooLarge:        http.StatusRequestEntityTooLarge,
	errors.ErrCodeNotFound:        http.StatusNotFound,
	errors.ErrCodeFileNotFound:    http.StatusNotFound,
	errors.ErrCodeBlockRecursion:  http.StatusUnprocessableEntity,
	errors.ErrCodeUnsupported:     http.StatusNotImplemented,
	errors.ErrCodeTimeout:         http.StatusGatewayTimeout,
	errors.ErrCodeConversion:      http.StatusInternalServerError,
	errors.ErrCodeInternal:        http.StatusInternalServerError,
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status, ok := statusFor[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError && code == errors.ErrCodeInternal {
		msg = "internal error"
	}
	writeJSON(w, status, apiError{
		Code:      string(code),
		Message:   msg,
		RequestID: RequestIDFromContext(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
