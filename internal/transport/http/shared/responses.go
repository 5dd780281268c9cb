// Package shared centralizes the JSON response envelopes used by every
// handler, so domain error codes map onto HTTP statuses in exactly one place.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "rolodex/pkg/domain-errors"
)

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Code       string                   `json:"code"`
	Message    string                   `json:"message"`
	Violations []dErrors.FieldViolation `json:"violations,omitempty"`
}

// WriteJSON writes v with the given status. Encoding failures are swallowed;
// by the time Encode fails the status line is already on the wire.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError translates a coded domain error into an HTTP response.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)

	message := "internal error"
	var de *dErrors.Error
	if errors.As(err, &de) && code != dErrors.CodeInternal {
		// Internal causes stay in the logs, not the response body.
		message = de.Message
	}

	WriteJSON(w, httpStatus(code), map[string]ErrorBody{
		"error": {
			Code:       string(code),
			Message:    message,
			Violations: dErrors.ViolationsOf(err),
		},
	})
}

func httpStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation, dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeInvariantViolation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
