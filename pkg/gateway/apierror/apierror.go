// Package apierror defines the JSON error envelope for the gateway's
// non-TwiML endpoints. Webhook responses never use it: the turn pipeline
// answers Twilio with valid TwiML on every branch.
package apierror

import (
	"encoding/json"
	"net/http"
)

type ErrorType string

const (
	ErrInvalidRequest       ErrorType = "invalid_request_error"
	ErrConfigurationMissing ErrorType = "configuration_missing"
	ErrNotFound             ErrorType = "not_found_error"
	ErrAPI                  ErrorType = "api_error"
)

type Error struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
}

func (e *Error) Error() string {
	return string(e.Type) + ": " + e.Message
}

type Envelope struct {
	Error *Error `json:"error"`
}

// StatusFor maps an error type to its HTTP status.
func StatusFor(t ErrorType) int {
	switch t {
	case ErrInvalidRequest:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConfigurationMissing:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes the envelope with the status implied by the error type.
func WriteJSON(w http.ResponseWriter, err *Error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(StatusFor(err.Type))
	_ = json.NewEncoder(w).Encode(Envelope{Error: err})
}
