// Package respond owns the wire response contract. Handlers never write to
// the http.ResponseWriter directly; every outcome terminates in exactly one
// call into this package.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/validate"
)

// Envelope is the uniform body shape for message-style responses.
type Envelope struct {
	Message string               `json:"message"`
	Token   string               `json:"token,omitempty"`
	Errors  []validate.Violation `json:"errors,omitempty"`
}

// Write serializes an Envelope with the given status code.
func Write(w http.ResponseWriter, status int, env Envelope) {
	JSON(w, status, env)
}

// Message is shorthand for an Envelope carrying only a message.
func Message(w http.ResponseWriter, status int, message string) {
	Write(w, status, Envelope{Message: message})
}

// Violations writes a 400 envelope carrying the full violation list.
func Violations(w http.ResponseWriter, message string, violations []validate.Violation) {
	Write(w, http.StatusBadRequest, Envelope{Message: message, Errors: violations})
}

// JSON writes an arbitrary payload body, for endpoints whose success shape
// is richer than the envelope (activity listings and single reads).
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NoContent writes a bare status with no body (delete success).
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
