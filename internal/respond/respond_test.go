package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/validate"
)

func TestWrite_OmitsEmptyFields(t *testing.T) {
	rec := httptest.NewRecorder()
	Message(rec, http.StatusOK, "ok")

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	body := rec.Body.String()
	if strings.Contains(body, "token") || strings.Contains(body, "errors") {
		t.Errorf("body = %s, want token and errors omitted", body)
	}
}

func TestWrite_TokenAndErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, http.StatusCreated, Envelope{Message: "User registered", Token: "abc"})

	var out map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["message"] != "User registered" || out["token"] != "abc" {
		t.Errorf("body = %v", out)
	}

	rec = httptest.NewRecorder()
	Violations(rec, "Could not register", []validate.Violation{{Field: "email", Message: "invalid"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var env Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Errors) != 1 || env.Errors[0].Field != "email" {
		t.Errorf("errors = %v", env.Errors)
	}
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}
