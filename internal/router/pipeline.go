package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/respond"
	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/validate"
)

const maxBodyBytes = 1 << 20

// validateJSONBody decodes the request body into a flat map, evaluates every
// rule against it, and short-circuits with the full violation list when any
// rule fails. It runs before the authorization gate, so malformed requests
// are reported regardless of authentication. The body is restored for the
// downstream handler.
func validateJSONBody(failMessage string, rules []validate.Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
			if err != nil {
				respond.Message(w, http.StatusBadRequest, failMessage)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			values := map[string]string{}
			var raw map[string]any
			dec := json.NewDecoder(bytes.NewReader(body))
			dec.UseNumber()
			if err := dec.Decode(&raw); err == nil {
				for k, v := range raw {
					values[k] = stringify(v)
				}
			}
			if violations := validate.Evaluate(values, rules); violations != nil {
				respond.Violations(w, failMessage, violations)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// validatePath evaluates rules against path parameters, reading each rule's
// field with r.PathValue.
func validatePath(failMessage string, rules []validate.Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			values := map[string]string{}
			for _, rule := range rules {
				values[rule.Field] = r.PathValue(rule.Field)
			}
			if violations := validate.Evaluate(values, rules); violations != nil {
				respond.Violations(w, failMessage, violations)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return ""
	}
}
