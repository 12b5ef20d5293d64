package validate

import (
	"regexp"
	"strconv"
	"strings"
)

// Violation is a single failed rule, reported with the offending field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Rule checks one field of a request. Check receives the raw string value
// (missing fields evaluate as empty strings).
type Rule struct {
	Field   string
	Message string
	Check   func(string) bool
}

// Evaluate runs every rule against the supplied values and returns all
// violations in rule order. It never stops at the first failure; callers
// rely on the full list being reported in one response.
func Evaluate(values map[string]string, rules []Rule) []Violation {
	var violations []Violation
	for _, r := range rules {
		if !r.Check(values[r.Field]) {
			violations = append(violations, Violation{Field: r.Field, Message: r.Message})
		}
	}
	return violations
}

// NonEmpty reports whether the trimmed value has at least one character.
func NonEmpty(v string) bool {
	return strings.TrimSpace(v) != ""
}

// MinLen returns a predicate requiring at least n characters.
func MinLen(n int) func(string) bool {
	return func(v string) bool {
		return len(v) >= n
	}
}

// Numeric reports whether the value parses as a base-10 integer.
func Numeric(v string) bool {
	_, err := strconv.ParseInt(v, 10, 64)
	return err == nil
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Email reports whether the value has a plausible mailbox shape.
func Email(v string) bool {
	return emailPattern.MatchString(v)
}
