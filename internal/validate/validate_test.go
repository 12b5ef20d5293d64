package validate

import "testing"

func TestEvaluate_CollectsEveryViolation(t *testing.T) {
	rules := []Rule{
		{Field: "username", Message: "username too short", Check: MinLen(5)},
		{Field: "password", Message: "password too short", Check: MinLen(8)},
		{Field: "email", Message: "email invalid", Check: Email},
	}
	values := map[string]string{"username": "ab", "password": "short", "email": "nope"}

	violations := Evaluate(values, rules)
	if len(violations) != 3 {
		t.Fatalf("violations = %d, want 3 (one per broken field, never fail-fast)", len(violations))
	}
	// rule order is preserved
	for i, field := range []string{"username", "password", "email"} {
		if violations[i].Field != field {
			t.Errorf("violations[%d].Field = %q, want %q", i, violations[i].Field, field)
		}
	}
}

func TestEvaluate_CleanRequest(t *testing.T) {
	rules := []Rule{
		{Field: "username", Message: "username too short", Check: MinLen(5)},
		{Field: "email", Message: "email invalid", Check: Email},
	}
	values := map[string]string{"username": "alice1", "email": "alice1@test.com"}
	if v := Evaluate(values, rules); v != nil {
		t.Errorf("violations = %v, want none", v)
	}
}

func TestEvaluate_MissingFieldReadsEmpty(t *testing.T) {
	rules := []Rule{{Field: "title", Message: "title required", Check: NonEmpty}}
	violations := Evaluate(map[string]string{}, rules)
	if len(violations) != 1 || violations[0].Field != "title" {
		t.Fatalf("violations = %v, want one for title", violations)
	}
}

func TestPredicates(t *testing.T) {
	cases := []struct {
		name  string
		check func(string) bool
		value string
		want  bool
	}{
		{"NonEmpty accepts text", NonEmpty, "x", true},
		{"NonEmpty rejects blank", NonEmpty, "   ", false},
		{"MinLen boundary", MinLen(5), "abcde", true},
		{"MinLen below", MinLen(5), "abcd", false},
		{"Numeric integer", Numeric, "42", true},
		{"Numeric negative", Numeric, "-7", true},
		{"Numeric rejects word", Numeric, "forty", false},
		{"Numeric rejects empty", Numeric, "", false},
		{"Email plain", Email, "a@b.co", true},
		{"Email missing at", Email, "a.b.co", false},
		{"Email missing domain dot", Email, "a@bco", false},
		{"Email rejects spaces", Email, "a b@c.co", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.check(tc.value); got != tc.want {
				t.Errorf("check(%q) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}
