package auth

import (
	"errors"
	"testing"
	"time"
)

func newService(t *testing.T, secret string, ttl time.Duration) *TokenService {
	t.Helper()
	svc, err := NewTokenService(secret, ttl)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestTokenService_IssueVerify(t *testing.T) {
	svc := newService(t, "secret-a", time.Hour)

	token, err := svc.Issue("12345")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	identity, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity.Subject != "12345" {
		t.Errorf("subject = %q, want %q", identity.Subject, "12345")
	}
}

func TestTokenService_EmptySecretRejected(t *testing.T) {
	if _, err := NewTokenService("", time.Hour); err == nil {
		t.Fatal("expected constructor error for empty secret")
	}
	if _, err := NewTokenService("secret", 0); err == nil {
		t.Fatal("expected constructor error for zero ttl")
	}
}

func TestTokenService_Expiry(t *testing.T) {
	svc := newService(t, "secret-a", time.Nanosecond)

	token, err := svc.Issue("12345")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	_, err = svc.Verify(token)
	if err == nil {
		t.Fatal("expected verification failure for expired token")
	}
	var verr *VerificationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T, want *VerificationError", err)
	}
	if verr.Kind != KindExpired {
		t.Errorf("kind = %v, want expired", verr.Kind)
	}
}

func TestTokenService_FamilyIsolation(t *testing.T) {
	prod := newService(t, "secret-a", time.Hour)
	test := newService(t, "secret-a_testing", time.Hour)

	prodToken, err := prod.Issue("12345")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	testToken, err := test.Issue("12345")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := []struct {
		name     string
		verifier *TokenService
		token    string
	}{
		{"test token under production verifier", prod, testToken},
		{"production token under test verifier", test, prodToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.verifier.Verify(tc.token)
			var verr *VerificationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want *VerificationError", err)
			}
			if verr.Kind != KindSignatureMismatch {
				t.Errorf("kind = %v, want signature mismatch", verr.Kind)
			}
		})
	}
}

func TestTokenService_VerifyClassification(t *testing.T) {
	svc := newService(t, "secret-a", time.Hour)

	cases := []struct {
		name  string
		token string
		kind  VerificationKind
	}{
		{"garbage", "not-a-token", KindMalformed},
		{"empty", "", KindMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Verify(tc.token)
			var verr *VerificationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want *VerificationError", err)
			}
			if verr.Kind != tc.kind {
				t.Errorf("kind = %v, want %v", verr.Kind, tc.kind)
			}
		})
	}
}

func TestTokenService_MissingSubject(t *testing.T) {
	svc := newService(t, "secret-a", time.Hour)

	token, err := svc.Issue("")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	_, err = svc.Verify(token)
	var verr *VerificationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *VerificationError", err)
	}
	if verr.Kind != KindMalformed {
		t.Errorf("kind = %v, want malformed", verr.Kind)
	}
}
