package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// VerificationKind classifies why a token failed verification. The gate
// collapses all kinds into one generic rejection; the kind only feeds logs.
type VerificationKind int

const (
	KindMalformed VerificationKind = iota
	KindExpired
	KindSignatureMismatch
)

func (k VerificationKind) String() string {
	switch k {
	case KindExpired:
		return "expired"
	case KindSignatureMismatch:
		return "signature mismatch"
	default:
		return "malformed"
	}
}

// VerificationError reports a failed token verification with its kind.
type VerificationError struct {
	Kind VerificationKind
	err  error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("token verification failed (%s): %v", e.Kind, e.err)
}

func (e *VerificationError) Unwrap() error { return e.err }

// Config holds the signing secrets and session lifetime, read once at
// startup and passed into the token services. Never consulted again.
type Config struct {
	Secret     string
	TestSecret string
	TTL        time.Duration
}

// ConfigFromEnv reads token config from environment variables. The test
// secret is derived from the production one so the two families can never
// collide with an operator-supplied value.
func ConfigFromEnv() (Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, errors.New("JWT_SECRET is not set")
	}
	ttl := time.Hour
	if v := os.Getenv("SESSION_TTL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse SESSION_TTL: %w", err)
		}
		ttl = parsed
	}
	return Config{Secret: secret, TestSecret: secret + "_testing", TTL: ttl}, nil
}

// TokenService issues and verifies HS256 session tokens for one secret
// family. Two instances exist per process (production and test); tokens
// from one family always fail verification under the other.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService builds a service for one secret family. An empty secret
// is a configuration error and must abort startup.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: session ttl must be positive")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs a token carrying the subject with iat=now and exp=now+ttl.
func (s *TokenService) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// Verify parses and validates a token against this family's secret and
// returns the identity carried in its subject claim. Failures come back as
// *VerificationError with the kind set for diagnostics.
func (s *TokenService) Verify(tokenString string) (Identity, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return Identity{}, &VerificationError{Kind: classify(err), err: err}
	}
	if claims.Subject == "" {
		return Identity{}, &VerificationError{Kind: KindMalformed, err: errors.New("missing subject claim")}
	}
	return Identity{Subject: claims.Subject}, nil
}

func classify(err error) VerificationKind {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return KindExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return KindSignatureMismatch
	default:
		return KindMalformed
	}
}
