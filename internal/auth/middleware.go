package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/respond"
)

// TokenVerifier is the narrow contract the gate needs from a token service.
type TokenVerifier interface {
	Verify(tokenString string) (Identity, error)
}

const unauthorizedMessage = "Unauthorized"

// Middleware returns the authorization gate for one secret family. A missing
// or invalid bearer credential terminates the request with a single generic
// 401; expired, malformed and mis-signed tokens are indistinguishable to the
// caller. Verification runs fresh on every request, never cached.
func Middleware(verifier TokenVerifier, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respond.Message(w, http.StatusUnauthorized, unauthorizedMessage)
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			identity, err := verifier.Verify(token)
			if err != nil {
				logger.Debugw("token rejected", "err", err, "path", r.URL.Path)
				respond.Message(w, http.StatusUnauthorized, unauthorizedMessage)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}
