package router

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/activity"
	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/respond"
	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/user"
	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/pkg/utilities"
)

// testSubject is the fixed mock account id carried by diagnostic tokens.
const testSubject = "abcdefghijklmnopqrstuvwxyz"

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// RequestIDMiddleware stamps each request with a KSUID, honoring an
// existing X-Request-ID header from upstream proxies.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = utilities.NewKSUID()
			}
			w.Header().Set("X-Request-ID", requestID)
			next.ServeHTTP(w, r)
		})
	}
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"request_id", lrw.Header().Get("X-Request-ID"),
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Deps carries everything route wiring needs. Sessions and TestSessions are
// the two secret families; routes gated by one never accept tokens from the
// other.
type Deps struct {
	Logger       *zap.SugaredLogger
	Users        *user.Handler
	Activities   *activity.Handler
	Sessions     *auth.TokenService
	TestSessions *auth.TokenService
}

// RegisterRoutes mounts HTTP handlers using the standard library's http.ServeMux.
// Per-request stages run in strict sequence: validation and the auth gate
// resolve before any handler logic, and a terminal outcome at either stage
// stops the pipeline.
func RegisterRoutes(d Deps) http.Handler {
	mux := http.NewServeMux()

	gate := auth.Middleware(d.Sessions, d.Logger)
	testGate := auth.Middleware(d.TestSessions, d.Logger)

	// health
	mux.HandleFunc("GET /activity-api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// account routes (no gate; these are how tokens are obtained)
	mux.Handle("POST /register",
		validateJSONBody("Could not register", user.RegisterRules)(http.HandlerFunc(d.Users.Register)))
	mux.Handle("POST /login",
		validateJSONBody("Could not login", user.LoginRules)(http.HandlerFunc(d.Users.Login)))

	// activity routes; validation precedes the gate so a malformed request
	// is reported the same way whether or not the caller is authenticated
	mux.Handle("GET /activities", gate(http.HandlerFunc(d.Activities.Activities)))
	mux.Handle("PUT /activity/{activityId}/complete",
		validatePath("Could not set activity as completed", activity.ActivityIDRules)(
			gate(http.HandlerFunc(d.Activities.Complete))))
	mux.Handle("GET /completedActivities", gate(http.HandlerFunc(d.Activities.Completed)))

	// admin routes; the admin decision itself lives in the backend operations
	mux.Handle("POST /admin/activity",
		validateJSONBody("Could not create activity", activity.SaveRules)(
			gate(http.HandlerFunc(d.Activities.AdminCreate))))
	mux.Handle("PUT /admin/activity/{activityId}",
		validatePath("Could not update activity", activity.ActivityIDRules)(
			validateJSONBody("Could not update activity", activity.SaveRules)(
				gate(http.HandlerFunc(d.Activities.AdminUpdate)))))
	mux.Handle("GET /admin/activity/{activityId}",
		validatePath("Could not get activity", activity.ActivityIDRules)(
			gate(http.HandlerFunc(d.Activities.AdminGet))))
	mux.Handle("DELETE /admin/activity/{activityId}",
		validatePath("Could not delete activity", activity.ActivityIDRules)(
			gate(http.HandlerFunc(d.Activities.AdminDelete))))

	// diagnostic token endpoints: tokens minted here belong to the test
	// family and are rejected by every production-gated route above
	mux.HandleFunc("GET /createTestToken", func(w http.ResponseWriter, r *http.Request) {
		token, err := d.TestSessions.Issue(testSubject)
		if err != nil {
			d.Logger.Errorw("test token issue failed", "err", err)
			respond.Message(w, http.StatusInternalServerError, "Could not create token")
			return
		}
		respond.Write(w, http.StatusOK, respond.Envelope{Message: "Token created", Token: token})
	})
	mux.Handle("GET /testToken", testGate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, _ := auth.FromContext(r.Context())
		respond.JSON(w, http.StatusOK, map[string]string{"userId": identity.Subject})
	})))

	handler := RequestIDMiddleware()(SecurityHeadersMiddleware()(mux))
	return LoggingMiddleware(d.Logger)(handler)
}
