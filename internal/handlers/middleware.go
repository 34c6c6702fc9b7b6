package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"kidsmoney/internal/models"
	"kidsmoney/internal/security"
	"kidsmoney/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ClaimsContextKey holds the verified token claims of the caller
const ClaimsContextKey ContextKey = "claims"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	tokens  *security.TokenIssuer
	limiter *security.RateLimiter
	logger  zerolog.Logger
	origins []string
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(tokens *security.TokenIssuer, limiter *security.RateLimiter, logger zerolog.Logger, origins []string) *Middleware {
	return &Middleware{
		tokens:  tokens,
		limiter: limiter,
		logger:  logger,
		origins: origins,
	}
}

// RequireAuth accepts any valid access token
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return m.requireRole("", next)
}

// RequireParent accepts parent tokens only
func (m *Middleware) RequireParent(next http.HandlerFunc) http.HandlerFunc {
	return m.requireRole(models.RoleParent, next)
}

// RequireKid accepts kid tokens only
func (m *Middleware) RequireKid(next http.HandlerFunc) http.HandlerFunc {
	return m.requireRole(models.RoleKid, next)
}

func (m *Middleware) requireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			respondWithStatus(w, http.StatusUnauthorized, CodeUnauthorized, "Not authenticated")
			return
		}
		claims, err := m.tokens.Verify(token)
		if err != nil {
			zerolog.Ctx(r.Context()).Debug().Err(err).Msg("rejected access token")
			respondWithStatus(w, http.StatusUnauthorized, CodeUnauthorized, "Could not validate credentials")
			return
		}
		if role != "" && claims.Role != role {
			respondWithStatus(w, http.StatusForbidden, CodeForbidden, "This action is not available for "+claims.Role+" accounts")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit limits requests per client address
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.limiter.Allow(ip) {
			zerolog.Ctx(r.Context()).Warn().Str("ip", ip).Str("path", r.URL.Path).Msg("rate limit exceeded")
			w.Header().Set("Retry-After", "60")
			respondWithStatus(w, http.StatusTooManyRequests, CodeRateLimited, "Too many requests. Please try again later.")
			return
		}
		next(w, r)
	}
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logging attaches a request-scoped logger to the context and writes one access log line per request
func (m *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		logger := m.logger.With().Str("request_id", requestID).Logger()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logger.WithContext(r.Context())))

		event := logger.Info()
		if rec.status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// CORS allows browser clients from the configured origins. "*" allows any origin.
func (m *Middleware) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && m.originAllowed(origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			h.Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) originAllowed(origin string) bool {
	for _, o := range m.origins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// GetClaimsFromContext retrieves the caller's token claims from the request context
func GetClaimsFromContext(ctx context.Context) *security.Claims {
	claims, ok := ctx.Value(ClaimsContextKey).(*security.Claims)
	if !ok {
		return nil
	}
	return claims
}

// actorFromRequest builds the service actor for the authenticated caller
func actorFromRequest(r *http.Request) service.Actor {
	claims := GetClaimsFromContext(r.Context())
	if claims == nil {
		return service.Actor{}
	}
	if claims.IsKid() {
		return service.KidActor(claims.Subject, claims.ParentID)
	}
	return service.ParentActor(claims.Subject)
}

// kidIDFor resolves the kid a request is about: the {kid_id} path value on
// parent routes, the token's kid on kid routes.
func kidIDFor(r *http.Request, actor service.Actor) string {
	if id := r.PathValue("kid_id"); id != "" {
		return id
	}
	return actor.KidID
}
