package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/helixir/scholar-directory/internal/domain"
	"github.com/helixir/scholar-directory/internal/observability"
)

type contextKey string

const ctxKeyIdentity contextKey = "identity"

// Identity headers set by the upstream auth proxy.
const (
	headerUserID        = "X-User-Id"
	headerUserEmail     = "X-User-Email"
	headerUserFirstName = "X-User-First-Name"
	headerUserLastName  = "X-User-Last-Name"
	headerUserScholarID = "X-User-Scholar-Id"
)

// identityMiddleware extracts the session user's identity descriptor from
// the auth proxy headers and stores it in the request context. Absent
// headers yield the zero identity, which the search engine treats as an
// anonymous session with no self-exclusion.
func identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := domain.Identity{
			UID:       r.Header.Get(headerUserID),
			Email:     r.Header.Get(headerUserEmail),
			FirstName: r.Header.Get(headerUserFirstName),
			LastName:  r.Header.Get(headerUserLastName),
			ScholarID: r.Header.Get(headerUserScholarID),
		}

		ctx := context.WithValue(r.Context(), ctxKeyIdentity, identity)
		if identity.UID != "" {
			ctx = observability.WithUserID(ctx, identity.UID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// identityFromContext extracts the session identity from the request context.
func identityFromContext(ctx context.Context) domain.Identity {
	if v, ok := ctx.Value(ctxKeyIdentity).(domain.Identity); ok {
		return v
	}
	return domain.Identity{}
}

// correlationIDMiddleware ensures every request has a correlation ID.
func correlationIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get("X-Correlation-ID")
		if correlationID == "" {
			correlationID = middleware.GetReqID(r.Context())
		}
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		w.Header().Set("X-Correlation-ID", correlationID)
		ctx := observability.WithRequestID(r.Context(), correlationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// jsonContentTypeMiddleware sets Content-Type: application/json for all responses.
func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// rateLimiter applies a token-bucket limit per client. Clients are keyed by
// user ID when authenticated, otherwise by remote address.
type rateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	return &rateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (l *rateLimiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.rps, l.burst)
		l.limiters[key] = limiter
	}
	return limiter
}

func (l *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := identityFromContext(r.Context()).UID
		if key == "" {
			key = r.RemoteAddr
		}

		if !l.limiterFor(key).Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
