package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "claims", c), ANY package that knows the string can
// read or shadow your value. Only THIS package can create a key of type
// contextKey, so only this package can read or write Claims in the context.
type contextKey string

const claimsKey contextKey = "claims"

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It reads "Authorization: Bearer <token>", runs the gate, and either stores
// the Claims in the request context or answers 401 with {"err": "..."} and
// stops the chain. Nothing downstream runs for a rejected request.
//
// Chi applies middlewares in a chain: req → M1 → M2 → Handler → M2 → M1 → resp
func RequireAuth(tokens *TokenService, logger *slog.Logger) func(http.Handler) http.Handler {
	gate := NewGate(tokens)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			outcome := gate.Evaluate(r.Header.Get("Authorization"))
			recordGateDecision(outcome)

			if !outcome.Proceed {
				logger.Debug("request rejected by auth gate",
					slog.String("path", r.URL.Path),
					slog.String("reason", outcome.Reason),
				)
				writeRejection(w, outcome)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), outcome.Claims)))
		})
	}
}

func writeRejection(w http.ResponseWriter, o GateOutcome) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(o.Status)
	_ = json.NewEncoder(w).Encode(map[string]string{"err": o.Message})
}

// WithClaims returns a copy of ctx carrying c.
func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromContext returns the Claims attached by RequireAuth.
// ok is false on routes that are not behind the gate.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(claimsKey).(Claims)
	return c, ok
}

// UserIDFromContext retrieves the authenticated user's ID from the request context.
//
// Usage in handlers:
//
//	userID, ok := auth.UserIDFromContext(r.Context())
//	if !ok {
//	    // route is not protected
//	}
func UserIDFromContext(ctx context.Context) (int64, bool) {
	c, ok := ClaimsFromContext(ctx)
	return c.UserID, ok && c.UserID > 0
}
