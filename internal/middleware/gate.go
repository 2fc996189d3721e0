// AngelaMos | 2026
// gate.go

package middleware

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/arcana-vip/internal/core"
)

// EntitlementChecker decides whether a user may read gated content. The
// reason is safe to return to the caller.
type EntitlementChecker interface {
	Authorize(ctx context.Context, userID string) (bool, string)
}

// RequireEntitlement must run after Authenticator. It re-checks the
// entitlement on every request, so a revocation takes effect immediately.
func RequireEntitlement(checker EntitlementChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			granted, reason := checker.Authorize(r.Context(), userID)
			if !granted {
				core.AddSpanEvent(r.Context(), "entitlement.denied",
					attribute.String("reason", reason),
				)
				core.JSONError(
					w,
					core.ForbiddenError("vip membership required").WithReason(reason),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AccessGate runs the full chain for gated routes: bearer extraction,
// identity verification, then the entitlement check.
func AccessGate(
	verifier TokenVerifier,
	checker EntitlementChecker,
) func(http.Handler) http.Handler {
	authenticate := Authenticator(verifier)
	authorize := RequireEntitlement(checker)

	return func(next http.Handler) http.Handler {
		return authenticate(authorize(next))
	}
}
