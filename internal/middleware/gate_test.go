// AngelaMos | 2026
// gate_test.go

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/arcana-vip/internal/core"
)

type stubVerifier map[string]*AccessTokenClaims

func (s stubVerifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (*AccessTokenClaims, error) {
	if token == "expired" {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
	}
	claims, ok := s[token]
	if !ok {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}
	return claims, nil
}

type stubChecker map[string]string

func (s stubChecker) Authorize(_ context.Context, userID string) (bool, string) {
	reason, ok := s[userID]
	if !ok {
		return false, "not_vip"
	}
	return reason == "vip_active", reason
}

var verifier = stubVerifier{
	"vip-token":     {UserID: "vip", Email: "vip@example.com"},
	"lapsed-token":  {UserID: "lapsed"},
	"regular-token": {UserID: "regular"},
}

var checker = stubChecker{
	"vip":    "vip_active",
	"lapsed": "vip_expired",
}

func gatedContent() http.Handler {
	return AccessGate(verifier, checker)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			core.OK(w, map[string]string{"user": GetUserID(r.Context())})
		},
	))
}

func TestAccessGate(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
		wantReason string
	}{
		{
			name:       "missing token",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name:       "malformed header",
			header:     "Token vip-token",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name:       "invalid token",
			header:     "Bearer forged",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "TOKEN_INVALID",
		},
		{
			name:       "expired token",
			header:     "Bearer expired",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "TOKEN_EXPIRED",
		},
		{
			name:       "not a vip",
			header:     "Bearer regular-token",
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
			wantReason: "not_vip",
		},
		{
			name:       "lapsed vip",
			header:     "bearer lapsed-token",
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
			wantReason: "vip_expired",
		},
		{
			name:       "active vip",
			header:     "Bearer vip-token",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/cards/today", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			gatedContent().ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)

			var resp core.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

			if tt.wantStatus == http.StatusOK {
				assert.True(t, resp.Success)
				return
			}
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantReason, resp.Error.Reason)
		})
	}
}

func TestRequireEntitlement_WithoutPrincipal(t *testing.T) {
	h := RequireEntitlement(checker)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
