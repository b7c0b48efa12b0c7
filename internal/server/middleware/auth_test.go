package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/redtrack/internal/server/handlers"
)

func testJWTConfig() handlers.JWTConfig {
	return handlers.JWTConfig{
		Secret:          []byte("test-secret-key-for-middleware"),
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestAuthMiddleware(t *testing.T) {
	jwtConfig := testJWTConfig()

	validToken, _, err := handlers.GenerateAccessToken(jwtConfig, "user-123", "alice")
	require.NoError(t, err)

	expiredConfig := jwtConfig
	expiredConfig.AccessTokenTTL = -time.Minute
	expiredToken, _, err := handlers.GenerateAccessToken(expiredConfig, "user-123", "alice")
	require.NoError(t, err)

	otherSecret := jwtConfig
	otherSecret.Secret = []byte("another-secret")
	foreignToken, _, err := handlers.GenerateAccessToken(otherSecret, "user-123", "alice")
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "valid token",
			authHeader: "Bearer " + validToken,
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic " + validToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			authHeader: "Bearer",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			authHeader: "Bearer " + expiredToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "token signed with different secret",
			authHeader: "Bearer " + foreignToken,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var gotUserID, gotUsername string

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotUserID, _ = handlers.GetUserID(r.Context())
				gotUsername, _ = handlers.GetUsername(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			handler := AuthMiddleware(testLogger(), jwtConfig)(next)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/dates", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNext, nextCalled)

			if tt.wantNext {
				assert.Equal(t, "user-123", gotUserID)
				assert.Equal(t, "alice", gotUsername)
			} else {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			}
		})
	}
}
