package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware(t *testing.T) {
	jwtService := &JWTService{}

	tests := []struct {
		name           string
		authHeader     func() string
		expectedStatus int
		expectedUserID int64
		expectedRole   string
	}{
		{
			name: "Valid token",
			authHeader: func() string {
				token, _ := jwtService.GenerateJWT(42, RoleFinanceAdmin, time.Now().Add(time.Hour))
				return "Bearer " + token
			},
			expectedStatus: http.StatusOK,
			expectedUserID: 42,
			expectedRole:   RoleFinanceAdmin,
		},
		{
			name:           "Missing header",
			authHeader:     func() string { return "" },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing Bearer prefix",
			authHeader:     func() string { return "Basic dXNlcjpwYXNz" },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid token",
			authHeader:     func() string { return "Bearer invalid.token.string" },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Expired token",
			authHeader: func() string {
				token, _ := jwtService.GenerateJWT(42, RoleFinanceAdmin, time.Now().Add(-time.Hour))
				return "Bearer " + token
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID int64
			var gotRole string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = r.Context().Value(UserIDKey).(int64)
				gotRole, _ = r.Context().Value(RoleKey).(string)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header := tt.authHeader(); header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()

			AuthMiddleware(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedUserID, gotUserID)
				assert.Equal(t, tt.expectedRole, gotRole)
			}
		})
	}
}

func TestRequireCapability(t *testing.T) {
	tests := []struct {
		name           string
		role           string
		capability     Capability
		expectedStatus int
	}{
		{
			name:           "Role holds capability",
			role:           RoleFinanceAdmin,
			capability:     CapPayoutReview,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Role lacks capability",
			role:           RoleSupportAdmin,
			capability:     CapWalletAdjust,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "No role in context",
			role:           "",
			capability:     CapAuditRead,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.role != "" {
				req = req.WithContext(context.WithValue(req.Context(), RoleKey, tt.role))
			}
			w := httptest.NewRecorder()

			RequireCapability(tt.capability)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
