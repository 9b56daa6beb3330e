package middlewarectx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		setupMocks     func(*MockAuthService)
		expectedStatus int
		expectedEmail  string
	}{
		{
			name:       "success - valid token",
			authHeader: "Bearer valid-token",
			setupMocks: func(s *MockAuthService) {
				s.On("ValidateToken", mock.Anything, "valid-token").
					Return("seeker@example.com", nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedEmail:  "seeker@example.com",
		},
		{
			name:           "missing authorization header",
			authHeader:     "",
			setupMocks:     func(*MockAuthService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic dXNlcjpwYXNz",
			setupMocks:     func(*MockAuthService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer expired-token",
			setupMocks: func(s *MockAuthService) {
				s.On("ValidateToken", mock.Anything, "expired-token").
					Return("", errors.New("token is expired")).Once()
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authService := new(MockAuthService)
			tt.setupMocks(authService)

			var gotEmail string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotEmail, _ = r.Context().Value(User).(string)
				w.WriteHeader(http.StatusOK)
			})

			handler := JWTMiddleware(authService, newNoopLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/entitlement/status", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedEmail != "" {
				assert.Equal(t, tt.expectedEmail, gotEmail)
			}

			authService.AssertExpectations(t)
		})
	}
}
