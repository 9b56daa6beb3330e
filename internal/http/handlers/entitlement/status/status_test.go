package status

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gita-guidance/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gita-guidance/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CheckEligibility(ctx context.Context, email string) (*models.Eligibility, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Eligibility), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestStatusHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		email          string
		setupMocks     func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "success - free plan with remaining queries",
			email: "seeker@example.com",
			setupMocks: func(s *MockService) {
				s.On("CheckEligibility", mock.Anything, "seeker@example.com").
					Return(&models.Eligibility{Eligible: true, Remaining: 7, Plan: models.PlanFree}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"eligible":true,"queries_remaining":7,"plan":"free"}}`,
		},
		{
			name:  "success - exhausted premium plan",
			email: "premium@example.com",
			setupMocks: func(s *MockService) {
				s.On("CheckEligibility", mock.Anything, "premium@example.com").
					Return(&models.Eligibility{Eligible: false, Remaining: 0, Plan: models.PlanPremium}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"eligible":false,"queries_remaining":0,"plan":"premium"}}`,
		},
		{
			name:           "missing email in context",
			email:          "",
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:  "service error",
			email: "seeker@example.com",
			setupMocks: func(s *MockService) {
				s.On("CheckEligibility", mock.Anything, "seeker@example.com").
					Return(nil, errors.New("db is down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			handler := New(newNoopLogger(), service)

			tt.setupMocks(service)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/entitlement/status", nil)
			ctx := context.WithValue(req.Context(), middlewarectx.User, tt.email)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())

			service.AssertExpectations(t)
		})
	}
}
