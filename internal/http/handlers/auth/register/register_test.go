package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gita-guidance/internal/services/auth"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, email, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMocks     func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success - register account",
			requestBody: Request{
				Email:    "seeker@example.com",
				Password: "secret123",
				Confirm:  "secret123",
			},
			setupMocks: func(s *MockService) {
				s.On("Register", mock.Anything, "seeker@example.com", "secret123").Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"message":"account created successfully","email":"seeker@example.com"}}`,
		},
		{
			name:           "invalid JSON",
			requestBody:    "not a json",
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name: "invalid email",
			requestBody: Request{
				Email:    "not-an-email",
				Password: "secret123",
				Confirm:  "secret123",
			},
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Email must be a valid email address"}`,
		},
		{
			name: "password too short",
			requestBody: Request{
				Email:    "seeker@example.com",
				Password: "123",
				Confirm:  "123",
			},
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Password is shorter than the minimum length"}`,
		},
		{
			name: "passwords do not match",
			requestBody: Request{
				Email:    "seeker@example.com",
				Password: "secret123",
				Confirm:  "different123",
			},
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Confirm must match field Password"}`,
		},
		{
			name: "email already taken",
			requestBody: Request{
				Email:    "seeker@example.com",
				Password: "secret123",
				Confirm:  "secret123",
			},
			setupMocks: func(s *MockService) {
				s.On("Register", mock.Anything, "seeker@example.com", "secret123").
					Return(auth.ErrEmailTaken).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"email is already registered"}`,
		},
		{
			name: "service error",
			requestBody: Request{
				Email:    "seeker@example.com",
				Password: "secret123",
				Confirm:  "secret123",
			},
			setupMocks: func(s *MockService) {
				s.On("Register", mock.Anything, "seeker@example.com", "secret123").
					Return(errors.New("db is down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to register account"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			handler := New(newNoopLogger(), service)

			tt.setupMocks(service)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())

			service.AssertExpectations(t)
		})
	}
}

func TestRegisterHandler_New(t *testing.T) {
	logger := newNoopLogger()
	service := new(MockService)

	handler := New(logger, service)

	assert.NotNil(t, handler)
	assert.Equal(t, logger, handler.log)
	assert.Equal(t, service, handler.authService)
	assert.NotNil(t, handler.validate)
}
