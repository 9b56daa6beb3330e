// Package gitaguidance предоставляет маршруты для основного приложения.
package gitaguidance

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/gita-guidance/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/gita-guidance/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/gita-guidance/internal/http/handlers/entitlement/status"
	"github.com/magabrotheeeer/gita-guidance/internal/http/handlers/guidance/ask"
	"github.com/magabrotheeeer/gita-guidance/internal/http/handlers/health"
	"github.com/magabrotheeeer/gita-guidance/internal/http/handlers/payment/cancel"
	"github.com/magabrotheeeer/gita-guidance/internal/http/handlers/payment/success"
	"github.com/magabrotheeeer/gita-guidance/internal/http/handlers/payment/upgrade"
	"github.com/magabrotheeeer/gita-guidance/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/gita-guidance/internal/services/auth"
	entitlementservice "github.com/magabrotheeeer/gita-guidance/internal/services/entitlement"
	guidanceservice "github.com/magabrotheeeer/gita-guidance/internal/services/guidance"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.Service,
	entitlementService *entitlementservice.Service, guidanceService *guidanceservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Redirect-точки платёжного провайдера (без аутентификации:
		// сессия не переживает уход на сторону провайдера)
		r.Get("/payment/success", success.New(logger, entitlementService).ServeHTTP)
		r.Get("/payment/cancel", cancel.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/guidance/ask", ask.New(logger, entitlementService, guidanceService).ServeHTTP)
			r.Get("/entitlement/status", status.New(logger, entitlementService).ServeHTTP)
			r.Post("/payment/upgrade", upgrade.New(logger, entitlementService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
