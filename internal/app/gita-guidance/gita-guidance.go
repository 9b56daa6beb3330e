package gitaguidance

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/gita-guidance/internal/cache"
	"github.com/magabrotheeeer/gita-guidance/internal/config"
	"github.com/magabrotheeeer/gita-guidance/internal/lib/jwt"
	"github.com/magabrotheeeer/gita-guidance/internal/llm"
	"github.com/magabrotheeeer/gita-guidance/internal/migrations"
	"github.com/magabrotheeeer/gita-guidance/internal/paymentprovider"
	"github.com/magabrotheeeer/gita-guidance/internal/rabbitmq"
	alertsservice "github.com/magabrotheeeer/gita-guidance/internal/services/alerts"
	authservice "github.com/magabrotheeeer/gita-guidance/internal/services/auth"
	entitlementservice "github.com/magabrotheeeer/gita-guidance/internal/services/entitlement"
	guidanceservice "github.com/magabrotheeeer/gita-guidance/internal/services/guidance"
	"github.com/magabrotheeeer/gita-guidance/internal/storage"
	"github.com/magabrotheeeer/gita-guidance/internal/tts"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitConnectionString, cfg.RabbitMaxRetries, cfg.RabbitRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	llmClient, err := llm.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	provider := paymentprovider.New(cfg.PayPal)
	alertPublisher := alertsservice.NewAMQP(ch, logger)

	authService := authservice.New(db, jwtMaker)
	entitlementService := entitlementservice.New(db, provider, alertPublisher, logger,
		cfg.PayPal.SubscriptionCost, cfg.BaseURL)
	guidanceService := guidanceservice.New(llmClient, tts.NewClient(cfg.Speech), cacheRedis, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, authService, entitlementService, guidanceService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		if chErr := a.ch.Close(); chErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", chErr))
		}
		if connErr := a.conn.Close(); connErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", connErr))
		}
		return err
	}
}
