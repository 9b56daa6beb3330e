// Package alertsender собирает приложение-консьюмер алертов о платежах,
// требующих ручной сверки, и отправляет их оператору по почте.
package alertsender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/gita-guidance/internal/config"
	"github.com/magabrotheeeer/gita-guidance/internal/lib/smtp"
	"github.com/magabrotheeeer/gita-guidance/internal/rabbitmq"
	reconcilerservice "github.com/magabrotheeeer/gita-guidance/internal/services/reconciler"
)

type App struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	reconciler *reconcilerservice.Service
	logger     *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitConnectionString, cfg.RabbitMaxRetries, cfg.RabbitRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	newTransport := smtp.NewTransport(cfg, logger)
	reconciler := reconcilerservice.New(newTransport, cfg.OperatorEmail, logger)

	return &App{
		conn:       conn,
		ch:         ch,
		reconciler: reconciler,
		logger:     logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.ReconciliationQueue, a.reconciler.SendReconciliationAlert)
	if err != nil {
		a.logger.Error("failed to start reconciliation consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("alert sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
