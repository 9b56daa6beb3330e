// Package alerts публикует события, требующие ручной сверки оператором:
// захваченный платёж без сохранённого тарифа и выданный тариф без
// аудиторской записи.
package alerts

import (
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/gita-guidance/internal/lib/sl"
	"github.com/magabrotheeeer/gita-guidance/internal/models"
	"github.com/magabrotheeeer/gita-guidance/internal/rabbitmq"
)

// Channel описывает публикацию сообщения в exchange.
type Channel interface {
	Publish(exchange, routingKey string, message any) error
}

// Publisher отправляет алерты в очередь оператора.
type Publisher struct {
	ch  Channel
	log *slog.Logger
}

// New создает новый экземпляр Publisher.
func New(ch Channel, log *slog.Logger) *Publisher {
	return &Publisher{ch: ch, log: log}
}

// PublishReconciliationAlert публикует алерт о платеже, требующем сверки.
func (p *Publisher) PublishReconciliationAlert(alert models.ReconciliationAlert) error {
	if err := p.ch.Publish(rabbitmq.ReconciliationExchange, rabbitmq.ReconciliationKey, alert); err != nil {
		p.log.Error("failed to publish reconciliation alert", sl.Err(err),
			slog.String("transaction_id", alert.TransactionID))
		return err
	}
	p.log.Info("reconciliation alert published",
		slog.String("transaction_id", alert.TransactionID),
		slog.String("reason", alert.Reason))
	return nil
}

// NewAMQP создает Publisher поверх открытого канала RabbitMQ.
func NewAMQP(ch *amqp.Channel, log *slog.Logger) *Publisher {
	return New(amqpChannel{ch: ch}, log)
}

type amqpChannel struct {
	ch *amqp.Channel
}

func (a amqpChannel) Publish(exchange, routingKey string, message any) error {
	return rabbitmq.PublishMessage(a.ch, exchange, routingKey, message)
}
