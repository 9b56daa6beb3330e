package alerts

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gita-guidance/internal/models"
	"github.com/magabrotheeeer/gita-guidance/internal/rabbitmq"
)

type ChannelMock struct {
	mock.Mock
}

func (m *ChannelMock) Publish(exchange, routingKey string, message any) error {
	args := m.Called(exchange, routingKey, message)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestPublisher_PublishReconciliationAlert(t *testing.T) {
	alert := models.ReconciliationAlert{
		Email:         "seeker@example.com",
		TransactionID: "TXN-42",
		Amount:        "7.00",
		Currency:      "USD",
		Reason:        "plan grant failed after capture",
	}

	t.Run("success", func(t *testing.T) {
		ch := new(ChannelMock)
		ch.On("Publish", rabbitmq.ReconciliationExchange, rabbitmq.ReconciliationKey, alert).
			Return(nil).Once()

		p := New(ch, newNoopLogger())
		err := p.PublishReconciliationAlert(alert)

		assert.NoError(t, err)
		ch.AssertExpectations(t)
	})

	t.Run("publish error", func(t *testing.T) {
		ch := new(ChannelMock)
		ch.On("Publish", rabbitmq.ReconciliationExchange, rabbitmq.ReconciliationKey, alert).
			Return(errors.New("channel closed")).Once()

		p := New(ch, newNoopLogger())
		err := p.PublishReconciliationAlert(alert)

		assert.Error(t, err)
		ch.AssertExpectations(t)
	})
}
