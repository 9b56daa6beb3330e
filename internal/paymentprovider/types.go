// Package paymentprovider реализует клиентов PayPal для оплаты перехода
// на платный тариф. Исторически у провайдера два стиля интеграции:
// "orders" (создание заказа и его захват по токену возврата) и
// "payments" (создание платежа и его исполнение с payer id).
// Оба скрыты за общим интерфейсом Provider.
package paymentprovider

import (
	"context"
	"strings"
	"time"
)

// Order — созданный у провайдера заказ, ожидающий подтверждения пользователем.
type Order struct {
	Ref         string `json:"ref"`          // Идентификатор заказа или платежа у провайдера
	ApprovalURL string `json:"approval_url"` // URL страницы подтверждения у провайдера
}

// Capture — результат захвата или исполнения ранее созданного заказа.
type Capture struct {
	TransactionID string    `json:"transaction_id"` // Идентификатор транзакции
	Status        string    `json:"status"`         // Статус, присвоенный провайдером
	Amount        string    `json:"amount"`         // Сумма платежа
	Currency      string    `json:"currency"`       // Валюта платежа
	Timestamp     time.Time `json:"timestamp"`      // Время создания транзакции
}

// Completed сообщает, завершён ли платёж. Orders API возвращает "COMPLETED",
// Payments API — "completed", поэтому сравнение без учёта регистра.
func (c *Capture) Completed() bool {
	return strings.EqualFold(c.Status, "COMPLETED")
}

// Provider абстрагирует стиль интеграции с платёжным провайдером.
type Provider interface {
	// CreateOrder создаёт заказ на фиксированную сумму и возвращает
	// ссылку подтверждения для пользователя.
	CreateOrder(ctx context.Context, amount, currency, returnURL, cancelURL string) (*Order, error)
	// CaptureOrder завершает заказ после возврата пользователя.
	// payerID требуется только адаптеру в стиле "payments".
	CaptureOrder(ctx context.Context, ref, payerID string) (*Capture, error)
}
