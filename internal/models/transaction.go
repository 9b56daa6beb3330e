package models

import "time"

// TransactionRecord представляет завершённый платёж за переход на premium.
// Запись создаётся ровно один раз и после создания не изменяется.
type TransactionRecord struct {
	ID        string    `json:"transaction_id"` // Идентификатор транзакции, присвоенный провайдером
	OrderRef  string    `json:"order_ref"`      // Идентификатор заказа/платежа, породившего транзакцию
	Email     string    `json:"email"`          // Аккаунт, которому выдан тариф
	Amount    string    `json:"amount"`         // Сумма платежа
	Currency  string    `json:"currency"`       // Валюта платежа
	Status    string    `json:"status"`         // Статус на момент захвата, всегда "COMPLETED"
	Timestamp time.Time `json:"timestamp"`      // Время захвата платежа
}
