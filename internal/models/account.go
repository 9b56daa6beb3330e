// Package models содержит доменные структуры сервиса: аккаунт пользователя
// с тарифом и счётчиком запросов, а также запись о платеже.
package models

import "time"

// Plan — тариф аккаунта, определяющий лимит запросов за окно.
type Plan string

const (
	// PlanFree — бесплатный тариф.
	PlanFree Plan = "free"
	// PlanPremium — платный тариф после успешной оплаты.
	PlanPremium Plan = "premium"
)

const (
	// FreeQueriesLimit — лимит запросов бесплатного тарифа за окно.
	FreeQueriesLimit = 10
	// PremiumQueriesLimit — лимит запросов платного тарифа за окно.
	PremiumQueriesLimit = 100
	// UsageWindow — длительность окна подсчёта запросов.
	UsageWindow = 30 * 24 * time.Hour
)

// Limit возвращает лимит запросов для тарифа. Неизвестный тариф
// трактуется как бесплатный.
func (p Plan) Limit() int {
	if p == PlanPremium {
		return PremiumQueriesLimit
	}
	return FreeQueriesLimit
}

// Account представляет аккаунт пользователя, ключом служит email.
type Account struct {
	Email         string     // Электронная почта, уникальный ключ
	PasswordHash  string     // Bcrypt-хэш пароля
	Plan          Plan       // Текущий тариф
	QueriesUsed   int        // Количество запросов в текущем окне
	LastResetDate *time.Time // Начало текущего окна, nil — окно ещё не открыто
	CreatedAt     time.Time  // Дата регистрации
}
