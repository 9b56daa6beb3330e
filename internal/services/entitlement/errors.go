package entitlement

import "errors"

// Ошибки сервиса, по которым обработчики выбирают конкретное сообщение
// пользователю. Проверяются через errors.Is.
var (
	// ErrStoreUnavailable — хранилище недоступно; вызывающий не может
	// определить право на запрос и не должен трактовать это как отказ.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrPaymentProvider — ошибка платёжного провайдера: авторизация,
	// сеть или некорректный ответ. Не повторяется автоматически.
	ErrPaymentProvider = errors.New("payment provider error")

	// ErrPaymentNotCompleted — провайдер вернул статус, отличный от
	// завершённого; аккаунт не изменяется.
	ErrPaymentNotCompleted = errors.New("payment not completed")

	// ErrGrantNotPersisted — платёж захвачен, но тариф не удалось
	// сохранить. Деньги уже списаны, поэтому случай выделен отдельно:
	// он требует ручной сверки оператором, а не повторного захвата.
	ErrGrantNotPersisted = errors.New("payment captured but entitlement grant not persisted")
)
