package models

// AskRequest описывает жизненную проблему пользователя.
type AskRequest struct {
	Problem  string `json:"problem" validate:"required"` // Текст проблемы
	Language string `json:"language"`                    // Целевой язык ответа, по умолчанию en
}

// Eligibility — результат проверки квоты аккаунта.
type Eligibility struct {
	Eligible  bool   `json:"eligible"`
	Remaining int    `json:"queries_remaining"`
	Plan      Plan   `json:"plan"`
}

// GuidanceAnswer — сгенерированный ответ и синтезированная речь.
type GuidanceAnswer struct {
	Text  string `json:"text"`
	Audio []byte `json:"audio,omitempty"` // MP3, кодируется в base64 при сериализации
}

// ReconciliationAlert — сообщение оператору о платеже, требующем ручной сверки.
type ReconciliationAlert struct {
	Email         string `json:"email"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Reason        string `json:"reason"`
}
