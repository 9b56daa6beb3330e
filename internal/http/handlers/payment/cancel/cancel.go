// Package cancel реализует HTTP-обработчик возврата пользователя после
// отказа от оплаты на стороне провайдера. Состояние аккаунта не меняется.
package cancel

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gita-guidance/internal/http/response"
)

// Handler обрабатывает отказ от оплаты.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Отказ от оплаты
// @Description Пользователь отказался от оплаты на стороне провайдера. Тариф и квота аккаунта не меняются.
// @Tags Payments
// @Produce  json
// @Success 200 {object} map[string]any "Оплата отменена"
// @Router /payment/cancel [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	log.Info("payment cancelled by user", slog.String("email", r.URL.Query().Get("email")))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "payment cancelled, your plan was not changed",
	}))
}
