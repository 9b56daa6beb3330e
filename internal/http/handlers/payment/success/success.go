// Package success реализует HTTP-обработчик возврата пользователя от
// платёжного провайдера после подтверждения оплаты.
//
// Провайдер добавляет к redirect-ссылке идентификатор заказа (token у
// Orders API, paymentId у Payments API) и PayerID. Email аккаунта
// передаётся в собственных параметрах ссылки, так как сессия не
// переживает уход на сторону провайдера. Повторное открытие ссылки
// не списывает деньги и не выдаёт тариф второй раз.
package success

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gita-guidance/internal/http/response"
	"github.com/magabrotheeeer/gita-guidance/internal/lib/sl"
	"github.com/magabrotheeeer/gita-guidance/internal/models"
	"github.com/magabrotheeeer/gita-guidance/internal/services/entitlement"
)

// Service определяет интерфейс завершения оплаты.
type Service interface {
	FinalizeUpgrade(ctx context.Context, orderRef, payerID, email string) (*models.TransactionRecord, bool, error)
}

// Handler обрабатывает возврат от платёжного провайдера.
type Handler struct {
	log         *slog.Logger
	entitlement Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, entitlement Service) *Handler {
	return &Handler{log: log, entitlement: entitlement}
}

// ServeHTTP godoc
// @Summary Завершение оплаты
// @Description Захватывает подтверждённый платёж и переводит аккаунт на платный тариф. Идемпотентен по идентификатору заказа.
// @Tags Payments
// @Produce  json
// @Param token query string false "Идентификатор заказа (Orders API)"
// @Param paymentId query string false "Идентификатор платежа (Payments API)"
// @Param PayerID query string false "Идентификатор плательщика"
// @Param email query string true "Email аккаунта"
// @Success 200 {object} models.TransactionRecord "Платёж применён"
// @Failure 400 {object} response.ErrorResponse "Отсутствуют обязательные параметры"
// @Failure 402 {object} response.ErrorResponse "Платёж не завершён провайдером"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера или провайдера"
// @Router /payment/success [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.success"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	orderRef := q.Get("token")
	if orderRef == "" {
		orderRef = q.Get("paymentId")
	}
	payerID := q.Get("PayerID")
	email := q.Get("email")

	if orderRef == "" || email == "" {
		log.Error("missing required query parameters")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing order reference or email"))
		return
	}

	rec, alreadyProcessed, err := h.entitlement.FinalizeUpgrade(r.Context(), orderRef, payerID, email)
	if err != nil {
		switch {
		case errors.Is(err, entitlement.ErrPaymentNotCompleted):
			log.Error("payment not completed by provider", sl.Err(err))
			w.WriteHeader(http.StatusPaymentRequired)
			render.JSON(w, r, response.Error("payment was not completed"))
		case errors.Is(err, entitlement.ErrGrantNotPersisted):
			log.Error("payment captured but grant failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("payment received, account upgrade delayed, support has been notified"))
		case errors.Is(err, entitlement.ErrPaymentProvider):
			log.Error("payment provider error", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("payment provider error"))
		default:
			log.Error("failed to finalize upgrade", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	message := "payment successful, premium plan activated"
	if alreadyProcessed {
		message = "payment already processed"
	}

	log.Info("upgrade finalized",
		slog.String("email", email),
		slog.String("transaction_id", rec.ID),
		slog.Bool("already_processed", alreadyProcessed))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message":     message,
		"transaction": rec,
	}))
}
