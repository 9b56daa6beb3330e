// Package upgrade реализует HTTP-обработчик начала перехода на платный тариф.
//
// Обработчик создаёт у платёжного провайдера заказ на фиксированную сумму
// и возвращает ссылку подтверждения, по которой пользователь переходит
// на сторону провайдера. Сам тариф выдаётся только после возврата
// пользователя и захвата платежа.
package upgrade

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gita-guidance/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gita-guidance/internal/http/response"
	"github.com/magabrotheeeer/gita-guidance/internal/lib/sl"
)

// Service определяет интерфейс начала оплаты.
type Service interface {
	InitiateUpgrade(ctx context.Context, email string) (string, error)
}

// Handler обрабатывает запросы перехода на платный тариф.
type Handler struct {
	log         *slog.Logger
	entitlement Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, entitlement Service) *Handler {
	return &Handler{log: log, entitlement: entitlement}
}

// ServeHTTP godoc
// @Summary Начать переход на платный тариф
// @Description Создает заказ у платёжного провайдера и возвращает ссылку подтверждения оплаты.
// @Tags Payments
// @Produce  json
// @Success 200 {object} map[string]any "Ссылка подтверждения оплаты"
// @Failure 401 {object} response.ErrorResponse "Аккаунт не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка платёжного провайдера"
// @Router /payment/upgrade [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.upgrade"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || email == "" {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	approvalURL, err := h.entitlement.InitiateUpgrade(r.Context(), email)
	if err != nil {
		log.Error("failed to initiate upgrade", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("payment provider error"))
		return
	}

	log.Info("upgrade initiated", slog.String("email", email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"approval_url": approvalURL,
	}))
}
