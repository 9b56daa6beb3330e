// Package status реализует HTTP-обработчик состояния квоты аккаунта.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gita-guidance/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gita-guidance/internal/http/response"
	"github.com/magabrotheeeer/gita-guidance/internal/lib/sl"
	"github.com/magabrotheeeer/gita-guidance/internal/models"
)

// Service определяет интерфейс проверки квоты.
type Service interface {
	CheckEligibility(ctx context.Context, email string) (*models.Eligibility, error)
}

// Handler обрабатывает запросы состояния квоты.
type Handler struct {
	log         *slog.Logger
	entitlement Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, entitlement Service) *Handler {
	return &Handler{log: log, entitlement: entitlement}
}

// ServeHTTP godoc
// @Summary Состояние квоты аккаунта
// @Description Возвращает тариф, остаток запросов и право на следующий запрос.
// @Tags Entitlement
// @Produce  json
// @Success 200 {object} models.Eligibility "Состояние квоты"
// @Failure 401 {object} response.ErrorResponse "Аккаунт не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /entitlement/status [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entitlement.status"

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

	elig, err := h.entitlement.CheckEligibility(r.Context(), email)
	if err != nil {
		log.Error("failed to check eligibility", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.OKWithData(elig))
}
