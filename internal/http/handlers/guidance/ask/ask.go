// Package ask реализует HTTP-обработчик запроса жизненного наставления.
//
// Перед генерацией ответа проверяется квота аккаунта: бесплатный тариф
// даёт 10 запросов в 30-дневном окне, платный — 100. После успешной
// генерации запрос учитывается в счётчике использования.
package ask

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gita-guidance/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gita-guidance/internal/http/response"
	"github.com/magabrotheeeer/gita-guidance/internal/lib/sl"
	"github.com/magabrotheeeer/gita-guidance/internal/models"
)

// EntitlementService определяет интерфейс проверки и учёта квоты.
type EntitlementService interface {
	CheckEligibility(ctx context.Context, email string) (*models.Eligibility, error)
	RecordUsage(ctx context.Context, email string) error
}

// GuidanceService определяет интерфейс генерации наставления.
type GuidanceService interface {
	Ask(ctx context.Context, req models.AskRequest) (*models.GuidanceAnswer, error)
}

// Handler обрабатывает запросы наставления.
type Handler struct {
	log         *slog.Logger       // Логгер для записи информации и ошибок
	entitlement EntitlementService // Сервис квоты запросов
	guidance    GuidanceService    // Сервис генерации ответа и речи
	validate    *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, entitlement EntitlementService, guidance GuidanceService) *Handler {
	return &Handler{
		log:         log,
		entitlement: entitlement,
		guidance:    guidance,
		validate:    validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Получить наставление
// @Description Генерирует ответ на жизненную проблему с опорой на Бхагавад-гиту и озвучивает его. Запрос списывается из квоты аккаунта.
// @Tags Guidance
// @Accept  json
// @Produce  json
// @Param request body models.AskRequest true "Описание проблемы"
// @Success 200 {object} map[string]any "Сгенерированный ответ"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Аккаунт не авторизован"
// @Failure 403 {object} response.ErrorResponse "Квота запросов исчерпана"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при генерации"
// @Router /guidance/ask [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.guidance.ask"

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

	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	elig, err := h.entitlement.CheckEligibility(r.Context(), email)
	if err != nil {
		log.Error("failed to check eligibility", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	if !elig.Eligible {
		log.Info("query limit reached",
			slog.String("email", email), slog.String("plan", string(elig.Plan)))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("query limit reached, upgrade to premium to continue"))
		return
	}

	answer, err := h.guidance.Ask(r.Context(), req)
	if err != nil {
		log.Error("failed to generate guidance", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to generate guidance"))
		return
	}

	// Ответ уже отдан пользователю по смыслу, поэтому сбой учёта не
	// превращается в ошибку запроса.
	if err := h.entitlement.RecordUsage(r.Context(), email); err != nil {
		log.Error("failed to record usage", sl.Err(err), slog.String("email", email))
	}

	log.Info("guidance generated", slog.String("email", email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"text":              answer.Text,
		"audio":             answer.Audio,
		"queries_remaining": elig.Remaining - 1,
		"plan":              elig.Plan,
	}))
}
