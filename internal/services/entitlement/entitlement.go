// Package entitlement содержит бизнес-логику квоты запросов и перехода
// на платный тариф: проверку права на запрос, учёт использования,
// скользящее 30-дневное окно и однократное применение оплаты.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/magabrotheeeer/gita-guidance/internal/lib/sl"
	"github.com/magabrotheeeer/gita-guidance/internal/models"
	"github.com/magabrotheeeer/gita-guidance/internal/paymentprovider"
	"github.com/magabrotheeeer/gita-guidance/internal/storage"
)

// AccountRepository определяет методы для работы с аккаунтами и транзакциями в хранилище.
type AccountRepository interface {
	// GetAccount возвращает аккаунт по email или storage.ErrAccountNotFound.
	GetAccount(ctx context.Context, email string) (*models.Account, error)
	// EnsureAccount создаёт аккаунт с дефолтными значениями, если его нет.
	EnsureAccount(ctx context.Context, email string) error
	// IncrementUsage атомарно увеличивает счётчик запросов.
	IncrementUsage(ctx context.Context, email string) error
	// ResetUsageWindow обнуляет счётчик и открывает новое окно.
	ResetUsageWindow(ctx context.Context, email string, resetAt time.Time) error
	// GrantPremium переводит аккаунт на платный тариф.
	GrantPremium(ctx context.Context, email string, grantedAt time.Time) error
	// GetTransactionByOrderRef возвращает транзакцию по id заказа.
	GetTransactionByOrderRef(ctx context.Context, orderRef string) (*models.TransactionRecord, error)
	// SaveTransaction записывает завершённую транзакцию.
	SaveTransaction(ctx context.Context, rec *models.TransactionRecord) error
}

// AlertPublisher публикует события, требующие ручной сверки оператором.
type AlertPublisher interface {
	PublishReconciliationAlert(alert models.ReconciliationAlert) error
}

// Service реализует проверку квоты и применение оплаты.
type Service struct {
	repo     AccountRepository
	provider paymentprovider.Provider
	alerts   AlertPublisher
	log      *slog.Logger

	cost    string // Стоимость перехода на premium
	baseURL string // Базовый адрес приложения для redirect-ссылок

	now func() time.Time
}

// New создает новый экземпляр Service.
func New(repo AccountRepository, provider paymentprovider.Provider, alerts AlertPublisher,
	log *slog.Logger, cost, baseURL string) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		alerts:   alerts,
		log:      log,
		cost:     cost,
		baseURL:  baseURL,
		now:      time.Now,
	}
}

// CheckEligibility решает, может ли аккаунт сделать запрос.
//
// Неизвестный email регистрируется как бесплатный аккаунт с нулевым
// использованием. Если с начала окна прошло больше 30 дней, счётчик
// обнуляется и право на запрос выдаётся независимо от прежнего значения.
func (s *Service) CheckEligibility(ctx context.Context, email string) (*models.Eligibility, error) {
	const op = "entitlement.CheckEligibility"

	acc, err := s.repo.GetAccount(ctx, email)
	if errors.Is(err, storage.ErrAccountNotFound) {
		if err := s.repo.EnsureAccount(ctx, email); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
		}
		s.log.Info("created account on first eligibility check", slog.String("email", email))
		return &models.Eligibility{
			Eligible:  true,
			Remaining: models.PlanFree.Limit(),
			Plan:      models.PlanFree,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}

	limit := acc.Plan.Limit()
	now := s.now().UTC()

	if acc.LastResetDate != nil && now.Sub(*acc.LastResetDate) > models.UsageWindow {
		if err := s.repo.ResetUsageWindow(ctx, email, now); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
		}
		s.log.Info("usage window rolled over",
			slog.String("email", email), slog.String("plan", string(acc.Plan)))
		return &models.Eligibility{Eligible: true, Remaining: limit, Plan: acc.Plan}, nil
	}

	return &models.Eligibility{
		Eligible:  acc.QueriesUsed < limit,
		Remaining: limit - acc.QueriesUsed,
		Plan:      acc.Plan,
	}, nil
}

// RecordUsage учитывает один выполненный запрос. Лимит здесь не
// перепроверяется: контроль квоты выполняет только CheckEligibility,
// поэтому между проверкой и учётом возможен один запрос сверх лимита.
func (s *Service) RecordUsage(ctx context.Context, email string) error {
	const op = "entitlement.RecordUsage"

	if err := s.repo.IncrementUsage(ctx, email); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
	return nil
}

// InitiateUpgrade создаёт у провайдера заказ на фиксированную сумму
// и возвращает ссылку подтверждения. Email аккаунта прокидывается через
// redirect-параметры, так как сессия не переживает возврат от провайдера.
func (s *Service) InitiateUpgrade(ctx context.Context, email string) (string, error) {
	const op = "entitlement.InitiateUpgrade"

	returnURL := fmt.Sprintf("%s/?page=success&email=%s", s.baseURL, url.QueryEscape(email))
	cancelURL := fmt.Sprintf("%s/?page=cancel&email=%s", s.baseURL, url.QueryEscape(email))

	order, err := s.provider.CreateOrder(ctx, s.cost, "USD", returnURL, cancelURL)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, ErrPaymentProvider, err)
	}

	s.log.Info("payment initiated",
		slog.String("email", email), slog.String("order_ref", order.Ref))
	return order.ApprovalURL, nil
}

// FinalizeUpgrade завершает оплату после возврата пользователя от провайдера.
//
// Возвращает запись о транзакции и признак того, что заказ уже был
// обработан ранее. Повторный вызов с тем же orderRef не обращается к
// провайдеру и не выдаёт тариф второй раз.
func (s *Service) FinalizeUpgrade(ctx context.Context, orderRef, payerID, email string) (*models.TransactionRecord, bool, error) {
	const op = "entitlement.FinalizeUpgrade"

	existing, err := s.repo.GetTransactionByOrderRef(ctx, orderRef)
	if err == nil {
		s.log.Info("duplicate finalize call short-circuited",
			slog.String("order_ref", orderRef), slog.String("transaction_id", existing.ID))
		return existing, true, nil
	}
	if !errors.Is(err, storage.ErrTransactionNotFound) {
		return nil, false, fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}

	capture, err := s.provider.CaptureOrder(ctx, orderRef, payerID)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w: %w", op, ErrPaymentProvider, err)
	}
	if !capture.Completed() {
		return nil, false, fmt.Errorf("%s: %w: provider returned status %q",
			op, ErrPaymentNotCompleted, capture.Status)
	}

	grantedAt := s.now().UTC()
	if err := s.repo.GrantPremium(ctx, email, grantedAt); err != nil {
		// Деньги уже списаны: повторный захват недопустим, случай
		// отдаётся оператору на ручную сверку.
		s.alert(models.ReconciliationAlert{
			Email:         email,
			TransactionID: capture.TransactionID,
			Amount:        capture.Amount,
			Currency:      capture.Currency,
			Reason:        "captured payment, entitlement grant failed to persist",
		})
		return nil, false, fmt.Errorf("%s: %w: %w", op, ErrGrantNotPersisted, err)
	}

	rec := &models.TransactionRecord{
		ID:        capture.TransactionID,
		OrderRef:  orderRef,
		Email:     email,
		Amount:    capture.Amount,
		Currency:  capture.Currency,
		Status:    capture.Status,
		Timestamp: capture.Timestamp,
	}
	if err := s.repo.SaveTransaction(ctx, rec); err != nil {
		// Тариф уже выдан и не откатывается: теряется только
		// аудиторская запись, о чём сообщается оператору.
		s.log.Error("failed to save transaction record after grant", sl.Err(err),
			slog.String("transaction_id", rec.ID))
		s.alert(models.ReconciliationAlert{
			Email:         email,
			TransactionID: capture.TransactionID,
			Amount:        capture.Amount,
			Currency:      capture.Currency,
			Reason:        "entitlement granted, audit record failed to persist",
		})
	}

	s.log.Info("premium granted",
		slog.String("email", email), slog.String("transaction_id", rec.ID))
	return rec, false, nil
}

func (s *Service) alert(alert models.ReconciliationAlert) {
	if s.alerts == nil {
		return
	}
	if err := s.alerts.PublishReconciliationAlert(alert); err != nil {
		s.log.Error("failed to publish reconciliation alert", sl.Err(err),
			slog.String("transaction_id", alert.TransactionID))
	}
}
