package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/gita-guidance/internal/models"
)

// GetAccount возвращает аккаунт по email или ErrAccountNotFound.
func (s *Storage) GetAccount(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.GetAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT email, password_hash, plan, queries_used, last_reset_date, created_at
			  FROM accounts
			  WHERE email = $1`
	a := &models.Account{}
	row := s.DB.QueryRowContext(ctx, query, email)

	var lastReset sql.NullTime
	var plan string
	if err := row.Scan(&a.Email, &a.PasswordHash, &plan, &a.QueriesUsed,
		&lastReset, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.Plan = models.Plan(plan)
	if lastReset.Valid {
		a.LastResetDate = &lastReset.Time
	}
	return a, nil
}

// RegisterAccount создаёт аккаунт при регистрации с хэшем пароля.
// Возвращает ErrAccountExists, если email уже занят.
func (s *Storage) RegisterAccount(ctx context.Context, email, passwordHash string) error {
	const op = "storage.RegisterAccount"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO accounts (email, password_hash, plan, queries_used)
			  VALUES ($1, $2, 'free', 0)
			  ON CONFLICT (email) DO NOTHING`
	res, err := s.DB.ExecContext(ctx, query, email, passwordHash)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrAccountExists)
	}
	return nil
}

// EnsureAccount создаёт аккаунт с дефолтными значениями, если его ещё нет.
// Повторный вызов для существующего email ничего не меняет.
func (s *Storage) EnsureAccount(ctx context.Context, email string) error {
	const op = "storage.EnsureAccount"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO accounts (email, plan, queries_used)
			  VALUES ($1, 'free', 0)
			  ON CONFLICT (email) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IncrementUsage атомарно увеличивает счётчик запросов на единицу.
// Если окно ещё не открыто, открывает его текущим моментом.
func (s *Storage) IncrementUsage(ctx context.Context, email string) error {
	const op = "storage.IncrementUsage"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET queries_used = queries_used + 1,
			      last_reset_date = COALESCE(last_reset_date, NOW())
			  WHERE email = $1`
	res, err := s.DB.ExecContext(ctx, query, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	}
	return nil
}

// ResetUsageWindow открывает новое окно подсчёта: обнуляет счётчик
// и устанавливает начало окна.
func (s *Storage) ResetUsageWindow(ctx context.Context, email string, resetAt time.Time) error {
	const op = "storage.ResetUsageWindow"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET queries_used = 0,
			      last_reset_date = $2
			  WHERE email = $1`
	if _, err := s.DB.ExecContext(ctx, query, email, resetAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GrantPremium переводит аккаунт на платный тариф, обнуляя счётчик
// и открывая новое окно. Вызывается только после захвата платежа.
func (s *Storage) GrantPremium(ctx context.Context, email string, grantedAt time.Time) error {
	const op = "storage.GrantPremium"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET plan = 'premium',
			      queries_used = 0,
			      last_reset_date = $2
			  WHERE email = $1`
	res, err := s.DB.ExecContext(ctx, query, email, grantedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	}
	return nil
}
