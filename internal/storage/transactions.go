package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/gita-guidance/internal/models"
)

// GetTransaction возвращает записанную транзакцию по её id
// или ErrTransactionNotFound.
func (s *Storage) GetTransaction(ctx context.Context, transactionID string) (*models.TransactionRecord, error) {
	const op = "storage.GetTransaction"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT transaction_id, order_ref, email, amount, currency, status, created_at
			  FROM transactions
			  WHERE transaction_id = $1`
	rec := &models.TransactionRecord{}
	err := s.DB.QueryRowContext(ctx, query, transactionID).Scan(
		&rec.ID, &rec.OrderRef, &rec.Email, &rec.Amount, &rec.Currency, &rec.Status, &rec.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrTransactionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// GetTransactionByOrderRef возвращает транзакцию по id заказа, из которого
// она была захвачена, или ErrTransactionNotFound. Используется как
// идемпотентный барьер до повторного обращения к провайдеру.
func (s *Storage) GetTransactionByOrderRef(ctx context.Context, orderRef string) (*models.TransactionRecord, error) {
	const op = "storage.GetTransactionByOrderRef"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT transaction_id, order_ref, email, amount, currency, status, created_at
			  FROM transactions
			  WHERE order_ref = $1`
	rec := &models.TransactionRecord{}
	err := s.DB.QueryRowContext(ctx, query, orderRef).Scan(
		&rec.ID, &rec.OrderRef, &rec.Email, &rec.Amount, &rec.Currency, &rec.Status, &rec.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrTransactionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// SaveTransaction записывает завершённую транзакцию. Повторная запись
// с тем же id не создаёт дубликата.
func (s *Storage) SaveTransaction(ctx context.Context, rec *models.TransactionRecord) error {
	const op = "storage.SaveTransaction"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO transactions (transaction_id, order_ref, email, amount, currency, status, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (transaction_id) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query,
		rec.ID, rec.OrderRef, rec.Email, rec.Amount, rec.Currency, rec.Status, rec.Timestamp); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
