// Package storage реализует хранилище данных на основе PostgreSQL
// для управления аккаунтами и записями о платежах. Предоставляет методы
// создания, чтения и атомарного обновления полей аккаунта,
// а также идемпотентную запись транзакций.
package storage

import (
	"context"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"database/sql"
)

// ErrAccountNotFound возвращается, когда аккаунт с таким email не существует.
var ErrAccountNotFound = errors.New("account not found")

// ErrAccountExists возвращается при попытке зарегистрировать занятый email.
var ErrAccountExists = errors.New("account already exists")

// ErrTransactionNotFound возвращается, когда транзакция с таким id не записана.
var ErrTransactionNotFound = errors.New("transaction not found")

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с аккаунтами и транзакциями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'accounts'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table accounts missing or query error: %w", err)
	}
	return nil
}
