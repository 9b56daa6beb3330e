// Package auth содержит логику бизнес-уровня для регистрации, входа
// и валидации JWT.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/gita-guidance/internal/lib/jwt"
	"github.com/magabrotheeeer/gita-guidance/internal/lib/password"
	"github.com/magabrotheeeer/gita-guidance/internal/models"
	"github.com/magabrotheeeer/gita-guidance/internal/storage"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailTaken возвращается при регистрации на занятый email.
var ErrEmailTaken = errors.New("email is already registered")

// AccountRepository описывает контракт для работы с аккаунтами в базе данных.
type AccountRepository interface {
	// RegisterAccount создаёт аккаунт с хэшем пароля.
	RegisterAccount(ctx context.Context, email, passwordHash string) error
	// GetAccount возвращает аккаунт по email или storage.ErrAccountNotFound.
	GetAccount(ctx context.Context, email string) (*models.Account, error)
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	accounts AccountRepository
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(accounts AccountRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		accounts: accounts,
		jwtMaker: jwtMaker,
	}
}

// Register создает новый аккаунт с хэшированием пароля. Новый аккаунт
// получает бесплатный тариф и нулевой счётчик запросов.
func (s *Service) Register(ctx context.Context, email, rawPassword string) error {
	const op = "auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.accounts.RegisterAccount(ctx, email, hashed); err != nil {
		if errors.Is(err, storage.ErrAccountExists) {
			return ErrEmailTaken
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Login проверяет пароль аккаунта и генерирует JWT.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (string, error) {
	const op = "auth.Login"

	acc, err := s.accounts.GetAccount(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if acc.PasswordHash == "" {
		// Аккаунт создан проверкой квоты до завершения регистрации.
		return "", ErrInvalidCredentials
	}
	if err := password.CompareHash(acc.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(acc.Email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// ValidateToken проверяет JWT и возвращает email аккаунта.
func (s *Service) ValidateToken(_ context.Context, token string) (string, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}
