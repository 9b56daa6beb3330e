package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gita-guidance/internal/lib/jwt"
	"github.com/magabrotheeeer/gita-guidance/internal/lib/password"
	"github.com/magabrotheeeer/gita-guidance/internal/models"
	"github.com/magabrotheeeer/gita-guidance/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) RegisterAccount(ctx context.Context, email, passwordHash string) error {
	return m.Called(ctx, email, passwordHash).Error(0)
}
func (m *RepoMock) GetAccount(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func newTestService(repo *RepoMock) *Service {
	return New(repo, jwt.NewJWTMaker("test-secret", time.Minute))
}

func TestRegister(t *testing.T) {
	repo := new(RepoMock)
	repo.On("RegisterAccount", mock.Anything, "seeker@example.com", mock.AnythingOfType("string")).
		Return(nil)

	err := newTestService(repo).Register(context.Background(), "seeker@example.com", "om-shanti-108")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRegister_EmailTaken(t *testing.T) {
	repo := new(RepoMock)
	repo.On("RegisterAccount", mock.Anything, "seeker@example.com", mock.Anything).
		Return(storage.ErrAccountExists)

	err := newTestService(repo).Register(context.Background(), "seeker@example.com", "om-shanti-108")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginAndValidate(t *testing.T) {
	hash, err := password.GetHash("om-shanti-108")
	require.NoError(t, err)

	repo := new(RepoMock)
	repo.On("GetAccount", mock.Anything, "seeker@example.com").Return(&models.Account{
		Email:        "seeker@example.com",
		PasswordHash: hash,
		Plan:         models.PlanFree,
	}, nil)

	svc := newTestService(repo)

	token, err := svc.Login(context.Background(), "seeker@example.com", "om-shanti-108")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	email, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "seeker@example.com", email)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := password.GetHash("om-shanti-108")
	require.NoError(t, err)

	repo := new(RepoMock)
	repo.On("GetAccount", mock.Anything, "seeker@example.com").Return(&models.Account{
		Email:        "seeker@example.com",
		PasswordHash: hash,
	}, nil)

	_, err = newTestService(repo).Login(context.Background(), "seeker@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetAccount", mock.Anything, "ghost@example.com").
		Return(nil, storage.ErrAccountNotFound)

	_, err := newTestService(repo).Login(context.Background(), "ghost@example.com", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_AccountWithoutPassword(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetAccount", mock.Anything, "quota-only@example.com").Return(&models.Account{
		Email: "quota-only@example.com",
	}, nil)

	_, err := newTestService(repo).Login(context.Background(), "quota-only@example.com", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_StoreError(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetAccount", mock.Anything, "seeker@example.com").
		Return(nil, errors.New("connection refused"))

	_, err := newTestService(repo).Login(context.Background(), "seeker@example.com", "anything")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
