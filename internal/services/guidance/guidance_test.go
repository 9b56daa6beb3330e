package guidance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gita-guidance/internal/models"
)

type LLMMock struct{ mock.Mock }

func (m *LLMMock) GenerateGuidance(ctx context.Context, problem, language string) (string, error) {
	args := m.Called(ctx, problem, language)
	return args.String(0), args.Error(1)
}

type TTSMock struct{ mock.Mock }

func (m *TTSMock) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	args := m.Called(ctx, text, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestAsk(t *testing.T) {
	llmMock := new(LLMMock)
	llmMock.On("GenerateGuidance", mock.Anything, "I feel lost in my career", "en").
		Return("Focus on your duty, not its fruits (2.47).", nil)

	ttsMock := new(TTSMock)
	ttsMock.On("Synthesize", mock.Anything, "Focus on your duty, not its fruits (2.47).", "en").
		Return([]byte("mp3-bytes"), nil)

	cacheMock := new(CacheMock)
	cacheMock.On("Get", mock.Anything, mock.Anything).Return(false, nil)
	cacheMock.On("Set", mock.Anything, mock.Anything, answerTTL).Return(nil)

	svc := New(llmMock, ttsMock, cacheMock, newNoopLogger())

	answer, err := svc.Ask(context.Background(), models.AskRequest{Problem: "I feel lost in my career"})
	require.NoError(t, err)
	assert.Equal(t, "Focus on your duty, not its fruits (2.47).", answer.Text)
	assert.Equal(t, []byte("mp3-bytes"), answer.Audio)

	llmMock.AssertExpectations(t)
	ttsMock.AssertExpectations(t)
	cacheMock.AssertExpectations(t)
}

func TestAsk_CacheHit(t *testing.T) {
	llmMock := new(LLMMock)
	ttsMock := new(TTSMock)

	cacheMock := new(CacheMock)
	cacheMock.On("Get", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			answer := args.Get(1).(*models.GuidanceAnswer)
			answer.Text = "cached wisdom"
		}).
		Return(true, nil)

	svc := New(llmMock, ttsMock, cacheMock, newNoopLogger())

	answer, err := svc.Ask(context.Background(), models.AskRequest{Problem: "anything", Language: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "cached wisdom", answer.Text)

	llmMock.AssertNotCalled(t, "GenerateGuidance", mock.Anything, mock.Anything, mock.Anything)
	ttsMock.AssertNotCalled(t, "Synthesize", mock.Anything, mock.Anything, mock.Anything)
}

func TestAsk_TTSFailureReturnsTextOnly(t *testing.T) {
	llmMock := new(LLMMock)
	llmMock.On("GenerateGuidance", mock.Anything, "grief", "en").
		Return("The soul is eternal (2.20).", nil)

	ttsMock := new(TTSMock)
	ttsMock.On("Synthesize", mock.Anything, mock.Anything, "en").
		Return(nil, errors.New("tts endpoint down"))

	cacheMock := new(CacheMock)
	cacheMock.On("Get", mock.Anything, mock.Anything).Return(false, nil)
	cacheMock.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := New(llmMock, ttsMock, cacheMock, newNoopLogger())

	answer, err := svc.Ask(context.Background(), models.AskRequest{Problem: "grief"})
	require.NoError(t, err)
	assert.Equal(t, "The soul is eternal (2.20).", answer.Text)
	assert.Nil(t, answer.Audio)
}

func TestAsk_LLMFailure(t *testing.T) {
	llmMock := new(LLMMock)
	llmMock.On("GenerateGuidance", mock.Anything, "anything", "en").
		Return("", errors.New("model unavailable"))

	cacheMock := new(CacheMock)
	cacheMock.On("Get", mock.Anything, mock.Anything).Return(false, nil)

	svc := New(llmMock, new(TTSMock), cacheMock, newNoopLogger())

	_, err := svc.Ask(context.Background(), models.AskRequest{Problem: "anything"})
	assert.Error(t, err)
}

func TestAnswerKey_DistinguishesLanguage(t *testing.T) {
	assert.NotEqual(t, answerKey("problem", "en"), answerKey("problem", "hi"))
	assert.Equal(t, answerKey("problem", "en"), answerKey("problem", "en"))
}
