// Package guidance содержит бизнес-логику генерации наставлений:
// построение ответа моделью, синтез речи и кеширование готовых ответов.
package guidance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/gita-guidance/internal/lib/sl"
	"github.com/magabrotheeeer/gita-guidance/internal/llm"
	"github.com/magabrotheeeer/gita-guidance/internal/models"
	"github.com/magabrotheeeer/gita-guidance/internal/tts"
)

// Одинаковые проблемы на одном языке получают один и тот же ответ
// в течение суток, не расходуя обращения к модели.
const answerTTL = 24 * time.Hour

// Cache описывает методы для кэширования готовых ответов.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
}

// Service реализует генерацию наставления с озвучкой и кешем.
type Service struct {
	llm   llm.GuidanceClient
	tts   tts.Synthesizer
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(llmClient llm.GuidanceClient, synthesizer tts.Synthesizer, cache Cache, log *slog.Logger) *Service {
	return &Service{
		llm:   llmClient,
		tts:   synthesizer,
		cache: cache,
		log:   log,
	}
}

// Ask генерирует наставление по описанию проблемы. Озвучка — best-effort:
// её сбой не лишает пользователя текстового ответа.
func (s *Service) Ask(ctx context.Context, req models.AskRequest) (*models.GuidanceAnswer, error) {
	const op = "guidance.Ask"

	language := req.Language
	if language == "" {
		language = "en"
	}

	cacheKey := answerKey(req.Problem, language)
	var cached models.GuidanceAnswer
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read answer cache", sl.Err(err), slog.String("key", cacheKey))
	}
	if found {
		s.log.Info("answer served from cache", slog.String("key", cacheKey))
		return &cached, nil
	}

	text, err := s.llm.GenerateGuidance(ctx, req.Problem, language)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	answer := &models.GuidanceAnswer{Text: text}
	audio, err := s.tts.Synthesize(ctx, text, language)
	if err != nil {
		s.log.Warn("speech synthesis failed, returning text only", sl.Err(err))
	} else {
		answer.Audio = audio
	}

	if err := s.cache.Set(cacheKey, answer, answerTTL); err != nil {
		s.log.Warn("failed to cache answer", sl.Err(err), slog.String("key", cacheKey))
	}

	return answer, nil
}

func answerKey(problem, language string) string {
	sum := sha256.Sum256([]byte(language + "\x00" + problem))
	return "guidance:" + hex.EncodeToString(sum[:])
}
