// Package tts реализует клиент синтеза речи: текст наставления
// преобразуется в MP3 на целевом языке.
package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/magabrotheeeer/gita-guidance/internal/config"
)

// Конечная точка принимает не более 200 символов за запрос,
// поэтому длинный текст синтезируется по частям.
const maxChunkLen = 200

// Synthesizer abstracts speech synthesis behind the guidance flow.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

// Client — HTTP-клиент синтеза речи.
type Client struct {
	speechURL  string
	httpClient *http.Client
}

// NewClient создаёт новый клиент синтеза речи.
func NewClient(cfg config.Speech) *Client {
	return &Client{
		speechURL:  cfg.SpeechURL,
		httpClient: &http.Client{Timeout: cfg.TimeoutSpeech},
	}
}

// Synthesize возвращает MP3 с озвученным текстом. MP3-кадры частей
// конкатенируются в один поток.
func (c *Client) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	const op = "tts.Synthesize"

	if language == "" {
		language = "en"
	}

	var audio []byte
	for _, chunk := range splitChunks(text, maxChunkLen) {
		part, err := c.fetchChunk(ctx, chunk, language)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		audio = append(audio, part...)
	}
	return audio, nil
}

func (c *Client) fetchChunk(ctx context.Context, chunk, language string) ([]byte, error) {
	params := url.Values{
		"ie":     {"UTF-8"},
		"client": {"tw-ob"},
		"tl":     {language},
		"q":      {chunk},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.speechURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// splitChunks делит текст на части не длиннее limit, предпочитая
// границы предложений и слов.
func splitChunks(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	words := strings.Fields(text)
	var b strings.Builder
	for _, word := range words {
		if b.Len() > 0 && b.Len()+1+len(word) > limit {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(word)
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}
