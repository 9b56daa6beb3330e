package paymentprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/magabrotheeeer/gita-guidance/internal/config"
)

// Client — общая часть обоих адаптеров: авторизация client credentials
// и выполнение JSON-запросов с bearer-токеном.
type Client struct {
	clientID     string
	clientSecret string
	apiURL       string
	httpClient   *http.Client
}

func newClient(cfg config.PayPal) *Client {
	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		apiURL:       cfg.APIURL,
		httpClient:   &http.Client{Timeout: cfg.TimeoutPayPal},
	}
}

// New создаёт адаптер провайдера в соответствии со стилем из конфига.
func New(cfg config.PayPal) Provider {
	if cfg.Style == "payments" {
		return &PaymentsClient{Client: newClient(cfg)}
	}
	return &OrdersClient{Client: newClient(cfg)}
}

// accessToken получает oauth2-токен по client credentials.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	const op = "paymentprovider.accessToken"

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("%s: empty access token", op)
	}
	return tokenResp.AccessToken, nil
}

// doJSON выполняет запрос с bearer-токеном и декодирует JSON-ответ в out.
// requestID, если задан, передаётся как PayPal-Request-Id для идемпотентности.
func (c *Client) doJSON(ctx context.Context, method, path, requestID string, body, out any) error {
	const op = "paymentprovider.doJSON"

	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, &buf)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set("PayPal-Request-Id", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// parseTime разбирает метку времени провайдера, возвращая текущее время,
// если провайдер её не прислал.
func parseTime(value string) time.Time {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts
	}
	return time.Now().UTC()
}
