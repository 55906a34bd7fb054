// Package courierapi REST-клиент курьера: смена и доступные офферы.
package courierapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"courier-dispatch/internal/dto"
	"courier-dispatch/pkg/retrier"
	"courier-dispatch/pkg/retrier/backoff_adapter"
)

const (
	requestTimeout = 10 * time.Second
	maxRetries     = 3
)

// StatusError ответ сервера с кодом не 2xx.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("courier api: %d %s", e.Code, e.Message)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	retrier retrier.Retrier
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: requestTimeout},
		retrier: backoff_adapter.New(retrier.Config{
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     2 * time.Second,
			MaxElapsedTime:  10 * time.Second,
			Randomization:   0.5,
			Multiplier:      2,
			MaxRetries:      maxRetries,
			ShouldRetry:     isRetryable,
		}),
	}
}

func (c *Client) Session(ctx context.Context) (*dto.SessionResponse, error) {
	var res dto.SessionResponse
	if err := c.get(ctx, "/session", &res); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &res, nil
}

func (c *Client) Offers(ctx context.Context) ([]dto.OfferResponse, error) {
	var res []dto.OfferResponse
	if err := c.get(ctx, "/offers", &res); err != nil {
		return nil, fmt.Errorf("get offers: %w", err)
	}
	return res, nil
}

// StartSession не ретраится: повтор после успеха вернул бы 409.
func (c *Client) StartSession(ctx context.Context, code string) (*dto.SessionResponse, error) {
	body, err := json.Marshal(dto.StartSessionRequest{Code: code})
	if err != nil {
		return nil, fmt.Errorf("marshal start session: %w", err)
	}

	var res dto.SessionResponse
	if err := c.do(ctx, http.MethodPost, "/session/start", body, &res); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return &res, nil
}

// get идемпотентен, поэтому сетевые ошибки и 5xx повторяются.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		return c.do(ctx, http.MethodGet, path, nil, out)
	})
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp dto.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return &StatusError{Code: resp.StatusCode, Message: errResp.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
