package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"github.com/RezaEskandarii/remindfire/custom_errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const DefaultQStashURL = "https://qstash.upstash.io/v2"

// QStashScheduler publishes delayed messages to Upstash QStash, which POSTs them to CallbackURL.
type QStashScheduler struct {
	baseURL        string
	token          string
	callbackURL    string
	callbackSecret string
	httpClient     *http.Client
}

type QStashOption func(*QStashScheduler)

// WithCallbackSecret makes QStash forward "Authorization: Bearer <secret>" to the callback.
func WithCallbackSecret(secret string) QStashOption {
	return func(q *QStashScheduler) {
		q.callbackSecret = secret
	}
}

func WithHTTPClient(client *http.Client) QStashOption {
	return func(q *QStashScheduler) {
		if client != nil {
			q.httpClient = client
		}
	}
}

func NewQStashScheduler(baseURL, token, callbackURL string, opts ...QStashOption) (*QStashScheduler, error) {
	if token == "" || callbackURL == "" {
		return nil, fmt.Errorf("%w: qstash token and callback url are required", custom_errors.ErrTransportUnavailable)
	}
	if baseURL == "" {
		baseURL = DefaultQStashURL
	}
	q := &QStashScheduler{
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		callbackURL: callbackURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(q)
	}
	return q, nil
}

func (q *QStashScheduler) Schedule(ctx context.Context, body []byte, at time.Time) error {
	endpoint := q.baseURL + "/publish/" + q.callbackURL
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build qstash request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+q.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Upstash-Not-Before", strconv.FormatInt(at.Unix(), 10))
	if q.callbackSecret != "" {
		req.Header.Set("Upstash-Forward-Authorization", "Bearer "+q.callbackSecret)
	}

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qstash publish failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("qstash %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
