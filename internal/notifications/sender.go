package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Sender displays alerts on some platform surface.
type Sender interface {
	Send(ctx context.Context, a Alert) error
}

// LogSender writes alerts to the log. Used when no webhook is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, a Alert) error {
	s.logger.Info("ALERT", "title", a.Title, "body", a.Body, "tag", a.Tag, "url", a.URL)
	return nil
}

// WebhookSender POSTs alerts as JSON to a URL.
// Nil-safe: when not configured, Send is a no-op.
type WebhookSender struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewWebhookSender returns nil if url is empty (webhook disabled).
func NewWebhookSender(url string, logger *slog.Logger) *WebhookSender {
	if url == "" {
		return nil
	}
	return &WebhookSender{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

func (s *WebhookSender) Send(ctx context.Context, a Alert) error {
	if s == nil {
		return nil
	}

	body, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("post webhook: unexpected status %d", resp.StatusCode)
	}
	s.logger.Debug("webhook alert sent", "tag", a.Tag, "status", resp.StatusCode)
	return nil
}

// NewSender picks the webhook when configured, else the log.
func NewSender(webhookURL string, logger *slog.Logger) Sender {
	if ws := NewWebhookSender(webhookURL, logger); ws != nil {
		return ws
	}
	return NewLogSender(logger)
}
