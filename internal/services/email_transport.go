package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pratik-mahalle/voltcast-alerts/internal/config"
	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/notification"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/errors"
)

// EmailTransport posts messages to a Resend-compatible HTTP email API
type EmailTransport struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewEmailTransport creates an email transport from config
func NewEmailTransport(cfg config.EmailConfig) *EmailTransport {
	return &EmailTransport{
		apiURL:     cfg.APIURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Send delivers msg once. Any non-2xx response is an error.
func (t *EmailTransport) Send(ctx context.Context, msg notification.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return errors.UpstreamError("email API", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.UpstreamError("email API", fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	return nil
}
