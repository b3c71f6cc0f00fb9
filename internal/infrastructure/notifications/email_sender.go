package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/loyaltyscan/backend/internal/domain/providers"
	"github.com/loyaltyscan/backend/pkg/config"
)

// HTTPEmailSender sends transactional email through a Resend-compatible
// HTTP API.
type HTTPEmailSender struct {
	apiKey      string
	fromAddress string
	baseURL     string
	httpClient  *http.Client
}

// NewHTTPEmailSender creates a new email sender
func NewHTTPEmailSender(cfg *config.EmailConfig) (providers.EmailSender, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("EMAIL_API_KEY must be set")
	}

	return &HTTPEmailSender{
		apiKey:      cfg.APIKey,
		fromAddress: cfg.FromAddress,
		baseURL:     cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

type emailResponse struct {
	ID string `json:"id"`
}

// Send delivers a single message and returns the provider's message ID
func (s *HTTPEmailSender) Send(ctx context.Context, to, subject, body string) (string, error) {
	payload, err := json.Marshal(emailRequest{
		From:    s.fromAddress,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read email response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("email API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed emailResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse email response: %w", err)
	}

	return parsed.ID, nil
}
