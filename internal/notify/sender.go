package notify

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
)

// ProviderResponse is what the messaging provider answered.
type ProviderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Raw     string `json:"-"`
}

type Sender interface {
	SendMessage(ctx context.Context, phone string, body string) (*ProviderResponse, error)
	ProviderID() string
}

var ErrNotConfigured = errors.New("notification provider not configured")

// WASender talks to the WASender WhatsApp API. phone must already be E.164.
type WASender struct {
	url    string
	apiKey string
	http   *http.Client
}

func NewWASender(url, apiKey string, timeout time.Duration) *WASender {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &WASender{
		url:    strings.TrimSpace(url),
		apiKey: strings.TrimSpace(apiKey),
		http:   &http.Client{Timeout: timeout},
	}
}

func (s *WASender) ProviderID() string {
	return "wasender"
}

func (s *WASender) SendMessage(ctx context.Context, phone string, body string) (*ProviderResponse, error) {
	if s.url == "" || s.apiKey == "" {
		return nil, ErrNotConfigured
	}

	raw, err := json.Marshal(map[string]string{
		"to":   phone,
		"text": body,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wasender request: %w", err)
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	out := &ProviderResponse{Raw: string(payload)}
	_ = json.Unmarshal(payload, out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, fmt.Errorf("wasender returned status %d", resp.StatusCode)
	}
	if !out.Success {
		return out, fmt.Errorf("wasender rejected message: %s", out.Message)
	}
	return out, nil
}

type NoopSender struct{}

func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

func (s *NoopSender) ProviderID() string {
	return "noop"
}

func (s *NoopSender) SendMessage(_ context.Context, _ string, _ string) (*ProviderResponse, error) {
	return &ProviderResponse{Success: true}, nil
}
