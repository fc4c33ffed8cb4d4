// internal/sms/sender.go
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Sender hands a rendered message body to the SMS provider and returns the
// provider's ID for the accepted message.
type Sender interface {
	Send(ctx context.Context, toPhone, body string) (providerMessageID string, err error)
}

// HTTPSender posts messages to an SMS gateway's REST API
type HTTPSender struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewHTTPSender(baseURL, apiKey string) *HTTPSender {
	return &HTTPSender{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type sendRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
	Error     string `json:"error,omitempty"`
}

func (s *HTTPSender) Send(ctx context.Context, toPhone, body string) (string, error) {
	payload, err := json.Marshal(sendRequest{To: toPhone, Body: body})
	if err != nil {
		return "", fmt.Errorf("failed to marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.BaseURL+"/v1/messages", bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var sr sendResponse
	if err := json.Unmarshal(respBody, &sr); err != nil {
		return "", fmt.Errorf("failed to parse provider response: %w", err)
	}
	if sr.Error != "" {
		return "", fmt.Errorf("provider error: %s", sr.Error)
	}
	if sr.MessageID == "" {
		return "", fmt.Errorf("provider returned no message id")
	}
	return sr.MessageID, nil
}

// MockSender simulates a provider for local development: 90% success
type MockSender struct {
	FailureRate float64 // 0 disables failures entirely
}

func NewMockSender() *MockSender {
	return &MockSender{FailureRate: 0.1}
}

func (m *MockSender) Send(ctx context.Context, toPhone, body string) (string, error) {
	if m.FailureRate > 0 && rand.Float64() < m.FailureRate {
		return "", fmt.Errorf("mock sending failed")
	}
	return "mock-" + uuid.NewString(), nil
}

var _ Sender = (*HTTPSender)(nil)
var _ Sender = (*MockSender)(nil)
