package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GenerationRequest carries the inputs for one personalized reminder.
type GenerationRequest struct {
	Tone        string // shop's configured tone, e.g. friendly, professional
	ShopName    string
	FirstName   string
	Vehicle     string // human-readable descriptor, e.g. "2019 Toyota Corolla"
	ServiceType string
	Category    string // due_soon, due_now, overdue
}

// OpenAIClient generates reminder copy through the chat completions API
type OpenAIClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// OpenAIChatMessage represents a message in the conversation
type OpenAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAIRequest is the request to the chat completions endpoint
type OpenAIRequest struct {
	Model       string              `json:"model"`
	Messages    []OpenAIChatMessage `json:"messages"`
	Temperature float64             `json:"temperature,omitempty"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
}

// OpenAIResponse is the response from chat completions
type OpenAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewOpenAIClient creates a client for AI-personalized reminder text
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIClient{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

const systemPrompt = `You write SMS service reminders for an auto repair shop.
Rules:
- One short message, under 300 characters, plain text, no emoji.
- Address the customer by first name.
- Mention the vehicle and the service that is due.
- End with an invitation to book or call the shop.
- Never invent prices, dates, or offers.`

// Generate produces one reminder body. Any failure here is recoverable by the
// caller's template fallback, so errors carry context but nothing retries.
func (o *OpenAIClient) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	urgency := "coming up soon"
	switch req.Category {
	case "due_now":
		urgency = "due now"
	case "overdue":
		urgency = "overdue"
	}

	userPrompt := fmt.Sprintf(
		"Shop: %s\nTone: %s\nCustomer first name: %s\nVehicle: %s\nService: %s\nThe service is %s.",
		req.ShopName, req.Tone, req.FirstName, req.Vehicle, req.ServiceType, urgency,
	)

	body := OpenAIRequest{
		Model: o.model,
		Messages: []OpenAIChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.7,
		MaxTokens:   200,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var openAIResp OpenAIResponse
	if err := json.Unmarshal(respBody, &openAIResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if openAIResp.Error != nil {
		return "", fmt.Errorf("API error: %s", openAIResp.Error.Message)
	}
	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	text := strings.TrimSpace(openAIResp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("empty completion")
	}
	return text, nil
}
