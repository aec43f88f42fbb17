package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"petpal/internal/metrics"
)

const systemPrompt = "You are a friendly veterinary assistant for a pet-care app. " +
	"Answer briefly and practically. Respond with a JSON object " +
	`{"answer": "<your advice>", "see_vet": <true if a vet visit is warranted>}.`

// Client is a thin passthrough to an OpenAI-compatible chat-completions
// endpoint. No retries, no caching; errors go straight to the caller.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	logger  *logrus.Logger
}

func NewClient(baseURL, apiKey, model string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Advice is the structured reply the assistant is asked to produce.
type Advice struct {
	Answer string `json:"answer"`
	SeeVet bool   `json:"see_vet"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Chat sends the conversation and returns the raw assistant text.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.AIRequests.WithLabelValues("error").Inc()
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.AIRequests.WithLabelValues("error").Inc()
		return "", fmt.Errorf("chat request: unexpected status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.AIRequests.WithLabelValues("error").Inc()
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		metrics.AIRequests.WithLabelValues("error").Inc()
		return "", fmt.Errorf("chat response has no choices")
	}

	metrics.AIRequests.WithLabelValues("ok").Inc()
	return parsed.Choices[0].Message.Content, nil
}

// Ask poses a single pet-care question and parses the structured reply when
// the model produced one; otherwise the raw text becomes the answer.
func (c *Client) Ask(ctx context.Context, question string) (Advice, error) {
	text, err := c.Chat(ctx, []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: question},
	})
	if err != nil {
		return Advice{}, err
	}

	var advice Advice
	if raw, ok := ExtractJSON(text); ok {
		if err := json.Unmarshal(raw, &advice); err == nil && advice.Answer != "" {
			return advice, nil
		}
		c.logger.WithField("len", len(text)).Debug("assistant reply JSON did not match the advice shape")
	}

	advice.Answer = strings.TrimSpace(text)
	return advice, nil
}
