package chat

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

	"github.com/sony/gobreaker"
)

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	endpoint string
	key      string
	model    string
	http     *http.Client
	circuit  *gobreaker.CircuitBreaker
}

// NewOpenAIClient returns a client for endpoint (without the /v1 path).
func NewOpenAIClient(client *http.Client, endpoint, key, model string) (*OpenAIClient, error) {
	if key == "" {
		return nil, errors.New("llm api key is required")
	}
	if client == nil {
		client = &http.Client{Timeout: 25 * time.Second}
	}
	return &OpenAIClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		model:    model,
		http:     client,
		circuit: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "llm",
			MaxRequests: 1,
			Interval:    1 * time.Minute,
			Timeout:     1 * time.Minute,
		}),
	}, nil
}

func (c *OpenAIClient) Name() string { return "openai" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *OpenAIClient) Complete(ctx context.Context, question string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: question},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.key)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		var out chatResponse
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
			return nil, fmt.Errorf("decode chat response (status %d): %w", resp.StatusCode, err)
		}
		if resp.StatusCode != http.StatusOK {
			msg := http.StatusText(resp.StatusCode)
			if out.Error != nil && out.Error.Message != "" {
				msg = out.Error.Message
			}
			return nil, fmt.Errorf("chat completion failed: status %d: %s", resp.StatusCode, msg)
		}
		return out, nil
	})
	if err != nil {
		return "", err
	}

	out := result.(chatResponse)
	if len(out.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("chat completion returned an empty answer")
	}
	return content, nil
}
