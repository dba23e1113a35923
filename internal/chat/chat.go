// Package chat answers farmers' free-text questions through a chat-completion
// backend, degrading to a readable message when the backend fails.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrEmptyQuestion is returned for a blank question.
var ErrEmptyQuestion = errors.New("question is required")

const systemPrompt = "You are a helpful agricultural assistant for small farmers. " +
	"Answer briefly and practically about crops, weather, soil and market prices."

// Client is a chat-completion backend.
type Client interface {
	Name() string
	Complete(ctx context.Context, question string) (string, error)
}

// Answer is what the dashboard shows for a question.
type Answer struct {
	Text     string `json:"answer"`
	Source   string `json:"source"`
	Degraded bool   `json:"degraded,omitempty"`
}

// Assistant fronts a Client and never lets its failures escape.
type Assistant struct {
	client   Client
	fallback Client
	log      *zap.Logger
}

// NewAssistant wraps client. When fallback is non-nil it answers whenever
// client fails.
func NewAssistant(client, fallback Client, log *zap.Logger) *Assistant {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assistant{client: client, fallback: fallback, log: log.Named("chat")}
}

// Ask answers question. The only error is ErrEmptyQuestion; backend failures
// come back as a Degraded answer.
func (a *Assistant) Ask(ctx context.Context, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, ErrEmptyQuestion
	}

	text, err := a.client.Complete(ctx, question)
	if err == nil {
		return Answer{Text: text, Source: a.client.Name()}, nil
	}
	a.log.Warn("chat backend failed", zap.String("backend", a.client.Name()), zap.Error(err))

	if a.fallback != nil {
		if text, ferr := a.fallback.Complete(ctx, question); ferr == nil {
			return Answer{Text: text, Source: a.fallback.Name(), Degraded: true}, nil
		}
	}
	return Answer{
		Text:     fmt.Sprintf("Error: could not get an answer: %v", err),
		Source:   a.client.Name(),
		Degraded: true,
	}, nil
}
