// Package provider holds the interchangeable language-model completion
// backends and the ordered fallback chain that dispatches to them.
package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Message is a chat message in the provider wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is a single completion backend. Complete makes exactly one
// attempt; retry policy, if any, belongs to the chain's caller.
type Provider interface {
	Name() string
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Result identifies which provider produced a reply.
type Result struct {
	Provider string
	Message  string
}

// ErrExhausted is returned by Chain.Complete when every provider failed.
var ErrExhausted = errors.New("all providers failed")

// Chain tries providers strictly in order until one succeeds.
// The provider list is fixed at construction and safe for concurrent use.
type Chain struct {
	providers []Provider
}

// NewChain creates a Chain over the given providers. At least one provider
// is required.
func NewChain(providers ...Provider) (*Chain, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("no chat providers available: configure a local model or a Groq API key")
	}
	return &Chain{providers: providers}, nil
}

// Names returns the configured provider names in dispatch order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Complete dispatches messages to the first provider willing to answer.
// Each provider gets one attempt; failures are logged and the next provider
// is tried. When all fail, ErrExhausted is returned.
func (c *Chain) Complete(ctx context.Context, messages []Message) (Result, error) {
	for _, p := range c.providers {
		reply, err := p.Complete(ctx, messages)
		if err != nil {
			slog.Warn("provider failed, trying next", "provider", p.Name(), "error", err)
			continue
		}
		return Result{Provider: p.Name(), Message: reply}, nil
	}
	return Result{}, ErrExhausted
}
