// Package gateway sends prompts to a generation provider and reports every
// provider failure as a single error kind.
package gateway

import (
	"context"
	"strings"
	"time"
)

// Turn is one entry of a conversation history. Role is passed to the
// provider as is ("user" and "model" for Gemini).
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Roles used by the console when it records a conversation
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// GenerationParams bounds a single generation call
type GenerationParams struct {
	Temperature float64
	MaxTokens   int
}

// DefaultParams returns the parameters used when the caller has none.
func DefaultParams() GenerationParams {
	return GenerationParams{Temperature: 0.7, MaxTokens: 2048}
}

// Request is everything a Provider needs for one call
type Request struct {
	APIKey  string
	Model   string
	History []Turn
	Prompt  string
	Params  GenerationParams
	Safety  []SafetySetting
}

// Provider performs the actual generation call. Implementations make a
// single attempt and return the generated text.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// ChatExchange records one prompt and its answer. It is never persisted.
type ChatExchange struct {
	Prompt       string
	ModelID      string
	ResponseText string
	Timestamp    time.Time
}

// Gateway binds a provider to an API key and the safety policy.
type Gateway struct {
	provider Provider
	apiKey   string
	safety   []SafetySetting
	now      func() time.Time
}

// Option configures a Gateway
type Option func(*Gateway)

// WithClock overrides the clock used for exchange timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		g.now = now
	}
}

// New creates a gateway calling p with apiKey.
func New(p Provider, apiKey string, opts ...Option) *Gateway {
	g := &Gateway{
		provider: p,
		apiKey:   apiKey,
		safety:   DefaultSafetyPolicy(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate sends a single-turn prompt to model and returns the text.
func (g *Gateway) Generate(ctx context.Context, prompt, model string, params GenerationParams) (string, error) {
	return g.call(ctx, "generate", nil, prompt, model, params)
}

// GenerateWithHistory seeds the conversation with history before sending
// prompt.
func (g *Gateway) GenerateWithHistory(ctx context.Context, history []Turn, prompt, model string, params GenerationParams) (string, error) {
	return g.call(ctx, "generate with history", history, prompt, model, params)
}

// Exchange runs Generate and records the result with a timestamp taken
// after the provider returned.
func (g *Gateway) Exchange(ctx context.Context, history []Turn, prompt, model string, params GenerationParams) (ChatExchange, error) {
	var (
		text string
		err  error
	)
	if len(history) == 0 {
		text, err = g.Generate(ctx, prompt, model, params)
	} else {
		text, err = g.GenerateWithHistory(ctx, history, prompt, model, params)
	}
	if err != nil {
		return ChatExchange{}, err
	}
	return ChatExchange{
		Prompt:       prompt,
		ModelID:      model,
		ResponseText: text,
		Timestamp:    g.now(),
	}, nil
}

func (g *Gateway) call(ctx context.Context, op string, history []Turn, prompt, model string, params GenerationParams) (string, error) {
	req := Request{
		APIKey:  g.apiKey,
		Model:   model,
		History: append([]Turn(nil), history...),
		Prompt:  prompt,
		Params:  params,
		Safety:  append([]SafetySetting(nil), g.safety...),
	}
	text, err := g.provider.Generate(ctx, req)
	if err != nil {
		return "", &GenerationError{Op: op, Model: model, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &GenerationError{Op: op, Model: model, Err: errEmptyResponse}
	}
	return text, nil
}
