// Package gemini implements gateway.Provider on top of the Google
// generative-ai-go SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/Kairi/gemini/internal/gateway"
)

var _ gateway.Provider = (*Provider)(nil)

// Scope requested when authenticating with Application Default Credentials.
const Scope = "https://www.googleapis.com/auth/generative-language"

var errNoCredentials = errors.New("no API key or token source configured")

// Provider sends requests to the Gemini API. A new SDK client is created
// for every call and closed afterwards.
type Provider struct {
	tokenSource oauth2.TokenSource
	clientOpts  []option.ClientOption
}

// Option configures a Provider
type Option func(*Provider)

// WithTokenSource authenticates with OAuth2 tokens instead of the request's
// API key.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(p *Provider) {
		p.tokenSource = ts
	}
}

// WithClientOptions appends raw SDK client options, e.g. a custom endpoint.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(p *Provider) {
		p.clientOpts = append(p.clientOpts, opts...)
	}
}

// New returns a Provider.
func New(opts ...Option) *Provider {
	p := &Provider{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DefaultTokenSource finds Application Default Credentials for the Gemini API.
func DefaultTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	creds, err := google.FindDefaultCredentials(ctx, Scope)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain default credentials: %w", err)
	}
	return creds.TokenSource, nil
}

// Generate implements gateway.Provider.
func (p *Provider) Generate(ctx context.Context, req gateway.Request) (string, error) {
	opts, err := p.clientOptions(req.APIKey)
	if err != nil {
		return "", err
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	gm := client.GenerativeModel(req.Model)
	configureModel(gm, req)

	var resp *genai.GenerateContentResponse
	if len(req.History) == 0 {
		resp, err = gm.GenerateContent(ctx, genai.Text(req.Prompt))
	} else {
		cs := gm.StartChat()
		cs.History = toContents(req.History)
		resp, err = cs.SendMessage(ctx, genai.Text(req.Prompt))
	}
	if err != nil {
		return "", fmt.Errorf("failed to send message to Gemini: %w", err)
	}
	return responseText(resp)
}

func (p *Provider) clientOptions(apiKey string) ([]option.ClientOption, error) {
	opts := make([]option.ClientOption, 0, len(p.clientOpts)+1)
	switch {
	case p.tokenSource != nil:
		opts = append(opts, option.WithTokenSource(p.tokenSource))
	case apiKey != "":
		opts = append(opts, option.WithAPIKey(apiKey))
	default:
		return nil, errNoCredentials
	}
	return append(opts, p.clientOpts...), nil
}

func configureModel(gm *genai.GenerativeModel, req gateway.Request) {
	gm.SetTemperature(float32(req.Params.Temperature))
	if n := req.Params.MaxTokens; n > 0 {
		gm.SetMaxOutputTokens(int32(min(n, math.MaxInt32)))
	}
	gm.SafetySettings = toSafetySettings(req.Safety)
}

func toSafetySettings(settings []gateway.SafetySetting) []*genai.SafetySetting {
	out := make([]*genai.SafetySetting, 0, len(settings))
	for _, s := range settings {
		out = append(out, &genai.SafetySetting{
			Category:  harmCategory(s.Category),
			Threshold: blockThreshold(s.Threshold),
		})
	}
	return out
}

func harmCategory(c gateway.HarmCategory) genai.HarmCategory {
	switch c {
	case gateway.HarmCategoryHarassment:
		return genai.HarmCategoryHarassment
	case gateway.HarmCategoryHateSpeech:
		return genai.HarmCategoryHateSpeech
	case gateway.HarmCategorySexuallyExplicit:
		return genai.HarmCategorySexuallyExplicit
	case gateway.HarmCategoryDangerousContent:
		return genai.HarmCategoryDangerousContent
	default:
		return genai.HarmCategoryUnspecified
	}
}

func blockThreshold(t gateway.BlockThreshold) genai.HarmBlockThreshold {
	switch t {
	case gateway.BlockLowAndAbove:
		return genai.HarmBlockLowAndAbove
	case gateway.BlockMediumAndAbove:
		return genai.HarmBlockMediumAndAbove
	case gateway.BlockOnlyHigh:
		return genai.HarmBlockOnlyHigh
	case gateway.BlockNone:
		return genai.HarmBlockNone
	default:
		return genai.HarmBlockUnspecified
	}
}

// toContents converts history turns. Roles are not translated; the API
// rejects the ones it does not accept.
func toContents(history []gateway.Turn) []*genai.Content {
	out := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		out = append(out, &genai.Content{
			Role:  turn.Role,
			Parts: []genai.Part{genai.Text(turn.Text)},
		})
	}
	return out
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("empty response from Gemini")
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", errors.New("no candidates in Gemini response")
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in Gemini response (finish reason: %s)", cand.FinishReason)
	}
	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String(), nil
}
