// Package config persists the client configuration (API key, selected model
// and generation parameters) as flat KEY=VALUE lines.
package config

import (
	"errors"
	"math"
	"regexp"

	"github.com/Kairi/gemini/internal/catalog"
)

// Configuration holds the persisted client settings
type Configuration struct {
	APIKey        string  `json:"apiKey"`
	SelectedModel string  `json:"selectedModel"`
	Temperature   float64 `json:"temperature"`
	MaxTokens     int     `json:"maxTokens"`
}

// Defaults for fields that are absent or unparsable in storage
const (
	DefaultModel       = catalog.DefaultModel
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2048

	MinTemperature = 0.0
	MaxTemperature = 2.0

	// MaxMaxTokens is the largest bound the API's int32 field can carry.
	MaxMaxTokens = math.MaxInt32
)

// Keys recognized in the configuration file
const (
	KeyAPIKey      = "GEMINI_API_KEY"
	KeyModel       = "DEFAULT_MODEL"
	KeyTemperature = "TEMPERATURE"
	KeyMaxTokens   = "MAX_TOKENS"
)

var (
	ErrInvalidTemperature = errors.New("temperature must be between 0 and 2")
	ErrInvalidMaxTokens   = errors.New("max tokens must be between 1 and 2147483647")
	ErrEmptyModel         = errors.New("model id cannot be empty")
)

// DefaultConfiguration returns the configuration used when nothing is stored
func DefaultConfiguration() Configuration {
	return Configuration{
		APIKey:        "",
		SelectedModel: DefaultModel,
		Temperature:   DefaultTemperature,
		MaxTokens:     DefaultMaxTokens,
	}
}

// HasAPIKey reports whether an API key is set.
func (c Configuration) HasAPIKey() bool {
	return c.APIKey != ""
}

// MaskedAPIKey returns the API key with everything but the last four
// characters hidden.
func (c Configuration) MaskedAPIKey() string {
	if len(c.APIKey) <= 4 {
		return c.APIKey
	}
	masked := make([]byte, len(c.APIKey)-4)
	for i := range masked {
		masked[i] = '*'
	}
	return string(masked) + c.APIKey[len(c.APIKey)-4:]
}

var apiKeyPattern = regexp.MustCompile(`^AIzaSy[A-Za-z0-9_-]{33}$`)

// ValidateAPIKey checks the shape of a Google API key. It never contacts
// the provider.
func ValidateAPIKey(candidate string) bool {
	return apiKeyPattern.MatchString(candidate)
}

func validTemperature(t float64) bool {
	return t >= MinTemperature && t <= MaxTemperature
}

func validMaxTokens(n int) bool {
	return n > 0 && n <= MaxMaxTokens
}
