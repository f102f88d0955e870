// Package catalog lists the Gemini models the client knows about.
package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ModelDescriptor describes one compiled-in model
type ModelDescriptor struct {
	ID           string   `json:"id"`
	DisplayName  string   `json:"name"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
}

const (
	// DefaultModel is selected when nothing else is configured.
	DefaultModel = "gemini-1.5-pro-latest"
	// LegacyModel is what the HTTP chat endpoint uses when the request names no model.
	LegacyModel = "gemini-pro"
)

var ErrInvalidSelection = errors.New("invalid model selection")

// Menu order matters: the console selects models by 1-based index.
var models = []ModelDescriptor{
	{
		ID:           "gemini-1.5-pro-latest",
		DisplayName:  "Gemini 1.5 Pro",
		Description:  "Mid-size multimodal model that supports text, images, and video.",
		Capabilities: []string{"text", "images", "video", "audio", "code", "long context"},
	},
	{
		ID:           "gemini-1.5-flash-latest",
		DisplayName:  "Gemini 1.5 Flash",
		Description:  "Fast and efficient multimodal model for various tasks.",
		Capabilities: []string{"text", "images", "video", "audio", "code", "low latency"},
	},
	{
		ID:           "gemini-1.0-pro",
		DisplayName:  "Gemini 1.0 Pro",
		Description:  "Text-based model optimized for language understanding and generation.",
		Capabilities: []string{"text", "code", "language tasks"},
	},
	{
		ID:           "gemini-pro",
		DisplayName:  "Gemini Pro",
		Description:  "Legacy name for Gemini 1.0 Pro.",
		Capabilities: []string{"text", "code", "language tasks"},
	},
	{
		ID:           "gemini-pro-vision",
		DisplayName:  "Gemini Pro Vision",
		Description:  "Legacy multimodal model supporting text and images.",
		Capabilities: []string{"text", "images", "visual understanding"},
	},
}

// List returns the model ids in menu order.
func List() []string {
	ids := make([]string, len(models))
	for i, m := range models {
		ids[i] = m.ID
	}
	return ids
}

// Describe looks up a model by exact id.
func Describe(id string) (ModelDescriptor, bool) {
	for _, m := range models {
		if m.ID == id {
			d := m
			d.Capabilities = append([]string(nil), m.Capabilities...)
			return d, true
		}
	}
	return ModelDescriptor{}, false
}

// Select resolves console input to a model id. All-digit input is a 1-based
// menu index; anything else is taken as a literal model id.
func Select(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidSelection)
	}
	if !isDigits(input) {
		return input, nil
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(models) {
		return "", fmt.Errorf("%w: %s is not between 1 and %d", ErrInvalidSelection, input, len(models))
	}
	return models[n-1].ID, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
