package gateway

import (
	"errors"
	"fmt"
)

// ErrGenerationFailed matches every error returned by Gateway calls.
var ErrGenerationFailed = errors.New("generation failed")

var errEmptyResponse = errors.New("provider returned no text")

// GenerationError wraps a provider failure. Callers only need to handle
// this one type regardless of why the provider failed.
type GenerationError struct {
	Op    string
	Model string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %v", ErrGenerationFailed, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// Detail returns the provider's own error message.
func (e *GenerationError) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}
