package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
)

// Store holds the configuration record and writes it through to its backend
// on every change.
//
// The mutex only orders callers inside one process. Two processes sharing a
// file race and the last write wins.
type Store struct {
	mu      sync.Mutex
	backend Backend
	cfg     Configuration
}

// NewStore creates a store over backend and loads the current record.
func NewStore(backend Backend) (*Store, error) {
	s := &Store{backend: backend, cfg: DefaultConfiguration()}
	if _, err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load re-reads the backend and replaces the in-memory record. A backend
// with nothing stored yields the defaults.
func (s *Store) Load() (Configuration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.backend.Read()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.cfg = DefaultConfiguration()
	case err != nil:
		return Configuration{}, fmt.Errorf("failed to load configuration: %w", err)
	default:
		s.cfg = decode(data)
	}
	return s.cfg, nil
}

// Save replaces the in-memory record with cfg and persists it.
func (s *Store) Save(cfg Configuration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(cfg)
}

// Config returns a copy of the current record
func (s *Store) Config() Configuration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// SetAPIKey stores a new API key. The key is not validated here; callers
// decide whether to run ValidateAPIKey first.
func (s *Store) SetAPIKey(key string) error {
	return s.update(func(c *Configuration) error {
		c.APIKey = key
		return nil
	})
}

// SetSelectedModel stores the active model id
func (s *Store) SetSelectedModel(id string) error {
	return s.update(func(c *Configuration) error {
		if id == "" {
			return ErrEmptyModel
		}
		c.SelectedModel = id
		return nil
	})
}

// SetTemperature stores the generation temperature
func (s *Store) SetTemperature(t float64) error {
	return s.update(func(c *Configuration) error {
		if !validTemperature(t) {
			return ErrInvalidTemperature
		}
		c.Temperature = t
		return nil
	})
}

// SetMaxTokens stores the generated token bound
func (s *Store) SetMaxTokens(n int) error {
	return s.update(func(c *Configuration) error {
		if !validMaxTokens(n) {
			return ErrInvalidMaxTokens
		}
		c.MaxTokens = n
		return nil
	})
}

func (s *Store) update(mutate func(*Configuration) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg
	if err := mutate(&next); err != nil {
		return err
	}
	return s.saveLocked(next)
}

func (s *Store) saveLocked(cfg Configuration) error {
	if err := s.backend.Write(encode(cfg)); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	s.cfg = cfg
	return nil
}
