package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Backend is the durable storage behind a Store. Read returns an error
// wrapping fs.ErrNotExist when nothing has been stored yet.
type Backend interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// FileBackend keeps the configuration in a single file on disk
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend for the file at path. The file is not
// touched until the first Read or Write.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the backing file path
func (b *FileBackend) Path() string {
	return b.path
}

// Read returns the file contents.
func (b *FileBackend) Read() ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return data, nil
}

// Write replaces the file contents through a temporary file and a rename so
// readers never see a half-written file.
func (b *FileBackend) Write(data []byte) error {
	dir := filepath.Dir(b.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary config file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

// MemoryBackend keeps the configuration in memory. Useful for tests.
type MemoryBackend struct {
	mu   sync.Mutex
	data []byte
	set  bool
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// NewMemoryBackendWith returns a memory backend pre-loaded with data.
func NewMemoryBackendWith(data string) *MemoryBackend {
	return &MemoryBackend{data: []byte(data), set: true}
}

func (b *MemoryBackend) Read() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.set {
		return nil, fmt.Errorf("memory backend: %w", fs.ErrNotExist)
	}
	return append([]byte(nil), b.data...), nil
}

func (b *MemoryBackend) Write(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data[:0:0], data...)
	b.set = true
	return nil
}

// String returns the stored bytes as text
func (b *MemoryBackend) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.data)
}
