// Package history saves console conversations as JSON files.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"

	"github.com/Kairi/gemini/internal/gateway"
)

// AppDir is the directory name used under the XDG base directories.
const AppDir = "gemini"

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrInvalidName          = errors.New("invalid conversation name")
)

// Store keeps one JSON file per named conversation in a directory
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created lazily.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir returns the conversation directory under the user's XDG data home.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, AppDir, "history")
}

// LineHistoryFile returns where the console keeps its prompt history.
func LineHistoryFile() (string, error) {
	path, err := xdg.StateFile(filepath.Join(AppDir, "prompts"))
	if err != nil {
		return "", fmt.Errorf("failed to locate prompt history file: %w", err)
	}
	return path, nil
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	return nil
}

func (s *Store) path(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name+".json"), nil
}

// Save writes the conversation under name, replacing any previous version.
func (s *Store) Save(name string, turns []gateway.Turn) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := s.ensureDir(); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create conversation file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if turns == nil {
		turns = []gateway.Turn{}
	}
	if err := encoder.Encode(turns); err != nil {
		return fmt.Errorf("failed to encode conversation: %w", err)
	}
	return nil
}

// Load reads the conversation saved under name.
func (s *Store) Load(name string) ([]gateway.Turn, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrConversationNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open conversation file: %w", err)
	}
	defer file.Close()

	var turns []gateway.Turn
	if err := json.NewDecoder(file).Decode(&turns); err != nil {
		return nil, fmt.Errorf("failed to decode conversation: %w", err)
	}
	return turns, nil
}

// List returns the saved conversation names, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	sort.Strings(names)
	return names, nil
}
