package console

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	modelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// PlainRenderer prints responses unchanged
type PlainRenderer struct{}

func (PlainRenderer) Render(text string) (string, error) {
	return text, nil
}

// NewRenderer renders markdown with glamour when stdout is a terminal and
// falls back to plain text otherwise.
func NewRenderer(wordWrap int) (Renderer, error) {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return PlainRenderer{}, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r, nil
}

// NewLiner returns a line editor with prompt history loaded from
// historyFile. An empty historyFile disables persistence.
func NewLiner(historyFile string) *liner.State {
	rl := liner.NewLiner()
	rl.SetCtrlCAborts(true)

	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			_, _ = rl.ReadHistory(f)
			f.Close()
		}
	}
	return rl
}

// SaveLineHistory writes the prompt history of rl to historyFile.
func SaveLineHistory(rl *liner.State, historyFile string) error {
	if historyFile == "" {
		return nil
	}
	f, err := os.Create(historyFile)
	if err != nil {
		return fmt.Errorf("failed to write prompt history: %w", err)
	}
	defer f.Close()
	if _, err := rl.WriteHistory(f); err != nil {
		return fmt.Errorf("failed to write prompt history: %w", err)
	}
	return nil
}
