package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"

	"github.com/basel-ax/archrender/internal/domain"
)

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffcc00"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5f5f"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
)

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...any) {
	fmt.Println(successStyle.Render("✓") + " " + fmt.Sprintf(format, args...))
}

// PrintError prints an error message to stderr
func PrintError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error:")+" "+fmt.Sprintf(format, args...))
}

// PrintInfo prints a dimmed info message
func PrintInfo(format string, args ...any) {
	fmt.Println(dimStyle.Render("ℹ " + fmt.Sprintf(format, args...)))
}

// printNotice shows a session notice the way the browser UI would alert it
func printNotice(n *domain.Notice) {
	if n == nil {
		return
	}
	style := errorStyle
	if n.Level == domain.NoticeWarning {
		style = warningStyle
	}
	fmt.Fprintln(os.Stderr, style.Render("⚠ "+n.Message))
}

// writeState prints the session state as YAML, or JSON when asJSON is set
func writeState(w io.Writer, st domain.SessionState, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to format state: %w", err)
	}
	_, err = w.Write(data)
	return err
}
