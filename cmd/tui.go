package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/audious/internal/shared"
	"github.com/desertthunder/audious/internal/tasks"
	"github.com/desertthunder/audious/internal/ui"
)

// browse launches the interactive browser over the picked albums.
func (r *Runner) browse(root string, report *tasks.PickReport, prefixes []string) error {
	if report.TotalPicked() == 0 {
		r.display.Warning("No albums to browse")
		return nil
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(filepath.Join(os.TempDir(), "audious", "browse.log"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewBrowser(root, report, prefixes, fileLogger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
