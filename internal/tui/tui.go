// Package tui provides a terminal front end for marking and exporting GIF
// segments from a video file.
package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Valentin-Guillet/GifExtractor/internal/selection"
)

// Options configures a terminal session.
type Options struct {
	VideoPath      string
	OutputPath     string
	Crop           *selection.Rect
	FPS            int
	OptimizeEffort int
}

type teaProgram interface {
	Run() (tea.Model, error)
}

var programFactory = func(m tea.Model) teaProgram {
	return tea.NewProgram(m, tea.WithAltScreen())
}

// Run bootstraps the Bubble Tea program with the provided options.
func Run(opts Options) error {
	if opts.VideoPath == "" {
		return errors.New("no video path given")
	}
	program := programFactory(newModel(opts))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
