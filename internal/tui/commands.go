package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Valentin-Guillet/GifExtractor/internal/export"
	"github.com/Valentin-Guillet/GifExtractor/internal/video"
)

const playTickInterval = 200 * time.Millisecond

func loadSourceCmd(prober *video.Prober, path string) tea.Cmd {
	return func() tea.Msg {
		source, err := prober.Probe(context.Background(), path)
		return sourceLoadedMsg{source: source, err: err}
	}
}

func playTickCmd() tea.Cmd {
	return tea.Tick(playTickInterval, func(t time.Time) tea.Msg {
		return playTickMsg(t)
	})
}

func exportCmd(pipeline *export.Pipeline, job export.Job) tea.Cmd {
	return func() tea.Msg {
		result, err := pipeline.Export(context.Background(), job)
		return exportDoneMsg{result: result, err: err}
	}
}
