package gui

import (
	"encoding/json"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
)

type windowState struct {
	Width  float64
	Height float64
	Split  float64
}

var windowStatePath = func() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gifextractor", "window_state.json"), nil
}

func (m *MainWindow) saveWindowState() error {
	state := windowState{
		Width:  float64(m.window.Canvas().Size().Width),
		Height: float64(m.window.Canvas().Size().Height),
		Split:  m.split.Offset,
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	path, err := windowStatePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (m *MainWindow) loadWindowState() error {
	path, err := windowStatePath()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var state windowState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}

	if state.Width > 0 && state.Height > 0 {
		m.window.Resize(fyne.NewSize(float32(state.Width), float32(state.Height)))
	}
	if state.Split > 0 && state.Split < 1 {
		m.split.SetOffset(state.Split)
	}
	return nil
}
