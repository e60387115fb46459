package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const seekStep = 3 * time.Second

func (m model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editingOutput {
		return m.handleOutputKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	if m.player == nil {
		return m, nil
	}

	switch key := msg.String(); key {
	case " ", "k":
		m.player.Toggle()
		if m.player.Playing() {
			m.lastTick = time.Time{}
			return m, playTickCmd()
		}
	case "j", "left":
		m.player.SeekRelative(-seekStep)
	case "l", "right":
		m.player.SeekRelative(seekStep)
	case ",":
		m.player.StepFrame(-1)
	case ".":
		m.player.StepFrame(1)
	case "<":
		if !m.player.SpeedDown() {
			m.statusMessage = "Already at minimum speed"
		}
	case ">":
		if !m.player.SpeedUp() {
			m.statusMessage = "Already at maximum speed"
		}
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.player.SeekPercent(int(key[0] - '0'))
	case "s":
		m.markers.MarkStart(m.player.Frame())
		m.statusMessage = fmt.Sprintf("Start marked at frame %d", m.player.Frame())
	case "e":
		m.markers.MarkEnd(m.player.Frame())
		m.statusMessage = fmt.Sprintf("End marked at frame %d", m.player.Frame())
	case "a":
		if start, ok := m.markers.Start(); ok {
			m.player.Seek(start)
		} else {
			m.statusMessage = "No start marker"
		}
	case "d":
		if end, ok := m.markers.End(); ok {
			m.player.Seek(end)
		} else {
			m.statusMessage = "No end marker"
		}
	case "x":
		m.markers.Clear()
		m.statusMessage = "Markers cleared"
	case "c":
		if m.crop != nil {
			m.crop = nil
			m.statusMessage = "Crop cleared"
		}
	case "o":
		m.editingOutput = true
		m.output.Focus()
		return m, textinput.Blink
	case "enter":
		return m.startExport()
	}
	return m, nil
}

func (m model) handleOutputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.editingOutput = false
		m.output.Blur()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.output, cmd = m.output.Update(msg)
	return m, cmd
}
