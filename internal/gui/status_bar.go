package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type StatusBar struct {
	label    *widget.Label
	progress *widget.ProgressBarInfinite
	content  fyne.CanvasObject
}

func NewStatusBar() *StatusBar {
	label := widget.NewLabel("Ready")
	label.Truncation = fyne.TextTruncateEllipsis
	progress := widget.NewProgressBarInfinite()
	progress.Hide()
	progress.Stop()

	content := container.NewBorder(nil, nil, nil, progress, label)

	return &StatusBar{
		label:    label,
		progress: progress,
		content:  content,
	}
}

func (s *StatusBar) Content() fyne.CanvasObject {
	return s.content
}

func (s *StatusBar) SetText(text string) {
	s.label.SetText(text)
}

func (s *StatusBar) ShowProgress() {
	s.progress.Show()
	s.progress.Start()
}

func (s *StatusBar) HideProgress() {
	s.progress.Stop()
	s.progress.Hide()
}
