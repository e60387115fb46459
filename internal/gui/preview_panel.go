package gui

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	xwidget "fyne.io/x/fyne/widget"
)

// PreviewPanel plays back the most recently exported GIF so the result can
// be checked before saving it anywhere else.
type PreviewPanel struct {
	content   *fyne.Container
	card      *widget.Card
	gif       *xwidget.AnimatedGif
	infoLabel *widget.Label
	gifPath   string
	enabled   bool
}

func NewPreviewPanel(enabled bool) *PreviewPanel {
	gif, _ := xwidget.NewAnimatedGif(nil)
	infoLabel := widget.NewLabel("No GIF exported yet")
	infoLabel.Wrapping = fyne.TextWrapWord

	card := widget.NewCard("Preview", "", container.NewBorder(nil, infoLabel, nil, nil, gif))

	p := &PreviewPanel{
		content:   container.NewStack(card),
		card:      card,
		gif:       gif,
		infoLabel: infoLabel,
		enabled:   enabled,
	}
	if !enabled {
		p.content.Hide()
	}
	return p
}

func (p *PreviewPanel) Content() fyne.CanvasObject {
	return p.content
}

func (p *PreviewPanel) Enabled() bool {
	return p.enabled
}

// SetEnabled shows or hides the panel. The GIF animation only runs while
// the panel is visible.
func (p *PreviewPanel) SetEnabled(enabled bool) {
	p.enabled = enabled
	if enabled {
		p.content.Show()
		if p.gifPath != "" {
			p.gif.Start()
		}
	} else {
		p.gif.Stop()
		p.content.Hide()
	}
}

// ShowGif loads and animates the GIF at the given path.
func (p *PreviewPanel) ShowGif(path string) error {
	if err := p.gif.Load(storage.NewFileURI(path)); err != nil {
		return fmt.Errorf("load gif: %w", err)
	}
	p.gifPath = path
	p.infoLabel.SetText(describeGif(path))
	if p.enabled {
		p.gif.Start()
	}
	p.gif.Refresh()
	return nil
}

// Path returns the location of the GIF currently shown, or "" when none
// has been exported yet.
func (p *PreviewPanel) Path() string {
	return p.gifPath
}

func (p *PreviewPanel) Clear() {
	p.gif.Stop()
	p.gifPath = ""
	p.infoLabel.SetText("No GIF exported yet")
}

func describeGif(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return path
	}
	return fmt.Sprintf("%s (%.1f KB)", path, float64(info.Size())/1024)
}
