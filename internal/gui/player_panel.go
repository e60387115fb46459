package gui

import (
	"fmt"
	"image"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/Valentin-Guillet/GifExtractor/internal/selection"
	"github.com/Valentin-Guillet/GifExtractor/internal/video"
)

const playTickInterval = 100 * time.Millisecond

// PlayerPanel shows the current frame with the crop overlay on top, the
// timeline underneath and the transport controls at the bottom.
type PlayerPanel struct {
	app     *App
	async   *AsyncManager
	content fyne.CanvasObject

	image    *canvas.Image
	overlay  *SelectionOverlay
	timeline *Timeline
	posLabel *widget.Label
	playBtn  *widget.Button

	mu        sync.Mutex
	player    *video.Player
	extractor *video.Extractor
	ticker    *time.Ticker
	stopTick  chan struct{}

	onFrameChange func()
}

func NewPlayerPanel(app *App, async *AsyncManager, onCrop func(crop *selection.Rect)) *PlayerPanel {
	p := &PlayerPanel{
		app:       app,
		async:     async,
		extractor: video.NewExtractor(),
	}

	p.image = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	p.image.FillMode = canvas.ImageFillContain
	p.image.SetMinSize(fyne.NewSize(480, 270))

	p.overlay = NewSelectionOverlay(onCrop)
	p.timeline = NewTimeline(p.seekFraction)
	p.posLabel = widget.NewLabel("--:-- / --:--")

	p.playBtn = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), p.TogglePlayback)
	prevBtn := widget.NewButtonWithIcon("", theme.MediaSkipPreviousIcon(), func() { p.StepFrame(-1) })
	nextBtn := widget.NewButtonWithIcon("", theme.MediaSkipNextIcon(), func() { p.StepFrame(1) })
	slowBtn := widget.NewButtonWithIcon("", theme.MediaFastRewindIcon(), p.SpeedDown)
	fastBtn := widget.NewButtonWithIcon("", theme.MediaFastForwardIcon(), p.SpeedUp)

	transport := container.NewHBox(prevBtn, p.playBtn, nextBtn, widget.NewSeparator(), slowBtn, fastBtn, p.posLabel)

	p.content = container.NewBorder(
		nil,
		container.NewVBox(p.timeline, transport),
		nil,
		nil,
		container.NewStack(p.image, p.overlay),
	)
	return p
}

func (p *PlayerPanel) Content() fyne.CanvasObject {
	return p.content
}

func (p *PlayerPanel) Overlay() *SelectionOverlay {
	return p.overlay
}

// SetSource installs a freshly probed video and shows its first frame.
func (p *PlayerPanel) SetSource(src video.Source) {
	p.mu.Lock()
	p.stopTickerLocked()
	p.player = video.NewPlayer(src)
	p.mu.Unlock()

	p.overlay.SetSource(src.Width, src.Height)
	p.refreshPosition()
	p.showCurrentFrame()
}

// Player exposes the playback state. It is nil before a video is loaded.
func (p *PlayerPanel) Player() *video.Player {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player
}

func (p *PlayerPanel) seekFraction(fraction float64) {
	p.mu.Lock()
	if p.player == nil {
		p.mu.Unlock()
		return
	}
	src := p.player.Source()
	p.player.SeekTime(time.Duration(fraction * float64(src.Duration)))
	p.mu.Unlock()
	p.refreshPosition()
	p.showCurrentFrame()
}

func (p *PlayerPanel) Seek(frame int) {
	p.mu.Lock()
	if p.player == nil {
		p.mu.Unlock()
		return
	}
	p.player.Seek(frame)
	p.mu.Unlock()
	p.refreshPosition()
	p.showCurrentFrame()
}

func (p *PlayerPanel) SeekRelative(delta time.Duration) {
	p.mu.Lock()
	if p.player == nil {
		p.mu.Unlock()
		return
	}
	p.player.SeekRelative(delta)
	p.mu.Unlock()
	p.refreshPosition()
	p.showCurrentFrame()
}

func (p *PlayerPanel) SeekPercent(tenths int) {
	p.mu.Lock()
	if p.player == nil {
		p.mu.Unlock()
		return
	}
	p.player.SeekPercent(tenths)
	p.mu.Unlock()
	p.refreshPosition()
	p.showCurrentFrame()
}

func (p *PlayerPanel) StepFrame(direction int) {
	p.mu.Lock()
	if p.player == nil {
		p.mu.Unlock()
		return
	}
	p.player.StepFrame(direction)
	playing := p.player.Playing()
	p.mu.Unlock()
	p.updatePlayButton(playing)
	p.refreshPosition()
	p.showCurrentFrame()
}

func (p *PlayerPanel) SpeedUp() {
	p.mu.Lock()
	if p.player != nil {
		p.player.SpeedUp()
	}
	p.mu.Unlock()
	p.refreshPosition()
}

func (p *PlayerPanel) SpeedDown() {
	p.mu.Lock()
	if p.player != nil {
		p.player.SpeedDown()
	}
	p.mu.Unlock()
	p.refreshPosition()
}

func (p *PlayerPanel) TogglePlayback() {
	p.mu.Lock()
	if p.player == nil {
		p.mu.Unlock()
		return
	}
	p.player.Toggle()
	playing := p.player.Playing()
	if playing {
		p.startTickerLocked()
	} else {
		p.stopTickerLocked()
	}
	p.mu.Unlock()
	p.updatePlayButton(playing)
}

func (p *PlayerPanel) Pause() {
	p.mu.Lock()
	if p.player != nil {
		p.player.Pause()
	}
	p.stopTickerLocked()
	p.mu.Unlock()
	p.updatePlayButton(false)
}

func (p *PlayerPanel) startTickerLocked() {
	if p.ticker != nil {
		return
	}
	p.ticker = time.NewTicker(playTickInterval)
	p.stopTick = make(chan struct{})
	go p.tickLoop(p.ticker, p.stopTick)
}

func (p *PlayerPanel) stopTickerLocked() {
	if p.ticker == nil {
		return
	}
	p.ticker.Stop()
	close(p.stopTick)
	p.ticker = nil
	p.stopTick = nil
}

func (p *PlayerPanel) tickLoop(ticker *time.Ticker, stop chan struct{}) {
	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case <-p.app.Context().Done():
			return
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			p.mu.Lock()
			player := p.player
			still := player != nil && player.Advance(elapsed)
			if !still {
				p.stopTickerLocked()
			}
			p.mu.Unlock()
			p.refreshPosition()
			p.showCurrentFrame()
			if !still {
				p.updatePlayButton(false)
				return
			}
		}
	}
}

func (p *PlayerPanel) updatePlayButton(playing bool) {
	p.async.RunOnUIThread(func() {
		if playing {
			p.playBtn.SetIcon(theme.MediaPauseIcon())
		} else {
			p.playBtn.SetIcon(theme.MediaPlayIcon())
		}
	})
}

func (p *PlayerPanel) refreshPosition() {
	p.mu.Lock()
	player := p.player
	if player == nil {
		p.mu.Unlock()
		return
	}
	src := player.Source()
	text := fmt.Sprintf("%s / %s (frame %d, x%g)",
		formatDuration(player.Time()), formatDuration(src.Duration), player.Frame(), player.Speed())
	fraction := 0.0
	if src.Duration > 0 {
		fraction = float64(player.Time()) / float64(src.Duration)
	}
	p.mu.Unlock()

	p.async.RunOnUIThread(func() {
		p.posLabel.SetText(text)
		p.timeline.SetFraction(fraction)
		if p.onFrameChange != nil {
			p.onFrameChange()
		}
	})
}

// showCurrentFrame extracts the frame at the playback position off the UI
// goroutine and swaps it into the image once decoded. Frames arriving for a
// stale position are dropped.
func (p *PlayerPanel) showCurrentFrame() {
	p.mu.Lock()
	player := p.player
	if player == nil {
		p.mu.Unlock()
		return
	}
	src := player.Source()
	frame := player.Frame()
	p.mu.Unlock()

	p.async.RunAsync(func() UpdateCallback {
		img, err := p.extractor.FrameAt(p.app.Context(), src, frame)
		if err != nil {
			return nil
		}
		return func() {
			p.mu.Lock()
			stale := p.player == nil || p.player.Frame() != frame
			p.mu.Unlock()
			if stale {
				return
			}
			p.image.Image = img
			p.image.Refresh()
		}
	})
}

func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
