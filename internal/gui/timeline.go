package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var (
	startMarkerColor = color.NRGBA{R: 0x2e, G: 0xcc, B: 0x40, A: 0xff}
	endMarkerColor   = color.NRGBA{R: 0xff, G: 0x41, B: 0x36, A: 0xff}
)

// Timeline is a scrub bar with a playback cursor and optional start and end
// marker ticks. Positions are fractions in [0, 1].
type Timeline struct {
	widget.BaseWidget

	fraction float64
	start    float64
	end      float64
	hasStart bool
	hasEnd   bool

	onSeek func(fraction float64)
}

func NewTimeline(onSeek func(fraction float64)) *Timeline {
	t := &Timeline{onSeek: onSeek}
	t.ExtendBaseWidget(t)
	return t
}

// SetFraction moves the playback cursor without firing the seek callback.
func (t *Timeline) SetFraction(f float64) {
	t.fraction = clampFraction(f)
	t.Refresh()
}

func (t *Timeline) SetStartMarker(f float64) {
	t.start = clampFraction(f)
	t.hasStart = true
	t.Refresh()
}

func (t *Timeline) SetEndMarker(f float64) {
	t.end = clampFraction(f)
	t.hasEnd = true
	t.Refresh()
}

func (t *Timeline) ClearStartMarker() {
	t.hasStart = false
	t.Refresh()
}

func (t *Timeline) ClearEndMarker() {
	t.hasEnd = false
	t.Refresh()
}

func (t *Timeline) Tapped(ev *fyne.PointEvent) {
	t.seekTo(ev.Position.X)
}

func (t *Timeline) Dragged(ev *fyne.DragEvent) {
	t.seekTo(ev.Position.X)
}

func (t *Timeline) DragEnd() {}

func (t *Timeline) seekTo(x float32) {
	width := t.Size().Width
	if width <= 0 {
		return
	}
	t.fraction = clampFraction(float64(x / width))
	t.Refresh()
	if t.onSeek != nil {
		t.onSeek(t.fraction)
	}
}

func (t *Timeline) MinSize() fyne.Size {
	return fyne.NewSize(120, 24)
}

func (t *Timeline) CreateRenderer() fyne.WidgetRenderer {
	groove := canvas.NewRectangle(theme.Color(theme.ColorNameInputBackground))
	progress := canvas.NewRectangle(theme.Color(theme.ColorNamePrimary))
	cursor := canvas.NewRectangle(theme.Color(theme.ColorNameForeground))
	start := canvas.NewRectangle(startMarkerColor)
	end := canvas.NewRectangle(endMarkerColor)
	start.Hide()
	end.Hide()

	return &timelineRenderer{
		t:        t,
		groove:   groove,
		progress: progress,
		cursor:   cursor,
		start:    start,
		end:      end,
	}
}

type timelineRenderer struct {
	t        *Timeline
	groove   *canvas.Rectangle
	progress *canvas.Rectangle
	cursor   *canvas.Rectangle
	start    *canvas.Rectangle
	end      *canvas.Rectangle
}

func (r *timelineRenderer) Layout(size fyne.Size) {
	grooveH := float32(6)
	grooveY := (size.Height - grooveH) / 2
	r.groove.Resize(fyne.NewSize(size.Width, grooveH))
	r.groove.Move(fyne.NewPos(0, grooveY))

	r.progress.Resize(fyne.NewSize(size.Width*float32(r.t.fraction), grooveH))
	r.progress.Move(fyne.NewPos(0, grooveY))

	cursorW := float32(3)
	r.cursor.Resize(fyne.NewSize(cursorW, size.Height))
	r.cursor.Move(fyne.NewPos(markerX(size.Width, cursorW, r.t.fraction), 0))

	markerW := float32(3)
	r.start.Resize(fyne.NewSize(markerW, size.Height))
	r.start.Move(fyne.NewPos(markerX(size.Width, markerW, r.t.start), 0))
	r.end.Resize(fyne.NewSize(markerW, size.Height))
	r.end.Move(fyne.NewPos(markerX(size.Width, markerW, r.t.end), 0))
}

func (r *timelineRenderer) MinSize() fyne.Size {
	return r.t.MinSize()
}

func (r *timelineRenderer) Refresh() {
	if r.t.hasStart {
		r.start.Show()
	} else {
		r.start.Hide()
	}
	if r.t.hasEnd {
		r.end.Show()
	} else {
		r.end.Hide()
	}
	r.Layout(r.t.Size())
	canvas.Refresh(r.t)
}

func (r *timelineRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.groove, r.progress, r.start, r.end, r.cursor}
}

func (r *timelineRenderer) Destroy() {}

func markerX(width, markerW float32, fraction float64) float32 {
	x := width*float32(fraction) - markerW/2
	if x < 0 {
		x = 0
	}
	if x > width-markerW {
		x = width - markerW
	}
	return x
}

func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
