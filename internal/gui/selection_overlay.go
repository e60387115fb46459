package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/Valentin-Guillet/GifExtractor/internal/selection"
)

var (
	dragOutlineColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xb0}
	cropOutlineColor = startMarkerColor
)

// SelectionOverlay sits on top of the playback surface and turns pointer
// drags into a crop rectangle in source pixel coordinates. A drag in
// progress is drawn in white, the validated crop in green.
type SelectionOverlay struct {
	widget.BaseWidget

	drag    selection.Drag
	crop    *selection.Rect
	sourceW int
	sourceH int

	onCrop func(*selection.Rect)
}

func NewSelectionOverlay(onCrop func(*selection.Rect)) *SelectionOverlay {
	o := &SelectionOverlay{onCrop: onCrop}
	o.ExtendBaseWidget(o)
	return o
}

// SetSource tells the overlay the pixel dimensions of the loaded video so
// widget positions can be mapped back to source pixels.
func (o *SelectionOverlay) SetSource(width, height int) {
	o.sourceW = width
	o.sourceH = height
	o.drag.Clear()
	o.crop = nil
	o.Refresh()
}

// SetCrop installs a crop chosen outside the overlay, such as the -crop
// command line flag.
func (o *SelectionOverlay) SetCrop(r *selection.Rect) {
	o.crop = r
	o.drag.Clear()
	o.Refresh()
}

func (o *SelectionOverlay) Crop() *selection.Rect {
	return o.crop
}

func (o *SelectionOverlay) ClearCrop() {
	if o.crop == nil && !o.drag.Active() {
		return
	}
	o.drag.Clear()
	o.crop = nil
	o.Refresh()
	if o.onCrop != nil {
		o.onCrop(nil)
	}
}

func (o *SelectionOverlay) displayMap() selection.DisplayMap {
	size := o.Size()
	return selection.NewDisplayMap(float64(size.Width), float64(size.Height), o.sourceW, o.sourceH)
}

func (o *SelectionOverlay) Dragged(ev *fyne.DragEvent) {
	if o.sourceW == 0 {
		return
	}
	x := float64(ev.Position.X)
	y := float64(ev.Position.Y)
	if !o.drag.Active() {
		m := o.displayMap()
		if !m.Contains(x-float64(ev.Dragged.DX), y-float64(ev.Dragged.DY)) {
			return
		}
		o.drag.Begin(x-float64(ev.Dragged.DX), y-float64(ev.Dragged.DY))
	}
	o.drag.Update(x, y)
	o.Refresh()
}

func (o *SelectionOverlay) DragEnd() {
	if !o.drag.Active() {
		return
	}
	region, ok := o.drag.Region(o.displayMap())
	if !ok {
		o.crop = nil
	} else {
		o.crop = &region
	}
	o.drag.Clear()
	o.Refresh()
	if o.onCrop != nil {
		o.onCrop(o.crop)
	}
}

// MouseDown clears a previous crop so a fresh drag starts from a clean
// surface. desktop.Mouseable also keeps the overlay from swallowing events
// on touch-only builds.
func (o *SelectionOverlay) MouseDown(*desktop.MouseEvent) {
	if o.crop != nil {
		o.crop = nil
		o.Refresh()
	}
}

func (o *SelectionOverlay) MouseUp(*desktop.MouseEvent) {}

func (o *SelectionOverlay) CreateRenderer() fyne.WidgetRenderer {
	dragRect := canvas.NewRectangle(color.Transparent)
	dragRect.StrokeColor = dragOutlineColor
	dragRect.StrokeWidth = 2
	dragRect.Hide()

	cropRect := canvas.NewRectangle(color.Transparent)
	cropRect.StrokeColor = cropOutlineColor
	cropRect.StrokeWidth = 2
	cropRect.Hide()

	return &selectionOverlayRenderer{o: o, dragRect: dragRect, cropRect: cropRect}
}

type selectionOverlayRenderer struct {
	o        *SelectionOverlay
	dragRect *canvas.Rectangle
	cropRect *canvas.Rectangle
}

func (r *selectionOverlayRenderer) Layout(fyne.Size) {
	r.place()
}

func (r *selectionOverlayRenderer) place() {
	if r.o.drag.Active() {
		x, y, w, h, ok := r.o.drag.Bounds()
		if ok {
			r.dragRect.Move(fyne.NewPos(float32(x), float32(y)))
			r.dragRect.Resize(fyne.NewSize(float32(w), float32(h)))
			r.dragRect.Show()
		}
	} else {
		r.dragRect.Hide()
	}

	if r.o.crop != nil {
		m := r.o.displayMap()
		if m.Valid() {
			sx := m.DisplayW / float64(m.SourceW)
			sy := m.DisplayH / float64(m.SourceH)
			r.cropRect.Move(fyne.NewPos(
				float32(m.OffsetX+float64(r.o.crop.X)*sx),
				float32(m.OffsetY+float64(r.o.crop.Y)*sy)))
			r.cropRect.Resize(fyne.NewSize(
				float32(float64(r.o.crop.W)*sx),
				float32(float64(r.o.crop.H)*sy)))
			r.cropRect.Show()
		}
	} else {
		r.cropRect.Hide()
	}
}

func (r *selectionOverlayRenderer) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}

func (r *selectionOverlayRenderer) Refresh() {
	r.place()
	canvas.Refresh(r.o)
}

func (r *selectionOverlayRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.dragRect, r.cropRect}
}

func (r *selectionOverlayRenderer) Destroy() {}
