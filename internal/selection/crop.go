// Package selection holds the pointer-driven crop state and the frame
// markers delimiting the exported range. Everything in here is plain
// geometry so both front-ends share it.
package selection

import "fmt"

// Rect is a crop region in source pixel coordinates.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// Empty reports whether the rectangle selects no pixels. A zero-area
// selection is treated as "no crop".
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Inside reports whether the rectangle lies fully within a width x height
// source frame.
func (r Rect) Inside(width, height int) bool {
	if r.Empty() {
		return false
	}
	return r.X >= 0 && r.Y >= 0 && r.X+r.W <= width && r.Y+r.H <= height
}

// Clamp intersects the rectangle with the source bounds, preserving the
// overlapping portion. Rectangles already inside come back unchanged. A
// rectangle entirely outside collapses to empty.
func (r Rect) Clamp(width, height int) Rect {
	x1 := max(r.X, 0)
	y1 := max(r.Y, 0)
	x2 := min(r.X+r.W, width)
	y2 := min(r.Y+r.H, height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// String renders the rectangle as ffmpeg crop filter geometry.
func (r Rect) String() string {
	return fmt.Sprintf("%d:%d:%d:%d", r.W, r.H, r.X, r.Y)
}

// ParseRect parses "W:H:X:Y" crop geometry as accepted by the -crop flag.
func ParseRect(s string) (Rect, error) {
	var r Rect
	n, err := fmt.Sscanf(s, "%d:%d:%d:%d", &r.W, &r.H, &r.X, &r.Y)
	if err != nil || n != 4 {
		return Rect{}, fmt.Errorf("invalid crop geometry %q, want W:H:X:Y", s)
	}
	if r.Empty() || r.X < 0 || r.Y < 0 {
		return Rect{}, fmt.Errorf("invalid crop geometry %q: empty or negative region", s)
	}
	return r, nil
}

// DisplayMap converts between widget coordinates and source pixels. The
// playback surface letterboxes the picture, so the visible video occupies
// only part of the widget; the map accounts for the resulting offsets.
type DisplayMap struct {
	OffsetX  float64
	OffsetY  float64
	DisplayW float64
	DisplayH float64
	SourceW  int
	SourceH  int
}

// NewDisplayMap computes the letterboxed picture geometry for a source of
// sourceW x sourceH pixels shown inside a widget of the given size.
func NewDisplayMap(widgetW, widgetH float64, sourceW, sourceH int) DisplayMap {
	m := DisplayMap{SourceW: sourceW, SourceH: sourceH}
	if widgetW <= 0 || widgetH <= 0 || sourceW <= 0 || sourceH <= 0 {
		return m
	}
	videoAspect := float64(sourceW) / float64(sourceH)
	widgetAspect := widgetW / widgetH
	if widgetAspect > videoAspect {
		// Black bars on the left and right.
		m.DisplayH = widgetH
		m.DisplayW = videoAspect * widgetH
		m.OffsetX = (widgetW - m.DisplayW) / 2
	} else {
		// Black bars on the top and bottom.
		m.DisplayW = widgetW
		m.DisplayH = widgetW / videoAspect
		m.OffsetY = (widgetH - m.DisplayH) / 2
	}
	return m
}

// Valid reports whether the map describes a drawable picture area.
func (m DisplayMap) Valid() bool {
	return m.DisplayW > 0 && m.DisplayH > 0
}

// Contains reports whether a widget-space point falls on the picture.
func (m DisplayMap) Contains(x, y float64) bool {
	return m.Valid() &&
		x >= m.OffsetX && x < m.OffsetX+m.DisplayW &&
		y >= m.OffsetY && y < m.OffsetY+m.DisplayH
}

// ToSource rescales a widget-space rectangle to source pixels and clamps it
// to the source bounds.
func (m DisplayMap) ToSource(x, y, w, h float64) Rect {
	if !m.Valid() {
		return Rect{}
	}
	sx := float64(m.SourceW) / m.DisplayW
	sy := float64(m.SourceH) / m.DisplayH
	r := Rect{
		X: int((x - m.OffsetX) * sx),
		Y: int((y - m.OffsetY) * sy),
		W: int(w * sx),
		H: int(h * sy),
	}
	return r.Clamp(m.SourceW, m.SourceH)
}

// Drag accumulates a pointer drag over the playback surface in widget
// coordinates. The raw rectangle is normalized so dragging in any direction
// yields the same selection.
type Drag struct {
	startX, startY float64
	curX, curY     float64
	active         bool
	has            bool
}

// Begin starts a new drag at the given widget position, discarding any
// previous selection.
func (d *Drag) Begin(x, y float64) {
	d.startX, d.startY = x, y
	d.curX, d.curY = x, y
	d.active = true
	d.has = true
}

// Update extends the drag to the given widget position.
func (d *Drag) Update(x, y float64) {
	if !d.active {
		return
	}
	d.curX, d.curY = x, y
}

// End finishes the drag at the given widget position.
func (d *Drag) End(x, y float64) {
	if !d.active {
		return
	}
	d.curX, d.curY = x, y
	d.active = false
}

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool {
	return d.active
}

// Clear forgets the current selection.
func (d *Drag) Clear() {
	*d = Drag{}
}

// Bounds returns the normalized selection rectangle in widget coordinates.
// ok is false when no drag has happened since the last Clear.
func (d *Drag) Bounds() (x, y, w, h float64, ok bool) {
	if !d.has {
		return 0, 0, 0, 0, false
	}
	x1 := min(d.startX, d.curX)
	x2 := max(d.startX, d.curX)
	y1 := min(d.startY, d.curY)
	y2 := max(d.startY, d.curY)
	return x1, y1, x2 - x1, y2 - y1, true
}

// Region converts the current selection to source pixels through the given
// display map. ok is false when there is no selection or it is zero-area
// after clamping.
func (d *Drag) Region(m DisplayMap) (Rect, bool) {
	x, y, w, h, ok := d.Bounds()
	if !ok {
		return Rect{}, false
	}
	r := m.ToSource(x, y, w, h)
	if r.Empty() {
		return Rect{}, false
	}
	return r, true
}
