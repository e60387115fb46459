package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"
	"time"
)

const (
	extractTimeout = 30 * time.Second
	frameCacheSize = 48
)

// Extractor pulls single frames out of a video through ffmpeg so the
// playback surface can render them. Recently shown frames are cached to
// keep scrubbing responsive.
type Extractor struct {
	runner Runner

	mu     sync.Mutex
	path   string
	frames map[int]image.Image
	order  []int
}

func NewExtractor() *Extractor {
	return NewExtractorWith(ExecRunner{})
}

func NewExtractorWith(r Runner) *Extractor {
	return &Extractor{runner: r}
}

// FrameAt decodes the frame at the given index. The cache is keyed by the
// source path, so switching videos invalidates it.
func (e *Extractor) FrameAt(ctx context.Context, src Source, frame int) (image.Image, error) {
	if frame < 0 {
		frame = 0
	}
	if last := src.FrameCount() - 1; frame > last {
		frame = last
	}

	if img, ok := e.cached(src.Path, frame); ok {
		return img, nil
	}

	ctx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	out, err := e.runner.Output(ctx, "ffmpeg",
		"-v", "error",
		"-ss", fmt.Sprintf("%.3f", src.TimeAt(frame).Seconds()),
		"-i", src.Path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)
	if err != nil {
		return nil, fmt.Errorf("extract frame %d: %w", frame, err)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decode frame %d: %w", frame, err)
	}

	e.store(src.Path, frame, img)
	return img, nil
}

func (e *Extractor) cached(path string, frame int) (image.Image, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.path != path {
		return nil, false
	}
	img, ok := e.frames[frame]
	return img, ok
}

func (e *Extractor) store(path string, frame int, img image.Image) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.path != path {
		e.path = path
		e.frames = make(map[int]image.Image)
		e.order = e.order[:0]
	}
	if _, ok := e.frames[frame]; ok {
		return
	}
	e.frames[frame] = img
	e.order = append(e.order, frame)
	for len(e.order) > frameCacheSize {
		oldest := e.order[0]
		e.order = e.order[1:]
		delete(e.frames, oldest)
	}
}
