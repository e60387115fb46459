// Package video probes media files, extracts frames for the playback
// surface, and keeps the seek/play/speed state. All decoding is delegated
// to ffmpeg and ffprobe subprocesses.
package video

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

const probeTimeout = 15 * time.Second

// Source describes an opened video. It is immutable once probed and is
// replaced wholesale when a new video is opened.
type Source struct {
	Path      string
	Duration  time.Duration
	FrameRate float64
	Width     int
	Height    int
}

// FrameCount returns the number of frames in the source.
func (s Source) FrameCount() int {
	n := int(math.Round(s.Duration.Seconds() * s.FrameRate))
	if n < 1 {
		n = 1
	}
	return n
}

// TimeAt converts a frame index into a time offset.
func (s Source) TimeAt(frame int) time.Duration {
	if s.FrameRate <= 0 {
		return 0
	}
	return time.Duration(float64(frame) / s.FrameRate * float64(time.Second))
}

// FrameAt converts a time offset into a clamped frame index.
func (s Source) FrameAt(t time.Duration) int {
	if s.FrameRate <= 0 {
		return 0
	}
	frame := int(t.Seconds() * s.FrameRate)
	if frame < 0 {
		return 0
	}
	if last := s.FrameCount() - 1; frame > last {
		return last
	}
	return frame
}

// UnreadableError reports a video that could not be opened: missing file,
// unsupported codec, or unparsable probe output.
type UnreadableError struct {
	Path string
	Err  error
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("cannot read video %s: %v", e.Path, e.Err)
}

func (e *UnreadableError) Unwrap() error {
	return e.Err
}

// Prober reads stream metadata through ffprobe.
type Prober struct {
	runner Runner
}

func NewProber() *Prober {
	return NewProberWith(ExecRunner{})
}

func NewProberWith(r Runner) *Prober {
	return &Prober{runner: r}
}

// Probe opens a video file and returns its metadata.
func (p *Prober) Probe(ctx context.Context, path string) (Source, error) {
	if _, err := os.Stat(path); err != nil {
		return Source{}, &UnreadableError{Path: path, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := p.runner.Output(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1",
		path,
	)
	if err != nil {
		return Source{}, &UnreadableError{Path: path, Err: err}
	}

	src, err := parseProbeOutput(path, string(out))
	if err != nil {
		return Source{}, &UnreadableError{Path: path, Err: err}
	}
	return src, nil
}

func parseProbeOutput(path, out string) (Source, error) {
	src := Source{Path: path}
	for _, line := range strings.Split(out, "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), "=")
		if !found {
			continue
		}
		var err error
		switch key {
		case "width":
			src.Width, err = strconv.Atoi(value)
		case "height":
			src.Height, err = strconv.Atoi(value)
		case "r_frame_rate":
			src.FrameRate, err = parseFrameRate(value)
		case "duration":
			var seconds float64
			seconds, err = strconv.ParseFloat(value, 64)
			src.Duration = time.Duration(seconds * float64(time.Second))
		}
		if err != nil {
			return Source{}, fmt.Errorf("parse %s %q: %w", key, value, err)
		}
	}
	if src.Width <= 0 || src.Height <= 0 {
		return Source{}, fmt.Errorf("no video stream dimensions in probe output")
	}
	if src.FrameRate <= 0 {
		return Source{}, fmt.Errorf("no frame rate in probe output")
	}
	if src.Duration <= 0 {
		return Source{}, fmt.Errorf("no duration in probe output")
	}
	return src, nil
}

// parseFrameRate handles ffprobe's fractional rates such as "30000/1001".
func parseFrameRate(value string) (float64, error) {
	num, den, found := strings.Cut(value, "/")
	if !found {
		return strconv.ParseFloat(value, 64)
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, err
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, fmt.Errorf("zero denominator in frame rate %q", value)
	}
	return n / d, nil
}
