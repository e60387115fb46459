// Package export turns a marked video segment into an optimized GIF by
// driving the external transcoder and optimizer.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Valentin-Guillet/GifExtractor/internal/selection"
	"github.com/Valentin-Guillet/GifExtractor/internal/video"
)

// Job is an immutable snapshot of everything one export needs. It is
// built when the user triggers an export and discarded afterwards.
type Job struct {
	Source     video.Source
	Crop       *selection.Rect
	StartFrame int
	EndFrame   int
	OutputPath string
	// FPS is the frame rate of the produced GIF.
	FPS int
	// OptimizeEffort is the gifsicle -O level, 1 to 3.
	OptimizeEffort int
}

// InvalidSelectionError reports a job that failed validation before any
// subprocess ran.
type InvalidSelectionError struct {
	Reason string
}

func (e *InvalidSelectionError) Error() string {
	return "invalid selection: " + e.Reason
}

// Validate checks the job against the source bounds and the output
// location. It never touches the transcoder.
func (j Job) Validate() error {
	if j.Source.Path == "" {
		return &InvalidSelectionError{Reason: "no video loaded"}
	}
	if j.OutputPath == "" {
		return &InvalidSelectionError{Reason: "no output path"}
	}
	if j.FPS <= 0 {
		return &InvalidSelectionError{Reason: fmt.Sprintf("frame rate %d is not positive", j.FPS)}
	}
	frameCount := j.Source.FrameCount()
	if j.StartFrame < 0 || j.EndFrame >= frameCount {
		return &InvalidSelectionError{
			Reason: fmt.Sprintf("frames %d-%d outside video range 0-%d", j.StartFrame, j.EndFrame, frameCount-1),
		}
	}
	if j.StartFrame > j.EndFrame {
		return &InvalidSelectionError{
			Reason: fmt.Sprintf("start frame %d after end frame %d", j.StartFrame, j.EndFrame),
		}
	}
	if j.Crop != nil {
		if j.Crop.Empty() {
			return &InvalidSelectionError{Reason: "crop region is empty"}
		}
		if !j.Crop.Inside(j.Source.Width, j.Source.Height) {
			return &InvalidSelectionError{
				Reason: fmt.Sprintf("crop %s outside %dx%d video", j.Crop, j.Source.Width, j.Source.Height),
			}
		}
	}
	dir := filepath.Dir(j.OutputPath)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return &InvalidSelectionError{Reason: fmt.Sprintf("output directory %s is not writable", dir)}
	}
	return nil
}
