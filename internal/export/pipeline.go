package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/Valentin-Guillet/GifExtractor/internal/video"
)

const optimizerName = "gifsicle"

// ErrBusy is returned when an export is requested while another one is
// still running. Concurrent exports are rejected, not queued.
var ErrBusy = errors.New("an export is already in progress")

// EncodeError reports a transcoder run that exited non-zero. The stderr
// text is what the user sees.
type EncodeError struct {
	Stderr string
}

func (e *EncodeError) Error() string {
	if e.Stderr == "" {
		return "transcoder failed"
	}
	return e.Stderr
}

// Result describes a finished export. OptimizeWarning is set when the
// optimizer was skipped or failed; the GIF at Path is still valid then.
type Result struct {
	Path            string
	Optimized       bool
	OptimizeWarning string
}

// Pipeline sequences the transcoder and optimizer invocations for one
// export at a time.
type Pipeline struct {
	runner video.Runner
	busy   atomic.Bool
}

func NewPipeline() *Pipeline {
	return NewPipelineWith(video.ExecRunner{})
}

func NewPipelineWith(r video.Runner) *Pipeline {
	return &Pipeline{runner: r}
}

// Busy reports whether an export is currently running.
func (p *Pipeline) Busy() bool {
	return p.busy.Load()
}

// Export validates the job, encodes the segment with the transcoder, and
// optimizes the produced file best-effort. Cancelling the context kills
// the running subprocess and discards partial output.
func (p *Pipeline) Export(ctx context.Context, job Job) (Result, error) {
	if !p.busy.CompareAndSwap(false, true) {
		return Result{}, ErrBusy
	}
	defer p.busy.Store(false)

	if err := job.Validate(); err != nil {
		return Result{}, err
	}

	if err := p.encode(ctx, job); err != nil {
		os.Remove(job.OutputPath)
		return Result{}, err
	}

	result := Result{Path: job.OutputPath}
	p.optimize(ctx, job, &result)
	return result, nil
}

func (p *Pipeline) encode(ctx context.Context, job Job) error {
	err := p.runner.Run(ctx, "ffmpeg", encodeArgs(job)...)
	if err == nil {
		return nil
	}
	var exitErr *video.ExitError
	if errors.As(err, &exitErr) {
		return &EncodeError{Stderr: exitErr.Stderr}
	}
	return fmt.Errorf("run transcoder: %w", err)
}

// encodeArgs builds the transcoder command line. Seeking happens on the
// output side so the cut is frame accurate, and the palettegen/paletteuse
// chain keeps GIF colors usable at 256 entries.
func encodeArgs(job Job) []string {
	args := []string{"-y", "-v", "error", "-an", "-i", job.Source.Path}

	var filters []string
	if job.Crop != nil {
		filters = append(filters, "crop="+job.Crop.String())
	}
	filters = append(filters, fmt.Sprintf("fps=%d", job.FPS))
	chain := fmt.Sprintf("[0:v]%s,split[s0][s1];[s0]palettegen[p];[s1][p]paletteuse",
		strings.Join(filters, ","))
	args = append(args, "-filter_complex", chain)

	start := job.Source.TimeAt(job.StartFrame).Seconds()
	args = append(args, "-ss", fmt.Sprintf("%.3f", start))
	if job.StartFrame == job.EndFrame {
		args = append(args, "-frames:v", "1")
	} else {
		span := job.Source.TimeAt(job.EndFrame).Seconds() - start
		args = append(args, "-t", fmt.Sprintf("%.3f", span))
	}

	return append(args, "-f", "gif", job.OutputPath)
}

// optimize shrinks the GIF in place when gifsicle is installed. Failure is
// never fatal; the unoptimized file remains the result.
func (p *Pipeline) optimize(ctx context.Context, job Job, result *Result) {
	path, err := p.runner.LookPath(optimizerName)
	if err != nil || path == "" {
		result.OptimizeWarning = fmt.Sprintf("%s not found, GIF left unoptimized", optimizerName)
		return
	}

	effort := job.OptimizeEffort
	if effort < 1 || effort > 3 {
		effort = 3
	}
	err = p.runner.Run(ctx, path,
		fmt.Sprintf("-O%d", effort),
		"--no-comments",
		"-o", job.OutputPath,
		job.OutputPath,
	)
	if err != nil {
		result.OptimizeWarning = fmt.Sprintf("optimizer failed: %v", err)
		return
	}
	result.Optimized = true
}
