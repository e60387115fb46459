package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Valentin-Guillet/GifExtractor/internal/selection"
	"github.com/Valentin-Guillet/GifExtractor/internal/video"
)

type fakeRunner struct {
	mu          sync.Mutex
	commands    [][]string
	runErr      map[string]error
	lookPathErr error
	block       chan struct{}
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	f.mu.Lock()
	f.commands = append(f.commands, append([]string{name}, args...))
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.runErr != nil {
		return f.runErr[name]
	}
	return nil
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return nil, f.Run(ctx, name, args...)
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.lookPathErr != nil {
		return "", f.lookPathErr
	}
	return name, nil
}

func (f *fakeRunner) invoked(name string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched [][]string
	for _, cmd := range f.commands {
		if cmd[0] == name {
			matched = append(matched, cmd)
		}
	}
	return matched
}

func testJob(t *testing.T) Job {
	t.Helper()
	return Job{
		Source: video.Source{
			Path:      "/videos/clip.mp4",
			Duration:  10 * time.Second,
			FrameRate: 30,
			Width:     1920,
			Height:    1080,
		},
		StartFrame:     30,
		EndFrame:       90,
		OutputPath:     filepath.Join(t.TempDir(), "out.gif"),
		FPS:            15,
		OptimizeEffort: 3,
	}
}

func TestExportSuccess(t *testing.T) {
	runner := &fakeRunner{}
	pipeline := NewPipelineWith(runner)
	job := testJob(t)

	result, err := pipeline.Export(context.Background(), job)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if result.Path != job.OutputPath {
		t.Fatalf("expected %s, got %s", job.OutputPath, result.Path)
	}
	if !result.Optimized || result.OptimizeWarning != "" {
		t.Fatalf("expected optimized result, got %+v", result)
	}
	if n := len(runner.invoked("ffmpeg")); n != 1 {
		t.Fatalf("expected one transcoder run, got %d", n)
	}
	if n := len(runner.invoked("gifsicle")); n != 1 {
		t.Fatalf("expected one optimizer run, got %d", n)
	}
}

func TestExportArgs(t *testing.T) {
	runner := &fakeRunner{}
	pipeline := NewPipelineWith(runner)
	job := testJob(t)
	job.Crop = &selection.Rect{X: 10, Y: 20, W: 300, H: 200}

	if _, err := pipeline.Export(context.Background(), job); err != nil {
		t.Fatalf("Export: %v", err)
	}
	args := strings.Join(runner.invoked("ffmpeg")[0], " ")
	for _, want := range []string{
		"-an",
		"-i /videos/clip.mp4",
		"crop=300:200:10:20",
		"fps=15",
		"palettegen",
		"paletteuse",
		"-ss 1.000",
		"-t 2.000",
		"-f gif " + job.OutputPath,
	} {
		if !strings.Contains(args, want) {
			t.Errorf("transcoder args missing %q: %s", want, args)
		}
	}
}

func TestExportSingleFrame(t *testing.T) {
	runner := &fakeRunner{}
	pipeline := NewPipelineWith(runner)
	job := testJob(t)
	job.StartFrame = 0
	job.EndFrame = 0

	if _, err := pipeline.Export(context.Background(), job); err != nil {
		t.Fatalf("Export: %v", err)
	}
	args := strings.Join(runner.invoked("ffmpeg")[0], " ")
	if !strings.Contains(args, "-frames:v 1") {
		t.Fatalf("expected single-frame export, got %s", args)
	}
	if strings.Contains(args, " -t ") {
		t.Fatalf("single-frame export should not set a duration: %s", args)
	}
}

func TestExportInvalidSelectionBeforeSubprocess(t *testing.T) {
	runner := &fakeRunner{}
	pipeline := NewPipelineWith(runner)
	job := testJob(t)
	job.StartFrame = 90
	job.EndFrame = 30

	_, err := pipeline.Export(context.Background(), job)
	var invalid *InvalidSelectionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidSelectionError, got %v", err)
	}
	if len(runner.commands) != 0 {
		t.Fatalf("no subprocess may run for an invalid job, got %v", runner.commands)
	}
}

func TestExportValidation(t *testing.T) {
	base := testJob(t)
	tests := []struct {
		name   string
		mutate func(*Job)
	}{
		{"no video", func(j *Job) { j.Source.Path = "" }},
		{"no output", func(j *Job) { j.OutputPath = "" }},
		{"zero fps", func(j *Job) { j.FPS = 0 }},
		{"negative start", func(j *Job) { j.StartFrame = -1 }},
		{"end past video", func(j *Job) { j.EndFrame = 100_000 }},
		{"empty crop", func(j *Job) { j.Crop = &selection.Rect{} }},
		{"crop outside", func(j *Job) { j.Crop = &selection.Rect{X: 1900, Y: 0, W: 100, H: 100} }},
		{"unwritable output dir", func(j *Job) { j.OutputPath = "/no/such/dir/out.gif" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := base
			tt.mutate(&job)
			var invalid *InvalidSelectionError
			if err := job.Validate(); !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidSelectionError, got %v", err)
			}
		})
	}
}

func TestExportEncodeFailure(t *testing.T) {
	runner := &fakeRunner{
		runErr: map[string]error{
			"ffmpeg": &video.ExitError{Name: "ffmpeg", Code: 1, Stderr: "bad codec"},
		},
	}
	pipeline := NewPipelineWith(runner)
	job := testJob(t)
	if err := os.WriteFile(job.OutputPath, []byte("partial"), 0o644); err != nil {
		t.Fatalf("write partial: %v", err)
	}

	_, err := pipeline.Export(context.Background(), job)
	var encodeErr *EncodeError
	if !errors.As(err, &encodeErr) {
		t.Fatalf("expected EncodeError, got %v", err)
	}
	if encodeErr.Error() != "bad codec" {
		t.Fatalf("expected stderr text, got %q", encodeErr.Error())
	}
	if len(runner.invoked("gifsicle")) != 0 {
		t.Fatalf("optimizer must not run after encode failure")
	}
	if _, statErr := os.Stat(job.OutputPath); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("partial output should be removed, stat: %v", statErr)
	}
}

func TestExportOptimizerAbsent(t *testing.T) {
	runner := &fakeRunner{lookPathErr: errors.New("executable not found")}
	pipeline := NewPipelineWith(runner)
	job := testJob(t)

	result, err := pipeline.Export(context.Background(), job)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if result.Path != job.OutputPath {
		t.Fatalf("expected unoptimized path as success, got %s", result.Path)
	}
	if result.Optimized {
		t.Fatalf("result should not claim optimization")
	}
	if result.OptimizeWarning == "" {
		t.Fatalf("expected a skip warning")
	}
}

func TestExportOptimizerFailureIsWarning(t *testing.T) {
	runner := &fakeRunner{
		runErr: map[string]error{
			"gifsicle": &video.ExitError{Name: "gifsicle", Code: 1, Stderr: "bad gif"},
		},
	}
	pipeline := NewPipelineWith(runner)
	job := testJob(t)

	result, err := pipeline.Export(context.Background(), job)
	if err != nil {
		t.Fatalf("optimizer failure must not fail the export: %v", err)
	}
	if result.Optimized {
		t.Fatalf("result should not claim optimization")
	}
	if !strings.Contains(result.OptimizeWarning, "bad gif") {
		t.Fatalf("expected optimizer stderr in warning, got %q", result.OptimizeWarning)
	}
}

func TestExportRejectsConcurrent(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{})}
	pipeline := NewPipelineWith(runner)
	job := testJob(t)

	done := make(chan error, 1)
	go func() {
		_, err := pipeline.Export(context.Background(), job)
		done <- err
	}()

	for !pipeline.Busy() {
		time.Sleep(time.Millisecond)
	}
	if _, err := pipeline.Export(context.Background(), job); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	close(runner.block)
	if err := <-done; err != nil {
		t.Fatalf("first export failed: %v", err)
	}
	if pipeline.Busy() {
		t.Fatalf("pipeline should be idle again")
	}
}
