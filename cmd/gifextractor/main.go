package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Valentin-Guillet/GifExtractor/internal/fsutil"
	"github.com/Valentin-Guillet/GifExtractor/internal/gui"
	"github.com/Valentin-Guillet/GifExtractor/internal/meta"
	"github.com/Valentin-Guillet/GifExtractor/internal/selection"
	"github.com/Valentin-Guillet/GifExtractor/internal/tui"
)

var (
	runGUI = func(opts gui.Options) error {
		gui.NewApp(opts).Run()
		return nil
	}
	runTUI = tui.Run
	exit   = os.Exit
)

func main() {
	exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("gifextractor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: gifextractor [options] [video]\n\n")
		fs.PrintDefaults()
	}
	outputFlag := fs.String("output", "", "Output GIF path (default <video>.gif)")
	fpsFlag := fs.Int("fps", 0, "Output GIF frame rate (default 15)")
	cropFlag := fs.String("crop", "", "Initial crop geometry as W:H:X:Y in source pixels")
	tuiFlag := fs.Bool("tui", false, "Run in the terminal instead of opening a window")
	versionFlag := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *versionFlag {
		fmt.Fprintf(stdout, "gifextractor version %s\n", meta.Version)
		return 0
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(stderr, "expected at most one video path, got %d\n", fs.NArg())
		return 2
	}
	if *fpsFlag < 0 {
		fmt.Fprintf(stderr, "-fps must be positive\n")
		return 2
	}

	videoPath, err := fsutil.ResolveVideoPath(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	var crop *selection.Rect
	if *cropFlag != "" {
		rect, err := selection.ParseRect(*cropFlag)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return 2
		}
		crop = &rect
	}

	if *tuiFlag {
		opts := tui.Options{
			VideoPath:      videoPath,
			OutputPath:     *outputFlag,
			Crop:           crop,
			FPS:            *fpsFlag,
			OptimizeEffort: 0,
		}
		if err := runTUI(opts); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	opts := gui.Options{
		VideoPath:      videoPath,
		OutputPath:     *outputFlag,
		Crop:           crop,
		FPS:            *fpsFlag,
		OptimizeEffort: 0,
	}
	if err := runGUI(opts); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
