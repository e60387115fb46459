package gui

import (
	"context"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/Valentin-Guillet/GifExtractor/internal/config"
	"github.com/Valentin-Guillet/GifExtractor/internal/selection"
)

// Options carries the command line arguments into the GUI.
type Options struct {
	VideoPath      string
	OutputPath     string
	Crop           *selection.Rect
	FPS            int
	OptimizeEffort int
}

type App struct {
	fyneApp fyne.App
	main    *MainWindow
	opts    Options
	cfg     *config.Config
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewApp(opts Options) *App {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := config.Load()
	if opts.FPS > 0 {
		cfg.FPS = opts.FPS
	}
	if opts.OptimizeEffort > 0 {
		cfg.OptimizeEffort = opts.OptimizeEffort
	}

	return &App{
		fyneApp: fyneapp.NewWithID("com.github.valentin-guillet.gifextractor"),
		opts:    opts,
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (a *App) Run() {
	a.main = NewMainWindow(a)
	a.main.Show()
	a.fyneApp.Run()
}

func (a *App) Stop() {
	a.cancel()
	a.cfg.Save()
}

func (a *App) Context() context.Context {
	return a.ctx
}
