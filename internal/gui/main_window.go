package gui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/Valentin-Guillet/GifExtractor/internal/export"
	"github.com/Valentin-Guillet/GifExtractor/internal/fsutil"
	"github.com/Valentin-Guillet/GifExtractor/internal/selection"
	"github.com/Valentin-Guillet/GifExtractor/internal/video"
)

const seekStep = 3 * time.Second

var videoExtensions = []string{".mp4", ".mkv", ".webm", ".avi", ".mov"}

type MainWindow struct {
	window  fyne.Window
	app     *App
	async   *AsyncManager
	split   *container.Split
	status  *StatusBar
	player  *PlayerPanel
	preview *PreviewPanel
	toolbar *fyne.Container

	prober   *video.Prober
	pipeline *export.Pipeline

	source     video.Source
	loaded     bool
	markers    selection.Markers
	savePath   string
	previewChk *widget.Check
}

func NewMainWindow(app *App) *MainWindow {
	window := app.fyneApp.NewWindow("GIF Extractor")

	mw := &MainWindow{
		window:   window,
		app:      app,
		prober:   video.NewProber(),
		pipeline: export.NewPipeline(),
		savePath: app.opts.OutputPath,
	}

	mw.async = NewAsyncManager(app)
	mw.status = NewStatusBar()
	mw.player = NewPlayerPanel(app, mw.async, mw.handleCropChange)
	mw.preview = NewPreviewPanel(app.cfg.PreviewEnabled)
	mw.player.onFrameChange = mw.updateMarkerTicks
	mw.buildToolbar()
	mw.buildContent()
	mw.setupKeyboardShortcuts()

	window.Resize(fyne.NewSize(1100, 700))
	mw.loadWindowState()
	window.SetCloseIntercept(func() {
		mw.saveWindowState()
		mw.cleanupPreviewFile()
		app.Stop()
		window.Close()
	})

	return mw
}

func (m *MainWindow) buildContent() {
	m.split = container.NewHSplit(m.player.Content(), m.preview.Content())
	m.split.SetOffset(0.65)
	content := container.NewBorder(
		m.toolbar,
		m.status.Content(),
		nil,
		nil,
		m.split,
	)
	m.window.SetContent(content)
}

func (m *MainWindow) buildToolbar() {
	openBtn := widget.NewButton("Open", m.showOpenDialog)
	startBtn := widget.NewButton("Mark Start", m.markStart)
	endBtn := widget.NewButton("Mark End", m.markEnd)
	clearBtn := widget.NewButton("Clear Marks", m.clearMarkers)
	cropBtn := widget.NewButton("Clear Crop", m.clearCrop)
	m.previewChk = widget.NewCheck("Preview", func(on bool) {
		m.preview.SetEnabled(on)
		m.app.cfg.PreviewEnabled = on
	})
	m.previewChk.SetChecked(m.app.cfg.PreviewEnabled)
	saveBtn := widget.NewButton("Save GIF", m.saveGif)
	helpBtn := widget.NewButton("Help", m.showHelp)
	quitBtn := widget.NewButton("Quit", m.quit)

	m.toolbar = container.NewHBox(
		openBtn,
		widget.NewSeparator(),
		startBtn,
		endBtn,
		clearBtn,
		cropBtn,
		widget.NewSeparator(),
		m.previewChk,
		saveBtn,
		helpBtn,
		quitBtn,
	)
}

func (m *MainWindow) setupKeyboardShortcuts() {
	canvas := m.window.Canvas()
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl},
		func(fyne.Shortcut) { m.showOpenDialog() })
	// Shifted punctuation never arrives as a KeyName, only as a rune.
	canvas.SetOnTypedRune(func(r rune) {
		switch r {
		case '<':
			m.player.SpeedDown()
		case '>':
			m.player.SpeedUp()
		case '?':
			m.showHelp()
		}
	})
	canvas.SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeyEscape, fyne.KeyQ:
			m.quit()
		case fyne.KeySpace, fyne.KeyK:
			m.player.TogglePlayback()
		case fyne.KeyLeft, fyne.KeyJ:
			m.player.SeekRelative(-seekStep)
		case fyne.KeyRight, fyne.KeyL:
			m.player.SeekRelative(seekStep)
		case fyne.KeyComma:
			m.player.StepFrame(-1)
		case fyne.KeyPeriod:
			m.player.StepFrame(1)
		case fyne.KeyS:
			m.markStart()
		case fyne.KeyE:
			m.markEnd()
		case fyne.KeyA:
			m.jumpToMarker(true)
		case fyne.KeyD:
			m.jumpToMarker(false)
		case fyne.KeyX:
			m.clearMarkers()
		case fyne.KeyC:
			m.clearCrop()
		case fyne.KeyG:
			m.saveGif()
		case fyne.KeyP:
			m.previewChk.SetChecked(!m.previewChk.Checked)
		case fyne.KeyF1, fyne.KeySlash:
			m.showHelp()
		case fyne.Key0, fyne.Key1, fyne.Key2, fyne.Key3, fyne.Key4,
			fyne.Key5, fyne.Key6, fyne.Key7, fyne.Key8, fyne.Key9:
			m.player.SeekPercent(int(key.Name[0] - '0'))
		}
	})
}

func (m *MainWindow) Show() {
	m.window.Show()
	if m.app.opts.VideoPath != "" {
		m.loadVideoAsync(m.app.opts.VideoPath)
	} else {
		m.SetStatus("Open a video to get started (Ctrl+O)")
	}
}

func (m *MainWindow) SetStatus(text string) {
	m.async.RunOnUIThread(func() {
		m.status.SetText(text)
	})
}

func (m *MainWindow) showOpenDialog() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, m.window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		m.app.cfg.LastOpenDir = filepath.Dir(path)
		m.loadVideoAsync(path)
	}, m.window)
	fd.SetFilter(storage.NewExtensionFileFilter(videoExtensions))
	if m.app.cfg.LastOpenDir != "" {
		if uri, err := storage.ListerForURI(storage.NewFileURI(m.app.cfg.LastOpenDir)); err == nil {
			fd.SetLocation(uri)
		}
	}
	fd.Show()
}

func (m *MainWindow) loadVideoAsync(path string) {
	m.SetStatus(fmt.Sprintf("Probing %s...", filepath.Base(path)))
	m.status.ShowProgress()
	m.async.RunAsync(func() UpdateCallback {
		src, err := m.prober.Probe(m.app.Context(), path)
		return func() {
			m.status.HideProgress()
			if err != nil {
				dialog.ShowError(err, m.window)
				m.SetStatus("Failed to open video")
				return
			}
			m.installSource(src)
		}
	})
}

func (m *MainWindow) installSource(src video.Source) {
	m.source = src
	m.loaded = true
	m.markers.Clear()
	m.preview.Clear()
	m.player.SetSource(src)
	m.updateMarkerTicks()

	if crop := m.app.opts.Crop; crop != nil {
		clamped := crop.Clamp(src.Width, src.Height)
		if clamped.Empty() {
			m.SetStatus("Requested crop lies outside the video, ignored")
		} else {
			m.player.Overlay().SetCrop(&clamped)
		}
		m.app.opts.Crop = nil
	}

	m.window.SetTitle("GIF Extractor - " + filepath.Base(src.Path))
	m.SetStatus(fmt.Sprintf("%s: %dx%d, %.3g fps, %s",
		filepath.Base(src.Path), src.Width, src.Height, src.FrameRate, formatDuration(src.Duration)))
}

func (m *MainWindow) markStart() {
	player := m.player.Player()
	if player == nil {
		return
	}
	m.markers.MarkStart(player.Frame())
	m.updateMarkerTicks()
	m.SetStatus(fmt.Sprintf("Start marked at %s", formatDuration(player.Time())))
	m.maybeExportPreview()
}

func (m *MainWindow) markEnd() {
	player := m.player.Player()
	if player == nil {
		return
	}
	m.markers.MarkEnd(player.Frame())
	m.updateMarkerTicks()
	m.SetStatus(fmt.Sprintf("End marked at %s", formatDuration(player.Time())))
	m.maybeExportPreview()
}

func (m *MainWindow) clearMarkers() {
	m.markers.Clear()
	m.updateMarkerTicks()
	m.SetStatus("Markers cleared")
}

func (m *MainWindow) jumpToMarker(start bool) {
	if start {
		if frame, ok := m.markers.Start(); ok {
			m.player.Seek(frame)
		}
		return
	}
	if frame, ok := m.markers.End(); ok {
		m.player.Seek(frame)
	}
}

func (m *MainWindow) clearCrop() {
	m.player.Overlay().ClearCrop()
}

func (m *MainWindow) handleCropChange(crop *selection.Rect) {
	if crop == nil {
		m.SetStatus("Crop cleared")
	} else {
		m.SetStatus(fmt.Sprintf("Crop set to %s", crop))
	}
	m.maybeExportPreview()
}

// updateMarkerTicks repositions the timeline marker lines from the current
// marker frames.
func (m *MainWindow) updateMarkerTicks() {
	if !m.loaded {
		return
	}
	last := m.source.FrameCount() - 1
	if last < 1 {
		last = 1
	}
	timeline := m.player.timeline
	if frame, ok := m.markers.Start(); ok {
		timeline.SetStartMarker(float64(frame) / float64(last))
	} else {
		timeline.ClearStartMarker()
	}
	if frame, ok := m.markers.End(); ok {
		timeline.SetEndMarker(float64(frame) / float64(last))
	} else {
		timeline.ClearEndMarker()
	}
}

// maybeExportPreview re-renders the preview GIF whenever a complete
// selection exists. Export failures surface in the status bar rather than a
// dialog since marking happens continuously.
func (m *MainWindow) maybeExportPreview() {
	if !m.markers.Valid(m.source.FrameCount()) {
		return
	}
	m.runExport(m.previewPath(), true)
}

func (m *MainWindow) previewPath() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("gifextractor_preview_%d.gif", os.Getpid()))
}

func (m *MainWindow) buildJob(outputPath string) export.Job {
	return export.Job{
		Source:         m.source,
		Crop:           m.player.Overlay().Crop(),
		StartFrame:     mustFrame(m.markers.Start()),
		EndFrame:       mustFrame(m.markers.End()),
		OutputPath:     outputPath,
		FPS:            m.app.cfg.FPS,
		OptimizeEffort: m.app.cfg.OptimizeEffort,
	}
}

func (m *MainWindow) runExport(outputPath string, isPreview bool) {
	if !m.loaded {
		return
	}
	start, end, ok := m.markers.Range()
	if !ok {
		m.SetStatus("Mark both start and end before exporting")
		return
	}
	if m.pipeline.Busy() {
		m.SetStatus("An export is already running")
		return
	}
	m.player.Pause()
	job := m.buildJob(outputPath)
	frames := end - start + 1
	m.SetStatus(fmt.Sprintf("Exporting %d frames...", frames))
	m.status.ShowProgress()
	m.async.RunAsync(func() UpdateCallback {
		result, err := m.pipeline.Export(m.app.Context(), job)
		return func() {
			m.status.HideProgress()
			if err != nil {
				if !isPreview {
					dialog.ShowError(err, m.window)
				}
				m.SetStatus(fmt.Sprintf("Export failed: %v", err))
				return
			}
			if isPreview {
				if perr := m.preview.ShowGif(result.Path); perr != nil {
					m.SetStatus(fmt.Sprintf("Preview unavailable: %v", perr))
					return
				}
				m.SetStatus("Preview ready, press G or Save GIF to keep it")
				return
			}
			m.finishSave(result)
		}
	})
}

func (m *MainWindow) finishSave(result export.Result) {
	if result.OptimizeWarning != "" {
		m.SetStatus(fmt.Sprintf("Saved %s (%s)", result.Path, result.OptimizeWarning))
		return
	}
	m.SetStatus(fmt.Sprintf("Saved %s", result.Path))
}

// saveGif writes the current selection to the chosen output path. When a
// preview GIF already exists it is copied instead of re-encoding.
func (m *MainWindow) saveGif() {
	if !m.loaded {
		return
	}
	if _, _, ok := m.markers.Range(); !ok {
		m.SetStatus("Mark both start and end before saving")
		return
	}
	if m.savePath != "" {
		m.saveTo(fsutil.EnsureGifExtension(m.savePath))
		return
	}
	m.showSaveDialog()
}

func (m *MainWindow) showSaveDialog() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, m.window)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		m.app.cfg.LastSaveDir = filepath.Dir(path)
		m.saveTo(fsutil.EnsureGifExtension(path))
	}, m.window)
	fd.SetFileName(filepath.Base(fsutil.DefaultOutputPath(m.source.Path)))
	if m.app.cfg.LastSaveDir != "" {
		if uri, err := storage.ListerForURI(storage.NewFileURI(m.app.cfg.LastSaveDir)); err == nil {
			fd.SetLocation(uri)
		}
	}
	fd.Show()
}

func (m *MainWindow) saveTo(path string) {
	if preview := m.preview.Path(); preview != "" {
		if err := copyFile(preview, path); err != nil {
			dialog.ShowError(err, m.window)
			return
		}
		m.SetStatus(fmt.Sprintf("Saved %s", path))
		return
	}
	m.runExport(path, false)
}

func (m *MainWindow) cleanupPreviewFile() {
	if path := m.preview.Path(); path != "" {
		os.Remove(path)
	}
}

func (m *MainWindow) showHelp() {
	help := widget.NewLabel(`Ctrl+O        open a video
Space / K     play or pause
J / L         seek back / forward 3 s
, / .         step one frame
0-9           jump to 0%..90%
S / E         mark start / end frame
A / D         jump to start / end marker
X             clear markers
Drag          select crop region
C             clear crop
P             toggle GIF preview
G             save GIF
Q / Escape    quit`)
	help.TextStyle = fyne.TextStyle{Monospace: true}
	dialog.ShowCustom("Keyboard Shortcuts", "Close", help, m.window)
}

func (m *MainWindow) quit() {
	m.saveWindowState()
	m.cleanupPreviewFile()
	m.app.Stop()
	m.window.Close()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

func mustFrame(frame int, ok bool) int {
	if !ok {
		return 0
	}
	return frame
}
