package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Valentin-Guillet/GifExtractor/internal/config"
	"github.com/Valentin-Guillet/GifExtractor/internal/export"
	"github.com/Valentin-Guillet/GifExtractor/internal/fsutil"
	"github.com/Valentin-Guillet/GifExtractor/internal/selection"
	"github.com/Valentin-Guillet/GifExtractor/internal/video"
)

const timelineWidth = 60

type model struct {
	videoPath string
	source    video.Source
	loading   bool
	loadErr   error

	player  *video.Player
	markers selection.Markers
	crop    *selection.Rect

	output        textinput.Model
	editingOutput bool

	prober    *video.Prober
	pipeline  *export.Pipeline
	fps       int
	effort    int
	exporting bool

	statusMessage string
	lastTick      time.Time
}

func newModel(opts Options) model {
	output := textinput.New()
	output.Prompt = "Output: "
	output.Placeholder = "out.gif"
	output.CharLimit = 512

	outputPath := opts.OutputPath
	if outputPath == "" && opts.VideoPath != "" {
		outputPath = fsutil.DefaultOutputPath(opts.VideoPath)
	}
	output.SetValue(outputPath)

	cfg := config.Load()
	fps := opts.FPS
	if fps <= 0 {
		fps = cfg.FPS
	}
	effort := opts.OptimizeEffort
	if effort <= 0 {
		effort = cfg.OptimizeEffort
	}

	return model{
		videoPath:     opts.VideoPath,
		loading:       true,
		crop:          opts.Crop,
		output:        output,
		prober:        video.NewProber(),
		pipeline:      export.NewPipeline(),
		fps:           fps,
		effort:        effort,
		statusMessage: "Probing video...",
	}
}

func (m model) Init() tea.Cmd {
	return loadSourceCmd(m.prober, m.videoPath)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(typed)
	case sourceLoadedMsg:
		return m.handleSourceLoaded(typed)
	case playTickMsg:
		return m.handlePlayTick(typed)
	case exportDoneMsg:
		return m.handleExportDone(typed)
	}
	return m, nil
}

func (m model) handleSourceLoaded(msg sourceLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.loadErr = msg.err
		m.statusMessage = fmt.Sprintf("error: %v", msg.err)
		return m, nil
	}
	m.source = msg.source
	m.player = video.NewPlayer(msg.source)
	if m.crop != nil {
		clamped := m.crop.Clamp(msg.source.Width, msg.source.Height)
		if clamped.Empty() {
			m.crop = nil
			m.statusMessage = "Crop outside the video, ignored"
		} else {
			m.crop = &clamped
			m.statusMessage = fmt.Sprintf("Loaded %s (crop %s)", filepath.Base(m.videoPath), m.crop)
		}
	} else {
		m.statusMessage = fmt.Sprintf("Loaded %s", filepath.Base(m.videoPath))
	}
	return m, nil
}

func (m model) handlePlayTick(msg playTickMsg) (tea.Model, tea.Cmd) {
	if m.player == nil || !m.player.Playing() {
		return m, nil
	}
	elapsed := playTickInterval
	if !m.lastTick.IsZero() {
		elapsed = time.Time(msg).Sub(m.lastTick)
	}
	m.lastTick = time.Time(msg)
	if m.player.Advance(elapsed) {
		return m, playTickCmd()
	}
	m.statusMessage = "Reached end of video"
	return m, nil
}

func (m model) handleExportDone(msg exportDoneMsg) (tea.Model, tea.Cmd) {
	m.exporting = false
	if msg.err != nil {
		m.statusMessage = fmt.Sprintf("Export failed: %v", msg.err)
		return m, nil
	}
	if msg.result.OptimizeWarning != "" {
		m.statusMessage = fmt.Sprintf("Saved %s (%s)", msg.result.Path, msg.result.OptimizeWarning)
		return m, nil
	}
	m.statusMessage = fmt.Sprintf("Saved %s", msg.result.Path)
	return m, nil
}

func (m model) startExport() (tea.Model, tea.Cmd) {
	if m.player == nil {
		return m, nil
	}
	if m.exporting || m.pipeline.Busy() {
		m.statusMessage = "Busy: an export is already running"
		return m, nil
	}
	start, end, ok := m.markers.Range()
	if !ok {
		m.statusMessage = "Mark start (s) and end (e) first"
		return m, nil
	}
	outputPath := strings.TrimSpace(m.output.Value())
	if outputPath == "" {
		outputPath = fsutil.DefaultOutputPath(m.videoPath)
	}
	job := export.Job{
		Source:         m.source,
		Crop:           m.crop,
		StartFrame:     start,
		EndFrame:       end,
		OutputPath:     fsutil.EnsureGifExtension(outputPath),
		FPS:            m.fps,
		OptimizeEffort: m.effort,
	}
	m.exporting = true
	m.statusMessage = "Exporting..."
	return m, exportCmd(m.pipeline, job)
}

func (m model) View() string {
	if m.loading {
		return statusStyle.Render("Probing video, please wait...")
	}
	if m.loadErr != nil {
		return statusStyle.Render(fmt.Sprintf("Cannot open video: %v", m.loadErr))
	}

	header := titleStyle.Render(filepath.Base(m.videoPath)) + "  " +
		statusStyle.Render(fmt.Sprintf("%dx%d  %.3g fps  %s",
			m.source.Width, m.source.Height, m.source.FrameRate, formatTime(m.source.Duration)))

	position := fmt.Sprintf("%s / %s  frame %d  [x%g]%s",
		formatTime(m.player.Time()), formatTime(m.source.Duration),
		m.player.Frame(), m.player.Speed(), playingIndicator(m.player))

	lines := []string{
		header,
		renderTimeline(m.player, &m.markers, timelineWidth),
		statusStyle.Render(position),
		m.renderMarkerLine(),
	}
	if m.editingOutput {
		lines = append(lines, m.output.View())
	}
	lines = append(lines, statusStyle.Render(m.statusMessage), m.renderHelp())
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m model) renderMarkerLine() string {
	var parts []string
	if start, ok := m.markers.Start(); ok {
		parts = append(parts, startStyle.Render(fmt.Sprintf("start %s", formatTime(m.source.TimeAt(start)))))
	}
	if end, ok := m.markers.End(); ok {
		parts = append(parts, endStyle.Render(fmt.Sprintf("end %s", formatTime(m.source.TimeAt(end)))))
	}
	if m.crop != nil {
		parts = append(parts, warningStyle.Render("crop "+m.crop.String()))
	}
	if len(parts) == 0 {
		return statusStyle.Render("no markers")
	}
	return strings.Join(parts, "  ")
}

func (m model) renderHelp() string {
	help := []string{
		"space play/pause • j/l seek ±3s • ,/. frame step • </> speed • 0-9 seek %",
		"s/e mark start/end • a/d jump to marker • o output path • enter export • q quit",
	}
	return statusStyle.Render(strings.Join(help, "\n"))
}

func playingIndicator(p *video.Player) string {
	if p.Playing() {
		return "  ▶"
	}
	return ""
}

// renderTimeline draws the scrub bar with the cursor and both markers.
// Marker cells win over the cursor so a mark at the current position stays
// visible.
func renderTimeline(p *video.Player, markers *selection.Markers, width int) string {
	if width < 2 {
		return ""
	}
	last := p.Source().FrameCount() - 1
	cells := make([]string, width)
	for i := range cells {
		cells[i] = "─"
	}
	place := func(frame int) int {
		if last <= 0 {
			return 0
		}
		idx := frame * (width - 1) / last
		if idx < 0 {
			idx = 0
		}
		if idx >= width {
			idx = width - 1
		}
		return idx
	}
	cells[place(p.Frame())] = cursorStyle.Render("┃")
	if start, ok := markers.Start(); ok {
		cells[place(start)] = startStyle.Render("S")
	}
	if end, ok := markers.End(); ok {
		cells[place(end)] = endStyle.Render("E")
	}
	return strings.Join(cells, "")
}

func formatTime(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
