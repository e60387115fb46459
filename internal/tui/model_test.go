package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Valentin-Guillet/GifExtractor/internal/video"
)

func testSource() video.Source {
	return video.Source{
		Path:      "/videos/clip.mp4",
		Duration:  10 * time.Second,
		FrameRate: 10,
		Width:     640,
		Height:    480,
	}
}

func loadedModel(t *testing.T) model {
	t.Helper()
	m := newModel(Options{VideoPath: "/videos/clip.mp4", FPS: 15, OptimizeEffort: 3})
	modelAny, _ := m.handleSourceLoaded(sourceLoadedMsg{source: testSource()})
	return modelAny.(model)
}

func TestModelHandleSourceLoaded(t *testing.T) {
	m := loadedModel(t)
	if m.loading {
		t.Fatalf("expected loading cleared")
	}
	if m.player == nil {
		t.Fatalf("expected player created")
	}
	if m.source.FrameCount() != 100 {
		t.Fatalf("expected 100 frames, got %d", m.source.FrameCount())
	}
}

func TestModelHandleSourceLoadedError(t *testing.T) {
	m := newModel(Options{VideoPath: "/videos/clip.mp4"})
	modelAny, _ := m.handleSourceLoaded(sourceLoadedMsg{err: errors.New("no such file")})
	m = modelAny.(model)
	if m.loadErr == nil {
		t.Fatalf("expected load error retained")
	}
	if !strings.Contains(m.View(), "no such file") {
		t.Fatalf("expected error in view, got %q", m.View())
	}
}

func TestModelMarkAndJumpKeys(t *testing.T) {
	m := loadedModel(t)
	m.player.Seek(20)
	modelAny, _ := m.handleKeyMsg(keyMsg("s"))
	m = modelAny.(model)
	m.player.Seek(60)
	modelAny, _ = m.handleKeyMsg(keyMsg("e"))
	m = modelAny.(model)
	start, end, ok := m.markers.Range()
	if !ok || start != 20 || end != 60 {
		t.Fatalf("expected range 20..60, got %d..%d ok=%v", start, end, ok)
	}
	modelAny, _ = m.handleKeyMsg(keyMsg("a"))
	m = modelAny.(model)
	if m.player.Frame() != 20 {
		t.Fatalf("expected jump to start, at frame %d", m.player.Frame())
	}
	modelAny, _ = m.handleKeyMsg(keyMsg("d"))
	m = modelAny.(model)
	if m.player.Frame() != 60 {
		t.Fatalf("expected jump to end, at frame %d", m.player.Frame())
	}
	modelAny, _ = m.handleKeyMsg(keyMsg("x"))
	m = modelAny.(model)
	if _, _, ok := m.markers.Range(); ok {
		t.Fatalf("expected markers cleared")
	}
}

func TestModelPlaybackKeys(t *testing.T) {
	m := loadedModel(t)
	modelAny, cmd := m.handleKeyMsg(keyMsg(" "))
	m = modelAny.(model)
	if !m.player.Playing() {
		t.Fatalf("expected playback started")
	}
	if cmd == nil {
		t.Fatalf("expected tick command on play")
	}
	modelAny, _ = m.handleKeyMsg(keyMsg("."))
	m = modelAny.(model)
	if m.player.Playing() {
		t.Fatalf("expected frame step to pause")
	}
	modelAny, _ = m.handleKeyMsg(keyMsg("5"))
	m = modelAny.(model)
	if m.player.Frame() != 50 {
		t.Fatalf("expected 50%% seek, at frame %d", m.player.Frame())
	}
}

func TestModelPlayTickAdvances(t *testing.T) {
	m := loadedModel(t)
	m.player.Play()
	m.lastTick = time.Now()
	modelAny, cmd := m.handlePlayTick(playTickMsg(m.lastTick.Add(playTickInterval)))
	m = modelAny.(model)
	if m.player.Frame() != 2 {
		t.Fatalf("expected advance by 2 frames at 10fps/200ms, got %d", m.player.Frame())
	}
	if cmd == nil {
		t.Fatalf("expected next tick scheduled while playing")
	}
}

func TestModelPlayTickStopsAtEnd(t *testing.T) {
	m := loadedModel(t)
	m.player.Seek(99)
	m.player.Play()
	m.lastTick = time.Now()
	modelAny, cmd := m.handlePlayTick(playTickMsg(m.lastTick.Add(playTickInterval)))
	m = modelAny.(model)
	if m.player.Playing() {
		t.Fatalf("expected pause at end of video")
	}
	if cmd != nil {
		t.Fatalf("expected no further tick after the end")
	}
}

func TestModelExportRequiresMarkers(t *testing.T) {
	m := loadedModel(t)
	modelAny, cmd := m.handleKeyMsg(keyMsg("enter"))
	m = modelAny.(model)
	if cmd != nil {
		t.Fatalf("expected no export command without markers")
	}
	if !strings.Contains(m.statusMessage, "Mark start") {
		t.Fatalf("unexpected status %q", m.statusMessage)
	}
}

func TestModelExportDoneStatus(t *testing.T) {
	m := loadedModel(t)
	m.exporting = true
	modelAny, _ := m.handleExportDone(exportDoneMsg{err: errors.New("encode failed")})
	m = modelAny.(model)
	if m.exporting {
		t.Fatalf("expected exporting cleared")
	}
	if !strings.Contains(m.statusMessage, "Export failed") {
		t.Fatalf("unexpected status %q", m.statusMessage)
	}
}

func TestModelOutputEditing(t *testing.T) {
	m := loadedModel(t)
	modelAny, _ := m.handleKeyMsg(keyMsg("o"))
	m = modelAny.(model)
	if !m.editingOutput {
		t.Fatalf("expected output editing mode")
	}
	modelAny, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEnter})
	m = modelAny.(model)
	if m.editingOutput {
		t.Fatalf("expected editing mode left on enter")
	}
}

func TestRenderTimelineMarkers(t *testing.T) {
	m := loadedModel(t)
	m.markers.MarkStart(0)
	m.markers.MarkEnd(99)
	line := renderTimeline(m.player, &m.markers, 20)
	if !strings.Contains(line, "S") || !strings.Contains(line, "E") {
		t.Fatalf("expected both markers in timeline, got %q", line)
	}
}

func keyMsg(value string) tea.KeyMsg {
	if value == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	if value == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(value)}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(value)}
}
