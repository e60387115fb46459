package selection

import "testing"

func TestMarkersValidOrderedRanges(t *testing.T) {
	const frameCount = 100
	tests := []struct {
		start, end int
		want       bool
	}{
		{0, 0, true},
		{0, 99, true},
		{10, 10, true},
		{50, 99, true},
		{0, 100, false},
		{99, 99, true},
	}
	for _, tt := range tests {
		var m Markers
		m.MarkStart(tt.start)
		m.MarkEnd(tt.end)
		if got := m.Valid(frameCount); got != tt.want {
			t.Errorf("Valid(%d, %d) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestMarkersUnsetInvalid(t *testing.T) {
	var m Markers
	if m.Valid(100) {
		t.Fatalf("empty markers should be invalid")
	}
	m.MarkStart(5)
	if m.Valid(100) {
		t.Fatalf("start-only markers should be invalid")
	}
}

func TestMarkStartClearsEarlierEnd(t *testing.T) {
	var m Markers
	m.MarkEnd(10)
	m.MarkStart(20)
	if _, ok := m.End(); ok {
		t.Fatalf("end marker before new start should be cleared")
	}
	if start, ok := m.Start(); !ok || start != 20 {
		t.Fatalf("expected start 20, got %d %v", start, ok)
	}
}

func TestMarkEndClearsLaterStart(t *testing.T) {
	var m Markers
	m.MarkStart(30)
	m.MarkEnd(10)
	if _, ok := m.Start(); ok {
		t.Fatalf("start marker after new end should be cleared")
	}
}

func TestMarkSameFrameKeepsBoth(t *testing.T) {
	var m Markers
	m.MarkStart(15)
	m.MarkEnd(15)
	start, end, ok := m.Range()
	if !ok || start != 15 || end != 15 {
		t.Fatalf("expected single-frame range, got %d %d %v", start, end, ok)
	}
	if !m.Valid(30) {
		t.Fatalf("single-frame range should be valid")
	}
}

func TestMarkersClampNegative(t *testing.T) {
	var m Markers
	m.MarkStart(-5)
	if start, _ := m.Start(); start != 0 {
		t.Fatalf("negative frame should clamp to 0, got %d", start)
	}
}

func TestMarkersClear(t *testing.T) {
	var m Markers
	m.MarkStart(1)
	m.MarkEnd(2)
	m.Clear()
	if _, _, ok := m.Range(); ok {
		t.Fatalf("expected no range after Clear")
	}
}
