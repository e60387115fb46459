package fsutil

import (
	"os"
	"os/user"
	"path/filepath"
	"testing"
)

func TestResolveVideoPathEmpty(t *testing.T) {
	got, err := ResolveVideoPath("   ")
	if err != nil {
		t.Fatalf("resolve empty: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty path, got %s", got)
	}
}

func TestResolveVideoPathExisting(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "clip.mp4")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	got, err := ResolveVideoPath(file)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != file {
		t.Fatalf("expected %s, got %s", file, got)
	}
}

func TestResolveVideoPathMissing(t *testing.T) {
	tmp := t.TempDir()
	if _, err := ResolveVideoPath(filepath.Join(tmp, "missing.mp4")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestResolveVideoPathRejectsDirectory(t *testing.T) {
	tmp := t.TempDir()
	if _, err := ResolveVideoPath(tmp); err == nil {
		t.Fatalf("expected error for directory")
	}
}

func TestResolveVideoPathExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	file := filepath.Join(home, "clip.mp4")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	got, err := ResolveVideoPath("~/clip.mp4")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != file {
		t.Fatalf("expected %s, got %s", file, got)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/videos/trip.mp4", "/videos/trip.gif"},
		{"/videos/trip.MKV", "/videos/trip.gif"},
		{"/videos/noext", "/videos/noext.gif"},
	}
	for _, tt := range tests {
		if got := DefaultOutputPath(tt.in); got != tt.want {
			t.Errorf("DefaultOutputPath(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestEnsureGifExtension(t *testing.T) {
	if got := EnsureGifExtension("/tmp/out"); got != "/tmp/out.gif" {
		t.Fatalf("expected .gif appended, got %s", got)
	}
	if got := EnsureGifExtension("/tmp/out.GIF"); got != "/tmp/out.GIF" {
		t.Fatalf("expected path unchanged, got %s", got)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if v, err := ExpandPath("~"); err != nil || v != home {
		t.Fatalf("ExpandPath ~ failed: %v %s", err, v)
	}
	if v, err := ExpandPath("~/sub"); err != nil || v != filepath.Join(home, "sub") {
		t.Fatalf("ExpandPath ~/sub failed: %v %s", err, v)
	}
	if v, err := ExpandPath("relative/path"); err != nil || v != "relative/path" {
		t.Fatalf("expected relative path unchanged, got %s %v", v, err)
	}
	if _, err := ExpandPath("~no_such_user/foo"); err == nil {
		t.Fatalf("expected error for unknown user")
	}
	if current, err := user.Current(); err == nil {
		if v, err := ExpandPath("~" + current.Username); err != nil || v != current.HomeDir {
			t.Fatalf("expected home dir %s, got %s (%v)", current.HomeDir, v, err)
		}
	}
}

func TestSplitUserPath(t *testing.T) {
	name, rest := splitUserPath("~alice/videos")
	if name != "alice" || rest != "/videos" {
		t.Fatalf("unexpected split %s %s", name, rest)
	}
	name, rest = splitUserPath("~bob")
	if name != "bob" || rest != "" {
		t.Fatalf("unexpected split %s %s", name, rest)
	}
}
