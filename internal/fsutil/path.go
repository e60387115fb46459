package fsutil

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// ResolveVideoPath expands and validates a video path supplied on the command
// line. An empty input is not an error: the application then starts with no
// video loaded.
func ResolveVideoPath(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", nil
	}
	expanded, err := ExpandPath(trimmed)
	if err != nil {
		return "", fmt.Errorf("cannot expand video path %q: %w", trimmed, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("cannot resolve video path %q: %w", expanded, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access video path %q: %w", abs, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("video path %q is not a regular file", abs)
	}
	return abs, nil
}

// DefaultOutputPath derives a GIF output path next to the source video.
func DefaultOutputPath(videoPath string) string {
	ext := filepath.Ext(videoPath)
	return strings.TrimSuffix(videoPath, ext) + ".gif"
}

// EnsureGifExtension appends .gif when the chosen path lacks it.
func EnsureGifExtension(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".gif") {
		return path
	}
	return path + ".gif"
}

// ExpandPath resolves a leading ~ or ~user prefix to the matching home
// directory. Paths without a tilde are returned unchanged.
func ExpandPath(p string) (string, error) {
	if p == "" || p[0] != '~' {
		return p, nil
	}
	if len(p) == 1 {
		return os.UserHomeDir()
	}
	if p[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, p[2:]), nil
	}
	username, rest := splitUserPath(p)
	usr, err := user.Lookup(username)
	if err != nil {
		return "", err
	}
	if rest == "" {
		return usr.HomeDir, nil
	}
	return filepath.Join(usr.HomeDir, rest), nil
}

func splitUserPath(p string) (string, string) {
	sep := strings.IndexRune(p, '/')
	if sep == -1 {
		return p[1:], ""
	}
	return p[1:sep], p[sep:]
}
