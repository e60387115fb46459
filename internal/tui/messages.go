package tui

import (
	"time"

	"github.com/Valentin-Guillet/GifExtractor/internal/export"
	"github.com/Valentin-Guillet/GifExtractor/internal/video"
)

type sourceLoadedMsg struct {
	source video.Source
	err    error
}

type playTickMsg time.Time

type exportDoneMsg struct {
	result export.Result
	err    error
}
