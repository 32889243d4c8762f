package models

import (
	"strings"

	"ytgrab/internal/domain/consts"
)

// OutputKind selects passthrough video or extracted audio.
type OutputKind string

const (
	OutputVideo OutputKind = "video"
	OutputAudio OutputKind = "audio"
)

// ParseOutputKind maps the "type" query value onto an OutputKind.
//
// "mp3" selects audio; anything else selects video.
func ParseOutputKind(t string) OutputKind {
	if strings.EqualFold(strings.TrimSpace(t), consts.TypeMP3) {
		return OutputAudio
	}
	return OutputVideo
}

// DownloadRequest parameterizes a single download.
type DownloadRequest struct {
	URL        string
	FormatID   string
	OutputKind OutputKind
}
