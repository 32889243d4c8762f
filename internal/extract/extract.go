// Package extract resolves platform URLs into metadata and media streams.
package extract

import (
	"context"
	"errors"
	"io"
	"strings"

	"ytgrab/internal/domain/consts"

	"github.com/kkdai/youtube/v2"
)

var (
	// ErrChallengeRequired is returned when the platform demands human verification.
	ErrChallengeRequired = errors.New("platform requires human verification")
	// ErrInvalidURL is returned for URLs the extractor does not accept.
	ErrInvalidURL = errors.New("invalid video URL")
	// ErrUnavailable covers every other extraction failure.
	ErrUnavailable = errors.New("video unavailable")
	// ErrFormatNotFound is returned when a stream is requested for an unknown format.
	ErrFormatNotFound = errors.New("format not found")
)

// Extractor is an external extraction capability.
type Extractor interface {
	// Validate reports ErrInvalidURL if rawURL cannot be handled.
	Validate(rawURL string) error
	// Extract fetches video metadata and the list of formats.
	Extract(ctx context.Context, rawURL string) (*Info, error)
	// OpenFormatStream opens the media bytes for a format of info.
	// The returned size is -1 when unknown.
	OpenFormatStream(ctx context.Context, info *Info, formatID string) (io.ReadCloser, int64, error)
}

// Info is the raw result of an extraction.
type Info struct {
	ID         string
	URL        string
	Title      string
	Author     string
	Thumbnail  string
	Thumbnails []string
	Duration   float64 // seconds
	UploadDate string  // as reported upstream
	Formats    []Format

	native *youtube.Video
}

// Format is one upstream rendition.
type Format struct {
	ID        string
	Ext       string
	MimeType  string
	Note      string // upstream label, e.g. "720p" or "medium"
	Quality   string // generic indicator, e.g. "1280x720" or "hd720"
	Height    int
	HasVideo  bool
	HasAudio  bool
	AudioKbps float64
	Filesize  int64 // exact size in bytes, 0 when unknown
	SizeHint  int64 // exact or approximate size in bytes
}

// Format returns the format with the given identifier.
func (i *Info) Format(id string) (Format, bool) {
	if i == nil {
		return Format{}, false
	}
	for _, f := range i.Formats {
		if f.ID == id {
			return f, true
		}
	}
	return Format{}, false
}

// ClassifyMessage maps a human-readable upstream message onto a sentinel error.
//
// This is a best-effort fallback for collaborators that only report text.
// It returns nil when nothing matches.
func ClassifyMessage(msg string) error {
	lower := strings.ToLower(msg)
	for _, phrase := range consts.ChallengePhrases {
		if strings.Contains(lower, phrase) {
			return ErrChallengeRequired
		}
	}
	if strings.Contains(lower, "unsupported url") || strings.Contains(lower, "is not a valid url") {
		return ErrInvalidURL
	}
	return nil
}

// IsChallenge reports whether err signals a verification challenge,
// either typed or recognizable from its message.
func IsChallenge(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrChallengeRequired) {
		return true
	}
	return errors.Is(ClassifyMessage(err.Error()), ErrChallengeRequired)
}
