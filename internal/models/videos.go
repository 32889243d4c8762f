package models

import "strings"

// VideoMetadata is the caller-facing description of a single video.
type VideoMetadata struct {
	Title         string             `json:"title"`
	Author        string             `json:"author"`
	Thumbnail     string             `json:"thumbnail"`
	LengthSeconds int64              `json:"lengthSeconds"`
	UploadDate    string             `json:"uploadDate,omitempty"` // YYYY-MM-DD
	Formats       []FormatDescriptor `json:"formats"`
}

// FormatDescriptor describes one rendition offered by the platform.
type FormatDescriptor struct {
	FormatID     string `json:"itag"`
	Container    string `json:"container"`
	QualityLabel string `json:"qualityLabel"`
	HasVideo     bool   `json:"hasVideo"`
	HasAudio     bool   `json:"hasAudio"`
	MimeType     string `json:"mimeType"`
	Bitrate      int64  `json:"bitrate,omitempty"`  // kbps
	Filesize     int64  `json:"filesize,omitempty"` // bytes
}

// FindFormat returns the format whose identifier equals id.
//
// Identifiers are compared as strings, never as numbers.
func (m *VideoMetadata) FindFormat(id string) (FormatDescriptor, bool) {
	if m == nil {
		return FormatDescriptor{}, false
	}
	for _, f := range m.Formats {
		if f.FormatID == id {
			return f, true
		}
	}
	return FormatDescriptor{}, false
}

// BaseMIME returns the MIME type without codec parameters.
func (f FormatDescriptor) BaseMIME() string {
	mt, _, _ := strings.Cut(f.MimeType, ";")
	return strings.TrimSpace(mt)
}
