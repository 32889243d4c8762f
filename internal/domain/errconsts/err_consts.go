// Package errconsts holds constant error messages
package errconsts

// Programs
const (
	YTDLPFailure  = "yt-dlp command failed: %w"
	FFmpegFailure = "ffmpeg command failed: %w"
)

// Caller-facing messages
const (
	MissingURL       = "Missing URL parameter"
	MissingURLOrItag = "Missing URL or itag parameter"
	InvalidURL       = "Invalid YouTube URL"
	FormatNotFound   = "Selected format is unavailable"
	InfoFailed       = "Failed to fetch video info"
	DownloadFailed   = "Download failed"
	Verification     = "Human verification required"
)

// File
const (
	ConfigFileLoadFail = "failed to load config file %q: %w"
)
