// Package command holds argument constants for the external tools ytgrab drives.
package command

// yt-dlp
const (
	YTDLP              = "yt-dlp"
	AfterMove          = "after_move:%(filepath)s"
	AudioFormat        = "--audio-format"
	AudioQuality       = "--audio-quality"
	BestAudio          = "bestaudio/best"
	CookiesFromBrowser = "--cookies-from-browser"
	CookiePath         = "--cookies"
	ExtractAudio       = "-x"
	FFmpegLocation     = "--ffmpeg-location"
	Format             = "-f"
	NoPlaylist         = "--no-playlist"
	NoProgress         = "--no-progress"
	NoWarnings         = "--no-warnings"
	Output             = "-o"
	OutputJSON         = "-J"
	Print              = "--print"
	Quiet              = "--quiet"
	SocketTimeout      = "--socket-timeout"
	Stdout             = "-"
)

// ffmpeg
const (
	FFmpeg          = "ffmpeg"
	FFHideBanner    = "-hide_banner"
	FFLogLevel      = "-loglevel"
	FFLogLevelError = "error"
	FFInput         = "-i"
	FFPipeIn        = "pipe:0"
	FFPipeOut       = "pipe:1"
	FFNoVideo       = "-vn"
	FFAudioCodec    = "-c:a"
	FFAudioBitrate  = "-b:a"
	FFFormat        = "-f"
)

// Audio codecs ffmpeg knows how to produce, mapped to their encoder and muxer.
var AudioEncoders = map[string][2]string{
	"mp3":  {"libmp3lame", "mp3"},
	"aac":  {"aac", "adts"},
	"opus": {"libopus", "ogg"},
}
