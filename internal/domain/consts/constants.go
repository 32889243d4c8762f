// Package consts holds various global, unchanging values.
package consts

// DefaultPort is used when neither PORT nor --port is set.
const DefaultPort = 5000

// Strategies.
const (
	StrategySave   = "save"
	StrategyStream = "stream"
)

// Extractors.
const (
	ExtractorYtdlp  = "ytdlp"
	ExtractorNative = "native"
)

// TypeMP3 is the 'type' query value selecting audio output.
const TypeMP3 = "mp3"

// Fallback labels and names.
const (
	QualityUnknown  = "Unknown"
	QualityAudio    = "Audio"
	DefaultTitle    = "video"
	DefaultExt      = "mp4"
	AudioExt        = "mp3"
	TempFilePrefix  = "ytgrab-"
	DefaultBitrate  = 128
	MaxBitrate      = 320
	MaxDebugLevel   = 5
	HistoryDefLimit = 20
)

// MIME types.
const (
	MIMEAudioMPEG = "audio/mpeg"
	MIMEVideoMP4  = "video/mp4"
	MIMEJSON      = "application/json"
)

// PlatformDomains are the registrable domains (eTLD+1) accepted as video URLs.
var PlatformDomains = map[string]bool{
	"youtube.com":          true,
	"youtu.be":             true,
	"youtube-nocookie.com": true,
}

// ChallengePhrases are lowercase fragments of the platform's bot-verification message.
var ChallengePhrases = [...]string{
	"confirm you’re not a bot", // Curly apostrophe
	"confirm you're not a bot", // Straight apostrophe
	"not a robot",
	"sign in to confirm",
}

// ValidBrowsers lists cookie sources accepted by yt-dlp's --cookies-from-browser.
var ValidBrowsers = map[string]bool{
	"brave":    true,
	"chrome":   true,
	"chromium": true,
	"edge":     true,
	"firefox":  true,
	"opera":    true,
	"safari":   true,
	"vivaldi":  true,
}

// VerificationHint is shown to callers when the platform demands human verification.
const VerificationHint = "YouTube is asking to confirm this request is not from a bot. Try again later or use a different link."
