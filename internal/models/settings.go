package models

import "time"

// Settings holds the loaded program configuration.
type Settings struct {
	Port               int
	Strategy           string
	Extractor          string
	FilterFormats      bool
	SyntheticFilenames bool
	MP3Bitrate         int
	TempDir            string

	YtdlpPath      string
	FFmpegPath     string
	ExtractTimeout time.Duration
	SocketTimeout  time.Duration

	CookiesFromBrowser string
	CookieFile         string

	HistoryDB  string
	LogFile    string
	DebugLevel int
}
