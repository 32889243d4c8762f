// Package keys holds the configuration keys shared by flags, environment variables and config files.
package keys

// Server.
const (
	Port            string = "port"
	PortEnv         string = "PORT"
	ConfigFile      string = "config-file"
	HistoryDB       string = "history-db"
	HistoryLimit    string = "limit"
	HistorySince    string = "since"
	HistoryEndpoint string = "endpoint"
)

// Download behavior.
const (
	Strategy           string = "strategy"
	Extractor          string = "extractor"
	FilterFormats      string = "filter-formats"
	SyntheticFilenames string = "synthetic-filenames"
	MP3Bitrate         string = "mp3-bitrate"
	TempDir            string = "temp-dir"
)

// External tools.
const (
	YtdlpPath      string = "ytdlp-path"
	FFmpegPath     string = "ffmpeg-path"
	ExtractTimeout string = "extract-timeout"
	SocketTimeout  string = "socket-timeout"
)

// Cookies.
const (
	CookiesFromBrowser string = "cookies-from-browser"
	CookieFile         string = "cookie-file"
)

// Logging.
const (
	DebugLevel string = "debug-level"
	LogFile    string = "log-file"
)

// EnvPrefix prefixes every environment variable read through viper (except PORT).
const EnvPrefix = "YTGRAB"
