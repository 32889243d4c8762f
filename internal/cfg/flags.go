package cfg

import (
	"fmt"

	"ytgrab/internal/domain/command"
	"ytgrab/internal/domain/consts"
	"ytgrab/internal/domain/keys"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// initProgramFlags registers the persistent program flags and binds them into v.
func initProgramFlags(rootCmd *cobra.Command, v *viper.Viper) error {
	rootCmd.PersistentFlags().String(keys.ConfigFile, "", "Config file path (any format viper reads, e.g. yaml, toml, json)")

	// Server
	rootCmd.PersistentFlags().IntP(keys.Port, "p", consts.DefaultPort, "Port to listen on (also read from $PORT)")
	rootCmd.PersistentFlags().String(keys.HistoryDB, "", "SQLite file for request history (disabled when empty)")

	// Download behavior
	rootCmd.PersistentFlags().String(keys.Strategy, consts.StrategyStream, "Download strategy (save or stream)")
	rootCmd.PersistentFlags().String(keys.Extractor, consts.ExtractorYtdlp, "Metadata extractor (ytdlp or native)")
	rootCmd.PersistentFlags().Bool(keys.FilterFormats, false, "Drop formats carrying neither video nor audio")
	rootCmd.PersistentFlags().Bool(keys.SyntheticFilenames, false, "Name saved downloads after the temp file instead of the title")
	rootCmd.PersistentFlags().Int(keys.MP3Bitrate, consts.DefaultBitrate, "MP3 bitrate in kbps")
	rootCmd.PersistentFlags().String(keys.TempDir, "", "Directory for temporary downloads (default: system temp dir)")

	// External tools
	rootCmd.PersistentFlags().String(keys.YtdlpPath, command.YTDLP, "yt-dlp executable")
	rootCmd.PersistentFlags().String(keys.FFmpegPath, command.FFmpeg, "ffmpeg executable")
	rootCmd.PersistentFlags().Duration(keys.ExtractTimeout, consts.DefaultExtractTimeout, "Timeout for each metadata extraction")
	rootCmd.PersistentFlags().Duration(keys.SocketTimeout, consts.DefaultSocketTimeout, "Socket timeout for outbound requests")

	// Cookies
	rootCmd.PersistentFlags().String(keys.CookiesFromBrowser, "", "Browser to import cookies from (e.g. firefox, chrome:Profile 1)")
	rootCmd.PersistentFlags().String(keys.CookieFile, "", "Cookie file (Netscape for yt-dlp, browser cookie DB for native)")

	// Logging
	rootCmd.PersistentFlags().IntP(keys.DebugLevel, "d", 0, "Debug level (0-5)")
	rootCmd.PersistentFlags().String(keys.LogFile, "", "Also write JSON logs to this file")

	if err := bindFlags(v, rootCmd.PersistentFlags()); err != nil {
		return err
	}

	// PORT is honored unprefixed, YTGRAB_PORT takes precedence.
	return v.BindEnv(keys.Port, keys.EnvPrefix+"_"+keys.PortEnv, keys.PortEnv)
}

// bindFlags binds every flag in fs to the viper key of the same name.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) (err error) {
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		if bindErr := v.BindPFlag(f.Name, f); bindErr != nil {
			err = fmt.Errorf("failed to bind flag %q: %w", f.Name, bindErr)
		}
	})
	return err
}
