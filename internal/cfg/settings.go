package cfg

import (
	"ytgrab/internal/domain/keys"
	"ytgrab/internal/models"
	"ytgrab/internal/validation"

	"github.com/spf13/viper"
)

// Load builds validated Settings from v.
func Load(v *viper.Viper) (*models.Settings, error) {
	s := &models.Settings{
		Port:               v.GetInt(keys.Port),
		Strategy:           v.GetString(keys.Strategy),
		Extractor:          v.GetString(keys.Extractor),
		FilterFormats:      v.GetBool(keys.FilterFormats),
		SyntheticFilenames: v.GetBool(keys.SyntheticFilenames),
		MP3Bitrate:         v.GetInt(keys.MP3Bitrate),
		TempDir:            v.GetString(keys.TempDir),

		YtdlpPath:      v.GetString(keys.YtdlpPath),
		FFmpegPath:     v.GetString(keys.FFmpegPath),
		ExtractTimeout: v.GetDuration(keys.ExtractTimeout),
		SocketTimeout:  v.GetDuration(keys.SocketTimeout),

		CookiesFromBrowser: v.GetString(keys.CookiesFromBrowser),
		CookieFile:         v.GetString(keys.CookieFile),

		HistoryDB:  v.GetString(keys.HistoryDB),
		LogFile:    v.GetString(keys.LogFile),
		DebugLevel: v.GetInt(keys.DebugLevel),
	}

	if err := validation.ValidateSettingsModel(s); err != nil {
		return nil, err
	}
	return s, nil
}
