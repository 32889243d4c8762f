package validation

import (
	"errors"
	"fmt"

	"ytgrab/internal/domain/consts"
	"ytgrab/internal/models"
)

// ValidateSettingsModel validates and normalizes the loaded settings.
func ValidateSettingsModel(s *models.Settings) error {
	if s == nil {
		return errors.New("nil settings")
	}
	var err error

	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("invalid port %d", s.Port)
	}

	switch s.Strategy {
	case "":
		s.Strategy = consts.StrategyStream
	case consts.StrategySave, consts.StrategyStream:
	default:
		return fmt.Errorf("invalid download strategy %q, want %q or %q", s.Strategy, consts.StrategySave, consts.StrategyStream)
	}

	switch s.Extractor {
	case "":
		s.Extractor = consts.ExtractorYtdlp
	case consts.ExtractorYtdlp, consts.ExtractorNative:
	default:
		return fmt.Errorf("invalid extractor %q, want %q or %q", s.Extractor, consts.ExtractorYtdlp, consts.ExtractorNative)
	}

	// Saving to disk is done by yt-dlp itself.
	if s.Strategy == consts.StrategySave && s.Extractor != consts.ExtractorYtdlp {
		return fmt.Errorf("strategy %q requires extractor %q", consts.StrategySave, consts.ExtractorYtdlp)
	}

	if s.MP3Bitrate == 0 {
		s.MP3Bitrate = consts.DefaultBitrate
	}
	if s.MP3Bitrate < 32 || s.MP3Bitrate > consts.MaxBitrate {
		return fmt.Errorf("mp3 bitrate %dk out of range 32-%d", s.MP3Bitrate, consts.MaxBitrate)
	}

	if s.ExtractTimeout, err = ValidateTimeout(s.ExtractTimeout, consts.DefaultExtractTimeout); err != nil {
		return fmt.Errorf("invalid extract timeout: %w", err)
	}
	if s.SocketTimeout, err = ValidateTimeout(s.SocketTimeout, consts.DefaultSocketTimeout); err != nil {
		return fmt.Errorf("invalid socket timeout: %w", err)
	}

	if s.TempDir != "" {
		if _, err = ValidateDirectory(s.TempDir, true); err != nil {
			return fmt.Errorf("invalid temp directory %q in settings: %w", s.TempDir, err)
		}
	}

	if s.Extractor == consts.ExtractorYtdlp {
		if s.YtdlpPath, err = ValidateExecutable(s.YtdlpPath); err != nil {
			return fmt.Errorf("invalid yt-dlp path: %w", err)
		}
	}
	if s.FFmpegPath, err = ValidateExecutable(s.FFmpegPath); err != nil {
		return fmt.Errorf("invalid ffmpeg path: %w", err)
	}

	if err = ValidateCookiesFromBrowser(s.CookiesFromBrowser); err != nil {
		return err
	}
	if s.CookieFile != "" {
		if _, err = ValidateFile(s.CookieFile); err != nil {
			return fmt.Errorf("invalid cookie file: %w", err)
		}
	}

	s.DebugLevel = ValidateLoggingLevel(s.DebugLevel)
	return nil
}
