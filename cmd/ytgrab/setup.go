package main

import (
	"context"
	"fmt"
	"time"

	"ytgrab/internal/browser"
	"ytgrab/internal/database"
	"ytgrab/internal/database/repo"
	"ytgrab/internal/domain/consts"
	"ytgrab/internal/domain/logger"
	"ytgrab/internal/downloads"
	"ytgrab/internal/extract"
	"ytgrab/internal/metadata"
	"ytgrab/internal/models"
	"ytgrab/internal/server"
	"ytgrab/internal/transcode"
	"ytgrab/internal/utils/logging"
)

// serve wires the components described by s and runs the HTTP server until ctx ends.
func serve(ctx context.Context, s *models.Settings) error {
	startTime := time.Now()

	if err := logger.Pl.SetupLogging(logging.Options{
		LogFile:    s.LogFile,
		DebugLevel: s.DebugLevel,
	}); err != nil {
		return fmt.Errorf("could not set up logging: %w", err)
	}
	defer logger.Pl.Close()

	logger.Pl.I("%s started at: %v (strategy %q, extractor %q)",
		consts.ProgramName, startTime.Format("2006-01-02 15:04:05.00 MST"), s.Strategy, s.Extractor)

	ext, ytdlp, err := initExtractor(s)
	if err != nil {
		return err
	}

	resolver := metadata.NewResolver(ext, metadata.Options{
		Timeout:       s.ExtractTimeout,
		FilterFormats: s.FilterFormats,
	})

	strategy, err := initStrategy(ctx, s, ext, ytdlp)
	if err != nil {
		return err
	}

	tracker, closeHistory, err := initHistory(s)
	if err != nil {
		return err
	}
	defer closeHistory()

	// Background ctx so records from requests draining during shutdown are still written.
	tracker.Start(context.Background())
	defer tracker.Stop()

	srv := server.New(resolver, downloads.NewPipe(resolver, strategy), tracker)
	err = server.StartServer(ctx, fmt.Sprintf(":%d", s.Port), srv.NewRouter())

	logger.Pl.I("%s stopped after %v", consts.ProgramName, time.Since(startTime).Round(time.Second))
	return err
}

// initExtractor builds the configured extractor.
//
// The yt-dlp extractor is also returned on its own for strategies that save through it.
func initExtractor(s *models.Settings) (extract.Extractor, *extract.YtDlp, error) {
	switch s.Extractor {
	case consts.ExtractorNative:
		jar, _, err := browser.NewJar(s.CookiesFromBrowser, s.CookieFile)
		if err != nil {
			return nil, nil, fmt.Errorf("could not load cookies: %w", err)
		}
		return extract.NewNative(extract.NewHTTPClient(jar, s.SocketTimeout)), nil, nil

	default:
		y := extract.NewYtDlp(extract.YtDlpConfig{
			Path:               s.YtdlpPath,
			FFmpegPath:         s.FFmpegPath,
			SocketTimeout:      s.SocketTimeout,
			CookiesFromBrowser: s.CookiesFromBrowser,
			CookieFile:         s.CookieFile,
		})
		return y, y, nil
	}
}

// initStrategy builds the configured download strategy.
func initStrategy(ctx context.Context, s *models.Settings, ext extract.Extractor, ytdlp *extract.YtDlp) (downloads.Strategy, error) {
	if s.Strategy != consts.StrategySave {
		return downloads.NewStreamThenPipe(ext, transcode.NewFFmpeg(s.FFmpegPath), s.MP3Bitrate), nil
	}
	if ytdlp == nil {
		return nil, fmt.Errorf("strategy %q requires extractor %q", consts.StrategySave, consts.ExtractorYtdlp)
	}

	sts := downloads.NewSaveThenServe(ytdlp, downloads.SaveOptions{
		TempDir:            s.TempDir,
		Bitrate:            s.MP3Bitrate,
		SyntheticFilenames: s.SyntheticFilenames,
	})
	if n := sts.Sweep(consts.SweepMaxAge); n > 0 {
		logger.Pl.I("Removed %d stale temporary download(s)", n)
	}
	go startSweeper(ctx, sts)
	return sts, nil
}

// initHistory opens the history database when one is configured.
//
// The returned tracker is nil (and records nothing) otherwise.
func initHistory(s *models.Settings) (*downloads.HistoryTracker, func(), error) {
	if s.HistoryDB == "" {
		return nil, func() {}, nil
	}

	db, err := database.InitDB(s.HistoryDB)
	if err != nil {
		return nil, nil, err
	}
	store := repo.NewHistoryStore(db.DB)
	logger.Pl.I("Recording request history in %q", s.HistoryDB)

	return downloads.NewHistoryTracker(store), func() {
		if err := store.Close(); err != nil {
			logger.Pl.E("Failed to close history database: %v", err)
		}
	}, nil
}
