package extract

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"ytgrab/internal/domain/command"
	"ytgrab/internal/domain/consts"
	"ytgrab/internal/domain/errconsts"
	"ytgrab/internal/domain/logger"
	"ytgrab/internal/utils/procio"
	"ytgrab/internal/validation"
)

// YtDlpConfig configures the yt-dlp extractor.
type YtDlpConfig struct {
	Path               string // yt-dlp executable
	FFmpegPath         string // passed as --ffmpeg-location when it is a path
	SocketTimeout      time.Duration
	CookiesFromBrowser string
	CookieFile         string
}

// YtDlp drives the yt-dlp command line program.
type YtDlp struct {
	cfg YtDlpConfig
}

// NewYtDlp returns a yt-dlp backed extractor.
func NewYtDlp(cfg YtDlpConfig) *YtDlp {
	if cfg.Path == "" {
		cfg.Path = command.YTDLP
	}
	if cfg.SocketTimeout <= 0 {
		cfg.SocketTimeout = consts.DefaultSocketTimeout
	}
	return &YtDlp{cfg: cfg}
}

// Validate performs a syntactic platform URL check.
func (y *YtDlp) Validate(rawURL string) error {
	if !validation.IsValidVideoURL(rawURL) {
		return ErrInvalidURL
	}
	return nil
}

// Extract runs "yt-dlp -J" and parses its output.
func (y *YtDlp) Extract(ctx context.Context, rawURL string) (*Info, error) {
	args := make([]string, 0, 16)
	args = append(args, command.OutputJSON)
	args = append(args, y.commonArgs()...)
	args = append(args, "--", rawURL)

	var stdout bytes.Buffer
	stderr := procio.NewTailBuffer(0)

	cmd := exec.CommandContext(ctx, y.cfg.Path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = consts.ProcessWaitDelay

	logger.Pl.D(2, "Executing metadata command: %s", cmd.String())
	if err := cmd.Run(); err != nil {
		return nil, y.exitError(ctx, stderr.String(), err)
	}

	info, err := parseYtdlpInfo(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if info.URL == "" {
		info.URL = rawURL
	}
	return info, nil
}

// OpenFormatStream runs "yt-dlp -f <id> -o -" and returns its stdout.
func (y *YtDlp) OpenFormatStream(ctx context.Context, info *Info, formatID string) (io.ReadCloser, int64, error) {
	f, ok := info.Format(formatID)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrFormatNotFound, formatID)
	}

	args := make([]string, 0, 20)
	args = append(args,
		command.Format, f.ID,
		command.Output, command.Stdout,
		command.Quiet,
		command.NoProgress,
	)
	args = append(args, y.commonArgs()...)
	args = append(args, "--", info.URL)

	cmd := exec.CommandContext(ctx, y.cfg.Path, args...)
	r, err := procio.Start(cmd, func(stderr string, exitErr error) error {
		return y.exitError(ctx, stderr, exitErr)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	size := int64(-1)
	if f.Filesize > 0 {
		size = f.Filesize
	}
	return r, size, nil
}

// SaveRequest describes a one-shot download to disk.
type SaveRequest struct {
	URL            string
	FormatID       string
	Audio          bool // extract to MP3
	AudioFallback  bool // select bestaudio/best instead of FormatID
	Bitrate        int  // kbps, audio only
	OutputTemplate string
}

// Save downloads a rendition to disk and returns the final file path.
func (y *YtDlp) Save(ctx context.Context, req SaveRequest) (string, error) {
	selector := req.FormatID
	if req.Audio && req.AudioFallback {
		selector = command.BestAudio
	}

	args := make([]string, 0, 24)
	args = append(args,
		command.Format, selector,
		command.Output, req.OutputTemplate,
		command.Print, command.AfterMove,
		command.NoProgress,
	)
	if req.Audio {
		bitrate := req.Bitrate
		if bitrate <= 0 {
			bitrate = consts.DefaultBitrate
		}
		args = append(args,
			command.ExtractAudio,
			command.AudioFormat, consts.AudioExt,
			command.AudioQuality, strconv.Itoa(bitrate)+"K",
		)
	}
	args = append(args, y.commonArgs()...)
	args = append(args, "--", req.URL)

	var stdout bytes.Buffer
	stderr := procio.NewTailBuffer(0)

	cmd := exec.CommandContext(ctx, y.cfg.Path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = consts.ProcessWaitDelay

	logger.Pl.I("Executing download command: %s", cmd.String())
	if err := cmd.Run(); err != nil {
		return "", y.exitError(ctx, stderr.String(), err)
	}

	path := lastLine(stdout.String())
	if path == "" {
		return "", fmt.Errorf("%w: yt-dlp did not report an output file", ErrUnavailable)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: output file %q: %w", ErrUnavailable, path, err)
	}
	if info.Size() == 0 {
		return path, fmt.Errorf("%w: output file %q is empty", ErrUnavailable, path)
	}
	return path, nil
}

// commonArgs returns flags shared by every invocation.
func (y *YtDlp) commonArgs() []string {
	args := []string{
		command.NoPlaylist,
		command.NoWarnings,
		command.SocketTimeout, strconv.Itoa(int(math.Ceil(y.cfg.SocketTimeout.Seconds()))),
	}
	if y.cfg.CookiesFromBrowser != "" {
		args = append(args, command.CookiesFromBrowser, y.cfg.CookiesFromBrowser)
	}
	if y.cfg.CookieFile != "" {
		args = append(args, command.CookiePath, y.cfg.CookieFile)
	}
	if strings.ContainsRune(y.cfg.FFmpegPath, os.PathSeparator) {
		args = append(args, command.FFmpegLocation, y.cfg.FFmpegPath)
	}
	return args
}

// exitError classifies a failed yt-dlp run.
func (y *YtDlp) exitError(ctx context.Context, stderr string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, ctxErr)
	}

	msg := lastErrorLine(stderr)
	if classified := ClassifyMessage(stderr); classified != nil {
		return fmt.Errorf("%w: %s", classified, msg)
	}

	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if msg == "" {
		return fmt.Errorf("%w: "+errconsts.YTDLPFailure, ErrUnavailable, err)
	}
	return fmt.Errorf("%w: %s", ErrUnavailable, msg)
}

// lastLine returns the last non-empty line of s.
func lastLine(s string) string {
	var last string
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			last = line
		}
	}
	return last
}

// lastErrorLine prefers the last "ERROR:" line of yt-dlp's stderr.
func lastErrorLine(stderr string) string {
	var last, lastErr string
	sc := bufio.NewScanner(strings.NewReader(stderr))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		last = line
		if strings.HasPrefix(line, "ERROR:") {
			lastErr = line
		}
	}
	if lastErr != "" {
		return lastErr
	}
	return last
}
