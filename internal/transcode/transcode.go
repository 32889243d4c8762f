// Package transcode converts media streams with ffmpeg.
package transcode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"

	"ytgrab/internal/domain/command"
	"ytgrab/internal/domain/consts"
	"ytgrab/internal/domain/errconsts"
	"ytgrab/internal/utils/procio"
)

var (
	// ErrUnsupportedCodec is returned for target codecs with no known encoder.
	ErrUnsupportedCodec = errors.New("unsupported target codec")
	// ErrFailed wraps transcoder process failures.
	ErrFailed = errors.New("transcode failed")
)

// Transcoder converts an input stream into another codec.
type Transcoder interface {
	// Transcode takes ownership of src. Closing the returned reader closes src.
	Transcode(ctx context.Context, src io.ReadCloser, codec string, bitrateKbps int) (io.ReadCloser, error)
}

// FFmpeg transcodes through an ffmpeg subprocess, stdin to stdout.
type FFmpeg struct {
	path string
}

// NewFFmpeg returns an ffmpeg transcoder for the given executable.
func NewFFmpeg(path string) *FFmpeg {
	if path == "" {
		path = command.FFmpeg
	}
	return &FFmpeg{path: path}
}

// Transcode pipes src through ffmpeg and returns the encoded output stream.
func (f *FFmpeg) Transcode(ctx context.Context, src io.ReadCloser, codec string, bitrateKbps int) (io.ReadCloser, error) {
	args, err := buildArgs(codec, bitrateKbps)
	if err != nil {
		src.Close()
		return nil, err
	}

	in := &recordingReader{r: src}
	cmd := exec.CommandContext(ctx, f.path, args...)
	cmd.Stdin = in

	r, err := procio.Start(cmd, func(stderr string, exitErr error) error {
		// A failing source is the more useful cause.
		if srcErr := in.Err(); srcErr != nil {
			return srcErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ErrFailed, ctxErr)
		}
		if stderr != "" {
			return fmt.Errorf("%w: "+errconsts.FFmpegFailure+": %s", ErrFailed, exitErr, lastLine(stderr))
		}
		return fmt.Errorf("%w: "+errconsts.FFmpegFailure, ErrFailed, exitErr)
	}, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailed, err)
	}
	return r, nil
}

// buildArgs returns ffmpeg arguments reading pipe:0 and writing pipe:1.
func buildArgs(codec string, bitrateKbps int) ([]string, error) {
	enc, ok := command.AudioEncoders[codec]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCodec, codec)
	}
	if bitrateKbps <= 0 {
		bitrateKbps = consts.DefaultBitrate
	}
	return []string{
		command.FFHideBanner,
		command.FFLogLevel, command.FFLogLevelError,
		command.FFInput, command.FFPipeIn,
		command.FFNoVideo,
		command.FFAudioCodec, enc[0],
		command.FFAudioBitrate, strconv.Itoa(bitrateKbps) + "k",
		command.FFFormat, enc[1],
		command.FFPipeOut,
	}, nil
}

// recordingReader remembers the first non-EOF read error of its source.
type recordingReader struct {
	r   io.Reader
	mu  sync.Mutex
	err error
}

func (rr *recordingReader) Read(p []byte) (int, error) {
	n, err := rr.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		rr.mu.Lock()
		if rr.err == nil {
			rr.err = err
		}
		rr.mu.Unlock()
	}
	return n, err
}

// Err returns the recorded source error.
func (rr *recordingReader) Err() error {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return rr.err
}

func lastLine(s string) string {
	end := len(s)
	for end > 0 && (s[end-1] == '\n' || s[end-1] == '\r' || s[end-1] == ' ') {
		end--
	}
	start := end
	for start > 0 && s[start-1] != '\n' {
		start--
	}
	return s[start:end]
}
