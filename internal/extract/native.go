package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ytgrab/internal/domain/consts"
	"ytgrab/internal/domain/logger"
	"ytgrab/internal/validation"

	"github.com/kkdai/youtube/v2"
)

// Native extracts in-process with github.com/kkdai/youtube.
type Native struct {
	client *youtube.Client
}

// NewNative returns an in-process extractor using httpClient (http.DefaultClient when nil).
func NewNative(httpClient *http.Client) *Native {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Native{client: &youtube.Client{HTTPClient: httpClient}}
}

// NewHTTPClient returns a client for the native extractor.
//
// socketTimeout bounds connecting and waiting for response headers, never the body transfer.
func NewHTTPClient(jar http.CookieJar, socketTimeout time.Duration) *http.Client {
	if socketTimeout <= 0 {
		socketTimeout = consts.DefaultSocketTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: socketTimeout, KeepAlive: 30 * time.Second}).DialContext
	transport.TLSHandshakeTimeout = socketTimeout
	transport.ResponseHeaderTimeout = socketTimeout
	return &http.Client{Jar: jar, Transport: transport}
}

// Validate checks that rawURL is a platform URL carrying an extractable video ID.
// Bare IDs are rejected.
func (n *Native) Validate(rawURL string) error {
	if !validation.IsValidVideoURL(rawURL) {
		return ErrInvalidURL
	}
	if _, err := youtube.ExtractVideoID(rawURL); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	return nil
}

// Extract fetches video details from the platform.
func (n *Native) Extract(ctx context.Context, rawURL string) (*Info, error) {
	logger.Pl.D(2, "Fetching video %q in-process", rawURL)

	v, err := n.client.GetVideoContext(ctx, rawURL)
	if err != nil {
		return nil, nativeError(ctx, err)
	}
	return infoFromVideo(v, rawURL), nil
}

// OpenFormatStream opens the platform stream for the given itag.
func (n *Native) OpenFormatStream(ctx context.Context, info *Info, formatID string) (io.ReadCloser, int64, error) {
	if info == nil || info.native == nil {
		return nil, 0, fmt.Errorf("%w: no in-process video handle", ErrUnavailable)
	}

	var format *youtube.Format
	for i := range info.native.Formats {
		if strconv.Itoa(info.native.Formats[i].ItagNo) == formatID {
			format = &info.native.Formats[i]
			break
		}
	}
	if format == nil {
		return nil, 0, fmt.Errorf("%w: %q", ErrFormatNotFound, formatID)
	}

	rc, size, err := n.client.GetStreamContext(ctx, info.native, format)
	if err != nil {
		return nil, 0, nativeError(ctx, err)
	}
	if size <= 0 {
		size = -1
	}
	return rc, size, nil
}

// infoFromVideo maps a kkdai video onto Info.
func infoFromVideo(v *youtube.Video, rawURL string) *Info {
	info := &Info{
		ID:       v.ID,
		URL:      rawURL,
		Title:    v.Title,
		Author:   v.Author,
		Duration: v.Duration.Seconds(),
		Formats:  make([]Format, 0, len(v.Formats)),
		native:   v,
	}
	if !v.PublishDate.IsZero() {
		info.UploadDate = v.PublishDate.Format("2006-01-02")
	}
	for _, t := range v.Thumbnails {
		if t.URL != "" {
			info.Thumbnails = append(info.Thumbnails, t.URL)
		}
	}

	for _, f := range v.Formats {
		base, _, _ := strings.Cut(f.MimeType, ";")
		kind, sub, _ := strings.Cut(strings.TrimSpace(base), "/")

		nf := Format{
			ID:       strconv.Itoa(f.ItagNo),
			Ext:      sub,
			MimeType: f.MimeType,
			Note:     f.QualityLabel,
			Quality:  f.Quality,
			Height:   f.Height,
			HasVideo: kind == "video",
			HasAudio: kind == "audio" || f.AudioChannels > 0,
			Filesize: f.ContentLength,
			SizeHint: f.ContentLength,
		}
		if nf.HasAudio && !nf.HasVideo && f.Bitrate > 0 {
			nf.AudioKbps = float64(f.Bitrate) / 1000
		}
		info.Formats = append(info.Formats, nf)
	}
	return info
}

// nativeError converts kkdai errors into the package's sentinels.
func nativeError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, ctxErr)
	}

	var status youtube.ErrPlayabiltyStatus
	switch {
	case errors.Is(err, youtube.ErrLoginRequired):
		return fmt.Errorf("%w: %w", ErrChallengeRequired, err)
	case errors.Is(err, youtube.ErrInvalidCharactersInVideoID),
		errors.Is(err, youtube.ErrVideoIDMinLength):
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	case errors.As(err, &status):
		if classified := ClassifyMessage(status.Reason); classified != nil {
			return fmt.Errorf("%w: %w", classified, err)
		}
	}

	if classified := ClassifyMessage(err.Error()); classified != nil {
		return fmt.Errorf("%w: %w", classified, err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
