// Package metadata resolves video URLs into caller-facing metadata.
package metadata

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"ytgrab/internal/domain/consts"
	"ytgrab/internal/domain/errconsts"
	"ytgrab/internal/domain/logger"
	"ytgrab/internal/extract"
	"ytgrab/internal/failures"
	"ytgrab/internal/models"
	"ytgrab/internal/parsing"
)

// Options configure a Resolver.
type Options struct {
	Timeout       time.Duration // bound on each extraction
	FilterFormats bool          // drop formats carrying neither video nor audio
}

// Resolver implements the info lookup.
type Resolver struct {
	ext  extract.Extractor
	opts Options
}

// NewResolver returns a Resolver over ext.
func NewResolver(ext extract.Extractor, opts Options) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = consts.DefaultExtractTimeout
	}
	return &Resolver{ext: ext, opts: opts}
}

// GetInfo returns metadata for rawURL.
func (r *Resolver) GetInfo(ctx context.Context, rawURL string) (*models.VideoMetadata, error) {
	meta, _, err := r.Resolve(ctx, rawURL)
	return meta, err
}

// Resolve returns both the shaped metadata and the raw extraction result.
//
// Nothing is cached; every call performs a fresh extraction.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (*models.VideoMetadata, *extract.Info, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, nil, failures.New(failures.InvalidInput, errconsts.MissingURL)
	}
	if err := r.ext.Validate(rawURL); err != nil {
		return nil, nil, failures.Wrap(failures.InvalidInput, errconsts.InvalidURL, err)
	}

	extractCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	start := time.Now()
	info, err := r.ext.Extract(extractCtx, rawURL)
	if err != nil {
		logger.Pl.E("Extraction of %q failed after %v: %v", rawURL, time.Since(start).Round(time.Millisecond), err)
		return nil, nil, Classify(err, errconsts.InfoFailed)
	}
	logger.Pl.D(1, "Extracted %q (%d formats) in %v", rawURL, len(info.Formats), time.Since(start).Round(time.Millisecond))

	return r.shape(info), info, nil
}

// Classify maps an extraction or streaming error onto a failures.Error.
func Classify(err error, msg string) *failures.Error {
	var fe *failures.Error
	if errors.As(err, &fe) {
		return fe
	}
	switch {
	case extract.IsChallenge(err):
		return failures.Wrap(failures.HumanVerificationRequired, errconsts.Verification, err)
	case errors.Is(err, extract.ErrInvalidURL):
		return failures.Wrap(failures.InvalidInput, errconsts.InvalidURL, err)
	case errors.Is(err, extract.ErrFormatNotFound):
		return failures.Wrap(failures.FormatNotFound, errconsts.FormatNotFound, err)
	}
	return failures.Wrap(failures.UpstreamUnavailable, msg, err)
}

// shape maps raw extraction output into VideoMetadata.
func (r *Resolver) shape(info *extract.Info) *models.VideoMetadata {
	meta := &models.VideoMetadata{
		Title:         info.Title,
		Author:        info.Author,
		Thumbnail:     info.Thumbnail,
		LengthSeconds: int64(info.Duration),
		UploadDate:    parsing.NormalizeUploadDate(info.UploadDate),
		Formats:       make([]models.FormatDescriptor, 0, len(info.Formats)),
	}
	if meta.Thumbnail == "" && len(info.Thumbnails) > 0 {
		meta.Thumbnail = info.Thumbnails[len(info.Thumbnails)-1]
	}

	for _, f := range info.Formats {
		if r.opts.FilterFormats && !f.HasVideo && !f.HasAudio {
			continue
		}
		meta.Formats = append(meta.Formats, Descriptor(f))
	}
	return meta
}

// Descriptor converts one raw format.
func Descriptor(f extract.Format) models.FormatDescriptor {
	return models.FormatDescriptor{
		FormatID:     f.ID,
		Container:    f.Ext,
		QualityLabel: QualityLabel(f),
		HasVideo:     f.HasVideo,
		HasAudio:     f.HasAudio,
		MimeType:     f.MimeType,
		Bitrate:      int64(math.Round(f.AudioKbps)),
		Filesize:     f.SizeHint,
	}
}

// QualityLabel picks the upstream label, then the generic indicator, then a fixed fallback.
func QualityLabel(f extract.Format) string {
	if s := strings.TrimSpace(f.Note); s != "" {
		return s
	}
	if s := strings.TrimSpace(f.Quality); s != "" {
		return s
	}
	if f.HasAudio && !f.HasVideo {
		return consts.QualityAudio
	}
	return consts.QualityUnknown
}
