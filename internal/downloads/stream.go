package downloads

import (
	"context"
	"fmt"

	"ytgrab/internal/domain/consts"
	"ytgrab/internal/domain/logger"
	"ytgrab/internal/extract"
	"ytgrab/internal/models"
	"ytgrab/internal/transcode"
)

// StreamThenPipe streams straight from the extractor, transcoding audio on the fly.
type StreamThenPipe struct {
	ext     extract.Extractor
	tc      transcode.Transcoder
	bitrate int
}

// NewStreamThenPipe returns the streaming strategy.
func NewStreamThenPipe(ext extract.Extractor, tc transcode.Transcoder, bitrateKbps int) *StreamThenPipe {
	if bitrateKbps <= 0 {
		bitrateKbps = consts.DefaultBitrate
	}
	return &StreamThenPipe{ext: ext, tc: tc, bitrate: bitrateKbps}
}

// Name implements Strategy.
func (s *StreamThenPipe) Name() string { return consts.StrategyStream }

// Open implements Strategy.
func (s *StreamThenPipe) Open(ctx context.Context, job Job) (*Payload, error) {
	kind := job.Request.OutputKind
	sourceID := job.Format.FormatID

	// ffmpeg cannot extract audio from a video-only rendition.
	if kind == models.OutputAudio && !job.Format.HasAudio {
		best, ok := bestAudio(job.Info)
		if !ok {
			return nil, fmt.Errorf("%w: no audio rendition available", extract.ErrUnavailable)
		}
		logger.Pl.D(1, "Format %q has no audio, transcoding from %q instead", sourceID, best)
		sourceID = best
	}

	body, size, err := s.ext.OpenFormatStream(ctx, job.Info, sourceID)
	if err != nil {
		return nil, err
	}

	if kind == models.OutputAudio {
		if body, err = s.tc.Transcode(ctx, body, consts.AudioExt, s.bitrate); err != nil {
			return nil, err
		}
		size = -1
	}

	return &Payload{
		Body:        body,
		Filename:    SanitizeTitle(job.Meta.Title) + "." + Extension(kind, job.Format),
		ContentType: ContentType(kind, job.Format),
		Size:        size,
	}, nil
}

// bestAudio picks the audio-only rendition with the highest bitrate,
// falling back to any rendition carrying audio.
func bestAudio(info *extract.Info) (string, bool) {
	if info == nil {
		return "", false
	}
	var (
		bestID   string
		bestKbps = -1.0
		anyID    string
	)
	for _, f := range info.Formats {
		if !f.HasAudio {
			continue
		}
		if anyID == "" {
			anyID = f.ID
		}
		if !f.HasVideo && f.AudioKbps > bestKbps {
			bestID, bestKbps = f.ID, f.AudioKbps
		}
	}
	if bestID != "" {
		return bestID, true
	}
	return anyID, anyID != ""
}
