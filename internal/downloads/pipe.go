// Package downloads implements the download pipe and its strategies.
package downloads

import (
	"context"
	"io"
	"strings"

	"ytgrab/internal/domain/errconsts"
	"ytgrab/internal/domain/logger"
	"ytgrab/internal/extract"
	"ytgrab/internal/failures"
	"ytgrab/internal/metadata"
	"ytgrab/internal/models"
)

// Resolver performs a fresh metadata extraction.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (*models.VideoMetadata, *extract.Info, error)
}

// Payload is a ready-to-send attachment.
//
// Callers must always Close Body.
type Payload struct {
	Body        io.ReadCloser
	Filename    string
	ContentType string
	Size        int64 // -1 when unknown
}

// Job is the input handed to a Strategy.
type Job struct {
	Request models.DownloadRequest
	Meta    *models.VideoMetadata
	Info    *extract.Info
	Format  models.FormatDescriptor
}

// Strategy turns a resolved job into a payload.
type Strategy interface {
	Name() string
	Open(ctx context.Context, job Job) (*Payload, error)
}

// Pipe implements the download operation.
type Pipe struct {
	resolver Resolver
	strategy Strategy
}

// NewPipe returns a Pipe using the given resolver and strategy.
func NewPipe(resolver Resolver, strategy Strategy) *Pipe {
	return &Pipe{resolver: resolver, strategy: strategy}
}

// Download validates req, re-resolves metadata and opens the payload.
func (p *Pipe) Download(ctx context.Context, req models.DownloadRequest) (*Payload, error) {
	req.URL = strings.TrimSpace(req.URL)
	req.FormatID = strings.TrimSpace(req.FormatID)
	if req.URL == "" || req.FormatID == "" {
		return nil, failures.New(failures.InvalidInput, errconsts.MissingURLOrItag)
	}
	if req.OutputKind == "" {
		req.OutputKind = models.OutputVideo
	}

	meta, info, err := p.resolver.Resolve(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	format, ok := meta.FindFormat(req.FormatID)
	if !ok {
		logger.Pl.I("Format %q not offered for %q", req.FormatID, req.URL)
		return nil, failures.New(failures.FormatNotFound, errconsts.FormatNotFound)
	}

	logger.Pl.D(1, "Opening %s download of %q (format %q) via %s", req.OutputKind, req.URL, req.FormatID, p.strategy.Name())
	payload, err := p.strategy.Open(ctx, Job{
		Request: req,
		Meta:    meta,
		Info:    info,
		Format:  format,
	})
	if err != nil {
		logger.Pl.E("Download of %q (format %q) failed: %v", req.URL, req.FormatID, err)
		return nil, metadata.Classify(err, errconsts.DownloadFailed)
	}
	return payload, nil
}
