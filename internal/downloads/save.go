package downloads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"ytgrab/internal/domain/consts"
	"ytgrab/internal/domain/logger"
	"ytgrab/internal/extract"
	"ytgrab/internal/models"

	"github.com/google/uuid"
)

// Saver performs a one-shot download to disk and returns the final path.
type Saver interface {
	Save(ctx context.Context, req extract.SaveRequest) (string, error)
}

// SaveOptions configure SaveThenServe.
type SaveOptions struct {
	TempDir            string // defaults to os.TempDir()
	Bitrate            int    // kbps for audio extraction
	SyntheticFilenames bool   // name attachments after the temp artifact
}

// SaveThenServe downloads to a temporary file and serves it, deleting it on Close.
type SaveThenServe struct {
	saver Saver
	opts  SaveOptions
	now   func() time.Time

	// live holds the artifact prefixes of requests still saving or serving.
	live sync.Map
}

// NewSaveThenServe returns the save-to-disk strategy.
func NewSaveThenServe(saver Saver, opts SaveOptions) *SaveThenServe {
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	if opts.Bitrate <= 0 {
		opts.Bitrate = consts.DefaultBitrate
	}
	return &SaveThenServe{saver: saver, opts: opts, now: time.Now}
}

// Name implements Strategy.
func (s *SaveThenServe) Name() string { return consts.StrategySave }

// Open implements Strategy.
func (s *SaveThenServe) Open(ctx context.Context, job Job) (*Payload, error) {
	kind := job.Request.OutputKind
	prefix := consts.TempFilePrefix + strconv.FormatInt(s.now().UnixNano(), 10) + "-" + uuid.NewString()
	s.live.Store(prefix, struct{}{})

	path, err := s.saver.Save(ctx, extract.SaveRequest{
		URL:            job.Request.URL,
		FormatID:       job.Format.FormatID,
		Audio:          kind == models.OutputAudio,
		AudioFallback:  kind == models.OutputAudio && !job.Format.HasAudio,
		Bitrate:        s.opts.Bitrate,
		OutputTemplate: filepath.Join(s.opts.TempDir, prefix+".%(ext)s"),
	})
	if err != nil {
		s.release(prefix)
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		s.release(prefix)
		return nil, fmt.Errorf("%w: failed to open %q: %w", extract.ErrUnavailable, path, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		s.release(prefix)
		return nil, fmt.Errorf("%w: failed to stat %q: %w", extract.ErrUnavailable, path, err)
	}

	ext := Extension(kind, job.Format)
	if kind != models.OutputAudio {
		if actual := strings.TrimPrefix(filepath.Ext(path), "."); actual != "" {
			ext = actual
		}
	}
	name := SanitizeTitle(job.Meta.Title)
	if s.opts.SyntheticFilenames {
		name = prefix
	}

	logger.Pl.D(2, "Serving temporary file %q (%d bytes)", path, st.Size())
	return &Payload{
		Body:        &deleteOnClose{File: f, owner: s, prefix: prefix},
		Filename:    name + "." + ext,
		ContentType: ContentType(kind, job.Format),
		Size:        st.Size(),
	}, nil
}

// deleteOnClose removes every artifact of a request once the file is closed.
type deleteOnClose struct {
	*os.File
	owner  *SaveThenServe
	prefix string
}

func (d *deleteOnClose) Close() error {
	err := d.File.Close()
	d.owner.release(d.prefix)
	return err
}

// release deletes a request's artifacts and stops shielding them from Sweep.
func (s *SaveThenServe) release(prefix string) {
	removeArtifacts(s.opts.TempDir, prefix)
	s.live.Delete(prefix)
}

// isLive reports whether name belongs to a request that is still in flight.
func (s *SaveThenServe) isLive(name string) bool {
	prefix, _, _ := strings.Cut(name, ".")
	_, ok := s.live.Load(prefix)
	return ok
}

// removeArtifacts deletes all files in dir whose names start with prefix.
func removeArtifacts(dir, prefix string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Pl.E("Failed to list temp directory %q: %v", dir, err)
		return
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.Pl.E("Failed to remove temporary file %q: %v", p, err)
			continue
		}
		logger.Pl.D(3, "Removed temporary file %q", p)
	}
}

// Sweep removes request artifacts older than maxAge left behind by an earlier run.
// Files of requests still in flight, such as a long save's ".part" file, are kept.
func (s *SaveThenServe) Sweep(maxAge time.Duration) int {
	entries, err := os.ReadDir(s.opts.TempDir)
	if err != nil {
		logger.Pl.E("Failed to list temp directory %q: %v", s.opts.TempDir, err)
		return 0
	}

	cutoff := s.now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), consts.TempFilePrefix) || s.isLive(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.opts.TempDir, e.Name())); err == nil {
			removed++
		}
	}
	if removed > 0 {
		logger.Pl.I("Removed %d stale temporary files from %q", removed, s.opts.TempDir)
	}
	return removed
}
