package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"ytgrab/internal/domain/consts"
	"ytgrab/internal/domain/errconsts"
	"ytgrab/internal/domain/logger"
	"ytgrab/internal/downloads"
	"ytgrab/internal/failures"
	"ytgrab/internal/metadata"
	"ytgrab/internal/models"
)

// handleGetInfo returns video metadata as JSON.
func (s *Server) handleGetInfo(w http.ResponseWriter, r *http.Request) {
	rec := s.newRecord(r)
	defer s.finish(&rec)

	meta, err := s.info.GetInfo(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		rec.Status, rec.ErrorKind = writeError(w, err)
		return
	}
	rec.Status = http.StatusOK
	writeJSON(w, http.StatusOK, meta)
}

// handleDownload streams the chosen rendition as an attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	rec := s.newRecord(r)
	defer s.finish(&rec)

	q := r.URL.Query()
	req := models.DownloadRequest{
		URL:        q.Get("url"),
		FormatID:   q.Get("itag"),
		OutputKind: models.ParseOutputKind(q.Get("type")),
	}
	if req.FormatID == "" {
		req.FormatID = q.Get("formatId")
	}
	rec.FormatID = req.FormatID
	rec.OutputKind = req.OutputKind

	payload, err := s.dl.Download(r.Context(), req)
	if err != nil {
		rec.Status, rec.ErrorKind = writeError(w, err)
		return
	}
	defer func() {
		if err := payload.Body.Close(); err != nil {
			logger.Pl.W("Closing download of %q: %v", req.URL, err)
		}
	}()

	// Failures before the first byte still get a JSON error.
	br := bufio.NewReaderSize(payload.Body, consts.StreamBufferSize)
	if _, err := br.Peek(1); err != nil && !errors.Is(err, io.EOF) {
		rec.Status, rec.ErrorKind = writeError(w, metadata.Classify(err, errconsts.DownloadFailed))
		return
	}

	h := w.Header()
	h.Set("Content-Type", payload.ContentType)
	h.Set("Content-Disposition", downloads.ContentDisposition(payload.Filename))
	if payload.Size >= 0 {
		h.Set("Content-Length", strconv.FormatInt(payload.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	rec.Status = http.StatusOK

	n, err := io.Copy(w, br)
	rec.Bytes = n
	if err != nil {
		if errors.Is(r.Context().Err(), context.Canceled) {
			logger.Pl.I("Client went away during download of %q after %d bytes", req.URL, n)
		} else {
			logger.Pl.E("Download of %q interrupted after %d bytes: %v", req.URL, n, err)
		}
		rec.ErrorKind = string(failures.KindOf(metadata.Classify(err, errconsts.DownloadFailed)))
		// Abort so the client sees a truncated response rather than a clean end.
		panic(http.ErrAbortHandler)
	}
	logger.Pl.S("Served %q (%d bytes) for %q", payload.Filename, n, req.URL)
}

// handleFavicon answers browsers' favicon requests with no content.
func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// newRecord starts a history record for r.
func (s *Server) newRecord(r *http.Request) models.HistoryRecord {
	return models.HistoryRecord{
		Endpoint:  r.URL.Path,
		URL:       r.URL.Query().Get("url"),
		StartedAt: time.Now(),
	}
}

// finish stamps and queues rec.
func (s *Server) finish(rec *models.HistoryRecord) {
	rec.FinishedAt = time.Now()
	s.history.Record(*rec)
}
