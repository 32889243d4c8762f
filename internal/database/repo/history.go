// Package repo holds the database-backed stores.
package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ytgrab/internal/domain/consts"
	"ytgrab/internal/domain/logger"
	"ytgrab/internal/models"

	"github.com/Masterminds/squirrel"
)

// HistoryStore persists request records in SQLite.
type HistoryStore struct {
	DB *sql.DB
}

// NewHistoryStore returns a history store over database.
func NewHistoryStore(database *sql.DB) *HistoryStore {
	return &HistoryStore{
		DB: database,
	}
}

// AddRecord inserts rec and returns its row ID.
func (hs *HistoryStore) AddRecord(ctx context.Context, rec *models.HistoryRecord) (int64, error) {
	if rec == nil {
		return 0, fmt.Errorf("history record is nil")
	}

	query := squirrel.
		Insert(consts.DBHistory).
		Columns(
			consts.QHistEndpoint,
			consts.QHistURL,
			consts.QHistFormatID,
			consts.QHistOutputKind,
			consts.QHistStatus,
			consts.QHistErrorKind,
			consts.QHistBytes,
			consts.QHistStartedAt,
			consts.QHistFinishedAt,
		).
		Values(
			rec.Endpoint,
			rec.URL,
			rec.FormatID,
			string(rec.OutputKind),
			rec.Status,
			rec.ErrorKind,
			rec.Bytes,
			rec.StartedAt.UnixMilli(),
			rec.FinishedAt.UnixMilli(),
		).
		RunWith(hs.DB)

	result, err := query.ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to insert history record for %q: %w", rec.URL, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted history ID: %w", err)
	}
	rec.ID = id
	logger.Pl.D(3, "Added history record %d for %s %q", id, rec.Endpoint, rec.URL)
	return id, nil
}

// ListRecords returns records newest first.
func (hs *HistoryStore) ListRecords(ctx context.Context, q models.HistoryQuery) ([]models.HistoryRecord, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = consts.HistoryDefLimit
	}

	query := squirrel.
		Select(
			consts.QHistID,
			consts.QHistEndpoint,
			consts.QHistURL,
			consts.QHistFormatID,
			consts.QHistOutputKind,
			consts.QHistStatus,
			consts.QHistErrorKind,
			consts.QHistBytes,
			consts.QHistStartedAt,
			consts.QHistFinishedAt,
		).
		From(consts.DBHistory).
		OrderBy(consts.QHistStartedAt+" DESC", consts.QHistID+" DESC").
		Limit(uint64(limit))

	if !q.Since.IsZero() {
		query = query.Where(squirrel.GtOrEq{consts.QHistStartedAt: q.Since.UnixMilli()})
	}
	if q.Endpoint != "" {
		query = query.Where(squirrel.Eq{consts.QHistEndpoint: q.Endpoint})
	}

	rows, err := query.RunWith(hs.DB).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []models.HistoryRecord
	for rows.Next() {
		var (
			rec                models.HistoryRecord
			formatID, kind, ek sql.NullString
			started, finished  int64
			bytes              sql.NullInt64
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.Endpoint,
			&rec.URL,
			&formatID,
			&kind,
			&rec.Status,
			&ek,
			&bytes,
			&started,
			&finished,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		rec.FormatID = formatID.String
		rec.OutputKind = models.OutputKind(kind.String)
		rec.ErrorKind = ek.String
		rec.Bytes = bytes.Int64
		rec.StartedAt = time.UnixMilli(started)
		rec.FinishedAt = time.UnixMilli(finished)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating history rows: %w", err)
	}
	return records, nil
}

// Close closes the underlying database.
func (hs *HistoryStore) Close() error {
	if hs.DB == nil {
		return nil
	}
	return hs.DB.Close()
}
