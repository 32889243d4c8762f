package models

import "time"

// HistoryRecord is one audited request. No media is stored.
//
// Matches the order of the DB table, do not alter.
type HistoryRecord struct {
	ID         int64      `json:"id" db:"id"`
	Endpoint   string     `json:"endpoint" db:"endpoint"`
	URL        string     `json:"url" db:"url"`
	FormatID   string     `json:"format_id" db:"format_id"`
	OutputKind OutputKind `json:"output_kind" db:"output_kind"`
	Status     int        `json:"status" db:"status"`
	ErrorKind  string     `json:"error_kind" db:"error_kind"`
	Bytes      int64      `json:"bytes" db:"bytes"`
	StartedAt  time.Time  `json:"started_at" db:"started_at"`
	FinishedAt time.Time  `json:"finished_at" db:"finished_at"`
}

// HistoryQuery filters history listings.
type HistoryQuery struct {
	Limit    int
	Since    time.Time
	Endpoint string
}
