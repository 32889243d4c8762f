// Package contracts defines interfaces that decouple the application layer from storage implementations.
package contracts

import (
	"context"

	"ytgrab/internal/models"
)

// HistoryStore persists request audit records.
type HistoryStore interface {
	AddRecord(ctx context.Context, rec *models.HistoryRecord) (int64, error)
	ListRecords(ctx context.Context, q models.HistoryQuery) ([]models.HistoryRecord, error)
	Close() error
}
