package repo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"ytgrab/internal/database"
	"ytgrab/internal/models"
)

func newTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	d, err := database.InitDB(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	hs := NewHistoryStore(d.DB)
	t.Cleanup(func() { hs.Close() })
	return hs
}

func TestAddAndListRecords(t *testing.T) {
	t.Parallel()
	hs := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	recs := []models.HistoryRecord{
		{Endpoint: "/get-info", URL: "https://youtu.be/a", Status: 200, StartedAt: base, FinishedAt: base.Add(time.Second)},
		{Endpoint: "/download", URL: "https://youtu.be/b", FormatID: "18", OutputKind: models.OutputVideo, Status: 200, Bytes: 1024, StartedAt: base.Add(time.Hour), FinishedAt: base.Add(time.Hour + time.Second)},
		{Endpoint: "/download", URL: "https://youtu.be/c", FormatID: "140", OutputKind: models.OutputAudio, Status: 429, ErrorKind: "HumanVerificationRequired", StartedAt: base.Add(2 * time.Hour), FinishedAt: base.Add(2 * time.Hour)},
	}
	for i := range recs {
		id, err := hs.AddRecord(ctx, &recs[i])
		if err != nil {
			t.Fatalf("AddRecord failed: %v", err)
		}
		if id == 0 || recs[i].ID != id {
			t.Fatalf("expected record ID to be set, got %d (record %d)", id, recs[i].ID)
		}
	}

	got, err := hs.ListRecords(ctx, models.HistoryQuery{})
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	if got[0].URL != "https://youtu.be/c" {
		t.Fatalf("expected newest record first, got %q", got[0].URL)
	}
	if got[0].ErrorKind != "HumanVerificationRequired" || got[0].Status != 429 || got[0].OutputKind != models.OutputAudio {
		t.Fatalf("unexpected round-tripped record: %+v", got[0])
	}
	if !got[1].StartedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("expected started_at %v, got %v", base.Add(time.Hour), got[1].StartedAt)
	}
	if got[1].Bytes != 1024 {
		t.Fatalf("expected 1024 bytes, got %d", got[1].Bytes)
	}

	got, err = hs.ListRecords(ctx, models.HistoryQuery{Endpoint: "/download", Since: base.Add(90 * time.Minute)})
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(got) != 1 || got[0].URL != "https://youtu.be/c" {
		t.Fatalf("expected only the filtered record, got %+v", got)
	}

	got, err = hs.ListRecords(ctx, models.HistoryQuery{Limit: 2})
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(got))
	}
}

func TestAddRecordNil(t *testing.T) {
	t.Parallel()
	hs := newTestStore(t)
	if _, err := hs.AddRecord(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil record")
	}
}
