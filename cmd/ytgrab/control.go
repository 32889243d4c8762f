package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"ytgrab/internal/database"
	"ytgrab/internal/database/repo"
	"ytgrab/internal/domain/consts"
	"ytgrab/internal/domain/logger"
	"ytgrab/internal/downloads"
	"ytgrab/internal/models"
)

// startSweeper periodically removes abandoned temporary downloads.
func startSweeper(ctx context.Context, sts *downloads.SaveThenServe) {
	ticker := time.NewTicker(consts.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sts.Sweep(consts.SweepMaxAge); n > 0 {
				logger.Pl.I("Removed %d stale temporary download(s)", n)
			}
		}
	}
}

// listHistory prints recorded requests matching q.
func listHistory(ctx context.Context, dbPath string, q models.HistoryQuery) error {
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("history database %q: %w", dbPath, err)
	}

	db, err := database.InitDB(dbPath)
	if err != nil {
		return err
	}
	store := repo.NewHistoryStore(db.DB)
	defer store.Close()

	records, err := store.ListRecords(ctx, q)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No history records found.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tENDPOINT\tSTATUS\tFORMAT\tTYPE\tBYTES\tDURATION\tURL\tERROR")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%d\t%v\t%s\t%s\n",
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.Endpoint,
			r.Status,
			dash(r.FormatID),
			dash(string(r.OutputKind)),
			r.Bytes,
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond),
			r.URL,
			dash(r.ErrorKind),
		)
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
