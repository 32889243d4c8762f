// Package parsing normalizes user and upstream input values.
package parsing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// NormalizeUploadDate parses an upstream date (e.g. "20091025" or "Oct 25, 2009")
// into YYYY-MM-DD. Unparseable input yields an empty string.
func NormalizeUploadDate(d string) string {
	d = strings.TrimSpace(d)
	if d == "" {
		return ""
	}
	t, err := dateparse.ParseAny(d)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// ParseSince turns a --since value into an absolute time.
//
// Accepts Go durations ("36h"), day counts ("7d") and dates in any format dateparse understands.
func ParseSince(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	if days, ok := strings.CutSuffix(s, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil {
			if n < 0 {
				return time.Time{}, fmt.Errorf("negative day count %q", s)
			}
			return now.AddDate(0, 0, -n), nil
		}
	}
	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return time.Time{}, fmt.Errorf("negative duration %q", s)
		}
		return now.Add(-d), nil
	}

	t, err := dateparse.ParseLocal(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
	}
	return t, nil
}
