package procio

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"testing"
)

func TestTailBuffer(t *testing.T) {
	t.Parallel()

	tb := NewTailBuffer(8)
	tb.Write([]byte("abcd"))
	tb.Write([]byte("efgh"))
	tb.Write([]byte("ij"))
	if got := tb.String(); got != "cdefghij" {
		t.Fatalf("expected %q, got %q", "cdefghij", got)
	}

	tb.Write([]byte("0123456789"))
	if got := tb.String(); got != "23456789" {
		t.Fatalf("expected %q, got %q", "23456789", got)
	}
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}
}

func TestReaderSuccess(t *testing.T) {
	t.Parallel()
	requireShell(t)

	r, err := Start(exec.Command("sh", "-c", "printf hello"), nil)
	if err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("expected %q, got %q", "hello", b)
	}
}

func TestReaderClassifiesExit(t *testing.T) {
	t.Parallel()
	requireShell(t)

	sentinel := errors.New("classified")
	var gotStderr string
	classify := func(stderr string, exitErr error) error {
		gotStderr = stderr
		return sentinel
	}

	r, err := Start(exec.Command("sh", "-c", "printf partial; echo 'ERROR: nope' >&2; exit 3"), classify)
	if err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected classified error, got %v", err)
	}
	if string(b) != "partial" {
		t.Fatalf("expected partial output, got %q", b)
	}
	if !strings.Contains(gotStderr, "ERROR: nope") {
		t.Fatalf("expected stderr tail to reach classifier, got %q", gotStderr)
	}
}

type closeRecorder struct{ closed bool }

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestReaderCloseKillsProcess(t *testing.T) {
	t.Parallel()
	requireShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &closeRecorder{}
	r, err := Start(exec.CommandContext(ctx, "sh", "-c", "exec sleep 30"), nil, rec)
	if err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if !rec.closed {
		t.Fatalf("expected attached closer to be closed")
	}
	if r.cmd.ProcessState == nil {
		t.Fatalf("expected process to be reaped")
	}
	// Idempotent
	r.Close()
}
