package failures

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOfWrapped(t *testing.T) {
	t.Parallel()

	cause := errors.New("exit status 1")
	err := fmt.Errorf("resolving: %w", Wrap(HumanVerificationRequired, "challenge", cause))

	if got := KindOf(err); got != HumanVerificationRequired {
		t.Fatalf("expected %q, got %q", HumanVerificationRequired, got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable through Unwrap")
	}
	if got := KindOf(errors.New("plain")); got != UpstreamUnavailable {
		t.Fatalf("expected unclassified errors to be %q, got %q", UpstreamUnavailable, got)
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	tests := map[Kind]int{
		InvalidInput:              http.StatusBadRequest,
		FormatNotFound:            http.StatusNotFound,
		HumanVerificationRequired: http.StatusTooManyRequests,
		UpstreamUnavailable:       http.StatusInternalServerError,
		Kind("other"):             http.StatusInternalServerError,
	}
	for k, want := range tests {
		if got := Status(k); got != want {
			t.Fatalf("Status(%q): expected %d, got %d", k, want, got)
		}
	}
}

func TestErrorString(t *testing.T) {
	t.Parallel()

	if got := New(InvalidInput, "Missing URL parameter").Error(); got != "Missing URL parameter" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := Wrap(UpstreamUnavailable, "", errors.New("boom")).Error(); got != "boom" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := Wrap(UpstreamUnavailable, "Download failed", errors.New("boom")).Error(); got != "Download failed: boom" {
		t.Fatalf("unexpected message %q", got)
	}
}
