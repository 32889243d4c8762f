package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/kkdai/youtube/v2"
)

const sampleJSON = `{
	"id": "dQw4w9WgXcQ",
	"title": "Song: Title/Name?",
	"uploader": "Rick Astley",
	"thumbnail": "",
	"thumbnails": [{"url": "https://i.ytimg.com/vi/dQw4w9WgXcQ/default.jpg"}, {"url": "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg"}],
	"duration": 212.7,
	"upload_date": "20091025",
	"webpage_url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	"formats": [
		{"format_id": "sb0", "ext": "mhtml", "vcodec": "none", "acodec": "none", "format_note": "storyboard"},
		{"format_id": "140", "ext": "m4a", "vcodec": "none", "acodec": "mp4a.40.2", "format_note": "medium", "abr": 129.5, "filesize": 3433514},
		{"format_id": "18", "ext": "mp4", "vcodec": "avc1.42001E", "acodec": "mp4a.40.2", "format_note": "", "resolution": "640x360", "height": 360, "filesize_approx": 9000000},
		{"format_id": "137", "ext": "mp4", "vcodec": "avc1.640028", "acodec": "none", "height": 1080, "mime_type": "video/mp4; codecs=\"avc1.640028\""}
	]
}`

func TestParseYtdlpInfo(t *testing.T) {
	t.Parallel()

	info, err := parseYtdlpInfo([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.Title != "Song: Title/Name?" || info.Author != "Rick Astley" {
		t.Fatalf("unexpected title/author: %q / %q", info.Title, info.Author)
	}
	if len(info.Thumbnails) != 2 {
		t.Fatalf("expected 2 thumbnails, got %d", len(info.Thumbnails))
	}

	ids := make([]string, 0, len(info.Formats))
	for _, f := range info.Formats {
		ids = append(ids, f.ID)
	}
	if !slices.Equal(ids, []string{"sb0", "140", "18", "137"}) {
		t.Fatalf("expected upstream order to be preserved, got %v", ids)
	}

	sb := info.Formats[0]
	if sb.HasVideo || sb.HasAudio || sb.MimeType != "" {
		t.Fatalf("expected storyboard to carry neither stream, got %+v", sb)
	}

	audio := info.Formats[1]
	if audio.HasVideo || !audio.HasAudio || audio.MimeType != "audio/mp4" || audio.AudioKbps != 129.5 || audio.Filesize != 3433514 {
		t.Fatalf("unexpected audio format %+v", audio)
	}

	muxed := info.Formats[2]
	if !muxed.HasVideo || !muxed.HasAudio || muxed.Quality != "640x360" || muxed.Filesize != 0 || muxed.SizeHint != 9000000 {
		t.Fatalf("unexpected muxed format %+v", muxed)
	}

	video := info.Formats[3]
	if video.Quality != "1080p" || video.MimeType != `video/mp4; codecs="avc1.640028"` || video.HasAudio {
		t.Fatalf("unexpected video-only format %+v", video)
	}
}

func TestParseYtdlpInfo_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := parseYtdlpInfo([]byte("WARNING: not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestClassifyMessage(t *testing.T) {
	t.Parallel()

	tests := map[string]error{
		"ERROR: [youtube] abc: Sign in to confirm you’re not a bot. Use --cookies": ErrChallengeRequired,
		"please confirm you're NOT A BOT":                                            ErrChallengeRequired,
		"Are you a robot? Prove you are not a robot":                                 ErrChallengeRequired,
		"ERROR: Unsupported URL: https://example.com":                                ErrInvalidURL,
		"ERROR: [youtube] abc: Video unavailable":                                    nil,
		"":                                                                           nil,
	}
	for msg, want := range tests {
		if got := ClassifyMessage(msg); !errors.Is(got, want) || (want == nil && got != nil) {
			t.Fatalf("ClassifyMessage(%q): expected %v, got %v", msg, want, got)
		}
	}
}

func TestIsChallenge(t *testing.T) {
	t.Parallel()

	if !IsChallenge(fmt.Errorf("wrapped: %w", ErrChallengeRequired)) {
		t.Fatalf("expected typed challenge to be detected")
	}
	if !IsChallenge(errors.New("upstream said: confirm you're not a bot")) {
		t.Fatalf("expected message fallback to be detected")
	}
	if IsChallenge(errors.New("connection reset")) || IsChallenge(nil) {
		t.Fatalf("expected non-challenge errors to be ignored")
	}
}

func TestYtDlpValidate(t *testing.T) {
	t.Parallel()

	y := NewYtDlp(YtDlpConfig{})
	if err := y.Validate("https://youtu.be/dQw4w9WgXcQ"); err != nil {
		t.Fatalf("expected valid URL, got %v", err)
	}
	if err := y.Validate("https://example.com/watch?v=1"); !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
}

func TestYtDlpCommonArgs(t *testing.T) {
	t.Parallel()

	y := NewYtDlp(YtDlpConfig{
		SocketTimeout:      1500 * time.Millisecond,
		CookiesFromBrowser: "firefox",
		CookieFile:         "/tmp/cookies.txt",
		FFmpegPath:         "/opt/ffmpeg/bin/ffmpeg",
	})
	got := strings.Join(y.commonArgs(), " ")
	for _, want := range []string{
		"--no-playlist",
		"--socket-timeout 2",
		"--cookies-from-browser firefox",
		"--cookies /tmp/cookies.txt",
		"--ffmpeg-location /opt/ffmpeg/bin/ffmpeg",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected args %q to contain %q", got, want)
		}
	}

	bare := strings.Join(NewYtDlp(YtDlpConfig{FFmpegPath: "ffmpeg"}).commonArgs(), " ")
	if strings.Contains(bare, "--ffmpeg-location") || !strings.Contains(bare, "--socket-timeout 20") {
		t.Fatalf("unexpected default args %q", bare)
	}
}

func TestYtDlpExitError(t *testing.T) {
	t.Parallel()

	y := NewYtDlp(YtDlpConfig{})
	exitErr := errors.New("exit status 1")

	stderr := "[youtube] Extracting URL\nERROR: [youtube] abc: Sign in to confirm you're not a bot\n"
	err := y.exitError(context.Background(), stderr, exitErr)
	if !errors.Is(err, ErrChallengeRequired) {
		t.Fatalf("expected challenge, got %v", err)
	}
	if !strings.Contains(err.Error(), "ERROR: [youtube] abc") {
		t.Fatalf("expected error line in message, got %q", err.Error())
	}

	err = y.exitError(context.Background(), "ERROR: [youtube] abc: Private video\n", exitErr)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = y.exitError(ctx, "", exitErr)
	if !errors.Is(err, ErrUnavailable) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation to be wrapped, got %v", err)
	}
}

func TestLastErrorLine(t *testing.T) {
	t.Parallel()

	if got := lastErrorLine("a\nERROR: first\nb\nERROR: second\nc\n"); got != "ERROR: second" {
		t.Fatalf("expected last ERROR line, got %q", got)
	}
	if got := lastErrorLine("one\ntwo\n\n"); got != "two" {
		t.Fatalf("expected last line, got %q", got)
	}
}

func TestInfoFromVideo(t *testing.T) {
	t.Parallel()

	v := &youtube.Video{
		ID:          "dQw4w9WgXcQ",
		Title:       "Never Gonna Give You Up",
		Author:      "Rick Astley",
		Duration:    212*time.Second + 900*time.Millisecond,
		PublishDate: time.Date(2009, 10, 25, 0, 0, 0, 0, time.UTC),
		Thumbnails:  youtube.Thumbnails{{URL: "https://i.ytimg.com/a.jpg"}, {URL: "https://i.ytimg.com/b.jpg"}},
		Formats: youtube.FormatList{
			{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, Quality: "medium", QualityLabel: "360p", AudioChannels: 2, ContentLength: 100},
			{ItagNo: 137, MimeType: `video/mp4; codecs="avc1.640028"`, Quality: "hd1080", QualityLabel: "1080p", Height: 1080},
			{ItagNo: 251, MimeType: `audio/webm; codecs="opus"`, Quality: "tiny", Bitrate: 160000, AudioChannels: 2},
		},
	}

	info := infoFromVideo(v, "https://youtu.be/dQw4w9WgXcQ")
	if info.native != v || info.UploadDate != "2009-10-25" || len(info.Thumbnails) != 2 {
		t.Fatalf("unexpected info %+v", info)
	}
	if len(info.Formats) != 3 {
		t.Fatalf("expected 3 formats, got %d", len(info.Formats))
	}

	muxed, video, audio := info.Formats[0], info.Formats[1], info.Formats[2]
	if muxed.ID != "18" || !muxed.HasVideo || !muxed.HasAudio || muxed.Ext != "mp4" || muxed.Filesize != 100 {
		t.Fatalf("unexpected muxed format %+v", muxed)
	}
	if !video.HasVideo || video.HasAudio || video.Note != "1080p" {
		t.Fatalf("unexpected video format %+v", video)
	}
	if audio.HasVideo || !audio.HasAudio || audio.Ext != "webm" || audio.AudioKbps != 160 || audio.Quality != "tiny" {
		t.Fatalf("unexpected audio format %+v", audio)
	}
}

func TestNativeError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tests := []struct {
		in   error
		want error
	}{
		{youtube.ErrLoginRequired, ErrChallengeRequired},
		{youtube.ErrPlayabiltyStatus{Status: "UNPLAYABLE", Reason: "Sign in to confirm you're not a bot"}, ErrChallengeRequired},
		{youtube.ErrPlayabiltyStatus{Status: "ERROR", Reason: "Video unavailable"}, ErrUnavailable},
		{youtube.ErrInvalidCharactersInVideoID, ErrInvalidURL},
		{errors.New("dial tcp: i/o timeout"), ErrUnavailable},
	}
	for _, tt := range tests {
		if got := nativeError(ctx, tt.in); !errors.Is(got, tt.want) {
			t.Fatalf("nativeError(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestNativeValidate(t *testing.T) {
	t.Parallel()

	n := NewNative(nil)
	if err := n.Validate("https://www.youtube.com/watch?v=dQw4w9WgXcQ"); err != nil {
		t.Fatalf("expected valid URL, got %v", err)
	}
	if err := n.Validate(""); !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
	for _, u := range []string{
		"short",
		"dQw4w9WgXcQ",
		"https://evil.com/dQw4w9WgXcQ",
		"https://evil.com/watch?v=dQw4w9WgXcQ",
		"ftp://youtube.com/watch?v=dQw4w9WgXcQ",
	} {
		if err := n.Validate(u); !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("%q: expected ErrInvalidURL, got %v", u, err)
		}
	}
	if err := n.Validate("https://youtu.be/dQw4w9WgXcQ"); err != nil {
		t.Fatalf("expected short link to be valid, got %v", err)
	}
}

func TestNativeOpenFormatStream_Unknown(t *testing.T) {
	t.Parallel()

	n := NewNative(nil)
	info := infoFromVideo(&youtube.Video{Formats: youtube.FormatList{{ItagNo: 18}}}, "")
	if _, _, err := n.OpenFormatStream(context.Background(), info, "22"); !errors.Is(err, ErrFormatNotFound) {
		t.Fatalf("expected ErrFormatNotFound, got %v", err)
	}
	if _, _, err := n.OpenFormatStream(context.Background(), &Info{}, "18"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable without handle, got %v", err)
	}
}

// fakeYtdlp writes a shell script standing in for yt-dlp.
//
// Tests using it are not parallel: executing a freshly written file while
// other goroutines fork can fail with ETXTBSY.
func fakeYtdlp(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}
	path := filepath.Join(t.TempDir(), "yt-dlp")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write fake yt-dlp: %v", err)
	}
	return path
}

func TestYtDlpExtract_FakeBinary(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "info.json")
	if err := os.WriteFile(jsonPath, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("failed to write JSON: %v", err)
	}

	y := NewYtDlp(YtDlpConfig{Path: fakeYtdlp(t, "cat "+jsonPath)})
	info, err := y.Extract(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.URL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" || len(info.Formats) != 4 {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestYtDlpExtract_Challenge(t *testing.T) {
	y := NewYtDlp(YtDlpConfig{Path: fakeYtdlp(t, `echo "ERROR: [youtube] x: Sign in to confirm you're not a bot" >&2; exit 1`)})
	_, err := y.Extract(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if !errors.Is(err, ErrChallengeRequired) {
		t.Fatalf("expected ErrChallengeRequired, got %v", err)
	}
}

func TestYtDlpOpenFormatStream_FakeBinary(t *testing.T) {
	y := NewYtDlp(YtDlpConfig{Path: fakeYtdlp(t, `printf 'media-bytes'`)})
	info := &Info{URL: "https://youtu.be/dQw4w9WgXcQ", Formats: []Format{{ID: "18", Filesize: 11}}}

	rc, size, err := y.OpenFormatStream(context.Background(), info, "18")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if string(b) != "media-bytes" || size != 11 {
		t.Fatalf("expected 11 media bytes, got %q (size %d)", b, size)
	}

	if _, _, err := y.OpenFormatStream(context.Background(), info, "22"); !errors.Is(err, ErrFormatNotFound) {
		t.Fatalf("expected ErrFormatNotFound, got %v", err)
	}
}

func TestYtDlpOpenFormatStream_MidStreamFailure(t *testing.T) {
	y := NewYtDlp(YtDlpConfig{Path: fakeYtdlp(t, `printf 'head'; echo "ERROR: fragment 3 not found" >&2; exit 1`)})
	info := &Info{URL: "https://youtu.be/dQw4w9WgXcQ", Formats: []Format{{ID: "18"}}}

	rc, size, err := y.OpenFormatStream(context.Background(), info, "18")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()
	if size != -1 {
		t.Fatalf("expected unknown size, got %d", size)
	}

	_, err = io.ReadAll(rc)
	if !errors.Is(err, ErrUnavailable) || !strings.Contains(err.Error(), "fragment 3") {
		t.Fatalf("expected classified mid-stream error, got %v", err)
	}
}

func TestYtDlpSave_FakeBinary(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "ytgrab-1-abc.mp3")
	script := fmt.Sprintf(`printf 'ID3' > %q; echo %q`, out, out)

	y := NewYtDlp(YtDlpConfig{Path: fakeYtdlp(t, script)})
	path, err := y.Save(context.Background(), SaveRequest{
		URL:            "https://youtu.be/dQw4w9WgXcQ",
		FormatID:       "18",
		Audio:          true,
		OutputTemplate: filepath.Join(dir, "ytgrab-1-abc.%(ext)s"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != out {
		t.Fatalf("expected path %q, got %q", out, path)
	}
}

func TestYtDlpSave_NoOutput(t *testing.T) {
	y := NewYtDlp(YtDlpConfig{Path: fakeYtdlp(t, "exit 0")})
	if _, err := y.Save(context.Background(), SaveRequest{URL: "https://youtu.be/x", FormatID: "18"}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	c := NewHTTPClient(nil, 5*time.Second)
	tr, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", c.Transport)
	}
	if tr.ResponseHeaderTimeout != 5*time.Second || c.Timeout != 0 {
		t.Fatalf("expected header timeout only, got %v / %v", tr.ResponseHeaderTimeout, c.Timeout)
	}
}
