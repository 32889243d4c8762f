package downloads

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"ytgrab/internal/domain/consts"
	"ytgrab/internal/domain/regex"
	"ytgrab/internal/models"
)

// SanitizeTitle makes a title safe for use as a file name.
//
// Characters other than letters, digits, '_', whitespace, '.' and '-' become '_',
// then each whitespace character becomes '_'.
func SanitizeTitle(title string) string {
	s := regex.FilenameUnsafeCompile().ReplaceAllString(title, "_")
	s = regex.WhitespaceCompile().ReplaceAllString(s, "_")
	if s == "" {
		return consts.DefaultTitle
	}
	return s
}

// Extension returns the attachment extension for a format and output kind.
func Extension(kind models.OutputKind, f models.FormatDescriptor) string {
	if kind == models.OutputAudio {
		return consts.AudioExt
	}
	if ext := strings.TrimPrefix(strings.TrimSpace(f.Container), "."); ext != "" {
		return ext
	}
	return consts.DefaultExt
}

// ContentType returns the attachment MIME type for a format and output kind.
//
// Video output always carries a video type: an audio-only rendition served
// as video keeps its container subtype ("audio/webm" becomes "video/webm").
func ContentType(kind models.OutputKind, f models.FormatDescriptor) string {
	if kind == models.OutputAudio {
		return consts.MIMEAudioMPEG
	}
	mt := f.BaseMIME()
	if strings.HasPrefix(mt, "video/") {
		return mt
	}
	if sub, ok := strings.CutPrefix(mt, "audio/"); ok && sub != "" {
		return "video/" + sub
	}
	return consts.MIMEVideoMP4
}

// ContentDisposition formats an attachment header for name.
//
// Non-ASCII names get an ASCII fallback plus an RFC 5987 filename* parameter.
func ContentDisposition(name string) string {
	ascii := true
	for i := 0; i < len(name); i++ {
		if name[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return `attachment; filename="` + name + `"`
	}

	var b strings.Builder
	for _, r := range name {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return `attachment; filename="` + b.String() + `"; filename*=UTF-8''` + url.PathEscape(name)
}
