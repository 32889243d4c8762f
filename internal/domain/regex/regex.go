// Package regex compiles and caches various regex expressions.
package regex

import (
	"regexp"
	"sync"
)

var (
	AnsiEscape     *regexp.Regexp
	FilenameUnsafe *regexp.Regexp
	Whitespace     *regexp.Regexp

	ansiOnce, unsafeOnce, whitespaceOnce sync.Once
)

// AnsiEscapeCompile compiles regex for ANSI escape codes.
func AnsiEscapeCompile() *regexp.Regexp {
	ansiOnce.Do(func() {
		AnsiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	})
	return AnsiEscape
}

// FilenameUnsafeCompile compiles regex for characters not allowed in a download filename.
func FilenameUnsafeCompile() *regexp.Regexp {
	unsafeOnce.Do(func() {
		FilenameUnsafe = regexp.MustCompile(`[^\p{L}\p{N}_\s.\-]`)
	})
	return FilenameUnsafe
}

// WhitespaceCompile compiles regex for single whitespace characters.
func WhitespaceCompile() *regexp.Regexp {
	whitespaceOnce.Do(func() {
		Whitespace = regexp.MustCompile(`\s`)
	})
	return Whitespace
}
