// Package logging provides the program logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ytgrab/internal/domain/consts"
	"ytgrab/internal/domain/regex"

	"github.com/rs/zerolog"
)

// ProgramLogger is the program-wide logger.
//
// The zero value discards everything, so packages can log before SetupLogging runs
// (and tests never print).
type ProgramLogger struct {
	mu      sync.RWMutex
	console zerolog.Logger
	file    zerolog.Logger
	level   int
	ready   bool
	closer  io.Closer
}

// Options configure SetupLogging.
type Options struct {
	Console    io.Writer // defaults to os.Stdout
	LogFile    string    // optional JSON log file
	DebugLevel int
	NoColor    bool
}

// SetupLogging configures the logger. It may be called again to reconfigure.
func (pl *ProgramLogger) SetupLogging(o Options) error {
	if o.Console == nil {
		o.Console = os.Stdout
	}
	if o.DebugLevel < 0 {
		o.DebugLevel = 0
	}
	if o.DebugLevel > consts.MaxDebugLevel {
		o.DebugLevel = consts.MaxDebugLevel
	}

	cw := zerolog.ConsoleWriter{
		Out:        o.Console,
		NoColor:    o.NoColor,
		TimeFormat: time.DateTime,
	}
	console := zerolog.New(cw).With().Timestamp().Logger()

	file := zerolog.Nop()
	var closer io.Closer
	if o.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(o.LogFile), consts.PermsGenericDir); err != nil {
			return fmt.Errorf("failed to create log directory for %q: %w", o.LogFile, err)
		}
		f, err := os.OpenFile(o.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, consts.PermsLogFile)
		if err != nil {
			return fmt.Errorf("failed to open log file %q: %w", o.LogFile, err)
		}
		file = zerolog.New(f).With().Timestamp().Str("program", consts.ProgramName).Logger()
		closer = f
	}

	pl.mu.Lock()
	defer pl.mu.Unlock()
	if pl.closer != nil {
		pl.closer.Close()
	}
	pl.console = console
	pl.file = file
	pl.closer = closer
	pl.level = o.DebugLevel
	pl.ready = true
	return nil
}

// Close releases the log file, if one is open.
func (pl *ProgramLogger) Close() error {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.ready = false
	if pl.closer == nil {
		return nil
	}
	err := pl.closer.Close()
	pl.closer = nil
	return err
}

// Level returns the configured debug level.
func (pl *ProgramLogger) Level() int {
	pl.mu.RLock()
	defer pl.mu.RUnlock()
	return pl.level
}

// E logs an error.
func (pl *ProgramLogger) E(format string, args ...any) {
	pl.log(zerolog.ErrorLevel, "", format, args...)
}

// W logs a warning.
func (pl *ProgramLogger) W(format string, args ...any) {
	pl.log(zerolog.WarnLevel, "", format, args...)
}

// I logs an informational message.
func (pl *ProgramLogger) I(format string, args ...any) {
	pl.log(zerolog.InfoLevel, "", format, args...)
}

// S logs a success message.
func (pl *ProgramLogger) S(format string, args ...any) {
	pl.log(zerolog.InfoLevel, "success", format, args...)
}

// D logs a debug message when the configured debug level is at least l.
func (pl *ProgramLogger) D(l int, format string, args ...any) {
	if l > pl.Level() {
		return
	}
	pl.log(zerolog.DebugLevel, "", format, args...)
}

// Print satisfies chi's middleware.LoggerInterface.
func (pl *ProgramLogger) Print(v ...any) {
	pl.log(zerolog.InfoLevel, "http", strings.TrimSpace(fmt.Sprint(v...)))
}

func (pl *ProgramLogger) log(lvl zerolog.Level, tag, format string, args ...any) {
	pl.mu.RLock()
	defer pl.mu.RUnlock()
	if !pl.ready {
		return
	}

	msg := format
	if len(args) != 0 {
		msg = fmt.Sprintf(format, args...)
	}

	ce := pl.console.WithLevel(lvl)
	fe := pl.file.WithLevel(lvl)
	if tag != "" {
		ce = ce.Str("tag", tag)
		fe = fe.Str("tag", tag)
	}
	ce.Msg(msg)
	fe.Msg(regex.AnsiEscapeCompile().ReplaceAllString(msg, ""))
}
