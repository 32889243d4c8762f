// Package validation handles validation of user flag input.
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ytgrab/internal/domain/consts"
	"ytgrab/internal/domain/logger"
)

// ValidateDirectory validates that the directory exists, else creates it if desired.
func ValidateDirectory(dir string, createIfNotFound bool) (os.FileInfo, error) {
	logger.Pl.D(3, "Statting directory %q...", dir)

	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return nil, fmt.Errorf("path %q is a file, not a directory", dir)
		}
		return info, nil
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to stat directory %q: %w", dir, err)
	case !createIfNotFound:
		return nil, fmt.Errorf("directory %q does not exist: %w", dir, err)
	}

	if err := os.MkdirAll(dir, consts.PermsGenericDir); err != nil {
		return nil, fmt.Errorf("failed to create directory %q: %w", dir, err)
	}
	logger.Pl.S("Created directory %q", dir)
	return os.Stat(dir)
}

// ValidateFile validates that the file exists.
func ValidateFile(f string) (os.FileInfo, error) {
	logger.Pl.D(3, "Statting file %q...", f)

	info, err := os.Stat(f)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %q: %w", f, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path %q is a directory, not a file", f)
	}
	return info, nil
}

// ValidateLoggingLevel clamps the debug level into its accepted range.
func ValidateLoggingLevel(l int) int {
	return min(max(l, 0), consts.MaxDebugLevel)
}

// ValidateCookiesFromBrowser checks a yt-dlp style browser spec ("firefox" or "firefox:profile").
func ValidateCookiesFromBrowser(spec string) error {
	if spec == "" {
		return nil
	}
	name, _, _ := strings.Cut(spec, ":")
	name, _, _ = strings.Cut(name, "+") // keyring suffix
	if !consts.ValidBrowsers[strings.ToLower(name)] {
		return fmt.Errorf("browser %q is not supported for cookie import", name)
	}
	return nil
}

// ValidateTimeout rejects non-positive timeouts, substituting the default for zero.
func ValidateTimeout(d, def time.Duration) (time.Duration, error) {
	switch {
	case d == 0:
		return def, nil
	case d < 0:
		return 0, fmt.Errorf("timeout %v must be positive", d)
	}
	return d, nil
}

// ValidateExecutable returns the absolute path for a program name or path.
//
// Bare program names are returned unchanged and resolved from PATH when run.
func ValidateExecutable(p string) (string, error) {
	if p == "" {
		return "", errors.New("empty executable path")
	}
	if !strings.ContainsRune(p, filepath.Separator) {
		return p, nil
	}
	info, err := ValidateFile(p)
	if err != nil {
		return "", err
	}
	if info.Mode()&0o111 == 0 {
		return "", fmt.Errorf("file %q is not executable", p)
	}
	return filepath.Abs(p)
}
