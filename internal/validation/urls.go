package validation

import (
	"net/url"
	"strings"

	"ytgrab/internal/domain/consts"

	"golang.org/x/net/publicsuffix"
)

// IsValidVideoURL performs a syntactic check that u points at the video platform.
func IsValidVideoURL(u string) bool {
	u = strings.TrimSpace(u)
	if u == "" {
		return false
	}

	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return false
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return false
	}
	if !consts.PlatformDomains[domain] {
		return false
	}

	// Short links carry the ID in the path; long links need a path or a v= parameter.
	if domain == "youtu.be" {
		return strings.Trim(parsed.Path, "/") != ""
	}
	return parsed.Query().Get("v") != "" || strings.Trim(parsed.Path, "/") != ""
}
