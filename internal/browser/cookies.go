// Package browser imports platform cookies from local browsers.
package browser

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"ytgrab/internal/domain/consts"
	"ytgrab/internal/domain/logger"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/all"
	"github.com/browserutils/kooky/browser/chrome"
	"github.com/browserutils/kooky/browser/firefox"
	"github.com/browserutils/kooky/browser/safari"
	"golang.org/x/net/publicsuffix"
)

// NewJar returns a cookie jar seeded with platform cookies.
//
// cookieFile (a browser cookie database) wins over browserSpec ("firefox",
// "chrome:Profile 1", ...). With neither set the jar starts empty.
func NewJar(browserSpec, cookieFile string) (http.CookieJar, int, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	var cookies []*kooky.Cookie
	switch {
	case cookieFile != "":
		logger.Pl.D(2, "Reading cookies from specified file: %s", cookieFile)
		if cookies, err = readCookieFile(cookieFile); err != nil {
			return nil, 0, fmt.Errorf("failed to read cookies from file: %w", err)
		}
	case browserSpec != "":
		cookies = readBrowserCookies(browserSpec)
	default:
		return jar, 0, nil
	}

	n := seedJar(jar, cookies)
	if n == 0 {
		logger.Pl.I("No platform cookies found, proceeding without cookies")
	} else {
		logger.Pl.S("Loaded %d platform cookies", n)
	}
	return jar, n, nil
}

// readBrowserCookies reads valid platform cookies from every store of the named browser.
func readBrowserCookies(spec string) []*kooky.Cookie {
	name, _, _ := strings.Cut(spec, ":")
	name, _, _ = strings.Cut(name, "+")
	name = strings.ToLower(name)

	var out []*kooky.Cookie
	attempted := 0
	for _, store := range kooky.FindAllCookieStores() {
		browserName := store.Browser()
		if !strings.EqualFold(browserName, name) {
			store.Close()
			continue
		}
		attempted++
		logger.Pl.D(2, "Attempting to read cookies from %s (%s)", browserName, store.FilePath())

		for domain := range consts.PlatformDomains {
			cookies, err := store.ReadCookies(kooky.Valid, kooky.DomainHasSuffix(domain))
			if err != nil {
				logger.Pl.D(2, "Failed to read cookies from %s: %v", browserName, err)
				continue
			}
			out = append(out, cookies...)
		}
		store.Close()
	}

	if attempted == 0 {
		logger.Pl.W("No cookie stores found for browser %q", name)
	}
	return out
}

// readCookieFile reads cookies from the specified cookie file.
func readCookieFile(cookieFilePath string) ([]*kooky.Cookie, error) {
	var (
		store kooky.CookieStore
		err   error
	)

	lower := strings.ToLower(cookieFilePath)
	switch {
	case strings.Contains(lower, "firefox") || strings.HasSuffix(lower, "cookies.sqlite"):
		store, err = firefox.CookieStore(cookieFilePath)
	case strings.Contains(lower, "safari") || strings.HasSuffix(lower, ".binarycookies"):
		store, err = safari.CookieStore(cookieFilePath)
	case strings.Contains(lower, "chrome") || strings.HasSuffix(lower, "cookies"):
		store, err = chrome.CookieStore(cookieFilePath)
	default:
		return nil, fmt.Errorf("unsupported cookie file format %q", cookieFilePath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie store: %w", err)
	}
	defer store.Close()

	cookies, err := store.ReadCookies(kooky.Valid)
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies: %w", err)
	}
	return cookies, nil
}

// seedJar stores the platform cookies among cookies in jar and returns how many were kept.
func seedJar(jar http.CookieJar, cookies []*kooky.Cookie) int {
	kept := 0
	for _, c := range cookies {
		if c == nil {
			continue
		}
		host := strings.TrimPrefix(strings.ToLower(c.Domain), ".")
		if !isPlatformHost(host) {
			continue
		}
		jar.SetCookies(&url.URL{Scheme: "https", Host: host, Path: "/"}, []*http.Cookie{toHTTPCookie(c)})
		kept++
	}
	return kept
}

// toHTTPCookie converts a kooky cookie to http.Cookie format.
func toHTTPCookie(c *kooky.Cookie) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Expires:  c.Expires,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
}

// isPlatformHost reports whether host belongs to a platform domain.
func isPlatformHost(host string) bool {
	if host == "" {
		return false
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return false
	}
	return consts.PlatformDomains[domain]
}
