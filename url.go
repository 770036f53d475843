package sitechat

import (
	"net/url"
	"strings"
)

// NormalizeURL canonicalizes a URL for deduplication. It strips the
// fragment identifier and drops a single trailing slash from non-root
// paths. The query string is preserved: two URLs differing only in
// fragment normalize identically, two differing in query do not.
//
// Malformed input is returned unchanged so that a bad URL degrades to
// "always distinct" rather than aborting a crawl.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return rawURL
	}

	u.Fragment = ""
	u.RawFragment = ""

	// Root path keeps its slash.
	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = ""
	}

	return u.String()
}

// SameDomain reports whether the URL's host matches baseHost exactly.
// No subdomain matching, no scheme check. Malformed input returns false.
func SameDomain(rawURL, baseHost string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Host != "" && u.Host == baseHost
}

// ResolveURL resolves a possibly-relative link reference against the
// page it was found on. Returns an empty string for unresolvable input.
func ResolveURL(pageURL, ref string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	resolved, err := base.Parse(ref)
	if err != nil {
		return ""
	}
	return resolved.String()
}
