// Package urlutils builds absolute site URLs.
package urlutils

import (
	"fmt"
	"net/url"
)

// IsValidURL reports whether urlStr is an absolute http or https URL with a host.
func IsValidURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// ResolveURL resolves ref against base the way a browser resolves a link.
// An absolute ref is returned unchanged; "/notes/x/" replaces the base path.
func ResolveURL(base, ref string) (string, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("failed to parse url %q: %w", ref, err)
	}
	if r.IsAbs() {
		return ref, nil
	}

	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("failed to parse base url %q: %w", base, err)
	}
	return b.ResolveReference(r).String(), nil
}
