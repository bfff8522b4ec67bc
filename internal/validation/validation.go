// Package validation checks user-supplied URLs, origin patterns and asset
// paths before they reach the filesystem or the network.
package validation

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// ValidateURL accepts absolute http and https URLs with a host.
func ValidateURL(rawURL string) error {
	if strings.ContainsAny(rawURL, " \t\r\n") {
		return fmt.Errorf("URL contains whitespace: %q", rawURL)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme %q (only http/https allowed)", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}

// ValidateOriginPattern checks a websocket origin pattern such as
// "shop.example.com" or "*.example.com". Patterns match hosts, so a scheme
// is rejected.
func ValidateOriginPattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("origin pattern cannot be empty")
	}
	if strings.Contains(pattern, "://") {
		return fmt.Errorf("origin pattern %q must be a host, not a URL", pattern)
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return fmt.Errorf("origin pattern %q: %w", pattern, err)
	}
	return nil
}

// CleanRelPath turns a site-rooted reference like "/images/a.webp?v=2" into
// a clean relative OS path. References that escape the root are rejected.
func CleanRelPath(ref string) (string, error) {
	rel := strings.TrimPrefix(ref, "/")
	if i := strings.IndexAny(rel, "?#"); i >= 0 {
		rel = rel[:i]
	}
	if rel == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if strings.ContainsRune(rel, 0) {
		return "", fmt.Errorf("path contains a null byte")
	}

	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("path traversal detected: %s", ref)
	}
	return clean, nil
}
