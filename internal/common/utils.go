package common

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

var markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)

// SanitizeURL cleans up common copy-paste damage: surrounding whitespace,
// markdown link syntax and stray punctuation at either end.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	for _, char := range []string{",", ".", ")", "}", "]", "\"", "'", ">", ";"} {
		cleaned = strings.TrimSuffix(cleaned, char)
	}
	for _, char := range []string{"(", "[", "<", "\"", "'"} {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	return strings.TrimSpace(cleaned)
}

// IsRemote reports whether source names an http(s) URL rather than a file.
func IsRemote(source string) bool {
	lower := strings.ToLower(strings.TrimSpace(source))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

var urlPattern = regexp.MustCompile(`^https?://[a-zA-Z0-9][-a-zA-Z0-9.]*[a-zA-Z0-9](:\d+)?(/[^\s]*)?$`)

// SanitizeSources cleans every source and returns (usable sources, rejected
// sources). URLs are sanitized and validated; anything else is taken as a
// local file path and passed through trimmed.
func SanitizeSources(sources []string) ([]string, []string) {
	sanitized := make([]string, 0, len(sources))
	var invalid []string

	for _, raw := range sources {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if !IsRemote(SanitizeURL(raw)) {
			sanitized = append(sanitized, strings.TrimSpace(raw))
			continue
		}

		cleaned := SanitizeURL(raw)
		if strings.Contains(cleaned, " ") || !urlPattern.MatchString(cleaned) {
			invalid = append(invalid, raw)
			continue
		}
		parsed, err := url.Parse(cleaned)
		if err != nil || parsed.Host == "" || strings.ContainsAny(parsed.Host, "{}[]<>\"'") {
			invalid = append(invalid, raw)
			continue
		}
		sanitized = append(sanitized, cleaned)
	}

	return sanitized, invalid
}
