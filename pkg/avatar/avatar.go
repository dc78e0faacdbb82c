package avatar

import (
	"fmt"
	"net/url"
	"strings"
)

const placeholderBase = "https://ui-avatars.com/api/"

// SafeURL returns a usable avatar URL for chat and profile displays.
// Stored picture values pass through only when they are absolute
// http(s) URLs; anything else (empty values, local paths, junk) falls
// back to a generated initials placeholder keyed by display name.
func SafeURL(pictureURL, displayName string) string {
	trimmed := strings.TrimSpace(pictureURL)
	if isHTTPURL(trimmed) {
		return trimmed
	}
	return fmt.Sprintf("%s?name=%s&background=random", placeholderBase, url.QueryEscape(displayName))
}

func isHTTPURL(raw string) bool {
	if raw == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
