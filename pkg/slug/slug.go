package slug

import (
	"fmt"
	"regexp"
	"strings"
)

var nonAlphaNumRegex = regexp.MustCompile(`[^a-z0-9 ]+`)
var multiSpaceRegex = regexp.MustCompile(` +`)

// GenerateProfileSlug generates a URL-friendly slug from a display name
// and a numeric ID.
// Format: {normalized-name}-{id}
// Example: "Jane O'Connor" + 42 -> "jane-oconnor-42"
func GenerateProfileSlug(name string, id int64) string {
	slug := strings.ToLower(strings.TrimSpace(name))

	slug = nonAlphaNumRegex.ReplaceAllString(slug, "")
	slug = multiSpaceRegex.ReplaceAllString(slug, " ")
	slug = strings.ReplaceAll(slug, " ", "-")

	// ID suffix keeps slugs unique across same-named profiles
	return fmt.Sprintf("%s-%d", slug, id)
}
