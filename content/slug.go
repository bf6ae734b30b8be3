package content

import (
	"path/filepath"
	"strings"

	"github.com/goliatone/go-slug"
)

// SlugFromPath derives a post slug from its path relative to the posts directory.
// "2024/intro.md" becomes "2024/intro" and "intro/index.md" becomes "intro".
func SlugFromPath(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	if rel == "index" {
		return ""
	}
	return strings.TrimSuffix(rel, "/index")
}

// TagSlug returns the URL segment for a tag.
func TagSlug(tag string) string {
	s, err := slug.Normalize(tag)
	if err != nil || s == "" {
		return strings.ToLower(strings.Join(strings.Fields(tag), "-"))
	}
	return s
}
