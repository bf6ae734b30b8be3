// Package listing orders, pages and tags posts for the blog and tag pages.
package listing

import (
	"sort"

	"adventune/folio/content"
)

// PageSize is the default number of posts per blog page.
const PageSize = 5

// TagCounts maps a tag to the number of posts carrying it.
type TagCounts map[string]int

// Published returns the posts that are not drafts, or all posts when
// includeDrafts is set.
func Published(posts []content.Post, includeDrafts bool) []content.Post {
	out := make([]content.Post, 0, len(posts))
	for _, p := range posts {
		if includeDrafts || !p.Draft {
			out = append(out, p)
		}
	}
	return out
}

// Sort returns posts ordered by ISO date string, newest first. Posts with
// equal dates keep their relative order.
func Sort(posts []content.Post) []content.Post {
	out := append([]content.Post(nil), posts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// Paginate returns the 1-based page of posts. Pages outside the range yield
// an empty slice.
func Paginate(posts []content.Post, page, size int) []content.Post {
	if page < 1 || size < 1 {
		return []content.Post{}
	}
	start := (page - 1) * size
	if start >= len(posts) {
		return []content.Post{}
	}
	end := start + size
	if end > len(posts) {
		end = len(posts)
	}
	return posts[start:end]
}

// TotalPages is the number of pages needed for n posts.
func TotalPages(n, size int) int {
	if size < 1 {
		return 0
	}
	return (n + size - 1) / size
}

// Latest returns the n newest posts.
func Latest(posts []content.Post, n int) []content.Post {
	sorted := Sort(posts)
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// CountTags counts tag occurrences on non-draft posts, or on all posts when
// includeDrafts is set.
func CountTags(posts []content.Post, includeDrafts bool) TagCounts {
	counts := TagCounts{}
	for _, p := range Published(posts, includeDrafts) {
		for _, tag := range p.Tags {
			counts[tag]++
		}
	}
	return counts
}

// SortTagsByCount returns the tags ordered by count, most used first.
// Equal counts are ordered by tag name.
func SortTagsByCount(counts TagCounts) []string {
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	return tags
}

// ByTagSlug returns the posts having a tag whose slug is tagSlug.
func ByTagSlug(posts []content.Post, tagSlug string) []content.Post {
	var out []content.Post
	for _, p := range posts {
		for _, tag := range p.Tags {
			if content.TagSlug(tag) == tagSlug {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
