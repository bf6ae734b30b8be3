package site

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adventune/folio/config"
	"adventune/folio/content"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func fixtureConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()

	cfg := config.Default()
	cfg.ContentDir = filepath.Join(root, "content")
	cfg.DataDir = filepath.Join(root, "data")
	cfg.Site.Title = "Folio"
	cfg.Site.Author = "Jane Doe"

	writeFile(t, filepath.Join(cfg.ContentDir, "posts", "hello.md"), `---
title: Hello
description: First words
date: 2024-06-01
updated: 2024-06-15
tags: [R, Statistics]
---
## Intro

Some text.

`+"```go\nfmt.Println(1)\n```\n")
	writeFile(t, filepath.Join(cfg.ContentDir, "posts", "old", "index.md"), `---
title: Old news
date: 2024-01-01
tags: [R]
toc: false
---
## Hidden heading

Old text.
`)
	writeFile(t, filepath.Join(cfg.ContentDir, "posts", "secret.md"), `---
title: Secret post
date: 2024-07-01
draft: true
tags: [Secret]
---
Not yet.
`)
	writeFile(t, filepath.Join(cfg.ContentDir, "about.md"), "---\ntitle: About me\n---\nI study *things*.\n")
	writeFile(t, filepath.Join(cfg.ContentDir, "cv.md"), "I work at a lab.\n")
	writeFile(t, filepath.Join(cfg.ContentDir, "projects", "lime.md"), "LIME **details**.\n")
	writeFile(t, filepath.Join(cfg.DataDir, "projects.json"), `[
  {"id": "lime", "title": "LIME", "description": "Explore interventions."},
  {"id": "ext", "title": "External", "description": "Elsewhere.", "url": "https://example.com"}
]`)
	writeFile(t, filepath.Join(cfg.DataDir, "cv.csv"), "section,subsection,year,content,include\nEmployment,,2022-now,Senior scientist,TRUE\nJournals,,,Cognition,FALSE\nJournals,,,Emotion,TRUE\n")

	return cfg
}

func newSite(t *testing.T, cfg config.Config) *Site {
	t.Helper()
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, target string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	res := rec.Result()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

func TestRoutes(t *testing.T) {
	s := newSite(t, fixtureConfig(t))

	paths := map[string]bool{}
	for _, page := range s.Routes() {
		var buf bytes.Buffer
		require.NoError(t, page.Render(&buf), page.Path)
		assert.NotEmpty(t, buf.String(), page.Path)
		paths[page.Path] = true
	}

	for _, p := range []string{
		"/", "/blog/", "/tags/", "/about/", "/cv/", "/projects/", NotFoundPath,
		"/blog/hello/", "/blog/hello/index.md", "/blog/old/", "/blog/old/index.md",
		"/tags/" + content.TagSlug("R") + "/", "/tags/" + content.TagSlug("Statistics") + "/",
		"/projects/lime/",
	} {
		assert.True(t, paths[p], "missing route %s", p)
	}
	assert.False(t, paths["/blog/secret/"])
	assert.False(t, paths["/tags/"+content.TagSlug("Secret")+"/"])
	assert.False(t, paths["/projects/ext/"])
	assert.False(t, paths["/blog/page/2/"])
}

func TestRoutesPaginated(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.PostsPerPage = 1
	s := newSite(t, cfg)

	paths := map[string]bool{}
	for _, page := range s.Routes() {
		paths[page.Path] = true
	}
	assert.True(t, paths["/blog/page/2/"])
	assert.False(t, paths["/blog/page/3/"])
}

func TestRoutesDevIncludesDrafts(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Dev = true
	s := newSite(t, cfg)

	paths := map[string]bool{}
	for _, page := range s.Routes() {
		paths[page.Path] = true
	}
	assert.True(t, paths["/blog/secret/"])
}

func TestHandlerServesEveryRoute(t *testing.T) {
	for _, dev := range []bool{false, true} {
		cfg := fixtureConfig(t)
		cfg.Dev = dev
		writeFile(t, filepath.Join(cfg.ContentDir, "posts", "2024", "deep.md"), "---\ntitle: Deep dive\ndate: 2024-03-01\ntags: [Nested]\n---\nDeep text.\n")
		s := newSite(t, cfg)
		h := s.Handler()

		for _, page := range s.Routes() {
			if page.Path == NotFoundPath {
				continue
			}
			res, _ := get(t, h, page.Path)
			assert.Equal(t, http.StatusOK, res.StatusCode, "dev=%v %s", dev, page.Path)
		}
	}
}

func TestNestedPost(t *testing.T) {
	cfg := fixtureConfig(t)
	writeFile(t, filepath.Join(cfg.ContentDir, "posts", "2024", "deep.md"), "---\ntitle: Deep dive\ndate: 2024-03-01\n---\nDeep text.\n")
	s := newSite(t, cfg)
	h := s.Handler()

	paths := map[string]bool{}
	for _, page := range s.Routes() {
		paths[page.Path] = true
	}
	assert.True(t, paths["/blog/2024/deep/"])
	assert.True(t, paths["/blog/2024/deep/index.md"])

	res, body := get(t, h, "/blog/2024/deep/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Deep text.")

	res, body = get(t, h, "/blog/2024/deep/index.md")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/markdown; charset=utf-8", res.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, "# Deep dive\n"), body)

	for _, target := range []string{"/blog/2024/", "/blog/2024/deep", "/blog/index.md"} {
		res, _ = get(t, h, target)
		assert.Equal(t, http.StatusNotFound, res.StatusCode, target)
	}
}

var tagHref = regexp.MustCompile(`href="(/tags/[^"]+/)"`)

func TestDevTagLinksResolve(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Dev = true
	h := newSite(t, cfg).Handler()

	_, blog := get(t, h, "/blog/")
	assert.Contains(t, blog, "Secret (1)")
	_, tags := get(t, h, "/tags/")
	_, draft := get(t, h, "/blog/secret/")

	links := map[string]bool{}
	for _, body := range []string{blog, tags, draft} {
		for _, m := range tagHref.FindAllStringSubmatch(body, -1) {
			links[m[1]] = true
		}
	}
	require.Contains(t, links, "/tags/"+content.TagSlug("Secret")+"/")

	for link := range links {
		res, body := get(t, h, link)
		assert.Equal(t, http.StatusOK, res.StatusCode, link)
		assert.NotContains(t, body, "Nothing to see here yet", link)
	}

	_, secret := get(t, h, "/tags/"+content.TagSlug("Secret")+"/")
	assert.Contains(t, secret, "Secret post")
}

func TestTagLinksResolve(t *testing.T) {
	h := newSite(t, fixtureConfig(t)).Handler()

	_, blog := get(t, h, "/blog/")
	_, post := get(t, h, "/blog/hello/")
	for _, body := range []string{blog, post} {
		for _, m := range tagHref.FindAllStringSubmatch(body, -1) {
			res, _ := get(t, h, m[1])
			assert.Equal(t, http.StatusOK, res.StatusCode, m[1])
		}
	}
}

func TestHome(t *testing.T) {
	h := newSite(t, fixtureConfig(t)).Handler()

	res, body := get(t, h, "/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", res.Header.Get("Content-Type"))
	assert.Contains(t, body, "Jane Doe")
	assert.Contains(t, body, "LIME")
	assert.Contains(t, body, "Hello")
	assert.Contains(t, body, "Old news")
	assert.NotContains(t, body, "Secret post")
	assert.Less(t, strings.Index(body, "Hello"), strings.Index(body, "Old news"))
}

func TestHomeDevShowsDrafts(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Dev = true
	h := newSite(t, cfg).Handler()

	_, body := get(t, h, "/")
	assert.Contains(t, body, "Secret post")
}

func TestBlog(t *testing.T) {
	h := newSite(t, fixtureConfig(t)).Handler()

	res, body := get(t, h, "/blog/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Hello")
	assert.Contains(t, body, "Old news")
	assert.NotContains(t, body, "Secret post")
	assert.Contains(t, body, "June 1, 2024")
	assert.Contains(t, body, "Statistics (1)")
	assert.NotContains(t, body, `rel="next"`)
}

func TestBlogPagination(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.PostsPerPage = 1
	h := newSite(t, cfg).Handler()

	_, first := get(t, h, "/blog/")
	assert.Contains(t, first, "Hello")
	assert.NotContains(t, first, "Old news")
	assert.Contains(t, first, `href="/blog/page/2/" rel="next"`)

	for _, target := range []string{"/blog/?page=2", "/blog/page/2/"} {
		res, body := get(t, h, target)
		assert.Equal(t, http.StatusOK, res.StatusCode, target)
		assert.Contains(t, body, "Old news", target)
		assert.NotContains(t, body, "First words", target)
		assert.Contains(t, body, `href="/blog/" rel="prev"`, target)
	}

	_, bad := get(t, h, "/blog/?page=abc")
	assert.Contains(t, bad, "Hello")

	res, body := get(t, h, "/blog/page/9/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Nothing to see here yet")

	res, _ = get(t, h, "/blog/page/x/")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestPost(t *testing.T) {
	h := newSite(t, fixtureConfig(t)).Handler()

	res, body := get(t, h, "/blog/hello/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "<title>Hello | Folio</title>")
	assert.Contains(t, body, "First words")
	assert.Contains(t, body, "On this page")
	assert.Contains(t, body, `href="#intro"`)
	assert.Contains(t, body, "Last updated")
	assert.Contains(t, body, "June 15, 2024")
	assert.Contains(t, body, "highlight-light")
	assert.Contains(t, body, `href="/tags/`+content.TagSlug("Statistics")+`/"`)
}

func TestPostTocDisabled(t *testing.T) {
	h := newSite(t, fixtureConfig(t)).Handler()

	_, body := get(t, h, "/blog/old/")
	assert.Contains(t, body, "Hidden heading")
	assert.NotContains(t, body, "On this page")
	assert.NotContains(t, body, "Last updated")
}

func TestPostNotFound(t *testing.T) {
	h := newSite(t, fixtureConfig(t)).Handler()

	for _, target := range []string{"/blog/missing/", "/blog/secret/", "/blog/missing/index.md", "/nowhere"} {
		res, body := get(t, h, target)
		assert.Equal(t, http.StatusNotFound, res.StatusCode, target)
		assert.Contains(t, body, "Page not found", target)
	}
}

func TestPostDraftInDev(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Dev = true
	h := newSite(t, cfg).Handler()

	res, body := get(t, h, "/blog/secret/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Not yet.")
}

func TestPostMarkdown(t *testing.T) {
	h := newSite(t, fixtureConfig(t)).Handler()

	res, body := get(t, h, "/blog/hello/index.md")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/markdown; charset=utf-8", res.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, "# Hello\n\nFirst words\n\n"), body)
	assert.Contains(t, body, "Some text.")
	assert.Contains(t, body, "fmt.Println(1)")
	assert.NotContains(t, body, "<div")
}

func TestTags(t *testing.T) {
	h := newSite(t, fixtureConfig(t)).Handler()

	_, body := get(t, h, "/tags/")
	assert.Contains(t, body, "R (2)")
	assert.Contains(t, body, "Statistics (1)")
	assert.NotContains(t, body, "Secret")
	assert.Less(t, strings.Index(body, "R (2)"), strings.Index(body, "Statistics (1)"))
}

func TestTag(t *testing.T) {
	h := newSite(t, fixtureConfig(t)).Handler()

	res, body := get(t, h, "/tags/"+content.TagSlug("Statistics")+"/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Hello")
	assert.NotContains(t, body, "Old news")
	assert.Contains(t, body, "tag tag-current")

	res, _ = get(t, h, "/tags/nope/")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = get(t, h, "/tags/"+content.TagSlug("Secret")+"/")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestAboutAndCV(t *testing.T) {
	h := newSite(t, fixtureConfig(t)).Handler()

	_, about := get(t, h, "/about/")
	assert.Contains(t, about, "About me")
	assert.Contains(t, about, "<em>things</em>")

	_, cv := get(t, h, "/cv/")
	assert.Contains(t, cv, "I work at a lab.")
	assert.Contains(t, cv, "Senior scientist")
	assert.Contains(t, cv, "2022-now")
	assert.Contains(t, cv, "Cognition and Emotion")
}

func TestProjects(t *testing.T) {
	h := newSite(t, fixtureConfig(t)).Handler()

	_, list := get(t, h, "/projects/")
	assert.Contains(t, list, `href="/projects/lime/"`)
	assert.Contains(t, list, `href="https://example.com"`)

	res, page := get(t, h, "/projects/lime/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, page, "<strong>details</strong>")

	res, _ = get(t, h, "/projects/nope/")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestStatic(t *testing.T) {
	h := newSite(t, fixtureConfig(t)).Handler()

	res, body := get(t, h, "/static/css/site.css")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, ".code-fold")

	res, _ = get(t, h, "/static/js/site.js")
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestReload(t *testing.T) {
	cfg := fixtureConfig(t)
	s := newSite(t, cfg)
	h := s.Handler()

	res, _ := get(t, h, "/blog/fresh/")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	writeFile(t, filepath.Join(cfg.ContentDir, "posts", "fresh.md"), "---\ntitle: Fresh\ndate: 2024-08-01\n---\nNew.\n")
	require.NoError(t, s.Reload())

	res, body := get(t, h, "/blog/fresh/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "New.")
}

func TestReloadKeepsContentOnError(t *testing.T) {
	cfg := fixtureConfig(t)
	s := newSite(t, cfg)

	writeFile(t, filepath.Join(cfg.DataDir, "projects.json"), "{broken")
	assert.Error(t, s.Reload())

	res, _ := get(t, s.Handler(), "/blog/hello/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "January 2, 2024", formatDate("2024-01-02"))
	assert.Equal(t, "someday", formatDate("someday"))
}

func TestTagTitle(t *testing.T) {
	assert.Equal(t, "Open Science", tagTitle("open-science"))
	assert.Equal(t, "Statistics", tagTitle("statistics"))
}
