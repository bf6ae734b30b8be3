package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned by the Find methods for unknown keys.
var ErrNotFound = errors.New("content not found")

const (
	postsDir    = "posts"
	projectsDir = "projects"
	aboutFile   = "about.md"
	cvIntroFile = "cv.md"
	projectsDB  = "projects.json"
)

// Project is an entry of the projects grid.
type Project struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	// Body is the markdown of content/projects/<id>.md, if any.
	Body string `json:"-"`
}

// Store is the read-only content compiled from the content and data directories.
type Store struct {
	Posts    []Post
	Projects []Project
	About    Page
	CVIntro  Page
}

// Load reads posts and pages from contentDir and projects from dataDir.
// Posts with invalid front matter are logged and skipped.
func Load(contentDir, dataDir string) (*Store, error) {
	s := &Store{}

	posts, err := loadPosts(filepath.Join(contentDir, postsDir))
	if err != nil {
		return nil, err
	}
	s.Posts = posts

	if s.About, err = loadPage(filepath.Join(contentDir, aboutFile)); err != nil {
		return nil, err
	}
	if s.CVIntro, err = loadPage(filepath.Join(contentDir, cvIntroFile)); err != nil {
		return nil, err
	}

	projects, err := loadProjects(filepath.Join(dataDir, projectsDB), filepath.Join(contentDir, projectsDir))
	if err != nil {
		return nil, err
	}
	s.Projects = projects

	log.Debug().Int("posts", len(s.Posts)).Int("projects", len(s.Projects)).Msg("Content loaded")
	return s, nil
}

// FindPost looks up a post by slug.
func (s *Store) FindPost(slug string) (Post, error) {
	for _, p := range s.Posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, fmt.Errorf("post %q: %w", slug, ErrNotFound)
}

// FindProject looks up a project by id.
func (s *Store) FindProject(id string) (Project, error) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, nil
		}
	}
	return Project{}, fmt.Errorf("project %q: %w", id, ErrNotFound)
}

func loadPosts(dir string) ([]Post, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Warn().Str("path", dir).Msg("Posts directory not found")
		return nil, nil
	}

	paths, err := MarkdownFiles(dir)
	if err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(paths))
	seen := map[string]string{}
	for _, path := range paths {
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil, err
		}

		source, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read post %s: %w", path, err)
		}

		slug := SlugFromPath(rel)
		post, err := ParsePost(slug, path, source)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("Skipping post")
			continue
		}
		if other, ok := seen[slug]; ok {
			log.Error().Str("path", path).Str("other", other).Str("slug", slug).Msg("Skipping post with duplicate slug")
			continue
		}
		seen[slug] = path

		posts = append(posts, post)
	}
	return posts, nil
}

// MarkdownFiles returns every .md file under dir in lexical order.
func MarkdownFiles(dir string) ([]string, error) {
	paths := []string{}
	err := filepath.Walk(dir, visit(&paths))
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return paths, nil
}

// Custom walk function collecting markdown files.
func visit(paths *[]string) filepath.WalkFunc {
	return func(path string, f os.FileInfo, err error) error {
		if err != nil {
			log.Error().Err(err).Msg("Failed to access path")
			return nil // continue walking elsewhere
		}
		if f.IsDir() {
			return nil
		}

		if filepath.Ext(path) == ".md" {
			*paths = append(*paths, path)
			log.Debug().Str("path", path).Msg("Found file")
		}
		return nil
	}
}

func loadPage(path string) (Page, error) {
	source, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Page{}, nil
	}
	if err != nil {
		return Page{}, fmt.Errorf("read page %s: %w", path, err)
	}

	page, err := ParsePage(source)
	if err != nil {
		return Page{}, fmt.Errorf("page %s: %w", path, err)
	}
	return page, nil
}

func loadProjects(dbPath, pagesDir string) ([]Project, error) {
	data, err := os.ReadFile(dbPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read projects: %w", err)
	}

	var projects []Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("decode %s: %w", dbPath, err)
	}

	for i, p := range projects {
		if p.URL == "" {
			projects[i].URL = "/projects/" + p.ID + "/"
		}
		page, err := loadPage(filepath.Join(pagesDir, p.ID+".md"))
		if err != nil {
			return nil, err
		}
		projects[i].Body = page.Body
	}
	return projects, nil
}
