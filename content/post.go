package content

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DateLayout is the ISO date format posts are dated with.
const DateLayout = "2006-01-02"

// Post is a single blog post loaded from content/posts.
type Post struct {
	Slug        string
	Title       string
	Description string
	Date        string
	Updated     string
	Tags        []string
	Draft       bool
	// Toc is nil unless the front matter sets it.
	Toc        *bool
	Body       string
	SourcePath string
}

// ShowToc reports whether the post page should carry a table of contents.
func (p Post) ShowToc() bool {
	return p.Toc == nil || *p.Toc
}

type postFrontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Updated     string   `yaml:"updated"`
	Tags        []string `yaml:"tags"`
	Draft       bool     `yaml:"draft"`
	Toc         *bool    `yaml:"toc"`
}

func (fm postFrontMatter) Validate() error {
	return validation.ValidateStruct(&fm,
		validation.Field(&fm.Title, validation.Required, validation.Length(1, 99)),
		validation.Field(&fm.Description, validation.Length(0, 999)),
		validation.Field(&fm.Date, validation.Required, validation.Date(DateLayout)),
		validation.Field(&fm.Updated, validation.Date(DateLayout)),
	)
}

// ParsePost builds a Post from a markdown source with YAML front matter.
func ParsePost(slug, path string, source []byte) (Post, error) {
	var fm postFrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &fm)
	if err != nil {
		return Post{}, fmt.Errorf("parse front matter of %s: %w", path, err)
	}

	if err := fm.Validate(); err != nil {
		return Post{}, fmt.Errorf("invalid front matter in %s: %w", path, err)
	}

	return Post{
		Slug:        slug,
		Title:       fm.Title,
		Description: fm.Description,
		Date:        fm.Date,
		Updated:     fm.Updated,
		Tags:        fm.Tags,
		Draft:       fm.Draft,
		Toc:         fm.Toc,
		Body:        string(body),
		SourcePath:  path,
	}, nil
}

// Page is a standalone markdown page such as about.md.
type Page struct {
	Title string
	Body  string
}

// ParsePage reads an optional title from the front matter and keeps the rest as body.
func ParsePage(source []byte) (Page, error) {
	var fm struct {
		Title string `yaml:"title"`
	}
	body, err := frontmatter.Parse(bytes.NewReader(source), &fm)
	if err != nil {
		return Page{}, fmt.Errorf("parse front matter: %w", err)
	}
	return Page{Title: fm.Title, Body: string(body)}, nil
}
