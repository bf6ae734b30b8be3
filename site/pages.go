package site

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"adventune/folio/content"
	"adventune/folio/cv"
	"adventune/folio/listing"
	"adventune/folio/transform"
)

type tagLink struct {
	Name    string
	Slug    string
	Count   int
	Current bool
}

type pageLink struct {
	Number  int
	URL     string
	Current bool
}

type homeView struct {
	Projects []content.Project
	Latest   []content.Post
}

type blogView struct {
	Posts []content.Post
	Pages []pageLink
	Prev  string
	Next  string
	Tags  []tagLink
}

type postView struct {
	Post content.Post
	Tags []tagLink
	Toc  []transform.TocItem
	HTML template.HTML
}

type tagView struct {
	Title string
	Posts []content.Post
	Tags  []tagLink
}

type pageView struct {
	HTML template.HTML
	Toc  []transform.TocItem
}

type cvView struct {
	Intro    template.HTML
	Sections []cv.Section
}

type projectView struct {
	Project content.Project
	HTML    template.HTML
}

// blogURL is the address of a blog index page. The first page lives at /blog/.
func blogURL(page int) string {
	if page <= 1 {
		return "/blog/"
	}
	return "/blog/page/" + strconv.Itoa(page) + "/"
}

// tagLinks lists the tags in sidebar order, marking current as selected.
func (s *Site) tagLinks(st *snapshot, current string) []tagLink {
	counts := listing.CountTags(st.store.Posts, s.cfg.Dev)
	sorted := listing.SortTagsByCount(counts)

	links := make([]tagLink, len(sorted))
	for i, tag := range sorted {
		slug := content.TagSlug(tag)
		links[i] = tagLink{Name: tag, Slug: slug, Count: counts[tag], Current: slug == current}
	}
	return links
}

// findPost looks a post up by slug. Drafts only exist in dev mode.
func (s *Site) findPost(st *snapshot, slug string) (content.Post, error) {
	post, err := st.store.FindPost(slug)
	if err != nil {
		return content.Post{}, err
	}
	if post.Draft && !s.cfg.Dev {
		return content.Post{}, fmt.Errorf("post %q is a draft: %w", slug, content.ErrNotFound)
	}
	return post, nil
}

func (s *Site) renderHome(w io.Writer, st *snapshot) error {
	latest := listing.Latest(listing.Published(st.store.Posts, s.cfg.Dev), s.cfg.LatestPosts)
	return s.execute(w, "home", "", "/", homeView{Projects: st.store.Projects, Latest: latest})
}

// renderBlog renders one page of the blog index. Pages out of range render
// an empty list.
func (s *Site) renderBlog(w io.Writer, st *snapshot, page int) error {
	sorted := listing.Sort(listing.Published(st.store.Posts, false))
	total := listing.TotalPages(len(sorted), s.cfg.PostsPerPage)

	v := blogView{
		Posts: listing.Paginate(sorted, page, s.cfg.PostsPerPage),
		Tags:  s.tagLinks(st, ""),
	}
	for n := 1; n <= total; n++ {
		v.Pages = append(v.Pages, pageLink{Number: n, URL: blogURL(n), Current: n == page})
	}
	if page > 1 && page <= total {
		v.Prev = blogURL(page - 1)
	}
	if page >= 1 && page < total {
		v.Next = blogURL(page + 1)
	}
	return s.execute(w, "blog", "Blog", blogURL(page), v)
}

func (s *Site) renderPost(w io.Writer, st *snapshot, slug string) error {
	post, err := s.findPost(st, slug)
	if err != nil {
		return err
	}

	doc := s.renderer.RenderDocument(post.Body)
	v := postView{Post: post, HTML: doc.HTML}
	if post.ShowToc() {
		v.Toc = doc.Toc
	}
	for _, tag := range post.Tags {
		v.Tags = append(v.Tags, tagLink{Name: tag, Slug: content.TagSlug(tag)})
	}
	return s.execute(w, "post", post.Title, "/blog/"+slug+"/", v)
}

// renderPostMarkdown writes the post as plain markdown headed by its title.
func (s *Site) renderPostMarkdown(w io.Writer, st *snapshot, slug string) error {
	post, err := s.findPost(st, slug)
	if err != nil {
		return err
	}

	md, err := s.renderer.ExportMarkdown(post.Body)
	if err != nil {
		return fmt.Errorf("post %q: %w", slug, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", post.Title)
	if post.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", post.Description)
	}
	b.WriteString(strings.TrimSpace(md))
	b.WriteString("\n")

	_, err = io.WriteString(w, b.String())
	return err
}

func (s *Site) renderTags(w io.Writer, st *snapshot) error {
	return s.execute(w, "tags", "Tags", "/tags/", s.tagLinks(st, ""))
}

// renderTag lists the posts carrying the tag whose slug is tagSlug. Drafts
// count only in dev mode, as they do for tagLinks, so every linked tag has a
// page. A slug no such post carries is not found.
func (s *Site) renderTag(w io.Writer, st *snapshot, tagSlug string) error {
	posts := listing.ByTagSlug(listing.Sort(listing.Published(st.store.Posts, s.cfg.Dev)), tagSlug)
	if len(posts) == 0 {
		return fmt.Errorf("tag %q: %w", tagSlug, content.ErrNotFound)
	}

	title := tagTitle(tagSlug)
	v := tagView{Title: title, Posts: posts, Tags: s.tagLinks(st, tagSlug)}
	return s.execute(w, "tag", title, "/tags/"+tagSlug+"/", v)
}

func (s *Site) renderAbout(w io.Writer, st *snapshot) error {
	doc := s.renderer.RenderDocument(st.store.About.Body)
	title := st.store.About.Title
	if title == "" {
		title = "About"
	}
	return s.execute(w, "about", title, "/about/", pageView{HTML: doc.HTML, Toc: doc.Toc})
}

func (s *Site) renderCV(w io.Writer, st *snapshot) error {
	v := cvView{Sections: cv.Build(st.cv, cv.DefaultLayout())}
	if st.store.CVIntro.Body != "" {
		v.Intro = s.renderer.RenderDocument(st.store.CVIntro.Body).HTML
	}
	return s.execute(w, "cv", "CV", "/cv/", v)
}

func (s *Site) renderProjects(w io.Writer, st *snapshot) error {
	return s.execute(w, "projects", "Projects", "/projects/", st.store.Projects)
}

func (s *Site) renderProject(w io.Writer, st *snapshot, id string) error {
	project, err := st.store.FindProject(id)
	if err != nil {
		return err
	}

	v := projectView{Project: project}
	if project.Body != "" {
		v.HTML = s.renderer.RenderDocument(project.Body).HTML
	}
	return s.execute(w, "project", project.Title, "/projects/"+id+"/", v)
}

func (s *Site) renderNotFound(w io.Writer) error {
	return s.execute(w, "notfound", "Not found", "", nil)
}
