package cv

import "strings"

// Style is how a group of entries is shown.
type Style string

const (
	// StyleTable shows year and content rows.
	StyleTable Style = "table"
	// StyleList shows a bullet list of content.
	StyleList Style = "list"
	// StyleInline joins content into one sentence.
	StyleInline Style = "inline"
)

// Group selects entries of one subsection.
type Group struct {
	Title      string
	Subsection string
	Style      Style
	// All keeps entries whose include flag is off.
	All bool
}

// SectionLayout is a top-level CV heading and its groups.
type SectionLayout struct {
	Title   string
	Section string
	Groups  []Group
}

// Section is a SectionLayout resolved against the loaded entries.
type Section struct {
	Title  string
	Groups []ResolvedGroup
}

// ResolvedGroup carries the entries selected for a Group.
type ResolvedGroup struct {
	Title   string
	Style   Style
	Entries []Entry
}

// Sentence joins the group's entries as "A, B, and C".
func (g ResolvedGroup) Sentence() string {
	items := make([]string, len(g.Entries))
	for i, e := range g.Entries {
		items[i] = e.Content
	}
	return JoinSentence(items)
}

// JoinSentence joins items with commas and a final "and".
func JoinSentence(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}

// Build resolves layout against entries. Groups without entries are dropped,
// and so are sections left without groups.
func Build(entries []Entry, layout []SectionLayout) []Section {
	var sections []Section
	for _, sl := range layout {
		s := Section{Title: sl.Title}
		for _, g := range sl.Groups {
			selected := Filter(entries, sl.Section, g.Subsection, !g.All)
			if len(selected) == 0 {
				continue
			}
			s.Groups = append(s.Groups, ResolvedGroup{Title: g.Title, Style: g.Style, Entries: selected})
		}
		if len(s.Groups) > 0 {
			sections = append(sections, s)
		}
	}
	return sections
}

// DefaultLayout is the section order of the CV page.
func DefaultLayout() []SectionLayout {
	list := func(names ...string) []Group {
		groups := make([]Group, len(names))
		for i, n := range names {
			groups[i] = Group{Title: n, Subsection: n, Style: StyleList}
		}
		return groups
	}
	table := func(names ...string) []Group {
		groups := make([]Group, len(names))
		for i, n := range names {
			groups[i] = Group{Title: n, Subsection: n, Style: StyleTable}
		}
		return groups
	}

	return []SectionLayout{
		{Title: "Employment", Section: "Employment", Groups: []Group{{Style: StyleTable}}},
		{Title: "Education", Section: "Education", Groups: []Group{{Style: StyleTable}}},
		{Title: "Skills", Section: "Skills", Groups: list("Research", "Statistics", "Software", "Programming", "Survey platforms")},
		{Title: "Publications", Section: "Publications", Groups: list("Preprints", "Peer-reviewed journals", "Book chapters", "Dissertation", "Software")},
		{Title: "Presentations", Section: "Presentations", Groups: list("Invited talks", "Conference presentations", "Small meetings", "Poster presentations", "Valorization presentations")},
		{Title: "Journals", Section: "Journals", Groups: []Group{{Title: "", Style: StyleInline, All: true}}},
		{Title: "Teaching", Section: "Teaching", Groups: table("Courses", "Seminars", "Individual lectures", "Supervision")},
	}
}
