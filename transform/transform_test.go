package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTocExample(t *testing.T) {
	toc, content := ExtractToc("- [Intro](#intro)\n\n# Intro")

	assert.Equal(t, []TocItem{{ID: "intro", Text: "Intro", Level: 2}}, toc)
	assert.Equal(t, "# Intro", content)
}

func TestExtractTocNested(t *testing.T) {
	body := strings.Join([]string{
		"",
		"- [Setup](#setup)",
		"  - [Packages](#packages)",
		"  - [A rather long",
		"    heading](#long-heading)",
		"- [Results](#results)",
		"",
		"",
		"## Setup",
		"text",
	}, "\n")

	toc, content := ExtractToc(body)

	require.Len(t, toc, 4)
	assert.Equal(t, TocItem{ID: "setup", Text: "Setup", Level: 2}, toc[0])
	assert.Equal(t, TocItem{ID: "packages", Text: "Packages", Level: 3}, toc[1])
	assert.Equal(t, TocItem{ID: "long-heading", Text: "A rather long heading", Level: 3}, toc[2])
	assert.Equal(t, TocItem{ID: "results", Text: "Results", Level: 2}, toc[3])
	assert.Equal(t, "## Setup\ntext", content)
	assert.NotContains(t, content, "](#")
}

func TestExtractTocIdentity(t *testing.T) {
	bodies := []string{
		"",
		"# Title\n\n- [Intro](#intro)\n",
		"Some prose.\n- [a](#a)",
		"- [External](https://example.com)\n\ntext",
		"- plain list item\n- another",
		"\n\n## Heading\n",
	}
	for _, body := range bodies {
		toc, content := ExtractToc(body)
		assert.Empty(t, toc, body)
		assert.Equal(t, body, content)
	}
}

func TestExtractTocUnfinishedEntry(t *testing.T) {
	body := "- [Broken](#broken\n- [Other](#other)\n\ntext"

	toc, content := ExtractToc(body)
	assert.Empty(t, toc)
	assert.Equal(t, body, content)
}

func TestExtractTocBracketsAndCode(t *testing.T) {
	body := strings.Join([]string{
		"- [Using `x[1]`](#using)",
		"  - [The [draft] model](#draft-model)",
		"  - [Closing `]` alone](#closing)",
		"",
		"text",
	}, "\n")

	toc, content := ExtractToc(body)

	require.Len(t, toc, 3)
	assert.Equal(t, TocItem{ID: "using", Text: "Using `x[1]`", Level: 2}, toc[0])
	assert.Equal(t, TocItem{ID: "draft-model", Text: "The [draft] model", Level: 3}, toc[1])
	assert.Equal(t, TocItem{ID: "closing", Text: "Closing `]` alone", Level: 3}, toc[2])
	assert.Equal(t, "text", content)
}

func TestExtractTocRunTogetherEntries(t *testing.T) {
	for _, body := range []string{
		"- [A - [B](#b)\n\ntext",
		"- [A\n- [B](#b)\n\ntext",
	} {
		toc, content := ExtractToc(body)
		assert.Empty(t, toc, body)
		assert.Equal(t, body, content)
	}
}

func TestOpenFence(t *testing.T) {
	tests := map[string]string{
		"```":         "```",
		"```r":        "```",
		"````":        "````",
		"~~~~ python": "~~~~",
		"``":          "",
		"``` a`b":     "",
		"text ```":    "",
		"":            "",
	}
	for line, want := range tests {
		assert.Equal(t, want, OpenFence(line), line)
	}
}

func TestClosesFence(t *testing.T) {
	assert.True(t, ClosesFence("```", "```"))
	assert.True(t, ClosesFence("`````", "````"))
	assert.True(t, ClosesFence("~~~  ", "~~~"))
	assert.False(t, ClosesFence("```", "````"))
	assert.False(t, ClosesFence("```r", "```"))
	assert.False(t, ClosesFence("~~~", "```"))
	assert.False(t, ClosesFence("```", ""))
}

func TestStripMathTags(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a <math> $x$ </math> b", "a $x$ b"},
		{"<math>\n$$\ny = x\n$$\n</math>", "$$\ny = x\n$$"},
		{"typo <math>$x$/<math> end", "typo $x$ end"},
		{"no math here", "no math here"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripMathTags(tt.in), tt.in)
	}
}

func TestNormalizeBlockMath(t *testing.T) {
	in := "The model is $$\ny = a + bx\n$$\nwhere a is the intercept."
	want := "The model is\n\n$$\ny = a + bx\n$$\nwhere a is the intercept."
	assert.Equal(t, want, NormalizeBlockMath(in))
}

func TestNormalizeBlockMathLeavesOthers(t *testing.T) {
	bodies := []string{
		"inline $$x^2$$ stays",
		"$$\ny\n$$",
		"```\nprice is $$\n```",
		"$$ y = x $$ and more",
		"````md\n```r\nprice is $$\n```\n````",
		"~~~\n```\nprice is $$\n~~~",
	}
	for _, body := range bodies {
		assert.Equal(t, body, NormalizeBlockMath(body), body)
	}
}

func TestRewriteFigures(t *testing.T) {
	in := "before\n\n<div id=\"fig-scatter\" class=\"quarto-figure\">\n\n![](plot.png)\n\nFigure 1: A scatter <plot>\n\n</div>\n\nafter"

	out := RewriteFigures(in, nil)

	assert.Equal(t, "before\n\n<figure id=\"fig-scatter\">\n<img src=\"plot.png\" alt=\"\">\n<figcaption>Figure 1: A scatter &lt;plot&gt;</figcaption>\n</figure>\n\nafter", out)
	assert.NotContains(t, out, "<div")
}

func TestRewriteFiguresCustomImage(t *testing.T) {
	in := "<div id=\"fig-a\">\n![Alt](a.png){width=50%}\n</div>"

	out := RewriteFigures(in, func(src, alt string) string { return "IMG(" + src + "," + alt + ")" })

	assert.Equal(t, "<figure id=\"fig-a\">\nIMG(a.png,Alt)\n</figure>", out)
}

func TestRewriteFiguresIgnoresOtherDivs(t *testing.T) {
	in := "<div id=\"cell-1\">\n\n![](a.png)\n\ncaption\n\n</div>"
	assert.Equal(t, in, RewriteFigures(in, nil))
}

func TestApply(t *testing.T) {
	body := "- [Intro](#intro)\n\n## Intro\n\nSee <math>$x$</math>.\n\n<div id=\"fig-1\">\n\n![](a.png)\n\nCap\n\n</div>"

	res := Apply(body, Options{})

	require.Len(t, res.Toc, 1)
	assert.Equal(t, "## Intro\n\nSee $x$.\n\n<figure id=\"fig-1\">\n<img src=\"a.png\" alt=\"\">\n<figcaption>Cap</figcaption>\n</figure>", res.Content)
}
