// Package highlight renders source code to coloured HTML with chroma, once
// per theme of a light/dark pair.
package highlight

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Options selects the theme pair and per-theme colour replacements.
// ColorReplacements is keyed by theme name, then by the colour to replace.
type Options struct {
	Light             string
	Dark              string
	TabWidth          int
	ColorReplacements map[string]map[string]string
}

// Chroma highlights code for both themes of a pair.
type Chroma struct {
	light     *chroma.Style
	dark      *chroma.Style
	formatter *chromahtml.Formatter
}

// New resolves the styles named in opts. Unknown style names fall back to
// chroma's default style.
func New(opts Options) (*Chroma, error) {
	light, err := loadStyle(opts.Light, opts.ColorReplacements[opts.Light])
	if err != nil {
		return nil, err
	}
	dark, err := loadStyle(opts.Dark, opts.ColorReplacements[opts.Dark])
	if err != nil {
		return nil, err
	}

	tabWidth := opts.TabWidth
	if tabWidth <= 0 {
		tabWidth = 2
	}

	return &Chroma{
		light:     light,
		dark:      dark,
		formatter: chromahtml.New(chromahtml.TabWidth(tabWidth)),
	}, nil
}

// Highlight returns the light and dark renderings of source, each wrapped in
// a div. An unrecognised language is highlighted as plain text.
func (c *Chroma) Highlight(source, language string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	var b strings.Builder
	for _, theme := range []struct {
		class string
		style *chroma.Style
	}{
		{"highlight-light", c.light},
		{"highlight-dark", c.dark},
	} {
		iterator, err := lexer.Tokenise(nil, source)
		if err != nil {
			return "", fmt.Errorf("tokenise %s: %w", language, err)
		}

		fmt.Fprintf(&b, `<div class="highlight %s">`, theme.class)
		if err := c.formatter.Format(&b, theme.style, iterator); err != nil {
			return "", fmt.Errorf("format %s: %w", language, err)
		}
		b.WriteString("</div>")
	}
	return b.String(), nil
}

func loadStyle(name string, replacements map[string]string) (*chroma.Style, error) {
	style := styles.Get(name)
	if len(replacements) == 0 {
		return style, nil
	}

	remapped, err := remapColours(style, replacements)
	if err != nil {
		return nil, fmt.Errorf("style %s: %w", name, err)
	}
	return remapped, nil
}

// remapColours returns a copy of style where every colour equal to a key of
// replacements is swapped for its value.
func remapColours(style *chroma.Style, replacements map[string]string) (*chroma.Style, error) {
	swap := make(map[chroma.Colour]chroma.Colour, len(replacements))
	for from, to := range replacements {
		swap[chroma.ParseColour(from)] = chroma.ParseColour(to)
	}

	replace := func(c chroma.Colour) chroma.Colour {
		if r, ok := swap[c]; ok && c.IsSet() {
			return r
		}
		return c
	}

	builder := style.Builder()
	for _, ttype := range style.Types() {
		entry := style.Get(ttype)
		entry.Colour = replace(entry.Colour)
		entry.Background = replace(entry.Background)
		entry.Border = replace(entry.Border)
		builder.AddEntry(ttype, entry)
	}
	return builder.Build()
}
