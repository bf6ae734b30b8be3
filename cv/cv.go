// Package cv loads CV entries from CSV and groups them into the sections of
// the CV page.
package cv

import (
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
)

// Entry is one row of the CV data file.
type Entry struct {
	Section    string `csv:"section"`
	Subsection string `csv:"subsection"`
	Year       string `csv:"year"`
	Content    string `csv:"content"`
	Include    Flag   `csv:"include"`
}

// Flag is a permissive CSV boolean: true/false, yes/no, 1/0 in any case.
// An empty cell is false.
type Flag bool

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (f *Flag) UnmarshalCSV(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "y", "1":
		*f = true
	case "false", "no", "n", "0", "":
		*f = false
	default:
		return fmt.Errorf("invalid include flag %q", value)
	}
	return nil
}

// Load reads entries from a CSV file with a header row. A missing file yields
// no entries.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open cv data: %w", err)
	}
	defer f.Close()

	var entries []Entry
	if err := gocsv.Unmarshal(f, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return entries, nil
}

// Filter returns entries whose section equals section and, when subsection
// is not empty, whose subsection equals subsection.
func Filter(entries []Entry, section, subsection string, includedOnly bool) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Section != section {
			continue
		}
		if subsection != "" && e.Subsection != subsection {
			continue
		}
		if includedOnly && !bool(e.Include) {
			continue
		}
		out = append(out, e)
	}
	return out
}
