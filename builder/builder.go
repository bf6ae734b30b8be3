// Package builder writes a site to an output directory and watches the
// content it is built from.
package builder

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/radovskyb/watcher"
	"github.com/rs/zerolog/log"

	"adventune/folio/site"
)

// StaticPrefix is the directory static assets are copied into.
const StaticPrefix = "static"

// Source provides the pages to build.
type Source interface {
	Routes() []site.Page
}

// Builder renders every page of a Source into OutputDir.
type Builder struct {
	source    Source
	static    fs.FS
	outputDir string
}

// New returns a Builder writing into outputDir. Assets of static, if not nil,
// are copied below outputDir/static.
func New(source Source, static fs.FS, outputDir string) *Builder {
	return &Builder{source: source, static: static, outputDir: outputDir}
}

// Build writes all pages and assets, then removes files left over from a
// previous build and the directories they leave empty.
func (b *Builder) Build() error {
	log.Info().Str("path", b.outputDir).Msg("Building site")
	start := time.Now()

	// Create the build directory
	if err := os.MkdirAll(b.outputDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create build directory: %w", err)
	}

	previous, err := getBuiltFiles(b.outputDir)
	if err != nil {
		return err
	}

	written := map[string]bool{}
	for _, page := range b.source.Routes() {
		path, err := b.buildPage(page)
		if err != nil {
			return err
		}
		written[path] = true
	}

	assets, err := b.copyStatic()
	if err != nil {
		return err
	}
	for _, path := range assets {
		written[path] = true
	}

	for _, path := range previous {
		if written[path] {
			continue
		}
		log.Debug().Str("path", path).Msg("Removing stale file")
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to remove stale file")
		}
	}
	cleanEmptyDirs(b.outputDir)

	log.Info().Int("files", len(written)).Dur("took", time.Since(start)).Msg("Site built")
	return nil
}

// Builds a single page into its file under the output directory.
func (b *Builder) buildPage(page site.Page) (string, error) {
	log.Debug().Str("route", page.Path).Msg("Building a page")
	path := getBuildPath(b.outputDir, page.Path)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", page.Path, err)
	}

	// Create the output directory
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func (b *Builder) copyStatic() ([]string, error) {
	if b.static == nil {
		return nil, nil
	}

	var paths []string
	err := fs.WalkDir(b.static, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		data, err := fs.ReadFile(b.static, name)
		if err != nil {
			return err
		}

		dest := filepath.Join(b.outputDir, StaticPrefix, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
			return err
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return err
		}
		paths = append(paths, dest)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to copy static assets: %w", err)
	}
	return paths, nil
}

// Watch calls onChange for every write, creation, removal or move of a
// markdown, CSV or JSON file below dirs until ctx is done. Directories that
// do not exist are not watched.
func Watch(ctx context.Context, dirs []string, onChange func(watcher.Event)) error {
	// Create a new file watcher
	w := watcher.New()
	w.SetMaxEvents(1)
	// Only watch for write, create, remove, rename and move events
	w.FilterOps(watcher.Write, watcher.Create, watcher.Remove, watcher.Rename, watcher.Move)

	// Only watch for content and data files
	r := regexp.MustCompile(`^.*\.(md|csv|json)$`)
	w.AddFilterHook(watcher.RegexFilterHook(r, false))

	watched := 0
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			log.Warn().Str("path", dir).Msg("Not watching missing directory")
			continue
		}
		if err := w.AddRecursive(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		log.Debug().Str("path", dir).Msg("Watching directory for changes")
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("no directory to watch")
	}

	go func() {
		for {
			select {
			case event := <-w.Event:
				log.Debug().Str("path", event.Path).Str("op", event.Op.String()).Msg("Content changed")
				onChange(event)
			case err := <-w.Error:
				log.Error().Err(err).Msg("Watcher error")
			case <-ctx.Done():
				w.Close()
				return
			case <-w.Closed:
				return
			}
		}
	}()

	// Start the watching process - it'll check for changes every 100ms.
	go func() {
		if err := w.Start(time.Millisecond * 100); err != nil {
			log.Error().Err(err).Msg("Failed to start watcher")
		}
	}()
	// Wait for the watcher to start before returning
	w.Wait()
	return nil
}
