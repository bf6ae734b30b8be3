package builder

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Get all files in the build directory.
func getBuiltFiles(outputDir string) ([]string, error) {
	paths := []string{}
	walkFn := visit(&paths)
	if err := filepath.Walk(outputDir, walkFn); err != nil {
		return nil, err
	}
	return paths, nil
}

// Custom walk function to visit all files in the build directory.
func visit(paths *[]string) filepath.WalkFunc {
	return func(path string, f os.FileInfo, err error) error {
		if err != nil {
			log.Error().Err(err).Msg("Failed to access path")
			return nil // continue walking elsewhere
		}
		if f.IsDir() {
			return nil // not a file. ignore.
		}

		*paths = append(*paths, path)
		return nil
	}
}

// Get the file a route should be built into. Routes ending in a slash
// become directories with an index.html.
func getBuildPath(outputDir, route string) string {
	rel := strings.TrimPrefix(route, "/")
	if rel == "" || strings.HasSuffix(rel, "/") {
		rel += "index.html"
	}
	return filepath.Join(outputDir, filepath.FromSlash(rel))
}

// Cleans empty directories in the build directory, deepest first. The build
// directory itself is kept.
func cleanEmptyDirs(outputDir string) {
	var dirs []string
	filepath.Walk(outputDir, func(path string, info os.FileInfo, err error) error {
		if err == nil && info.IsDir() && path != outputDir {
			dirs = append(dirs, path)
		}
		return nil
	})

	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	for _, dir := range dirs {
		err := os.Remove(dir)
		if err != nil {
			// If error ends with "directory not empty" do not log anything
			if !strings.HasSuffix(err.Error(), "directory not empty") {
				log.Warn().Err(err).Msg("Failed to clean empty directory")
			}
		}
	}
}
