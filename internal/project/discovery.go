// Package project locates .ngo sources under the configured roots and
// orchestrates generation runs over them, one package directory at a
// time.
package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/namedgen/internal/gen"
)

// Discover walks roots and returns every directory containing at least
// one .ngo file, sorted. Hidden directories, vendor and testdata are
// skipped, matching the Go toolchain's own conventions.
func Discover(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("source root %s: %w", root, err)
		}
		if !info.IsDir() {
			if strings.HasSuffix(root, gen.SourceExt) {
				seen[filepath.Dir(root)] = true
				continue
			}
			return nil, fmt.Errorf("source root %s is not a directory or %s file", root, gen.SourceExt)
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(d.Name(), gen.SourceExt) {
				seen[filepath.Dir(path)] = true
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs, nil
}

func skipDir(name string) bool {
	if name == "vendor" || name == "testdata" {
		return true
	}
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
