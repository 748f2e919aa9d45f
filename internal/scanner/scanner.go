// Package scanner lists a category directory and filters training images.
package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ImageSuffix is the only file suffix accepted as a training image.
// Matching is case-sensitive and literal.
const ImageSuffix = ".jpg"

// ErrDirectoryNotFound is returned when the category directory cannot be
// opened or is not a directory.
var ErrDirectoryNotFound = errors.New("category directory not found")

// Result holds the output of scanning a category directory.
type Result struct {
	Dir          string
	ImagePaths   []string
	SkippedCount int
}

// Matches reports whether a directory entry name is accepted as an image.
// The name must end in ImageSuffix and carry a non-empty stem, so a file
// named exactly ".jpg" is rejected.
func Matches(name string) bool {
	return len(name) > len(ImageSuffix) && strings.HasSuffix(name, ImageSuffix)
}

// Scan lists base/category (non-recursive) and returns the matching image
// paths in directory enumeration order. Subdirectories are ignored; every
// other non-matching entry counts as skipped.
func Scan(base, category string) (*Result, error) {
	dir := filepath.Join(base, category)

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDirectoryNotFound, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read %s: %v", ErrDirectoryNotFound, dir, err)
	}

	result := &Result{Dir: dir}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if Matches(entry.Name()) {
			result.ImagePaths = append(result.ImagePaths, filepath.Join(dir, entry.Name()))
		} else {
			result.SkippedCount++
		}
	}

	return result, nil
}
