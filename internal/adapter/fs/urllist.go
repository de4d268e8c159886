package fs

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// URLListReader collects URLs from plain-text list files matched by glob patterns.
// Each file holds one URL per line; blank lines and lines starting with '#' are skipped.
type URLListReader struct {
	includes []string
	excludes []string
}

func NewURLListReader(includes, excludes []string) *URLListReader {
	if len(includes) == 0 {
		includes = []string{"**/*.txt"}
	}
	return &URLListReader{
		includes: includes,
		excludes: excludes,
	}
}

// Files returns the list files under root in lexical order.
func (r *URLListReader) Files(root string) ([]string, error) {
	var files []string

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath != "." && r.shouldExclude(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if r.shouldInclude(relPath) && !r.shouldExclude(relPath) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Read returns every URL listed in the matched files, in file then line order.
// Duplicates are kept; the content adapter deduplicates.
func (r *URLListReader) Read(root string) ([]string, error) {
	files, err := r.Files(root)
	if err != nil {
		return nil, err
	}

	var urls []string
	for _, path := range files {
		lines, err := ReadURLs(path)
		if err != nil {
			return nil, err
		}
		urls = append(urls, lines...)
	}
	return urls, nil
}

func (r *URLListReader) shouldInclude(path string) bool {
	for _, pattern := range r.includes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (r *URLListReader) shouldExclude(path string) bool {
	for _, pattern := range r.excludes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// ReadURLs reads a single list file.
func ReadURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}
