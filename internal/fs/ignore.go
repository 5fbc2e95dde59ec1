package fs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IgnoreFileName is read from the mods directory for extra ignore patterns.
const IgnoreFileName = ".bmmignore"

// defaultIgnorePatterns are folders Bonelab or the OS create next to mods.
var defaultIgnorePatterns = []string{".*"}

// IgnoreMatcher decides which folders in the mods directory are not mods.
// Patterns are filepath.Match globs tested against the folder name,
// case-insensitively since Windows folder names are.
type IgnoreMatcher struct {
	patterns []string
}

// NewIgnoreMatcher creates an IgnoreMatcher from raw pattern strings plus
// the defaults. Blank lines and lines starting with '#' are skipped.
func NewIgnoreMatcher(rawPatterns []string) *IgnoreMatcher {
	var patterns []string
	for _, raw := range append(append([]string{}, defaultIgnorePatterns...), rawPatterns...) {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		patterns = append(patterns, strings.ToLower(raw))
	}
	return &IgnoreMatcher{patterns: patterns}
}

// Match reports whether the folder name should be ignored.
func (m *IgnoreMatcher) Match(name string) bool {
	if name == "" {
		return false
	}
	name = strings.ToLower(name)
	for _, p := range m.patterns {
		matched, err := filepath.Match(p, name)
		if err != nil {
			// Bad pattern, skip rather than crash.
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// ParseIgnoreFile reads an ignore file and returns the raw pattern lines.
// Returns nil and no error if the file does not exist.
func ParseIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ignore file: %w", err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		patterns = append(patterns, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return patterns, nil
}
