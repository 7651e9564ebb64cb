// Package discovery finds specification files under a directory tree.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// configDir is never searched.
const configDir = ".lola-extract"

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
	// rootGlob matches files in the root directory for patterns starting with **/
	rootGlob glob.Glob
}

// SpecDiscovery handles specification discovery with glob patterns and ignore rules.
type SpecDiscovery struct {
	rootDir        string
	specPatterns   []compiledPattern
	ignorePatterns []compiledPattern
}

// New creates a discovery instance rooted at rootDir.
// Patterns are matched against slash-separated paths relative to rootDir.
func New(rootDir string, specPatterns, ignorePatterns []string) (*SpecDiscovery, error) {
	sd := &SpecDiscovery{
		rootDir: rootDir,
	}

	var err error
	if sd.specPatterns, err = compileAll(specPatterns); err != nil {
		return nil, err
	}
	if sd.ignorePatterns, err = compileAll(ignorePatterns); err != nil {
		return nil, err
	}

	return sd, nil
}

func compileAll(patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		cp := compiledPattern{pattern: pattern, glob: g}

		// "**/*.lola" should also match "spec.lola" in the root
		if simplified, ok := strings.CutPrefix(pattern, "**/"); ok {
			if rg, err := glob.Compile(simplified, '/'); err == nil {
				cp.rootGlob = rg
			}
		}
		compiled = append(compiled, cp)
	}
	return compiled, nil
}

// Discover walks the directory tree and returns matching specification files,
// sorted by path. Ignored directories are not descended into.
func (sd *SpecDiscovery) Discover() ([]string, error) {
	specs := []string{}

	err := filepath.Walk(sd.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Get relative path for pattern matching
		relPath, err := filepath.Rel(sd.rootDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		// Normalize path separators for glob matching
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if sd.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if sd.shouldIgnore(relPath) {
			return nil
		}

		if sd.Matches(relPath) {
			specs = append(specs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(specs)
	return specs, nil
}

// Matches reports whether a slash-separated path relative to the root is a
// specification file that is not ignored.
func (sd *SpecDiscovery) Matches(relPath string) bool {
	if sd.shouldIgnore(relPath) {
		return false
	}
	return matchesAnyPattern(relPath, sd.specPatterns)
}

// Root returns the directory the discovery is rooted at.
func (sd *SpecDiscovery) Root() string {
	return sd.rootDir
}

// shouldIgnore checks if a path matches any ignore pattern.
func (sd *SpecDiscovery) shouldIgnore(relPath string) bool {
	if relPath == configDir || strings.HasPrefix(relPath, configDir+"/") {
		return true
	}

	if matchesAnyPattern(relPath, sd.ignorePatterns) {
		return true
	}

	// A directory such as "vendor" should match pattern "vendor/**"
	return matchesAnyPattern(relPath+"/**", sd.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	if strings.Contains(path, "/") {
		return false
	}
	for _, cp := range patterns {
		if cp.rootGlob != nil && cp.rootGlob.Match(path) {
			return true
		}
	}
	return false
}
