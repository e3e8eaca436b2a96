package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFileNames are the ignore files honored at the root of a walk, in order.
var IgnoreFileNames = []string{".gitignore", ".scaffignore"}

// defaultIgnoredSegments are directory or file names skipped wherever they appear.
var defaultIgnoredSegments = map[string]bool{
	".git":         true,
	".svn":         true,
	".hg":          true,
	".idea":        true,
	".vscode":      true,
	"node_modules": true,
	"target":       true,
	"__pycache__":  true,
	".venv":        true,
	".cache":       true,
}

// defaultIgnoredSuffixes are file suffixes that never hold source code.
var defaultIgnoredSuffixes = []string{
	".exe", ".dll", ".so", ".dylib", ".log", ".bak", ".tmp",
	".png", ".jpg", ".jpeg", ".gif", ".mp3", ".mp4", ".zip",
}

// ignoreCacheEntry holds a compiled ignore file with the mod time it was compiled at.
type ignoreCacheEntry struct {
	matcher *ignore.GitIgnore
	modTime time.Time
}

var (
	ignoreCache = make(map[string]*ignoreCacheEntry)
	cacheMutex  sync.RWMutex
)

// IsDefaultIgnored reports whether a slash-separated relative path has a segment
// in the default ignore set or ends in an ignored suffix.
func IsDefaultIgnored(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, part := range strings.Split(relPath, "/") {
		if defaultIgnoredSegments[strings.ToLower(part)] {
			return true
		}
	}
	lower := strings.ToLower(relPath)
	for _, suffix := range defaultIgnoredSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// loadIgnoreFile compiles the ignore file at path, reusing the compiled form while
// the file is unchanged. A missing file yields a nil matcher.
func loadIgnoreFile(path string) (*ignore.GitIgnore, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("error checking %s: %w", filepath.Base(path), err)
	}

	cacheMutex.RLock()
	if cached, ok := ignoreCache[path]; ok && info.ModTime().Equal(cached.modTime) {
		cacheMutex.RUnlock()
		return cached.matcher, nil
	}
	cacheMutex.RUnlock()

	matcher, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	cacheMutex.Lock()
	ignoreCache[path] = &ignoreCacheEntry{matcher: matcher, modTime: info.ModTime()}
	cacheMutex.Unlock()

	return matcher, nil
}

// IgnoreMatcher combines the default ignore set, the ignore files at a root and a
// list of excluded directories.
type IgnoreMatcher struct {
	matchers []*ignore.GitIgnore
	excluded []string
}

// NewIgnoreMatcher loads the ignore files found in rootDir. excludeDirs may be
// absolute or relative to rootDir; everything below them is skipped.
func NewIgnoreMatcher(rootDir string, excludeDirs ...string) (*IgnoreMatcher, error) {
	m := &IgnoreMatcher{}
	for _, name := range IgnoreFileNames {
		matcher, err := loadIgnoreFile(filepath.Join(rootDir, name))
		if err != nil {
			return nil, err
		}
		if matcher != nil {
			m.matchers = append(m.matchers, matcher)
		}
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", rootDir, err)
	}
	for _, dir := range excludeDirs {
		if dir == "" {
			continue
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(absRoot, dir)
		}
		rel, err := filepath.Rel(absRoot, filepath.Clean(dir))
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		m.excluded = append(m.excluded, filepath.ToSlash(rel))
	}
	return m, nil
}

// Matches reports whether relPath (slash-separated, relative to the root) is ignored.
func (m *IgnoreMatcher) Matches(relPath string) bool {
	if IsDefaultIgnored(relPath) {
		return true
	}
	for _, dir := range m.excluded {
		if relPath == dir || strings.HasPrefix(relPath, dir+"/") {
			return true
		}
	}
	for _, matcher := range m.matchers {
		if matcher.MatchesPath(relPath) {
			return true
		}
	}
	return false
}

// WalkFunc receives the absolute-or-root-joined path and the slash-separated
// path relative to the walk root of every file that survives ignore rules.
type WalkFunc func(path, relPath string) error

// WalkSourceFiles visits every non-ignored regular file below rootDir in lexical
// order. Ignored directories are not descended into.
func WalkSourceFiles(rootDir string, matcher *IgnoreMatcher, fn WalkFunc) error {
	return filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == rootDir {
				return err
			}
			// Unreadable entries below the root are skipped.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == rootDir {
			return nil
		}

		relativePath, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		relativePath = filepath.ToSlash(relativePath)

		if matcher != nil && matcher.Matches(relativePath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		return fn(path, relativePath)
	})
}

// ClearIgnoreCache drops every compiled ignore file.
func ClearIgnoreCache() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	ignoreCache = make(map[string]*ignoreCacheEntry)
}
