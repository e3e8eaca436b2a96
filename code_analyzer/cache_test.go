package code_analyzer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/morler/scaff/code_analyzer/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *CacheManager {
	t.Helper()
	cacheManager, err := NewCacheManager(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { cacheManager.Close() })
	return cacheManager
}

func sampleFingerprint() models.FileFingerprint {
	fp := models.NewFileFingerprint("src/main.rs", "rs")
	fp.Add(models.CategoryTypeDeclaration, "TestStruct")
	fp.Add(models.CategoryCallable, "main")
	return fp
}

// Test cache manager setup and basic operations
func TestCacheManager_BasicOperations(t *testing.T) {
	cacheManager := newTestCache(t)
	source := []byte("struct TestStruct;\nfn main() {}\n")

	_, found := cacheManager.GetFingerprint("rust", "src/main.rs", source)
	assert.False(t, found)

	require.NoError(t, cacheManager.SetFingerprint("rust", "src/main.rs", source, sampleFingerprint()))

	cached, found := cacheManager.GetFingerprint("rust", "other/copy.rs", source)
	require.True(t, found)
	assert.Equal(t, "other/copy.rs", cached.Path)
	assert.Equal(t, "rs", cached.Extension)
	assert.Equal(t, []string{"TestStruct"}, cached.TypeDeclarations)
	assert.Equal(t, []string{"main"}, cached.Callables)
	assert.Equal(t, []string{}, cached.CompositeDeclarations)
}

// Changed content must never hit an entry stored for the old content.
func TestCacheManager_ContentInvalidation(t *testing.T) {
	cacheManager := newTestCache(t)
	require.NoError(t, cacheManager.SetFingerprint("rust", "src/main.rs", []byte("fn a() {}"), sampleFingerprint()))

	_, found := cacheManager.GetFingerprint("rust", "src/main.rs", []byte("fn b() {}"))
	assert.False(t, found)

	_, found = cacheManager.GetFingerprint("python", "src/main.rs", []byte("fn a() {}"))
	assert.False(t, found, "keys are scoped by language")
}

func TestCacheKey(t *testing.T) {
	key := CacheKey("go", "go", []byte("package main"))
	assert.Equal(t, key, CacheKey("go", "go", []byte("package main")))
	assert.NotEqual(t, key, CacheKey("go", "go", []byte("package other")))
	assert.NotEqual(t, CacheKey("typescript", "ts", []byte("f()")), CacheKey("typescript", "tsx", []byte("f()")))
	assert.Regexp(t, `^`+ExtractorVersion+`:go:go:[0-9a-f]{16}$`, key)
}

// The same text in a .ts and a .tsx file is parsed by different grammars.
func TestCacheManager_KeysAreScopedByExtension(t *testing.T) {
	cacheManager := newTestCache(t)
	source := []byte("function App() {}\n")
	require.NoError(t, cacheManager.SetFingerprint("typescript", "web/app.ts", source, sampleFingerprint()))

	_, found := cacheManager.GetFingerprint("typescript", "web/App.tsx", source)
	assert.False(t, found)

	_, found = cacheManager.GetFingerprint("typescript", "other/copy.ts", source)
	assert.True(t, found)
}

func TestCacheManager_Statistics(t *testing.T) {
	cacheManager := newTestCache(t)
	source := []byte("def f(): pass")

	cacheManager.GetFingerprint("python", "a.py", source)
	require.NoError(t, cacheManager.SetFingerprint("python", "a.py", source, sampleFingerprint()))
	cacheManager.GetFingerprint("python", "a.py", source)

	perf := cacheManager.GetPerformanceStats()
	assert.Equal(t, int64(2), perf.TotalRequests)
	assert.Equal(t, int64(1), perf.CacheHits)
	assert.Equal(t, int64(1), perf.CacheMisses)
	assert.InDelta(t, 50.0, perf.HitRate, 0.001)

	stats, err := cacheManager.GetCacheStats()
	require.NoError(t, err)
	assert.Equal(t, true, stats["cache_enabled"])
	assert.Equal(t, 1, stats["cache_files"])
	assert.Greater(t, stats["total_size"].(int64), int64(0))

	cacheManager.ResetPerformanceStats()
	assert.Equal(t, int64(0), cacheManager.GetPerformanceStats().TotalRequests)
}

func TestCacheManager_ClearCache(t *testing.T) {
	cacheManager := newTestCache(t)
	source := []byte("class A {}")
	require.NoError(t, cacheManager.SetFingerprint("java", "A.java", source, sampleFingerprint()))

	require.NoError(t, cacheManager.ClearCache())

	_, found := cacheManager.GetFingerprint("java", "A.java", source)
	assert.False(t, found)
	stats, err := cacheManager.GetCacheStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats["cache_files"])
}

func TestCacheManager_CleanupExpired(t *testing.T) {
	cacheManager := newTestCache(t)
	require.NoError(t, cacheManager.SetFingerprint("go", "a.go", []byte("package a"), sampleFingerprint()))

	removed, err := cacheManager.CleanExpiredCache(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	removed, err = cacheManager.CleanExpiredCache(-time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

// A second opener times out on the bbolt file lock instead of blocking forever.
func TestCacheManager_LockedDatabase(t *testing.T) {
	dir := t.TempDir()
	first, err := NewCacheManager(dir)
	require.NoError(t, err)
	defer first.Close()

	_, err = NewCacheManager(dir)
	assert.Error(t, err)
	assert.FileExists(t, filepath.Join(dir, CacheFileName))
}
