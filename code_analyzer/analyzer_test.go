package code_analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/morler/scaff/apperrors"
	"github.com/morler/scaff/code_analyzer/models"
	"github.com/morler/scaff/languages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func paths(files []models.FileFingerprint) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

func TestScanLanguage_Rust(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "src/main.rs", "struct TestStruct;\nfn main() {}\n")
	writeSource(t, root, "src/lib/util.rs", "fn helper() {}\n")
	writeSource(t, root, "src/readme.md", "# not rust\n")
	writeSource(t, root, "target/debug/build.rs", "fn ignored() {}\n")

	analyzer := NewCodeAnalyzer(Options{})
	defer analyzer.Close()

	files, err := analyzer.ScanLanguage(context.Background(), root, "rust")
	require.NoError(t, err)
	require.Equal(t, []string{"src/lib/util.rs", "src/main.rs"}, paths(files))

	main := files[1]
	assert.Equal(t, "rs", main.Extension)
	assert.Equal(t, []string{"TestStruct"}, main.TypeDeclarations)
	assert.Equal(t, []string{"main"}, main.Callables)
}

func TestScanLanguage_EmptyDirectory(t *testing.T) {
	analyzer := NewCodeAnalyzer(Options{})
	files, err := analyzer.ScanLanguage(context.Background(), t.TempDir(), "go")
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestScanLanguage_Errors(t *testing.T) {
	analyzer := NewCodeAnalyzer(Options{})

	_, err := analyzer.ScanLanguage(context.Background(), t.TempDir(), "cobol")
	assert.True(t, errors.Is(err, apperrors.ErrUnsupportedLanguage))

	_, err = analyzer.ScanLanguage(context.Background(), filepath.Join(t.TempDir(), "missing"), "rust")
	assert.True(t, errors.Is(err, apperrors.ErrIOFailure))

	file := filepath.Join(t.TempDir(), "file.rs")
	require.NoError(t, os.WriteFile(file, []byte("fn a() {}"), 0644))
	_, err = analyzer.ScanLanguage(context.Background(), file, "rust")
	assert.True(t, errors.Is(err, apperrors.ErrIOFailure))
}

func TestScanLanguage_ExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "app.py", "def run():\n    pass\n")
	writeSource(t, root, "scaffs/tool.py", "def hidden():\n    pass\n")
	writeSource(t, root, "vendor/lib.py", "def vendored():\n    pass\n")
	writeSource(t, root, ".gitignore", "vendor/\n")

	analyzer := NewCodeAnalyzer(Options{ExcludeDirs: []string{filepath.Join(root, "scaffs")}})
	files, err := analyzer.ScanLanguage(context.Background(), root, "python")
	require.NoError(t, err)
	assert.Equal(t, []string{"app.py"}, paths(files))
}

func TestScanLanguage_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "a.go", "package a\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCodeAnalyzer(Options{}).ScanLanguage(ctx, root, "go")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanAll_RegistryOrder(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "main.go", "package main\nfunc main() {}\n")
	writeSource(t, root, "lib.rs", "fn lib() {}\n")
	writeSource(t, root, "style.css", ".a { color: red; }\n")

	scans, err := NewCodeAnalyzer(Options{}).ScanAll(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, scans, 3)
	assert.Equal(t, "rust", scans[0].LanguageID)
	assert.Equal(t, "Go", scans[1].DisplayName)
	assert.Equal(t, "css", scans[2].LanguageID)
}

func TestProcessFile_UnknownLanguageIsParseSkip(t *testing.T) {
	_, err := NewCodeAnalyzer(Options{}).ProcessFile(context.Background(), "x.cbl", []byte("x"), "cobol")
	assert.True(t, errors.Is(err, apperrors.ErrParseSkip))
}

func TestProcessFile_EmptyInputYieldsEmptyFingerprint(t *testing.T) {
	analyzer := NewCodeAnalyzer(Options{})
	defer analyzer.Close()

	for _, descriptor := range languages.All() {
		for _, ext := range descriptor.Extensions {
			for _, source := range []string{"", "   \n"} {
				relPath := "src/empty." + ext
				fp, err := analyzer.ProcessFile(context.Background(), relPath, []byte(source), descriptor.ID)
				require.NoError(t, err, "%s %q", relPath, source)
				assert.Equal(t, relPath, fp.Path)
				assert.Equal(t, ext, fp.Extension)
				assert.True(t, fp.IsEmpty(), "%s %q", relPath, source)
			}
		}
	}
}

func TestCacheIntegration_WithCodeAnalyzer(t *testing.T) {
	root := t.TempDir()
	cacheDir := filepath.Join(root, ".cache")
	writeSource(t, root, "a.js", "function a() {}\n")
	writeSource(t, root, "b.js", "function a() {}\n")

	analyzer := NewCodeAnalyzer(Options{EnableCache: true, CacheDir: cacheDir})
	defer analyzer.Close()

	files, err := analyzer.ScanLanguage(context.Background(), root, "javascript")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "b.js", files[1].Path)
	assert.Equal(t, []string{"a"}, files[1].Callables)

	stats, err := analyzer.GetCacheStats()
	require.NoError(t, err)
	assert.Equal(t, true, stats["cache_enabled"])
	assert.Equal(t, 1, stats["cache_files"])
	assert.InDelta(t, 50.0, stats["hit_rate"].(float64), 0.001)

	require.NoError(t, analyzer.ClearCache())
}

func TestCodeAnalyzer_CacheDisabled(t *testing.T) {
	analyzer := NewCodeAnalyzer(Options{})

	stats, err := analyzer.GetCacheStats()
	require.NoError(t, err)
	assert.Equal(t, false, stats["cache_enabled"])
	assert.Error(t, analyzer.ClearCache())

	removed, err := analyzer.CleanExpiredCache(0)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}
