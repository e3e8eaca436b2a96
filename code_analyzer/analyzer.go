package code_analyzer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/morler/scaff/apperrors"
	"github.com/morler/scaff/code_analyzer/contracts"
	"github.com/morler/scaff/code_analyzer/models"
	"github.com/morler/scaff/languages"
	"github.com/morler/scaff/utils"
	"github.com/pterm/pterm"
)

// Options configures a CodeAnalyzer.
type Options struct {
	// ExcludeDirs are skipped during walks, e.g. the snapshot store and the cache.
	ExcludeDirs []string
	EnableCache bool
	CacheDir    string
	Logger      *pterm.Logger
}

// CodeAnalyzer handles the analysis of project files.
type CodeAnalyzer struct {
	excludeDirs  []string
	cacheManager *CacheManager
	logger       *pterm.Logger
	extractors   map[string]*Extractor
}

// NewCodeAnalyzer initializes a new CodeAnalyzer. A cache that cannot be opened
// is logged and the analyzer runs without one.
func NewCodeAnalyzer(opts Options) contracts.ICodeAnalyzer {
	logger := utils.LoggerOrDiscard(opts.Logger)

	var cacheManager *CacheManager
	if opts.EnableCache {
		var err error
		cacheManager, err = NewCacheManager(opts.CacheDir)
		if err != nil {
			logger.Warn("Fingerprint cache disabled", logger.Args("error", err))
			cacheManager = nil
		}
	}

	return &CodeAnalyzer{
		excludeDirs:  opts.ExcludeDirs,
		cacheManager: cacheManager,
		logger:       logger,
		extractors:   make(map[string]*Extractor),
	}
}

// ScanLanguage fingerprints every file under rootDir that belongs to languageID.
// Files that cannot be read or parsed are logged and left out.
func (analyzer *CodeAnalyzer) ScanLanguage(ctx context.Context, rootDir, languageID string) ([]models.FileFingerprint, error) {
	descriptor, ok := languages.Lookup(languageID)
	if !ok {
		return nil, apperrors.UnsupportedLanguage("scan", languageID)
	}

	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, apperrors.IOFailure("scan", rootDir, err)
	}
	if !info.IsDir() {
		return nil, apperrors.IOFailure("scan", rootDir, errors.New("not a directory"))
	}

	matcher, err := utils.NewIgnoreMatcher(rootDir, analyzer.excludeDirs...)
	if err != nil {
		return nil, apperrors.IOFailure("scan", rootDir, err)
	}

	analyzer.logger.Debug("Scanning directory", analyzer.logger.Args("dir", rootDir, "language", languageID))

	result := []models.FileFingerprint{}
	err = utils.WalkSourceFiles(rootDir, matcher, func(filePath, relativePath string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !descriptor.HasExtension(path.Ext(relativePath)) {
			return nil
		}

		content, err := os.ReadFile(filePath)
		if err != nil {
			analyzer.logger.Warn("Skipping unreadable file", analyzer.logger.Args("file", relativePath, "error", err))
			return nil
		}

		fp, err := analyzer.ProcessFile(ctx, relativePath, content, languageID)
		if err != nil {
			analyzer.logger.Warn("Skipping file", analyzer.logger.Args("file", relativePath, "error", err))
			return nil
		}

		analyzer.logger.Debug("Fingerprinted file", analyzer.logger.Args("file", relativePath, "items", fp.ItemCount()))
		result = append(result, fp)
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperrors.IOFailure("scan", rootDir, err)
	}

	return result, nil
}

// ScanAll scans rootDir once per registered language and keeps the languages
// that have at least one file, in registry order.
func (analyzer *CodeAnalyzer) ScanAll(ctx context.Context, rootDir string) ([]models.LanguageScan, error) {
	var scans []models.LanguageScan
	for _, descriptor := range languages.All() {
		files, err := analyzer.ScanLanguage(ctx, rootDir, descriptor.ID)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			continue
		}
		scans = append(scans, models.LanguageScan{
			LanguageID:  descriptor.ID,
			DisplayName: descriptor.DisplayName,
			Files:       files,
		})
	}
	return scans, nil
}

// ProcessFile parses one file and extracts its fingerprint. The only error it
// returns is a ParseSkip.
func (analyzer *CodeAnalyzer) ProcessFile(ctx context.Context, relPath string, source []byte, languageID string) (models.FileFingerprint, error) {
	if analyzer.cacheManager != nil {
		if fp, found := analyzer.cacheManager.GetFingerprint(languageID, relPath, source); found {
			return fp, nil
		}
	}

	tree, input, err := parseSource(ctx, languageID, extensionOf(relPath), source)
	if err != nil {
		return models.FileFingerprint{}, apperrors.ParseSkip(relPath, err)
	}
	defer tree.Close()

	fp := analyzer.extractorFor(languageID).Extract(tree.RootNode(), input, relPath)

	if analyzer.cacheManager != nil {
		if err := analyzer.cacheManager.SetFingerprint(languageID, relPath, source, fp); err != nil {
			analyzer.logger.Warn("Failed to cache fingerprint", analyzer.logger.Args("file", relPath, "error", err))
		}
	}
	return fp, nil
}

func (analyzer *CodeAnalyzer) extractorFor(languageID string) *Extractor {
	if e, ok := analyzer.extractors[languageID]; ok {
		return e
	}
	e := NewExtractor(languageID)
	analyzer.extractors[languageID] = e
	return e
}

// GetCacheStats reports on the fingerprint cache, or cache_enabled=false without one.
func (analyzer *CodeAnalyzer) GetCacheStats() (map[string]interface{}, error) {
	if analyzer.cacheManager == nil {
		return map[string]interface{}{"cache_enabled": false}, nil
	}
	return analyzer.cacheManager.GetCacheStats()
}

// CleanExpiredCache drops cache entries older than maxAge.
func (analyzer *CodeAnalyzer) CleanExpiredCache(maxAge time.Duration) (int, error) {
	if analyzer.cacheManager == nil {
		return 0, nil
	}
	return analyzer.cacheManager.CleanExpiredCache(maxAge)
}

// ClearCache removes every cached fingerprint.
func (analyzer *CodeAnalyzer) ClearCache() error {
	if analyzer.cacheManager == nil {
		return fmt.Errorf("cache is disabled")
	}
	return analyzer.cacheManager.ClearCache()
}

// Close releases the cache database, if one is open.
func (analyzer *CodeAnalyzer) Close() error {
	if analyzer.cacheManager == nil {
		return nil
	}
	return analyzer.cacheManager.Close()
}
