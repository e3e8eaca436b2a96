package contracts

import (
	"context"
	"time"

	"github.com/morler/scaff/code_analyzer/models"
)

// ICodeAnalyzer fingerprints source trees.
type ICodeAnalyzer interface {
	ScanLanguage(ctx context.Context, rootDir, languageID string) ([]models.FileFingerprint, error)
	ScanAll(ctx context.Context, rootDir string) ([]models.LanguageScan, error)
	ProcessFile(ctx context.Context, relPath string, source []byte, languageID string) (models.FileFingerprint, error)
	GetCacheStats() (map[string]interface{}, error)
	CleanExpiredCache(maxAge time.Duration) (int, error)
	ClearCache() error
	Close() error
}
