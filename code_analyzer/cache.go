package code_analyzer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/morler/scaff/code_analyzer/models"
	"github.com/zeebo/xxh3"
	bolt "go.etcd.io/bbolt"
)

// CacheFileName is the bbolt database created inside the cache directory.
const CacheFileName = "fingerprints.db"

var fingerprintBucket = []byte("fingerprints")

// cacheEntry is the stored form of a fingerprint. Path and extension are not
// stored: identical sources at different paths share one entry.
type cacheEntry struct {
	TypeDeclarations      []string  `json:"typeDeclarations"`
	Callables             []string  `json:"callables"`
	CompositeDeclarations []string  `json:"compositeDeclarations"`
	ImplementationBlocks  []string  `json:"implementationBlocks"`
	StoredAt              time.Time `json:"storedAt"`
}

// CacheStats tracks cache performance metrics
type CacheStats struct {
	TotalRequests int64
	CacheHits     int64
	CacheMisses   int64
	LastResetTime time.Time
	mutex         sync.RWMutex
}

// CacheManager stores extracted fingerprints keyed by source content.
type CacheManager struct {
	db       *bolt.DB
	cacheDir string
	stats    *CacheStats
}

// NewCacheManager opens (or creates) the fingerprint database in cacheDir.
// If cacheDir is empty, it defaults to ".cache" in the current working directory.
func NewCacheManager(cacheDir string) (*CacheManager, error) {
	if cacheDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
		cacheDir = filepath.Join(cwd, ".cache")
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bolt.Open(filepath.Join(cacheDir, CacheFileName), 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(fingerprintBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &CacheManager{
		db:       db,
		cacheDir: cacheDir,
		stats:    &CacheStats{LastResetTime: time.Now()},
	}, nil
}

// CacheKey identifies a source text for one language, file extension and
// extractor version. The extension is part of the key because it can select
// the grammar (.ts and .tsx parse differently).
func CacheKey(languageID, extension string, source []byte) string {
	return fmt.Sprintf("%s:%s:%s:%016x", ExtractorVersion, languageID, extension, xxh3.Hash(source))
}

// GetFingerprint returns the cached fingerprint for source, stamped with relPath.
func (cm *CacheManager) GetFingerprint(languageID, relPath string, source []byte) (models.FileFingerprint, bool) {
	var entry *cacheEntry
	key := []byte(CacheKey(languageID, extensionOf(relPath), source))

	_ = cm.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(fingerprintBucket).Get(key)
		if data == nil {
			return nil
		}
		var decoded cacheEntry
		if err := json.Unmarshal(data, &decoded); err != nil {
			return nil
		}
		entry = &decoded
		return nil
	})

	if entry == nil {
		cm.recordCacheMiss()
		return models.FileFingerprint{}, false
	}
	cm.recordCacheHit()

	fp := models.NewFileFingerprint(relPath, extensionOf(relPath))
	fp.TypeDeclarations = entry.TypeDeclarations
	fp.Callables = entry.Callables
	fp.CompositeDeclarations = entry.CompositeDeclarations
	fp.ImplementationBlocks = entry.ImplementationBlocks
	fp.Normalize()
	return fp, true
}

// SetFingerprint stores fp under the key of source as read from relPath.
func (cm *CacheManager) SetFingerprint(languageID, relPath string, source []byte, fp models.FileFingerprint) error {
	data, err := json.Marshal(cacheEntry{
		TypeDeclarations:      fp.TypeDeclarations,
		Callables:             fp.Callables,
		CompositeDeclarations: fp.CompositeDeclarations,
		ImplementationBlocks:  fp.ImplementationBlocks,
		StoredAt:              time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	key := []byte(CacheKey(languageID, extensionOf(relPath), source))
	return cm.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(fingerprintBucket).Put(key, data)
	})
}

// GetCacheStats returns cache statistics
func (cm *CacheManager) GetCacheStats() (map[string]interface{}, error) {
	var entries int
	err := cm.db.View(func(tx *bolt.Tx) error {
		entries = tx.Bucket(fingerprintBucket).Stats().KeyN
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read cache database: %w", err)
	}

	var totalSize int64
	if info, err := os.Stat(cm.db.Path()); err == nil {
		totalSize = info.Size()
	}

	perf := cm.GetPerformanceStats()
	return map[string]interface{}{
		"cache_enabled": true,
		"cache_dir":     cm.cacheDir,
		"cache_files":   entries,
		"total_size":    totalSize,
		"hit_rate":      perf.HitRate,
	}, nil
}

// CleanExpiredCache removes entries stored more than maxAge ago and returns how many went.
func (cm *CacheManager) CleanExpiredCache(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := cm.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(fingerprintBucket)
		var stale [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			var entry cacheEntry
			if err := json.Unmarshal(v, &entry); err != nil || entry.StoredAt.Before(cutoff) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to clean cache: %w", err)
	}
	return removed, nil
}

// ClearCache completely removes all cache entries
func (cm *CacheManager) ClearCache() error {
	err := cm.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(fingerprintBucket) != nil {
			if err := tx.DeleteBucket(fingerprintBucket); err != nil {
				return err
			}
		}
		_, err := tx.CreateBucket(fingerprintBucket)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	cm.ResetPerformanceStats()
	return nil
}

// Close releases the database file lock.
func (cm *CacheManager) Close() error {
	return cm.db.Close()
}

func extensionOf(relPath string) string {
	ext := filepath.Ext(relPath)
	if ext == "" {
		return ""
	}
	return ext[1:]
}
