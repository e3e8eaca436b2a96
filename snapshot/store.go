package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/morler/scaff/apperrors"
	"github.com/morler/scaff/utils"
	"github.com/pterm/pterm"
)

// ConfigFileName is reserved inside the store directory for the default-snapshot setting.
const ConfigFileName = "config.json"

const snapshotExt = ".json"

// ListHint is printed under errors about unknown snapshot names.
const ListHint = "Run 'scaff list' to see available snapshots."

// Store reads and writes snapshot documents in one directory.
type Store struct {
	dir    string
	logger *pterm.Logger
}

// NewStore returns a store rooted at dir. The directory is created on first write.
func NewStore(dir string, logger *pterm.Logger) *Store {
	return &Store{dir: dir, logger: utils.LoggerOrDiscard(logger)}
}

// Dir is the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file a snapshot with the given key is stored in.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+snapshotExt)
}

// Save writes snap to <dir>/<key>.json, replacing any snapshot with the same key.
func (s *Store) Save(snap *Snapshot) (string, error) {
	if snap == nil || strings.TrimSpace(snap.Name) == "" {
		return "", apperrors.InvalidInput("save snapshot", "snapshot name must not be empty")
	}
	key := snap.Key()
	if key+snapshotExt == ConfigFileName {
		return "", apperrors.InvalidInput("save snapshot", fmt.Sprintf("snapshot name %q is reserved", snap.Name))
	}

	snap.normalize()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	path := s.Path(key)
	if err := writeFileAtomic(s.dir, path, append(data, '\n')); err != nil {
		return "", err
	}
	s.logger.Debug("Saved snapshot", s.logger.Args("name", snap.Name, "path", path))
	return path, nil
}

// LoadAll returns every readable snapshot in the store sorted by name. A missing
// store directory yields no snapshots. Documents that fail to read, decode or
// validate are logged and skipped.
func (s *Store) LoadAll() ([]Snapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return []Snapshot{}, nil
	} else if err != nil {
		return nil, apperrors.IOFailure("list snapshots", s.dir, err)
	}

	snapshots := []Snapshot{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != snapshotExt || name == ConfigFileName {
			continue
		}

		path := filepath.Join(s.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("Skipping unreadable snapshot", s.logger.Args("file", path, "error", err))
			continue
		}

		snap, err := decodeSnapshot(data)
		if err != nil {
			s.logger.Warn("Skipping malformed snapshot", s.logger.Args("error", apperrors.MalformedSnapshot(path, err)))
			continue
		}
		snapshots = append(snapshots, *snap)
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].Name < snapshots[j].Name
	})
	return snapshots, nil
}

// FindByName returns the snapshot whose name equals name, or failing that the
// first whose key equals the normalized form of name.
func (s *Store) FindByName(name string) (*Snapshot, error) {
	snapshots, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	for i := range snapshots {
		if snapshots[i].Name == name {
			return &snapshots[i], nil
		}
	}
	key := NormalizeKey(name)
	for i := range snapshots {
		if snapshots[i].Key() == key {
			return &snapshots[i], nil
		}
	}
	return nil, apperrors.NotFound("find snapshot", fmt.Sprintf("snapshot '%s'", name)).WithHint(ListHint)
}

// ListEntry is one row of a store listing.
type ListEntry struct {
	Snapshot  Snapshot
	FileCount int
	ItemCount int
	IsDefault bool
}

// Listing is the store contents plus the configured default.
type Listing struct {
	Entries []ListEntry
	Default *string
}

// List returns every snapshot with its counts and whether it is the default.
func (s *Store) List() (*Listing, error) {
	snapshots, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	cfg, err := s.LoadConfig()
	if apperrors.KindOf(err) == apperrors.KindMalformedSnapshot {
		s.logger.Warn("Ignoring unreadable default snapshot setting", s.logger.Args("error", err))
		cfg, err = s.NewConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	listing := &Listing{Default: cfg.DefaultSnapshot, Entries: make([]ListEntry, 0, len(snapshots))}
	for _, snap := range snapshots {
		listing.Entries = append(listing.Entries, ListEntry{
			Snapshot:  snap,
			FileCount: snap.FileCount(),
			ItemCount: snap.ItemCount(),
			IsDefault: cfg.DefaultSnapshot != nil && *cfg.DefaultSnapshot == snap.Name,
		})
	}
	return listing, nil
}

// writeFileAtomic writes data to a temp file in dir and renames it over path.
func writeFileAtomic(dir, path string, data []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.IOFailure("create store directory", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return apperrors.IOFailure("write", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return apperrors.IOFailure("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return apperrors.IOFailure("write", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return apperrors.IOFailure("write", path, err)
	}
	return nil
}
