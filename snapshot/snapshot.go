// Package snapshot persists named structural snapshots and the default-snapshot
// setting as JSON documents in a store directory.
package snapshot

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/morler/scaff/code_analyzer/models"
)

// Snapshot is a named, timestamped structural capture of a codebase in one language.
type Snapshot struct {
	Name        string                   `json:"name" yaml:"name"`
	Description string                   `json:"description" yaml:"description"`
	Language    string                   `json:"language" yaml:"language"`
	Files       []models.FileFingerprint `json:"files" yaml:"files"`
	CreatedAt   time.Time                `json:"createdAt" yaml:"createdAt"`
}

// NewSnapshot captures files under name. language is a display name such as "Rust".
func NewSnapshot(files []models.FileFingerprint, name, language string) *Snapshot {
	snap := &Snapshot{
		Name:      name,
		Language:  language,
		Files:     files,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	snap.normalize()
	snap.Description = fmt.Sprintf("Snapshot with %d files containing %d total items", snap.FileCount(), snap.ItemCount())
	return snap
}

// Key is the file-name-safe form of Name. Two names with the same key share a file.
func (s *Snapshot) Key() string {
	return NormalizeKey(s.Name)
}

// FileCount is the number of fingerprinted files.
func (s *Snapshot) FileCount() int {
	return len(s.Files)
}

// ItemCount is the number of declaration names across all files.
func (s *Snapshot) ItemCount() int {
	return models.TotalItems(s.Files)
}

func (s *Snapshot) normalize() {
	if s.Files == nil {
		s.Files = []models.FileFingerprint{}
	}
	for i := range s.Files {
		s.Files[i].Normalize()
	}
}

// NormalizeKey lowercases name and replaces spaces and every other rune that is
// not a letter, digit, '-' or '_' with '_'.
func NormalizeKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
