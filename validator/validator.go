package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/morler/scaff/apperrors"
	"github.com/morler/scaff/code_analyzer/contracts"
	"github.com/morler/scaff/code_analyzer/models"
	"github.com/morler/scaff/languages"
	"github.com/morler/scaff/snapshot"
	"github.com/morler/scaff/utils"
	"github.com/pterm/pterm"
)

// legacyWebLanguage is the combined display name older snapshots were saved with.
const legacyWebLanguage = "JavaScript/TypeScript"

// ArchitectureValidator loads a snapshot, scans a directory and compares the two.
type ArchitectureValidator struct {
	store    *snapshot.Store
	analyzer contracts.ICodeAnalyzer
	logger   *pterm.Logger
}

// NewArchitectureValidator wires a validator to a store and an analyzer.
func NewArchitectureValidator(store *snapshot.Store, analyzer contracts.ICodeAnalyzer, logger *pterm.Logger) *ArchitectureValidator {
	return &ArchitectureValidator{store: store, analyzer: analyzer, logger: utils.LoggerOrDiscard(logger)}
}

// ValidateAgainstSnapshot compares the files under rootDir with the snapshot called name.
func (v *ArchitectureValidator) ValidateAgainstSnapshot(ctx context.Context, name, rootDir string) (*ValidationResult, error) {
	snap, err := v.store.FindByName(name)
	if err != nil {
		return nil, err
	}

	ids, err := LanguageIDsFor(snap.Language)
	if err != nil {
		return nil, err
	}

	v.logger.Debug("Validating against snapshot", v.logger.Args("snapshot", snap.Name, "languages", strings.Join(ids, ","), "dir", rootDir))

	current := []models.FileFingerprint{}
	for _, id := range ids {
		files, err := v.analyzer.ScanLanguage(ctx, rootDir, id)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", rootDir, err)
		}
		current = append(current, files...)
	}

	return Compare(snap, current), nil
}

// LanguageIDsFor maps a snapshot's language (display name or id) to the
// language ids to scan.
func LanguageIDsFor(language string) ([]string, error) {
	if language == legacyWebLanguage {
		return []string{"javascript", "typescript"}, nil
	}
	for _, d := range languages.All() {
		if strings.EqualFold(d.DisplayName, language) || d.ID == languages.ResolveAlias(language) {
			return []string{d.ID}, nil
		}
	}

	names := make([]string, 0)
	for _, d := range languages.All() {
		names = append(names, d.DisplayName)
	}
	return nil, apperrors.UnsupportedLanguage("validate", language).
		WithHint("Supported languages: " + strings.Join(names, ", "))
}
