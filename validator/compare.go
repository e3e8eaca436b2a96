// Package validator reconciles a codebase's current fingerprints against a stored snapshot.
package validator

import (
	"fmt"

	"github.com/morler/scaff/code_analyzer/models"
	"github.com/morler/scaff/snapshot"
)

// ValidationIssue is one declaration name present on one side only.
type ValidationIssue struct {
	FilePath string          `json:"filePath" yaml:"filePath"`
	Category models.Category `json:"category" yaml:"category"`
	ItemName string          `json:"itemName" yaml:"itemName"`
}

// ValidationResult is the outcome of comparing a snapshot with current fingerprints.
type ValidationResult struct {
	SnapshotName string            `json:"snapshotName" yaml:"snapshotName"`
	IsValid      bool              `json:"isValid" yaml:"isValid"`
	MissingFiles []string          `json:"missingFiles" yaml:"missingFiles"`
	ExtraFiles   []string          `json:"extraFiles" yaml:"extraFiles"`
	MissingItems []ValidationIssue `json:"missingItems" yaml:"missingItems"`
	ExtraItems   []ValidationIssue `json:"extraItems" yaml:"extraItems"`
	Suggestions  []string          `json:"suggestions" yaml:"suggestions"`
}

// Compare diffs snap against current. Names within one category of one file are
// compared as sets. Missing files and missing items make the result invalid;
// extra files and extra items never do.
//
// Output order is fixed: missing files follow the snapshot's file order, extra
// files follow current's order, and items follow category order then the order
// of first occurrence.
func Compare(snap *snapshot.Snapshot, current []models.FileFingerprint) *ValidationResult {
	result := &ValidationResult{
		SnapshotName: snap.Name,
		MissingFiles: []string{},
		ExtraFiles:   []string{},
		MissingItems: []ValidationIssue{},
		ExtraItems:   []ValidationIssue{},
		Suggestions:  []string{},
	}

	expected := indexByPath(snap.Files)
	actual := indexByPath(current)

	for _, path := range orderedPaths(snap.Files) {
		fp := expected[path]
		if _, ok := actual[path]; !ok {
			result.MissingFiles = append(result.MissingFiles, path)
			result.Suggestions = append(result.Suggestions,
				fmt.Sprintf("Create missing file: %s (should contain %d items)", path, fp.ItemCount()))
		}
	}

	for _, path := range orderedPaths(current) {
		if _, ok := expected[path]; !ok {
			result.ExtraFiles = append(result.ExtraFiles, path)
		}
	}

	for _, path := range orderedPaths(snap.Files) {
		want := expected[path]
		got, ok := actual[path]
		if !ok {
			continue
		}
		for _, category := range models.AllCategories {
			wantNames := want.Names(category)
			gotNames := got.Names(category)
			for _, name := range difference(wantNames, gotNames) {
				result.MissingItems = append(result.MissingItems, ValidationIssue{FilePath: path, Category: category, ItemName: name})
			}
			for _, name := range difference(gotNames, wantNames) {
				result.ExtraItems = append(result.ExtraItems, ValidationIssue{FilePath: path, Category: category, ItemName: name})
			}
		}
	}

	if len(result.MissingFiles) > 0 {
		result.Suggestions = append(result.Suggestions,
			fmt.Sprintf("Consider running 'scaff generate %s' to create missing files", snap.Name))
	}
	if len(result.MissingItems) > 0 {
		result.Suggestions = append(result.Suggestions,
			fmt.Sprintf("Review missing items and implement them according to snapshot '%s'", snap.Name))
	}
	if len(result.ExtraFiles) > len(result.MissingFiles) {
		result.Suggestions = append(result.Suggestions,
			fmt.Sprintf("Consider updating snapshot '%s' to include the new files in your architecture", snap.Name))
	}

	result.IsValid = len(result.MissingFiles) == 0 && len(result.MissingItems) == 0
	return result
}

// indexByPath maps each path to its fingerprint. A path listed twice merges its
// names so set comparison sees all of them.
func indexByPath(files []models.FileFingerprint) map[string]models.FileFingerprint {
	index := make(map[string]models.FileFingerprint, len(files))
	for _, f := range files {
		existing, ok := index[f.Path]
		if !ok {
			index[f.Path] = f
			continue
		}
		merged := models.NewFileFingerprint(existing.Path, existing.Extension)
		for _, category := range models.AllCategories {
			for _, name := range existing.Names(category) {
				merged.Add(category, name)
			}
			for _, name := range f.Names(category) {
				merged.Add(category, name)
			}
		}
		index[f.Path] = merged
	}
	return index
}

// orderedPaths lists each distinct path once, in first-occurrence order.
func orderedPaths(files []models.FileFingerprint) []string {
	seen := make(map[string]bool, len(files))
	paths := make([]string, 0, len(files))
	for _, f := range files {
		if seen[f.Path] {
			continue
		}
		seen[f.Path] = true
		paths = append(paths, f.Path)
	}
	return paths
}

// difference returns the distinct names of a that are not in b, in a's order.
func difference(a, b []string) []string {
	exclude := make(map[string]bool, len(b))
	for _, n := range b {
		exclude[n] = true
	}
	var out []string
	for _, n := range a {
		if exclude[n] {
			continue
		}
		exclude[n] = true
		out = append(out, n)
	}
	return out
}
