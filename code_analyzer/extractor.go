package code_analyzer

import (
	"path"
	"strings"

	"github.com/morler/scaff/code_analyzer/models"
	sitter "github.com/smacker/go-tree-sitter"
)

// ExtractorVersion changes whenever extraction output for the same source changes.
// Cached fingerprints are keyed by it.
const ExtractorVersion = "3"

// Extractor turns a syntax tree into a FileFingerprint for one language.
type Extractor struct {
	languageID string
	rules      map[string]extractionRule
}

// NewExtractor builds an extractor for languageID. Unknown languages get an
// extractor that records nothing.
func NewExtractor(languageID string) *Extractor {
	return &Extractor{
		languageID: languageID,
		rules:      rulesByKind(languageID),
	}
}

// Extract walks root in pre-order and records every declaration name matched
// by the language's rules. relPath is stored as given, with slash separators.
func (e *Extractor) Extract(root *sitter.Node, source []byte, relPath string) models.FileFingerprint {
	relPath = strings.ReplaceAll(relPath, "\\", "/")
	fp := models.NewFileFingerprint(relPath, strings.TrimPrefix(path.Ext(relPath), "."))
	if root == nil || len(e.rules) == 0 {
		return fp
	}

	cursor := sitter.NewTreeCursor(root)
	defer cursor.Close()

	for {
		e.visit(cursor.CurrentNode(), source, &fp)

		if cursor.GoToFirstChild() {
			continue
		}
		for !cursor.GoToNextSibling() {
			if !cursor.GoToParent() {
				return fp
			}
		}
	}
}

func (e *Extractor) visit(node *sitter.Node, source []byte, fp *models.FileFingerprint) {
	rule, ok := e.rules[node.Type()]
	if !ok {
		return
	}
	for _, name := range rule.Names(node, source) {
		if rule.Dedupe {
			fp.AddUnique(rule.Category, name)
		} else {
			fp.Add(rule.Category, name)
		}
	}
}

// Extract is a convenience wrapper around NewExtractor(languageID).Extract.
func Extract(root *sitter.Node, source []byte, relPath, languageID string) models.FileFingerprint {
	return NewExtractor(languageID).Extract(root, source, relPath)
}
