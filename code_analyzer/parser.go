package code_analyzer

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// grammarFor returns the tree-sitter grammar for a language id and file extension.
// It returns nil when no grammar is bound to the language.
func grammarFor(languageID, extension string) *sitter.Language {
	switch languageID {
	case "rust":
		return rust.GetLanguage()
	case "javascript":
		return javascript.GetLanguage()
	case "typescript":
		if extension == "tsx" {
			return tsx.GetLanguage()
		}
		return typescript.GetLanguage()
	case "python":
		return python.GetLanguage()
	case "java":
		return java.GetLanguage()
	case "go":
		return golang.GetLanguage()
	case "json":
		// JSON documents are valid JavaScript expressions once parenthesized.
		return javascript.GetLanguage()
	case "html":
		return html.GetLanguage()
	case "css":
		return css.GetLanguage()
	default:
		return nil
	}
}

// prepareSource returns the bytes handed to the parser for languageID.
func prepareSource(languageID string, source []byte) []byte {
	if languageID != "json" {
		return source
	}
	wrapped := make([]byte, 0, len(source)+2)
	wrapped = append(wrapped, '(')
	wrapped = append(wrapped, source...)
	return append(wrapped, ')')
}

// parseSource parses source and returns the tree together with the exact bytes it
// was built from. The caller must Close the tree.
func parseSource(ctx context.Context, languageID, extension string, source []byte) (*sitter.Tree, []byte, error) {
	lang := grammarFor(languageID, extension)
	if lang == nil {
		return nil, nil, fmt.Errorf("no grammar for language %q", languageID)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	input := prepareSource(languageID, source)
	tree, err := parser.ParseCtx(ctx, nil, input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse: %w", err)
	}
	if tree == nil || tree.RootNode() == nil {
		return nil, nil, fmt.Errorf("parser returned no syntax tree")
	}
	return tree, input, nil
}
