package utils

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
)

// lexerName picks a chroma lexer for a file name, falling back to plain text.
func lexerName(fileName string) string {
	lexer := lexers.Match(filepath.Base(fileName))
	if lexer == nil {
		return "plaintext"
	}
	return lexer.Config().Name
}

// HighlightCode writes code to w with terminal colors chosen from fileName's extension.
func HighlightCode(w io.Writer, code, fileName, theme string) error {
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, code, lexerName(fileName), "terminal256", theme); err != nil {
		return fmt.Errorf("failed to highlight %s: %w", fileName, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
