package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/morler/scaff/constants/lipgloss"
)

// ConfirmPrompt asks a yes/no question and reads the answer from reader.
// Anything other than "y" or "yes" is a no, including end of input.
func ConfirmPrompt(w io.Writer, reader *bufio.Reader, question string) (bool, error) {
	fmt.Fprint(w, lipgloss.BlueSky.Render(question+" [y/N] "))

	answer, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
