package validator

import (
	"fmt"
	"io"
	"strings"

	"github.com/morler/scaff/constants/lipgloss"
)

// maxExtraItemsShown caps the extra-item section of a report.
const maxExtraItemsShown = 10

// WriteReport prints a human-readable validation report.
func WriteReport(w io.Writer, result *ValidationResult) {
	fmt.Fprintln(w, lipgloss.Info.Render("Architecture Validation Results"))
	fmt.Fprintf(w, "Snapshot: %s\n", result.SnapshotName)
	fmt.Fprintln(w, strings.Repeat("-", 60))

	if result.IsValid {
		fmt.Fprintln(w, lipgloss.Green.Render("✓ Architecture is VALID - matches the snapshot"))
	} else {
		fmt.Fprintln(w, lipgloss.Red.Render("✗ Architecture DEVIATES from the snapshot"))
	}

	if len(result.MissingFiles) > 0 {
		fmt.Fprintf(w, "\nMissing Files (%d):\n", len(result.MissingFiles))
		for _, f := range result.MissingFiles {
			fmt.Fprintf(w, "  %s %s\n", lipgloss.Red.Render("-"), f)
		}
	}

	if len(result.ExtraFiles) > 0 {
		fmt.Fprintf(w, "\nExtra Files (%d):\n", len(result.ExtraFiles))
		for _, f := range result.ExtraFiles {
			fmt.Fprintf(w, "  %s %s\n", lipgloss.Green.Render("+"), f)
		}
	}

	if len(result.MissingItems) > 0 {
		fmt.Fprintf(w, "\nMissing Items (%d):\n", len(result.MissingItems))
		for _, issue := range result.MissingItems {
			fmt.Fprintf(w, "  %s %s '%s' in %s\n", lipgloss.Red.Render("-"), issue.Category, issue.ItemName, issue.FilePath)
		}
	}

	if n := len(result.ExtraItems); n > 0 {
		shown := result.ExtraItems
		if n > maxExtraItemsShown {
			fmt.Fprintf(w, "\nExtra Items (%d) - showing first %d:\n", n, maxExtraItemsShown)
			shown = shown[:maxExtraItemsShown]
		} else {
			fmt.Fprintf(w, "\nExtra Items (%d):\n", n)
		}
		for _, issue := range shown {
			fmt.Fprintf(w, "  %s %s '%s' in %s\n", lipgloss.Green.Render("+"), issue.Category, issue.ItemName, issue.FilePath)
		}
		if n > maxExtraItemsShown {
			fmt.Fprintf(w, "  ... and %d more\n", n-maxExtraItemsShown)
		}
	}

	if len(result.Suggestions) > 0 {
		fmt.Fprintln(w, "\nSuggestions:")
		for _, s := range result.Suggestions {
			fmt.Fprintf(w, "  • %s\n", s)
		}
	}

	summary := fmt.Sprintf("Missing files: %d\nExtra files: %d\nMissing items: %d\nExtra items: %d",
		len(result.MissingFiles), len(result.ExtraFiles), len(result.MissingItems), len(result.ExtraItems))
	fmt.Fprintln(w)
	fmt.Fprintln(w, lipgloss.BoxStyle.Render(summary))
}
