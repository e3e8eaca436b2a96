package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/morler/scaff/apperrors"
	"github.com/morler/scaff/code_analyzer/models"
	"github.com/morler/scaff/constants/lipgloss"
	"github.com/morler/scaff/languages"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// categoryLabels are the headings used in text scan output.
var categoryLabels = map[models.Category]string{
	models.CategoryTypeDeclaration:      "Types",
	models.CategoryCallable:             "Functions",
	models.CategoryCompositeDeclaration: "Classes",
	models.CategoryImplementationBlock:  "Implementations",
}

func newScanCmd() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Fingerprint the declarations of a directory",
		Long: `The 'scan' command walks a directory (the working directory by default), honoring
.gitignore and .scaffignore, and prints the declarations found per file.
Use -l all to scan every supported language at once.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			language, _ := cmd.Flags().GetString("language")
			format, _ := cmd.Flags().GetString("format")
			return handleScanCommand(cmd, args, language, format)
		},
	}

	scanCmd.Flags().StringP("language", "l", "all", "Language to scan ('all', or one of: "+strings.Join(languages.IDs(), ", ")+")")
	scanCmd.Flags().StringP("format", "f", "text", "Output format: text, json or yaml")
	return scanCmd
}

func handleScanCommand(cmd *cobra.Command, args []string, language, format string) error {
	if format != "text" && format != "json" && format != "yaml" {
		return apperrors.InvalidInput("scan", fmt.Sprintf("unknown format %q", format)).
			WithHint("Use --format text, json or yaml.")
	}

	deps, err := handleRootCommand(cmd)
	if err != nil {
		return err
	}
	defer deps.Close()

	dir := deps.Cwd
	if len(args) > 0 {
		dir = args[0]
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var stop func()
	if format == "text" {
		stop = startSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Scanning %s...", dir))
	} else {
		stop = func() {}
	}

	if strings.EqualFold(language, "all") {
		scans, err := deps.Analyzer.ScanAll(ctx, dir)
		stop()
		if err != nil {
			return err
		}
		if scans == nil {
			scans = []models.LanguageScan{}
		}
		if format != "text" {
			return encode(deps.Out, format, scans)
		}
		printMultiLanguageScan(deps.Out, scans)
		return nil
	}

	id, err := resolveLanguage(language)
	if err != nil {
		stop()
		return err
	}
	files, err := deps.Analyzer.ScanLanguage(ctx, dir, id)
	stop()
	if err != nil {
		return err
	}
	if format != "text" {
		return encode(deps.Out, format, files)
	}
	printScan(deps.Out, languages.DisplayName(id), files)
	return nil
}

// resolveLanguage maps a --language value to a registered language id.
func resolveLanguage(input string) (string, error) {
	id := languages.ResolveAlias(input)
	if _, ok := languages.Lookup(id); !ok {
		return "", apperrors.UnsupportedLanguage("scan", input).
			WithHint("Supported languages: " + strings.Join(languages.IDs(), ", "))
	}
	return id, nil
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
}

func printScan(w io.Writer, displayName string, files []models.FileFingerprint) {
	fmt.Fprintln(w, lipgloss.Info.Render(fmt.Sprintf("🔍 Scan Results (%s)", displayName)))
	fmt.Fprintln(w, strings.Repeat("-", 50))

	if len(files) == 0 {
		fmt.Fprintln(w, lipgloss.Yellow.Render("No supported files found in the directory."))
		return
	}

	for _, fp := range files {
		printFingerprint(w, fp)
	}
	fmt.Fprintf(w, "\nTotal: %d files, %d items\n", len(files), models.TotalItems(files))
}

func printFingerprint(w io.Writer, fp models.FileFingerprint) {
	fmt.Fprintf(w, "\n%s %s\n", lipgloss.Bold.Render("File:"), filepath.ToSlash(fp.Path))
	if fp.IsEmpty() {
		fmt.Fprintln(w, lipgloss.Gray.Render("  (No extractable items found)"))
		return
	}
	for _, category := range models.AllCategories {
		names := fp.Names(category)
		if len(names) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s:\n", categoryLabels[category])
		for _, name := range names {
			fmt.Fprintf(w, "    - %s\n", name)
		}
	}
}

func printMultiLanguageScan(w io.Writer, scans []models.LanguageScan) {
	fmt.Fprintln(w, lipgloss.Info.Render("🔍 Multi-Language Scan Results"))
	fmt.Fprintln(w, strings.Repeat("=", 60))

	if len(scans) == 0 {
		fmt.Fprintln(w, lipgloss.Yellow.Render("No supported files found in the directory."))
		return
	}

	totalFiles, totalItems := 0, 0
	for _, scan := range scans {
		items := models.TotalItems(scan.Files)
		fmt.Fprintf(w, "\n%s (%d files, %d items)\n", lipgloss.BlueSky.Render(scan.DisplayName), len(scan.Files), items)
		for _, fp := range scan.Files {
			printFingerprint(w, fp)
		}
		totalFiles += len(scan.Files)
		totalItems += items
	}

	summary := fmt.Sprintf("Languages found: %d\nTotal files: %d\nTotal items: %d", len(scans), totalFiles, totalItems)
	fmt.Fprintln(w)
	fmt.Fprintln(w, lipgloss.BoxStyle.Render(summary))
}
