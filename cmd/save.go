package cmd

import (
	"context"
	"fmt"

	"github.com/morler/scaff/constants/lipgloss"
	"github.com/morler/scaff/languages"
	"github.com/morler/scaff/snapshot"
	"github.com/spf13/cobra"
)

func newSaveCmd() *cobra.Command {
	saveCmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Scan a directory and save the result as a named snapshot",
		Long: `The 'save' command scans a directory for one language and stores the fingerprints
as a snapshot in the store directory. Saving under an existing name replaces it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			language, _ := cmd.Flags().GetString("language")
			dir, _ := cmd.Flags().GetString("dir")
			description, _ := cmd.Flags().GetString("description")
			return handleSaveCommand(cmd, args[0], language, dir, description)
		},
	}

	saveCmd.Flags().StringP("language", "l", "rust", "Language to capture")
	saveCmd.Flags().StringP("dir", "d", ".", "Directory to scan")
	saveCmd.Flags().String("description", "", "Description stored with the snapshot")
	return saveCmd
}

func handleSaveCommand(cmd *cobra.Command, name, language, dir, description string) error {
	id, err := resolveLanguage(language)
	if err != nil {
		return err
	}

	deps, err := handleRootCommand(cmd)
	if err != nil {
		return err
	}
	defer deps.Close()

	stop := startSpinner(cmd.ErrOrStderr(), "Scanning the codebase...")
	files, err := deps.Analyzer.ScanLanguage(context.Background(), dir, id)
	stop()
	if err != nil {
		return err
	}

	snap := snapshot.NewSnapshot(files, name, languages.DisplayName(id))
	if description != "" {
		snap.Description = description
	}

	path, err := deps.Store.Save(snap)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Fprintln(deps.Out, lipgloss.Yellow.Render(fmt.Sprintf("⚠ No %s files found in %s", snap.Language, dir)))
	}
	fmt.Fprintln(deps.Out, lipgloss.Green.Render(fmt.Sprintf("✓ Saved snapshot '%s' (%d files, %d items)", snap.Name, snap.FileCount(), snap.ItemCount())))
	fmt.Fprintln(deps.Out, lipgloss.Gray.Render("  "+path))
	return nil
}
