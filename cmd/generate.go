package cmd

import (
	"fmt"

	"github.com/morler/scaff/constants/lipgloss"
	"github.com/morler/scaff/generator"
	"github.com/morler/scaff/utils"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate [snapshot]",
		Short: "Generate skeleton sources from a snapshot",
		Long: `The 'generate' command renders one skeleton file per fingerprint of a snapshot into
the output directory, plus a project manifest when none exists yet. Templates in
the templates directory override the built-in ones by file name.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			return handleGenerateCommand(cmd, args, output, dryRun)
		},
	}

	generateCmd.Flags().StringP("output", "o", "generated", "Output directory")
	generateCmd.Flags().Bool("dry-run", false, "Print the rendered files instead of writing them")
	return generateCmd
}

func handleGenerateCommand(cmd *cobra.Command, args []string, output string, dryRun bool) error {
	deps, err := handleRootCommand(cmd)
	if err != nil {
		return err
	}
	defer deps.Close()

	name, err := resolveSnapshotName(deps, args)
	if err != nil {
		return err
	}
	snap, err := deps.Store.FindByName(name)
	if err != nil {
		return err
	}

	gen, err := generator.NewCodeGenerator(deps.Config.TemplatesDir, deps.Logger)
	if err != nil {
		return err
	}

	if dryRun {
		files, err := gen.Files(snap)
		if err != nil {
			return err
		}
		for _, fp := range files {
			content, err := gen.Render(snap, fp)
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Out, lipgloss.Info.Render("── "+fp.Path))
			if err := utils.HighlightCode(deps.Out, string(content), fp.Path, deps.Config.Theme); err != nil {
				return err
			}
			fmt.Fprintln(deps.Out)
		}
		fmt.Fprintln(deps.Out, lipgloss.Gray.Render(fmt.Sprintf("Dry run: %d files would be written to %s", len(files), output)))
		return nil
	}

	report, err := gen.Generate(snap, output)
	if err != nil {
		return err
	}

	for _, f := range report.Files {
		fmt.Fprintf(deps.Out, "  %s %s\n", lipgloss.Green.Render("+"), f)
	}
	if report.ManifestWritten {
		fmt.Fprintf(deps.Out, "  %s %s\n", lipgloss.Green.Render("+"), report.Manifest)
	} else {
		fmt.Fprintln(deps.Out, lipgloss.Gray.Render(fmt.Sprintf("  %s already exists, left untouched", report.Manifest)))
	}
	fmt.Fprintln(deps.Out, lipgloss.Green.Render(fmt.Sprintf("✓ Generated %d files from '%s' in %s", len(report.Files), snap.Name, report.OutputDir)))
	return nil
}
