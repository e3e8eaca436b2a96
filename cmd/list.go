package cmd

import (
	"fmt"

	"github.com/morler/scaff/constants/lipgloss"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the saved snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return handleListCommand(cmd)
		},
	}
}

func handleListCommand(cmd *cobra.Command) error {
	deps, err := handleRootCommand(cmd)
	if err != nil {
		return err
	}
	defer deps.Close()

	listing, err := deps.Store.List()
	if err != nil {
		return err
	}

	if len(listing.Entries) == 0 {
		fmt.Fprintln(deps.Out, lipgloss.Yellow.Render("No snapshots found in "+deps.Store.Dir()))
		fmt.Fprintln(deps.Out, "💡 Run 'scaff save <name>' to create one.")
		return nil
	}

	fmt.Fprintln(deps.Out, lipgloss.Info.Render(fmt.Sprintf("Saved snapshots (%d)", len(listing.Entries))))
	for _, entry := range listing.Entries {
		marker := ""
		if entry.IsDefault {
			marker = lipgloss.Green.Render(" (default)")
		}
		fmt.Fprintf(deps.Out, "\n📋 %s%s (%s)\n", lipgloss.Bold.Render(entry.Snapshot.Name), marker, entry.Snapshot.Language)
		if entry.Snapshot.Description != "" {
			fmt.Fprintf(deps.Out, "   %s\n", entry.Snapshot.Description)
		}
		fmt.Fprintf(deps.Out, "   %d files, %d items, created %s\n",
			entry.FileCount, entry.ItemCount, entry.Snapshot.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	}

	fmt.Fprintln(deps.Out)
	if listing.Default != nil {
		fmt.Fprintf(deps.Out, "💡 Default snapshot: %s\n", *listing.Default)
	} else {
		fmt.Fprintln(deps.Out, "💡 No default snapshot set. Use 'scaff default set <name>' to set one.")
	}
	return nil
}
