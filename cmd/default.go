package cmd

import (
	"fmt"

	"github.com/morler/scaff/apperrors"
	"github.com/morler/scaff/constants/lipgloss"
	"github.com/spf13/cobra"
)

func newDefaultCmd() *cobra.Command {
	defaultCmd := &cobra.Command{
		Use:   "default",
		Short: "Manage the default snapshot",
		Long: `The default snapshot is used by 'generate' and 'validate' when no snapshot name is given.
It is stored in config.json inside the store directory.`,
	}

	defaultCmd.AddCommand(
		&cobra.Command{
			Use:   "set <name>",
			Short: "Set the default snapshot",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return handleDefaultSet(cmd, args[0])
			},
		},
		&cobra.Command{
			Use:   "get",
			Short: "Show the default snapshot",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return handleDefaultGet(cmd)
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Clear the default snapshot",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return handleDefaultClear(cmd)
			},
		},
	)
	return defaultCmd
}

func handleDefaultSet(cmd *cobra.Command, name string) error {
	deps, err := handleRootCommand(cmd)
	if err != nil {
		return err
	}
	defer deps.Close()

	cfg, err := deps.Store.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.SetDefault(name); err != nil {
		return err
	}

	current, _ := cfg.Default()
	fmt.Fprintln(deps.Out, lipgloss.Green.Render(fmt.Sprintf("✓ Default snapshot set to '%s'", current)))
	return nil
}

func handleDefaultGet(cmd *cobra.Command) error {
	deps, err := handleRootCommand(cmd)
	if err != nil {
		return err
	}
	defer deps.Close()

	cfg, err := deps.Store.LoadConfig()
	if err != nil {
		return err
	}
	if name, ok := cfg.Default(); ok {
		fmt.Fprintf(deps.Out, "Current default snapshot: %s\n", name)
		return nil
	}
	fmt.Fprintln(deps.Out, "No default snapshot is currently set.")
	fmt.Fprintln(deps.Out, "💡 Use 'scaff default set <name>' to set one.")
	return nil
}

func handleDefaultClear(cmd *cobra.Command) error {
	deps, err := handleRootCommand(cmd)
	if err != nil {
		return err
	}
	defer deps.Close()

	// A config.json that no longer decodes is replaced rather than reported.
	cfg, err := deps.Store.LoadConfig()
	if apperrors.KindOf(err) == apperrors.KindMalformedSnapshot {
		cfg, err = deps.Store.NewConfig(), nil
	}
	if err != nil {
		return err
	}
	if err := cfg.ClearDefault(); err != nil {
		return err
	}
	fmt.Fprintln(deps.Out, lipgloss.Green.Render("✓ Default snapshot cleared"))
	return nil
}
