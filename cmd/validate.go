package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/morler/scaff/validator"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate [snapshot]",
		Short: "Check a directory against a snapshot",
		Long: `The 'validate' command rescans a directory in the snapshot's language and reports
missing and extra files and declarations. Missing files or declarations make the
tree invalid; with --strict an invalid tree exits non-zero.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			strict, _ := cmd.Flags().GetBool("strict")
			return handleValidateCommand(cmd, args, dir, strict)
		},
	}

	validateCmd.Flags().StringP("dir", "d", ".", "Directory to validate")
	validateCmd.Flags().Bool("strict", false, "Exit with an error when the tree deviates")
	return validateCmd
}

func handleValidateCommand(cmd *cobra.Command, args []string, dir string, strict bool) error {
	deps, err := handleRootCommand(cmd)
	if err != nil {
		return err
	}
	defer deps.Close()

	name, err := resolveSnapshotName(deps, args)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	v := validator.NewArchitectureValidator(deps.Store, deps.Analyzer, deps.Logger)
	stop := startSpinner(cmd.ErrOrStderr(), "Validating architecture...")
	result, err := v.ValidateAgainstSnapshot(ctx, name, dir)
	stop()
	if err != nil {
		return err
	}

	validator.WriteReport(deps.Out, result)
	if strict && !result.IsValid {
		return fmt.Errorf("%w '%s'", errValidationFailed, result.SnapshotName)
	}
	return nil
}
