package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/morler/scaff/apperrors"
	"github.com/morler/scaff/code_analyzer"
	"github.com/morler/scaff/code_analyzer/contracts"
	"github.com/morler/scaff/config"
	"github.com/morler/scaff/constants/lipgloss"
	"github.com/morler/scaff/snapshot"
	"github.com/morler/scaff/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// RootDependencies is what every subcommand works with.
type RootDependencies struct {
	Cwd      string
	Config   *config.Config
	Logger   *pterm.Logger
	Store    *snapshot.Store
	Analyzer contracts.ICodeAnalyzer
	Out      io.Writer
}

// Close releases the fingerprint cache.
func (d *RootDependencies) Close() {
	if d.Analyzer == nil {
		return
	}
	if err := d.Analyzer.Close(); err != nil {
		d.Logger.Warn("Failed to close fingerprint cache", d.Logger.Args("error", err))
	}
}

// NewRootCmd builds the scaff command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "scaff",
		Short: "Capture, validate and regenerate the structure of a codebase",
		Long: `scaff fingerprints the declarations of a codebase across Rust, JavaScript, TypeScript,
Python, Java, Go, HTML, CSS and JSON, saves those fingerprints as named snapshots,
validates a tree against a snapshot and generates skeleton sources from one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if version, _ := cmd.Flags().GetBool("version"); version {
				fmt.Fprintf(cmd.OutOrStdout(), "scaff %s\n", config.DefaultConfig.Version)
				return nil
			}
			return cmd.Help()
		},
	}

	config.InitFlags(rootCmd)

	rootCmd.AddCommand(
		newScanCmd(),
		newSaveCmd(),
		newListCmd(),
		newGenerateCmd(),
		newValidateCmd(),
		newDefaultCmd(),
		newResetCacheCmd(),
	)
	return rootCmd
}

// Execute runs the root command and prints a failing command's error with its hint.
func Execute() error {
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	if err != nil {
		PrintError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// PrintError writes err in red, followed by its hint when it carries one.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, lipgloss.Red.Render(fmt.Sprintf("❌ %v", err)))
	if hint := apperrors.HintOf(err); hint != "" {
		fmt.Fprintln(w, lipgloss.Yellow.Render("💡 "+hint))
	}
}

// handleRootCommand loads the configuration and wires the store and analyzer.
// Callers must Close the result.
func handleRootCommand(cmd *cobra.Command) (*RootDependencies, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	cfg, err := config.LoadConfigs(cmd.Root(), cwd)
	if err != nil {
		return nil, err
	}

	logger := utils.NewLogger(cfg.Verbose)
	if cfg.ConfigFile != "" {
		logger.Debug("Loaded configuration", logger.Args("file", cfg.ConfigFile))
	}

	analyzer := code_analyzer.NewCodeAnalyzer(code_analyzer.Options{
		ExcludeDirs: []string{cfg.StoreDir, cfg.CacheDir},
		EnableCache: cfg.EnableCache,
		CacheDir:    cfg.CacheDir,
		Logger:      logger,
	})

	return &RootDependencies{
		Cwd:      cwd,
		Config:   cfg,
		Logger:   logger,
		Store:    snapshot.NewStore(cfg.StoreDir, logger),
		Analyzer: analyzer,
		Out:      cmd.OutOrStdout(),
	}, nil
}

// resolveSnapshotName returns args[0], or the configured default when no name was given.
func resolveSnapshotName(deps *RootDependencies, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}

	cfg, err := deps.Store.LoadConfig()
	if err != nil {
		return "", err
	}
	name, ok := cfg.Default()
	if !ok {
		return "", apperrors.NotFound("resolve snapshot", "default snapshot").
			WithHint("Pass a snapshot name or run 'scaff default set <name>'.")
	}
	fmt.Fprintln(deps.Out, lipgloss.Gray.Render(fmt.Sprintf("💡 Using default snapshot: %s", name)))
	return name, nil
}

// startSpinner shows a spinner on w until the returned function is called.
func startSpinner(w io.Writer, text string) func() {
	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100 * time.Millisecond).WithRemoveWhenDone(true).WithWriter(w)

	instance, err := spinner.Start(text)
	if err != nil {
		return func() {}
	}
	return func() {
		_ = instance.Stop()
	}
}

// errValidationFailed is returned by validate --strict when the tree deviates.
var errValidationFailed = errors.New("architecture deviates from the snapshot")
