package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/morler/scaff/code_analyzer"
	"github.com/morler/scaff/constants/lipgloss"
	"github.com/morler/scaff/utils"
	"github.com/spf13/cobra"
)

// newResetCacheCmd builds the reset-cache command
func newResetCacheCmd() *cobra.Command {
	resetCacheCmd := &cobra.Command{
		Use:   "reset-cache",
		Short: "Reset the fingerprint cache",
		Long: `The 'reset-cache' command removes the cached fingerprints in the cache directory.
Use --older-than to drop only entries stored before the given age, or --stats to
inspect the cache without changing it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Parse flags
			force, _ := cmd.Flags().GetBool("force")
			stats, _ := cmd.Flags().GetBool("stats")
			olderThan, _ := cmd.Flags().GetDuration("older-than")

			return handleResetCacheCommand(cmd, force, stats, olderThan)
		},
	}

	// Define command-specific flags
	resetCacheCmd.Flags().BoolP("force", "f", false, "Force cache reset without confirmation")
	resetCacheCmd.Flags().BoolP("stats", "s", false, "Show cache statistics instead of resetting")
	resetCacheCmd.Flags().Duration("older-than", 0, "Only remove entries older than this age (e.g. 72h)")
	return resetCacheCmd
}

func handleResetCacheCommand(cmd *cobra.Command, force, showStats bool, olderThan time.Duration) error {
	deps, err := handleRootCommand(cmd)
	if err != nil {
		return err
	}
	defer deps.Close()

	if _, err := os.Stat(filepath.Join(deps.Config.CacheDir, code_analyzer.CacheFileName)); os.IsNotExist(err) {
		fmt.Fprintln(deps.Out, lipgloss.Yellow.Render("No fingerprint cache in "+deps.Config.CacheDir+". Nothing to reset."))
		return nil
	}

	// The cache is opened here even when scans run without it.
	deps.Close()
	deps.Analyzer = code_analyzer.NewCodeAnalyzer(code_analyzer.Options{
		EnableCache: true,
		CacheDir:    deps.Config.CacheDir,
		Logger:      deps.Logger,
	})

	cacheStats, err := deps.Analyzer.GetCacheStats()
	if err != nil {
		return err
	}
	if enabled, ok := cacheStats["cache_enabled"].(bool); !ok || !enabled {
		fmt.Fprintln(deps.Out, lipgloss.Yellow.Render("The fingerprint cache could not be opened. Is another scaff running?"))
		return nil
	}

	if showStats {
		fmt.Fprintln(deps.Out, lipgloss.Info.Render("Cache Statistics:"))
		if dir, ok := cacheStats["cache_dir"].(string); ok {
			fmt.Fprintf(deps.Out, "  Cache Directory: %s\n", dir)
		}
		if files, ok := cacheStats["cache_files"].(int); ok {
			fmt.Fprintf(deps.Out, "  Cached Files: %d\n", files)
		}
		if size, ok := cacheStats["total_size"].(int64); ok {
			fmt.Fprintf(deps.Out, "  Total Size: %.2f MB\n", float64(size)/(1024*1024))
		}
		return nil
	}

	if !force {
		question := "Are you sure you want to reset the entire fingerprint cache?"
		if olderThan > 0 {
			question = fmt.Sprintf("Remove cached fingerprints older than %s?", olderThan)
		}
		ok, err := utils.ConfirmPrompt(deps.Out, bufio.NewReader(cmd.InOrStdin()), question)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(deps.Out, lipgloss.Yellow.Render("Cache reset cancelled."))
			return nil
		}
	}

	if olderThan > 0 {
		removed, err := deps.Analyzer.CleanExpiredCache(olderThan)
		if err != nil {
			return fmt.Errorf("error cleaning cache: %w", err)
		}
		fmt.Fprintln(deps.Out, lipgloss.Green.Render(fmt.Sprintf("✓ Removed %d expired cache entries", removed)))
		return nil
	}

	if err := deps.Analyzer.ClearCache(); err != nil {
		return fmt.Errorf("error resetting cache: %w", err)
	}
	fmt.Fprintln(deps.Out, lipgloss.Green.Render("✓ Fingerprint cache has been successfully reset!"))
	return nil
}
