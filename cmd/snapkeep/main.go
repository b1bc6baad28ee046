package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"snapkeep/internal/app"
	"snapkeep/internal/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer
// app.Close(). dryRunOverride is non-nil when a --dry-run/--no-dry-run flag
// was given.
func newApp(dryRunOverride *bool) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.New(cfg, dryRunOverride)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// dryRunOverride reads the --dry-run/--no-dry-run flag pair.
func dryRunOverride(cmd *cobra.Command) *bool {
	if cmd.Flags().Changed("dry-run") {
		v, _ := cmd.Flags().GetBool("dry-run")
		return &v
	}
	if cmd.Flags().Changed("no-dry-run") {
		v, _ := cmd.Flags().GetBool("no-dry-run")
		v = !v
		return &v
	}
	return nil
}

func addDryRunFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("dry-run", false, "Only simulate file operations")
	cmd.Flags().Bool("no-dry-run", false, "Perform file operations even if the config says dry_run")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "no-dry-run")
}

var rootCmd = &cobra.Command{
	Use:   "snapkeep",
	Short: "Timestamped archive backup tool",
	Long: "snapkeep keeps UTC-timestamp-labeled archive versions of changed files\n" +
		"between directory pairs, and can restore the tree as of any past moment.",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Println("Add directory pairs before running a backup. dry_run starts enabled.")
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Log Dir:      %s\n", cfg.LogDir)
		fmt.Printf("Journal:      %s\n", cfg.JournalPath)
		fmt.Printf("Dry Run:      %v\n", cfg.DryRun)
		fmt.Printf("Max Age:      %d day(s)\n", cfg.MaxAgeDays)
		fmt.Printf("Trusted Age:  %d day(s)\n", cfg.TrustedAgeDays)
		for _, p := range cfg.Pairs {
			fmt.Printf("Pair:         %s -> %s\n", p.Source, p.Target)
		}
		return nil
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up all configured directory pairs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(dryRunOverride(cmd))
		if err != nil {
			return err
		}
		defer a.Close()

		if a.DryRun() {
			fmt.Println("This is a dry run. File operations are only simulated.")
		}

		st, err := a.Backup()
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}

		fmt.Printf("Backed up %d file(s), marked %d deleted, pruned %d version(s)\n",
			st.Archived, st.Marked, st.Pruned)
		return nil
	},
}

// restore command
var restoreCmd = &cobra.Command{
	Use:   "restore SOURCE TARGET",
	Short: "Restore a point-in-time snapshot of an archive tree",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		atRaw, _ := cmd.Flags().GetString("at")
		at, err := time.Parse("2006-01-02 15:04:05", atRaw)
		if err != nil {
			return fmt.Errorf("datetime format not recognized (want \"YYYY-MM-DD HH:MM:SS\" in UTC): %s", atRaw)
		}
		at = at.UTC()

		a, err := newApp(dryRunOverride(cmd))
		if err != nil {
			return err
		}
		defer a.Close()

		if a.DryRun() {
			fmt.Println("This is a dry run. File operations are only simulated.")
		}

		st, err := a.Restore(args[0], args[1], at)
		if err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}

		fmt.Printf("Restored %d file(s)\n", st.Restored)
		if st.Errors > 0 {
			fmt.Printf("%d file(s) could not be restored; see the log\n", st.Errors)
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(nil)
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		for _, r := range runs {
			duration := ""
			if r.FinishedAt.Valid {
				duration = r.FinishedAt.Time.Sub(r.StartedAt).Truncate(time.Millisecond).String()
			}
			dry := ""
			if r.DryRun {
				dry = "  [dry run]"
			}
			fmt.Printf("%s  %-8s  %s  %-8s  %s  archived:%d marked:%d pruned:%d restored:%d%s\n",
				r.ID[:8],
				r.Operation,
				r.StartedAt.Format("2006-01-02 15:04:05"),
				r.Status,
				duration,
				r.Archived, r.Marked, r.Pruned, r.Restored,
				dry,
			)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(configCmd)

	rootCmd.AddCommand(backupCmd)
	addDryRunFlags(backupCmd)

	rootCmd.AddCommand(restoreCmd)
	addDryRunFlags(restoreCmd)
	restoreCmd.Flags().String("at", "", "Snapshot datetime in UTC, format \"YYYY-MM-DD HH:MM:SS\"")
	restoreCmd.MarkFlagRequired("at")

	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of runs to show")
}
