package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	flagInterval time.Duration
	flagWorkers  int
	flagHidden   bool
	flagExclude  []string
)

var rootCmd = &cobra.Command{
	Use:   "dirview [path]",
	Short: "Interactive directory-size browser",
	Long: `dirview lists the immediate subdirectories of a root with their total
size, file count, and directory count, aggregated recursively. Navigate the
tree, rescan on demand, and delete a selected tree after confirmation, all
while scans run in the background.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, root, err := setup(cmd, args)
		if err != nil {
			return err
		}
		m := newModel(cfg, root)
		if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("run ui: %w", err)
		}
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report [path]",
	Short: "Scan once and print the listing to stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, root, err := setup(cmd, args)
		if err != nil {
			return err
		}
		entries := collectEntries(root, cfg.scanOptions())
		sortEntries(entries)
		if len(entries) == 0 {
			fmt.Printf("no subdirectories under %s\n", root)
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSIZE\tFILES\tDIRS")
		for _, entry := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				entry.Name(),
				humanize.IBytes(entry.TotalBytes),
				humanize.Comma(int64(entry.FileCount)),
				humanize.Comma(int64(entry.DirCount)),
			)
		}
		return w.Flush()
	},
}

// setup loads config, applies flag overrides, and resolves the starting root.
// Any failure here is fatal: the process exits non-zero without retrying.
func setup(cmd *cobra.Command, args []string) (Config, string, error) {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return Config{}, "", err
	}
	flags := cmd.Flags()
	if flags.Changed("interval") {
		cfg.RefreshInterval = flagInterval
	}
	if flags.Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if flags.Changed("hidden") {
		cfg.ShowHidden = flagHidden
	}
	if flags.Changed("exclude") {
		cfg.Exclude = flagExclude
	}
	if err := cfg.validate(); err != nil {
		return Config{}, "", err
	}

	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Config{}, "", fmt.Errorf("resolve starting directory: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return Config{}, "", fmt.Errorf("starting directory: %w", err)
	}
	if !info.IsDir() {
		return Config{}, "", fmt.Errorf("starting directory %s is not a directory", absRoot)
	}
	return cfg, absRoot, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/dirview/config.yaml)")
	rootCmd.PersistentFlags().DurationVar(&flagInterval, "interval", 15*time.Minute, "background rescan interval")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "scan worker count (0 = number of CPUs)")
	rootCmd.PersistentFlags().BoolVar(&flagHidden, "hidden", true, "list hidden subdirectories")
	rootCmd.PersistentFlags().StringSliceVar(&flagExclude, "exclude", nil, "directory names to skip entirely")
	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
