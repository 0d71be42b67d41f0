package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/yildizm/tabview/internal/config"
	"github.com/yildizm/tabview/internal/emoji"
	"github.com/yildizm/tabview/internal/formatter"
	"github.com/yildizm/tabview/internal/logger"
	"github.com/yildizm/tabview/internal/ui"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string

	globalConfig *config.Config
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tabview",
		Short: "Filter, sort, page and select tabular records",
		Long: `tabview loads records from JSON, NDJSON, YAML, CSV, TSV, XLSX or log files
and shows them as a table that can be filtered, sorted, paginated and selected.

Use "show" for one-shot output, "view" for the interactive browser and
"watch" to re-render whenever the file changes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji)

			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			globalConfig = cfg

			if !cmd.Flag("verbose").Changed {
				verbose = cfg.Output.Verbose
			}
			ui.SetThemeByName(cfg.Output.Theme)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "output format (table, json, csv, markdown, prompt)")

	// Add subcommands
	rootCmd.AddCommand(newShowCommand())
	rootCmd.AddCommand(newViewCommand())
	rootCmd.AddCommand(newFieldsCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tabview %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// Global helpers

// GetGlobalConfig returns the loaded configuration, or defaults before loading
func GetGlobalConfig() *config.Config {
	if globalConfig == nil {
		return config.DefaultConfig()
	}
	return globalConfig
}

func isVerbose() bool {
	return verbose
}

func getOutputFormat() string {
	if outputFmt != "" {
		return outputFmt
	}
	return GetGlobalConfig().Output.DefaultFormat
}

func isEmojiDisabled() bool {
	return noEmoji
}

// useColor decides whether output written to w should carry ANSI colors
func useColor(w io.Writer) bool {
	if noColor || ui.IsColorDisabled() {
		return false
	}
	switch GetGlobalConfig().Output.ColorMode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// newLogger creates the command logger writing to the command's stderr
func newLogger(cmd *cobra.Command) *logger.Logger {
	return logger.NewWithCallback("cli", isVerbose).WithWriter(cmd.ErrOrStderr())
}

// formatOptions builds formatter options from config and global flags
func formatOptions(w io.Writer) formatter.Options {
	cfg := GetGlobalConfig()
	opts := formatter.DefaultOptions()
	opts.Color = useColor(w)
	opts.Emoji = !isEmojiDisabled()
	opts.MaxCellWidth = cfg.Output.MaxCellWidth
	opts.TimestampFormat = cfg.Output.TimestampFormat
	return opts
}
