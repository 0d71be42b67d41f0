package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/yildizm/tabview/internal/record"
	"github.com/yildizm/tabview/internal/source"
	"github.com/yildizm/tabview/internal/ui"
)

func newViewCommand() *cobra.Command {
	var (
		input          inputFlags
		view           viewFlags
		printSelection bool
		follow         bool
	)

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Browse records interactively",
		Long: `Open the interactive table browser.

Press / to filter, s to sort the focused column, space to select,
n/p to change pages and enter to accept the selection. With
--print-selection the accepted records are written to stdout as JSON.
With --follow the file is reloaded whenever it changes; use --key to keep
the selection across reloads.

Examples:
  tabview view people.json
  tabview view --key id --follow people.json
  tabview view --print-selection people.csv | jq .`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd)
			srcOpts := input.options(cmd, log)

			records, name, err := loadInput(cmd, args, srcOpts)
			if err != nil {
				return err
			}

			viewOpts, err := view.options(cmd)
			if err != nil {
				return err
			}

			browser := ui.NewBrowser(records, ui.Options{
				Title:  name,
				View:   viewOpts,
				Format: formatOptions(os.Stdout),
				Logger: log.WithComponent("viewmodel"),
			})
			warnUnknownSortField(browser.ViewModel(), log)
			if err := view.apply(browser.ViewModel()); err != nil {
				return err
			}

			program := ui.NewProgram(browser, tea.WithOutput(os.Stderr))

			if follow && len(args) == 1 && args[0] != "-" {
				ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				watcher, err := newFileWatcher(name, GetGlobalConfig().Watch.Debounce, log)
				if err != nil {
					return err
				}
				defer cleanupWatcher(watcher, log)

				go func() {
					_ = watcher.Run(ctx, func() {
						reloaded, err := source.LoadFile(name, srcOpts)
						if err != nil {
							program.Send(ui.ErrorMsg{Err: err})
							return
						}
						program.Send(ui.RecordsMsg{Records: reloaded, Source: name})
					})
				}()
			}

			if _, err := program.Run(); err != nil {
				return fmt.Errorf("failed to run browser: %w", err)
			}

			if printSelection && browser.Confirmed() {
				return writeSelection(cmd, browser.Selected())
			}
			return nil
		},
	}

	input.register(cmd)
	view.register(cmd)
	cmd.Flags().BoolVar(&printSelection, "print-selection", false, "print the accepted selection as JSON on exit")
	cmd.Flags().BoolVar(&follow, "follow", false, "reload the file when it changes")

	return cmd
}

// writeSelection writes records as an indented JSON array
func writeSelection(cmd *cobra.Command, selected []record.Record) error {
	if selected == nil {
		selected = []record.Record{}
	}
	data, err := json.MarshalIndent(selected, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode selection: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
