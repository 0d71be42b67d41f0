package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yildizm/tabview/internal/formatter"
	"github.com/yildizm/tabview/internal/logger"
	"github.com/yildizm/tabview/internal/viewmodel"
)

func newShowCommand() *cobra.Command {
	var (
		input      inputFlags
		view       viewFlags
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Print one page of records",
		Long: `Load records, apply filter, sort, pagination and selection, and print the
visible page in the chosen output format.

If no file is specified, reads from stdin.

Examples:
  tabview show people.json
  tabview show --query alice --sort age:desc people.csv
  tabview show --page-size 10 --page 3 -o markdown people.yaml
  cat events.ndjson | tabview show -o json --select 0,2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd)

			records, name, err := loadInput(cmd, args, input.options(cmd, log))
			if err != nil {
				return err
			}

			viewOpts, err := view.options(cmd)
			if err != nil {
				return err
			}
			vm := newViewModel(viewOpts, log)
			vm.SetRecordSlice(records)
			warnUnknownSortField(vm, log)
			if err := view.apply(vm); err != nil {
				return err
			}

			f, err := formatter.New(getOutputFormat(), formatOptions(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			output, err := f.Format(vm.Snapshot())
			if err != nil {
				return fmt.Errorf("failed to format %s: %w", name, err)
			}

			return handleOutputDestination(cmd, output, outputFile, log)
		},
	}

	input.register(cmd)
	view.register(cmd)
	cmd.Flags().StringVar(&outputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

// newViewModel creates a view-model that logs its events at debug level
func newViewModel(opts []viewmodel.Option, log *logger.Logger) *viewmodel.TableViewModel {
	opts = append(opts,
		viewmodel.WithLogger(log.WithComponent("viewmodel")),
		viewmodel.WithListener(func(e viewmodel.Event) {
			log.Debug("view event: %s", e)
		}))
	return viewmodel.New(opts...)
}

// handleOutputDestination writes output to file or stdout
func handleOutputDestination(cmd *cobra.Command, output []byte, outputFile string, log *logger.Logger) error {
	if outputFile == "" {
		_, err := cmd.OutOrStdout().Write(output)
		return err
	}

	if err := writeOutputBytesToFile(output, outputFile); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}
	log.Info("Output saved to: %s", outputFile)
	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	// #nosec G304 - output path is chosen by the user
	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if _, err := file.Write(output); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}

	if err := file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return file.Close()
}
