package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yildizm/tabview/internal/formatter"
	"github.com/yildizm/tabview/internal/logger"
	"github.com/yildizm/tabview/internal/source"
	"github.com/yildizm/tabview/internal/viewmodel"
)

func newWatchCommand() *cobra.Command {
	var (
		input inputFlags
		view  viewFlags
	)

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-render records whenever the file changes",
		Long: `Watch a file and print the current view again each time it is written.

The whole file is reloaded on every change and replaces the previous
records. Filter, sort and page stay as given; with --key the selection
follows records across reloads. Press Ctrl+C to stop watching.

Examples:
  tabview watch people.json
  tabview watch --key id --select 0 --sort updated:desc jobs.ndjson`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd)
			filename := filepath.Clean(args[0])

			viewOpts, err := view.options(cmd)
			if err != nil {
				return err
			}
			vm := newViewModel(viewOpts, log)

			f, err := formatter.New(getOutputFormat(), formatOptions(cmd.OutOrStdout()))
			if err != nil {
				return err
			}

			watcher, err := newFileWatcher(filename, GetGlobalConfig().Watch.Debounce, log)
			if err != nil {
				return err
			}
			defer cleanupWatcher(watcher, log)

			srcOpts := input.options(cmd, log)
			render := func() {
				records, err := source.LoadFile(filename, srcOpts)
				if err != nil {
					log.Warn("Failed to reload %s: %v", filename, err)
					return
				}
				vm.SetRecordSlice(records)
				if err := renderSnapshot(cmd, f, vm, filename); err != nil {
					log.Warn("Failed to render %s: %v", filename, err)
				}
			}

			records, err := source.LoadFile(filename, srcOpts)
			if err != nil {
				return err
			}
			vm.SetRecordSlice(records)
			warnUnknownSortField(vm, log)
			if err := view.apply(vm); err != nil {
				return err
			}
			if err := renderSnapshot(cmd, f, vm, filename); err != nil {
				return err
			}

			// Set up signal handling for graceful shutdown
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info("Watching file: %s (press Ctrl+C to stop)", filename)
			return watcher.Run(ctx, render)
		},
	}

	input.register(cmd)
	view.register(cmd)

	return cmd
}

func renderSnapshot(cmd *cobra.Command, f formatter.Formatter, vm *viewmodel.TableViewModel, filename string) error {
	output, err := f.Format(vm.Snapshot())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "── %s @ %s ──\n", filename, time.Now().Format("15:04:05"))
	_, err = out.Write(output)
	return err
}

// fileWatcher reports debounced changes of a single file. The parent
// directory is watched so editors that replace the file are noticed.
type fileWatcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	log      *logger.Logger
}

// newFileWatcher creates and configures a new file system watcher
func newFileWatcher(path string, debounce time.Duration, log *logger.Logger) (*fileWatcher, error) {
	if err := validateWatchFilePath(path); err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch file: %w", err)
	}

	return &fileWatcher{path: absPath, debounce: debounce, watcher: watcher, log: log}, nil
}

// Run calls onChange after each burst of changes until ctx is done
func (w *fileWatcher) Run(ctx context.Context, onChange func()) error {
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Received interrupt signal, stopping...")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug("change detected: %s", event)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Warn("Watcher error: %v", err)
		}
	}
}

// relevant reports whether event changed the watched file's content
func (w *fileWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// Close stops the underlying watcher
func (w *fileWatcher) Close() error {
	return w.watcher.Close()
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(w *fileWatcher, log *logger.Logger) {
	if err := w.Close(); err != nil {
		log.Debug("Warning: failed to close watcher: %v", err)
	}
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	// Clean the path to resolve . and .. elements
	cleanPath := filepath.Clean(path)

	if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path traversal not allowed")
	}

	// For watch operations, ensure the file exists and is a regular file
	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}

	return nil
}
