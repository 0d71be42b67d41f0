package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yildizm/tabview/internal/formatter"
	"github.com/yildizm/tabview/internal/logger"
	"github.com/yildizm/tabview/internal/record"
	"github.com/yildizm/tabview/internal/source"
	"github.com/yildizm/tabview/internal/viewmodel"
)

// inputFlags controls how records are loaded
type inputFlags struct {
	format     string
	inferTypes bool
	sheet      string
	logFormat  string
	maxRecords int
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "auto", "input format (auto, json, ndjson, yaml, csv, tsv, xlsx, log)")
	cmd.Flags().BoolVar(&f.inferTypes, "infer-types", true, "convert csv/xlsx text cells to numbers, booleans and times")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "xlsx sheet name (default: first sheet)")
	cmd.Flags().StringVar(&f.logFormat, "log-format", "auto", "log line format (auto, json, logfmt, text)")
	cmd.Flags().IntVar(&f.maxRecords, "max-records", 0, "maximum records to load (default from config)")
}

// options merges flags with config values for flags that were not set
func (f *inputFlags) options(cmd *cobra.Command, log *logger.Logger) source.Options {
	cfg := GetGlobalConfig()
	opts := source.Options{
		Format:     f.format,
		InferTypes: f.inferTypes,
		Sheet:      f.sheet,
		LogFormat:  f.logFormat,
		MaxRecords: f.maxRecords,
		Logger:     log,
	}
	if !cmd.Flags().Changed("format") {
		opts.Format = cfg.Input.Format
	}
	if !cmd.Flags().Changed("infer-types") {
		opts.InferTypes = cfg.Input.InferTypes
	}
	if !cmd.Flags().Changed("sheet") {
		opts.Sheet = cfg.Input.Sheet
	}
	if !cmd.Flags().Changed("max-records") {
		opts.MaxRecords = cfg.Input.MaxRecords
	}
	return opts
}

// loadInput loads records from the file argument, or stdin when absent or "-".
// It returns the records and a display name for the source.
func loadInput(cmd *cobra.Command, args []string, opts source.Options) ([]record.Record, string, error) {
	if len(args) == 0 || args[0] == "-" {
		opts.Logger.Debug("Reading from stdin...")
		records, err := source.Load(cmd.InOrStdin(), "", opts)
		return records, "stdin", err
	}

	filename := args[0]
	if err := validateFilePath(filename); err != nil {
		return nil, "", fmt.Errorf("invalid file path: %w", err)
	}

	cleanPath := filepath.Clean(filename)
	records, err := source.LoadFile(cleanPath, opts)
	return records, cleanPath, err
}

func validateFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", cleanPath)
		}
		return fmt.Errorf("cannot access file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", cleanPath)
	}

	return nil
}

// viewFlags controls the initial view state
type viewFlags struct {
	query      string
	sort       string
	page       int
	pageSize   int
	selection  string
	selectMode string
	keyField   string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "case-insensitive substring filter over all fields")
	cmd.Flags().StringVarP(&f.sort, "sort", "s", "", "sort by field[:asc|desc], or none to keep input order")
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "page number (1-based)")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "rows per page, 0 shows all rows (default from config)")
	cmd.Flags().StringVar(&f.selection, "select", "", "select rows by index in the filtered order, e.g. 0,2,5-7")
	cmd.Flags().StringVar(&f.selectMode, "select-mode", "", "selection mode (none, single, multi)")
	cmd.Flags().StringVar(&f.keyField, "key", "", "field that identifies a record across reloads")
}

// options builds view-model options from flags and config
func (f *viewFlags) options(cmd *cobra.Command) ([]viewmodel.Option, error) {
	cfg := GetGlobalConfig()

	sortText := f.sort
	if !cmd.Flags().Changed("sort") && cfg.View.SortField != "" {
		sortText = cfg.View.SortField + ":" + cfg.View.SortDirection
	}
	spec, err := viewmodel.ParseSortSpec(sortText)
	if err != nil {
		return nil, err
	}

	modeText := f.selectMode
	if !cmd.Flags().Changed("select-mode") {
		modeText = cfg.View.SelectionMode
	}
	mode, err := viewmodel.ParseSelectionMode(modeText)
	if err != nil {
		return nil, err
	}

	pageSize := f.pageSize
	if !cmd.Flags().Changed("page-size") {
		pageSize = cfg.View.PageSize
	}

	keyField := f.keyField
	if !cmd.Flags().Changed("key") {
		keyField = cfg.View.KeyField
	}

	return []viewmodel.Option{
		viewmodel.WithQuery(f.query),
		viewmodel.WithSort(spec.Field, spec.Direction),
		viewmodel.WithPageSize(pageSize),
		viewmodel.WithSelectionMode(mode),
		viewmodel.WithKeyField(keyField),
	}, nil
}

// apply selects the requested rows and moves to the requested page
func (f *viewFlags) apply(vm *viewmodel.TableViewModel) error {
	indices, err := parseSelection(f.selection, vm.FilteredCount())
	if err != nil {
		return err
	}
	for _, idx := range indices {
		vm.Select(idx)
	}
	vm.SetPage(f.page - 1)
	return nil
}

// parseSelection parses "0,2,5-7" into sorted unique indices below limit
func parseSelection(s string, limit int) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi := part, part
		if i := strings.Index(part, "-"); i > 0 {
			lo, hi = part[:i], part[i+1:]
		}
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid selection %q: %w", part, err)
		}
		end, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("invalid selection %q: %w", part, err)
		}
		if start < 0 || end < start {
			return nil, fmt.Errorf("invalid selection range %q", part)
		}
		for i := start; i <= min(end, limit-1); i++ {
			seen[i] = true
		}
	}

	indices := make([]int, 0, len(seen))
	for i := range seen {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices, nil
}

// warnUnknownSortField reports a sort field that no record carries. The
// view-model keeps input order in that case.
func warnUnknownSortField(vm *viewmodel.TableViewModel, log *logger.Logger) {
	spec := vm.State().Sort
	if !spec.Active() || vm.TotalCount() == 0 || vm.HasField(spec.Field) {
		return
	}
	if suggestion, ok := formatter.Closest(spec.Field, vm.Fields()); ok {
		log.Warn("sort field %q not found, keeping input order (did you mean %q?)", spec.Field, suggestion)
		return
	}
	log.Warn("sort field %q not found, keeping input order", spec.Field)
}
