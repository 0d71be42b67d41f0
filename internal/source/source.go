package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yildizm/tabview/internal/logger"
	"github.com/yildizm/tabview/internal/record"
)

// sniffSize is how much input is inspected for content detection
const sniffSize = 4096

// Loader turns a stream into records
type Loader interface {
	// Load reads every record from r
	Load(r io.Reader) ([]record.Record, error)

	// Name returns the format name
	Name() string
}

// Options controls how input is loaded
type Options struct {
	// Format is a registered format name, or "auto"/"" to detect
	Format string

	// InferTypes coerces text cells (csv, xlsx) into typed values
	InferTypes bool

	// Sheet selects the xlsx sheet; the first sheet when empty
	Sheet string

	// LogFormat selects the log line format: auto, json, logfmt or text
	LogFormat string

	// MaxRecords truncates the result; <= 0 means no limit
	MaxRecords int

	Logger *logger.Logger
}

// LoadFile loads a file, detecting its format from the extension or content
func LoadFile(path string, opts Options) ([]record.Record, error) {
	return DefaultFactory.LoadFile(path, opts)
}

// Load reads records from r. name is used for extension detection and
// error messages and may be empty.
func Load(r io.Reader, name string, opts Options) ([]record.Record, error) {
	return DefaultFactory.Load(r, name, opts)
}

// LoadFile loads a file using the factory's loaders
func (f *Factory) LoadFile(path string, opts Options) ([]record.Record, error) {
	if err := validateInputPath(path); err != nil {
		return nil, &LoadError{Op: "open", Path: path, Err: err}
	}

	// #nosec G304 - path is validated by validateInputPath
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Op: "open", Path: path, Err: err}
	}
	defer func() { _ = file.Close() }()

	return f.Load(file, path, opts)
}

// Load reads records from r using the configured or detected format
func (f *Factory) Load(r io.Reader, name string, opts Options) ([]record.Record, error) {
	log := opts.Logger.WithComponent("source")
	display := name
	if display == "" {
		display = "-"
	}

	br := bufio.NewReaderSize(r, sniffSize)
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" || format == "auto" {
		sample, err := br.Peek(sniffSize)
		if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
			return nil, &LoadError{Op: "read", Path: display, Err: err}
		}
		if len(strings.TrimSpace(string(sample))) == 0 {
			return nil, &LoadError{Op: "read", Path: display, Err: ErrEmptyInput}
		}
		format = f.DetectFormat(name, sample)
		log.Debug("detected format %s for %s", format, display)
	}

	loader, err := f.CreateLoader(format, opts)
	if err != nil {
		return nil, &LoadError{Op: "detect", Path: display, Err: err}
	}

	records, err := loader.Load(br)
	if err != nil {
		return nil, &LoadError{Op: "load " + loader.Name(), Path: display, Err: err}
	}

	if opts.MaxRecords > 0 && len(records) > opts.MaxRecords {
		log.Warn("truncated %s to %d of %d records", display, opts.MaxRecords, len(records))
		records = records[:opts.MaxRecords]
	}

	log.InfoWithFields("loaded records", []logger.Field{
		logger.Count(len(records)),
		logger.F("format", loader.Name()),
		logger.Path(display),
	})
	return records, nil
}

// validateInputPath rejects traversal and anything but regular files
func validateInputPath(path string) error {
	cleanPath := filepath.Clean(path)
	if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: path traversal not allowed", ErrInvalidPath)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrInvalidPath, path)
	}
	return nil
}
