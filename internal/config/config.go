package config

import (
	"fmt"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version string       `yaml:"version" json:"version"`
	View    ViewConfig   `yaml:"view" json:"view"`
	Input   InputConfig  `yaml:"input" json:"input"`
	Output  OutputConfig `yaml:"output" json:"output"`
	Watch   WatchConfig  `yaml:"watch" json:"watch"`
}

// ViewConfig configures the initial table view
type ViewConfig struct {
	PageSize      int    `yaml:"page_size" json:"page_size"`           // 0 disables pagination
	SelectionMode string `yaml:"selection_mode" json:"selection_mode"` // none|single|multi
	KeyField      string `yaml:"key_field" json:"key_field"`           // record identity field
	SortField     string `yaml:"sort_field" json:"sort_field"`
	SortDirection string `yaml:"sort_direction" json:"sort_direction"` // asc|desc|none
}

// InputConfig configures record loading
type InputConfig struct {
	Format     string `yaml:"format" json:"format"`           // auto|json|ndjson|yaml|csv|tsv|xlsx|log
	InferTypes bool   `yaml:"infer_types" json:"infer_types"` // coerce text cells to typed values
	Sheet      string `yaml:"sheet" json:"sheet"`             // xlsx sheet name
	MaxRecords int    `yaml:"max_records" json:"max_records"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat   string `yaml:"default_format" json:"default_format"` // table|json|csv|markdown|prompt
	ColorMode       string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose         bool   `yaml:"verbose" json:"verbose"`
	Theme           string `yaml:"theme" json:"theme"` // default|high-contrast|minimal
	MaxCellWidth    int    `yaml:"max_cell_width" json:"max_cell_width"`
	TimestampFormat string `yaml:"timestamp_format" json:"timestamp_format"`
}

// WatchConfig configures file watching
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" json:"debounce"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		View: ViewConfig{
			PageSize:      20,
			SelectionMode: "multi",
			SortDirection: "asc",
		},
		Input: InputConfig{
			Format:     "auto",
			InferTypes: true,
			MaxRecords: 100000,
		},
		Output: OutputConfig{
			DefaultFormat:   "table",
			ColorMode:       "auto",
			Verbose:         false,
			Theme:           "default",
			MaxCellWidth:    32,
			TimestampFormat: "2006-01-02 15:04:05",
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateViewConfig(); err != nil {
		return err
	}
	if err := c.validateInputConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateWatchConfig(); err != nil {
		return err
	}
	return nil
}

// validateViewConfig validates view-related configuration
func (c *Config) validateViewConfig() error {
	if c.View.PageSize < 0 {
		return fmt.Errorf("page_size must be non-negative")
	}
	if c.View.SelectionMode != "" {
		validModes := map[string]bool{
			"none":   true,
			"single": true,
			"multi":  true,
		}
		if !validModes[c.View.SelectionMode] {
			return fmt.Errorf("invalid selection mode: %s (must be one of: none, single, multi)", c.View.SelectionMode)
		}
	}
	if c.View.SortDirection != "" {
		validDirections := map[string]bool{
			"asc":  true,
			"desc": true,
			"none": true,
		}
		if !validDirections[c.View.SortDirection] {
			return fmt.Errorf("invalid sort direction: %s (must be one of: asc, desc, none)", c.View.SortDirection)
		}
	}
	return nil
}

// validateInputConfig validates input-related configuration
func (c *Config) validateInputConfig() error {
	if c.Input.Format != "" {
		validFormats := map[string]bool{
			"auto":   true,
			"json":   true,
			"ndjson": true,
			"yaml":   true,
			"csv":    true,
			"tsv":    true,
			"xlsx":   true,
			"log":    true,
		}
		if !validFormats[c.Input.Format] {
			return fmt.Errorf("invalid input format: %s (must be one of: auto, json, ndjson, yaml, csv, tsv, xlsx, log)", c.Input.Format)
		}
	}
	if c.Input.MaxRecords < 1 {
		return fmt.Errorf("max_records must be greater than 0")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"table":    true,
			"json":     true,
			"csv":      true,
			"markdown": true,
			"prompt":   true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: table, json, csv, markdown, prompt)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	if c.Output.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.Output.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.Output.Theme)
		}
	}
	if c.Output.MaxCellWidth < 4 {
		return fmt.Errorf("max_cell_width must be at least 4")
	}
	return nil
}

// validateWatchConfig validates watch-related configuration
func (c *Config) validateWatchConfig() error {
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("debounce must be non-negative")
	}
	return nil
}
