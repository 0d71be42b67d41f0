package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// testLoader returns a loader that searches only dir-local paths and reads
// environment values from env
func testLoader(t *testing.T, env map[string]string) *Loader {
	t.Helper()
	dir := t.TempDir()
	loader := NewLoader()
	loader.configPaths = []string{
		filepath.Join(dir, "project.yaml"),
		filepath.Join(dir, "user.yaml"),
		filepath.Join(dir, "system.yaml"),
	}
	loader.lookupEnv = func(key string) string { return env[key] }
	loader.warn = func(format string, args ...interface{}) {
		t.Logf("warning: "+format, args...)
	}
	return loader
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	loader := testLoader(t, nil)

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	if cfg.Output.DefaultFormat != "table" {
		t.Errorf("Expected default output format table, got %s", cfg.Output.DefaultFormat)
	}
	if cfg.View.PageSize != 20 {
		t.Errorf("Expected default page size 20, got %d", cfg.View.PageSize)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "test-config.yaml")
	writeConfig(t, configPath, `version: "1.0"
view:
  page_size: 50
  key_field: id
  sort_field: name
  sort_direction: desc
input:
  format: csv
output:
  default_format: "json"
  verbose: true
watch:
  debounce: 1s
`)

	cfg, err := testLoader(t, nil).LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.View.PageSize != 50 {
		t.Errorf("Expected page size 50, got %d", cfg.View.PageSize)
	}
	if cfg.View.KeyField != "id" {
		t.Errorf("Expected key field id, got %s", cfg.View.KeyField)
	}
	if cfg.View.SortField != "name" || cfg.View.SortDirection != "desc" {
		t.Errorf("Expected sort name:desc, got %s:%s", cfg.View.SortField, cfg.View.SortDirection)
	}
	if cfg.Input.Format != "csv" {
		t.Errorf("Expected input format csv, got %s", cfg.Input.Format)
	}
	if cfg.Output.DefaultFormat != "json" {
		t.Errorf("Expected output format json, got %s", cfg.Output.DefaultFormat)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}

	// keys absent from the file keep their defaults
	if !cfg.Input.InferTypes {
		t.Error("Expected infer_types to keep its default")
	}
	if cfg.View.SelectionMode != "multi" {
		t.Errorf("Expected selection mode multi, got %s", cfg.View.SelectionMode)
	}
}

func TestLoadConfigPriority(t *testing.T) {
	loader := testLoader(t, map[string]string{"TABVIEW_OUTPUT_THEME": "minimal"})
	writeConfig(t, loader.configPaths[2], "view:\n  page_size: 10\n  key_field: sys_id\noutput:\n  theme: high-contrast\n")
	writeConfig(t, loader.configPaths[1], "view:\n  page_size: 15\n")
	writeConfig(t, loader.configPaths[0], "input:\n  infer_types: false\n")

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.View.PageSize != 15 {
		t.Errorf("Expected user config to win with page size 15, got %d", cfg.View.PageSize)
	}
	if cfg.View.KeyField != "sys_id" {
		t.Errorf("Expected key field from system config, got %s", cfg.View.KeyField)
	}
	if cfg.Input.InferTypes {
		t.Error("Expected project config to disable infer_types")
	}
	if cfg.Output.Theme != "minimal" {
		t.Errorf("Expected env override theme minimal, got %s", cfg.Output.Theme)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid-config.yaml")
	writeConfig(t, configPath, `version: "1.0"
view:
  page_size: 10
output:
  default_format: "json
  verbose: true
`)

	_, err := testLoader(t, nil).LoadConfig(configPath)
	if err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestLoadConfigValidationFailure(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	writeConfig(t, configPath, "view:\n  selection_mode: lots\n")

	_, err := testLoader(t, nil).LoadConfig(configPath)
	if err == nil || !strings.Contains(err.Error(), "configuration validation failed") {
		t.Errorf("Expected validation failure, got %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	loader := testLoader(t, map[string]string{
		"TABVIEW_VIEW_PAGE_SIZE":        "5",
		"TABVIEW_VIEW_SELECTION_MODE":   "single",
		"TABVIEW_VIEW_KEY_FIELD":        "uuid",
		"TABVIEW_INPUT_INFER_TYPES":     "false",
		"TABVIEW_INPUT_SHEET":           "Q3",
		"TABVIEW_OUTPUT_VERBOSE":        "true",
		"TABVIEW_OUTPUT_MAX_CELL_WIDTH": "12",
	})
	cfg := DefaultConfig()

	if err := loader.applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.View.PageSize != 5 {
		t.Errorf("Expected page size 5, got %d", cfg.View.PageSize)
	}
	if cfg.View.SelectionMode != "single" {
		t.Errorf("Expected selection mode single, got %s", cfg.View.SelectionMode)
	}
	if cfg.View.KeyField != "uuid" {
		t.Errorf("Expected key field uuid, got %s", cfg.View.KeyField)
	}
	if cfg.Input.InferTypes {
		t.Error("Expected infer_types to be false")
	}
	if cfg.Input.Sheet != "Q3" {
		t.Errorf("Expected sheet Q3, got %s", cfg.Input.Sheet)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.Output.MaxCellWidth != 12 {
		t.Errorf("Expected max cell width 12, got %d", cfg.Output.MaxCellWidth)
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "TABVIEW_VIEW_PAGE_SIZE", "not-a-number"},
		{"invalid bool", "TABVIEW_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "TABVIEW_WATCH_DEBOUNCE", "not-a-duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := testLoader(t, map[string]string{tt.envVar: tt.value})
			cfg := DefaultConfig()

			err := loader.applyEnvOverrides(cfg)
			if err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			} else if !strings.Contains(err.Error(), tt.envVar) {
				t.Errorf("Expected error to name %s, got %v", tt.envVar, err)
			}
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".tabview.yaml")

	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("Failed to write default config: %v", err)
	}
	if err := WriteDefault(path, false); err == nil {
		t.Error("Expected error when config already exists")
	}
	if err := WriteDefault(path, true); err != nil {
		t.Errorf("Expected overwrite to succeed, got %v", err)
	}

	cfg, err := testLoader(t, nil).LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load written config: %v", err)
	}
	if fmt.Sprintf("%+v", *cfg) != fmt.Sprintf("%+v", *DefaultConfig()) {
		t.Errorf("Expected round-tripped defaults, got %+v", *cfg)
	}
}

func TestParseDuration(t *testing.T) {
	var duration time.Duration

	err := parseDuration("30s", &duration)
	if err != nil {
		t.Errorf("Failed to parse duration: %v", err)
	}
	if duration != 30*time.Second {
		t.Errorf("Expected 30s, got %v", duration)
	}

	err = parseDuration("invalid", &duration)
	if err == nil {
		t.Error("Expected error for invalid duration, but got none")
	}
}

func TestParseInt(t *testing.T) {
	var value int

	err := parseInt("42", &value)
	if err != nil {
		t.Errorf("Failed to parse int: %v", err)
	}
	if value != 42 {
		t.Errorf("Expected 42, got %d", value)
	}

	err = parseInt("not-a-number", &value)
	if err == nil {
		t.Error("Expected error for invalid int, but got none")
	}
}

func TestParseBool(t *testing.T) {
	var value bool

	err := parseBool("true", &value)
	if err != nil {
		t.Errorf("Failed to parse bool: %v", err)
	}
	if !value {
		t.Errorf("Expected true, got %v", value)
	}

	err = parseBool("not-a-bool", &value)
	if err == nil {
		t.Error("Expected error for invalid bool, but got none")
	}
}

func TestFindConfigFile(t *testing.T) {
	tempConfigPath := "./.tabview.yaml"
	if fileExists(tempConfigPath) {
		t.Skip("project config already present")
	}
	if err := os.WriteFile(tempConfigPath, []byte("version: 1.0"), 0o600); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	defer func() { _ = os.Remove(tempConfigPath) }()

	configPath, found := FindConfigFile()
	if !found {
		t.Error("Expected config file to be found, but none was found")
	}
	if configPath != tempConfigPath {
		t.Errorf("Expected config path %s, got %s", tempConfigPath, configPath)
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := GetConfigPaths()
	if len(paths) != 3 {
		t.Fatalf("Expected 3 paths, got %d", len(paths))
	}
	if strings.HasPrefix(paths[1], "~") {
		t.Errorf("Expected home directory to be expanded, got %s", paths[1])
	}
}

func TestFileExists(t *testing.T) {
	if fileExists("/path/that/does/not/exist") {
		t.Error("Expected file to not exist, but fileExists returned true")
	}

	tempFile := filepath.Join(t.TempDir(), "test-file")
	if err := os.WriteFile(tempFile, []byte("test"), 0o600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	if !fileExists(tempFile) {
		t.Error("Expected file to exist, but fileExists returned false")
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid yaml file",
			path:    "config.yaml",
			wantErr: false,
		},
		{
			name:    "valid yml file",
			path:    "config.yml",
			wantErr: false,
		},
		{
			name:    "path traversal attempt",
			path:    "../../../etc/tabview.yaml",
			wantErr: true,
			errMsg:  "path traversal not allowed",
		},
		{
			name:    "dots inside a name",
			path:    "configs/app..v2.yaml",
			wantErr: false,
		},
		{
			name:    "non-yaml file",
			path:    "config.txt",
			wantErr: true,
			errMsg:  "config file must have .yaml or .yml extension",
		},
		{
			name:    "proc filesystem access",
			path:    "/proc/version.yaml",
			wantErr: true,
			errMsg:  "access to system files not allowed",
		},
		{
			name:    "relative path with valid extension",
			path:    "./configs/app.yaml",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
