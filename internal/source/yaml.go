package source

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yildizm/tabview/internal/logger"
	"github.com/yildizm/tabview/internal/record"
)

// YAMLLoader reads a YAML sequence of mappings
type YAMLLoader struct {
	log *logger.Logger
}

// NewYAMLLoader creates a YAML loader
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

// Name returns the format name
func (l *YAMLLoader) Name() string { return "yaml" }

// Load decodes the first document in r
func (l *YAMLLoader) Load(r io.Reader) ([]record.Record, error) {
	var doc any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, ErrEmptyInput
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return recordsFromDocument(doc, l.log), nil
}
