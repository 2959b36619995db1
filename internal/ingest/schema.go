// Package ingest loads company records, benchmarks and portfolios from
// JSON, YAML, CSV and XLSX files.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// SupportedSchema is the range of data file schema versions this build reads.
const SupportedSchema = ">= 1.0.0, < 2.0.0"

// Ingest errors.
var (
	ErrMissingSchemaVersion = errors.New("schema_version is required")
	ErrUnsupportedSchema    = errors.New("unsupported schema_version")
	ErrUnknownFormat        = errors.New("unsupported file format")
	ErrNoCompaniesFound     = errors.New("None of the companies in your portfolio could be found") //nolint:staticcheck,revive // User-facing message.
)

// Format is a structured data file format.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf infers the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// CheckSchemaVersion accepts versions within SupportedSchema.
func CheckSchemaVersion(version string) error {
	if strings.TrimSpace(version) == "" {
		return ErrMissingSchemaVersion
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedSchema, version, err)
	}
	c, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return fmt.Errorf("parsing schema constraint: %w", err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedSchema, v, SupportedSchema)
	}
	return nil
}

// decode unmarshals JSON strictly or YAML into v.
func decode(data []byte, format Format, v any) error {
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(v)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		return dec.Decode(v)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}
