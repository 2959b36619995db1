package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyOutput     = "output"
	keyLogging    = "logging"
	keyProjection = "projection"
	keyScoring    = "scoring"
	keyPortfolio  = "portfolio"
	keySectors    = "sectors"
)

// knownTopLevelKeys lists the YAML keys that correspond to Config fields.
// Keys not in this list are ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyOutput:     true,
	keyLogging:    true,
	keyProjection: true,
	keyScoring:    true,
	keyPortfolio:  true,
	keySectors:    true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// target. A key present in the overlay replaces its whole section, except
// projection and scoring which start from the current values so a file may
// override a single control. Absent keys are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]interface{}
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	if len(overlay) == 0 {
		return nil
	}

	for key, value := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}

		sectionBytes, marshalErr := yaml.Marshal(value)
		if marshalErr != nil {
			return fmt.Errorf("re-marshalling overlay section %q: %w", key, marshalErr)
		}

		if err = unmarshalSection(target, key, sectionBytes); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection unmarshals one section into target. Map-valued sections
// start from a zero value so the overlay replaces them completely.
func unmarshalSection(target *Config, key string, data []byte) error {
	switch key {
	case keyOutput:
		var v OutputConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Output = v
		return nil
	case keyLogging:
		var v LoggingConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Logging = v
		return nil
	case keyProjection:
		v := target.Projection
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Projection = v
		return nil
	case keyScoring:
		v := target.Scoring
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Scoring = v
		return nil
	case keyPortfolio:
		var v PortfolioConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Portfolio = v
		return nil
	case keySectors:
		var v SectorUnits
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Sectors = v
		return nil
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}
