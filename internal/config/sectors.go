package config

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// GlobalRegion is the fallback region key in the sector table.
const GlobalRegion = "Global"

// ErrUnknownSector is returned when a sector has no production metric.
var ErrUnknownSector = errors.New("unknown sector")

//go:embed sectors.yaml
var defaultSectorsYAML []byte

// SectorUnits maps sector → region → production metric text.
type SectorUnits map[string]map[string]string

// DefaultSectorUnits returns a fresh copy of the embedded sector table.
func DefaultSectorUnits() SectorUnits {
	var s SectorUnits
	if err := yaml.Unmarshal(defaultSectorsYAML, &s); err != nil {
		// The table is compiled in; failing to parse it is a build defect.
		panic(fmt.Sprintf("embedded sectors.yaml: %v", err))
	}
	return s
}

// ProductionMetric returns the production metric for sector in region,
// falling back to the Global entry.
func (s SectorUnits) ProductionMetric(sector, region string) (string, error) {
	regions, ok := s[sector]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSector, sector)
	}
	if metric, found := regions[region]; found {
		return metric, nil
	}
	if metric, found := regions[GlobalRegion]; found {
		return metric, nil
	}
	return "", fmt.Errorf("%w: %q has no %s or %s entry", ErrUnknownSector, sector, region, GlobalRegion)
}

// Sectors returns the sector names, sorted.
func (s SectorUnits) Sectors() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every sector has at least one region entry.
func (s SectorUnits) Validate() error {
	for sector, regions := range s {
		if len(regions) == 0 {
			return fmt.Errorf("%w: %q has no regions", ErrUnknownSector, sector)
		}
		for region, metric := range regions {
			if metric == "" {
				return fmt.Errorf("sector %q region %q: empty production metric", sector, region)
			}
		}
	}
	return nil
}
