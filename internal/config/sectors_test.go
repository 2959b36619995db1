package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectorUnits_ProductionMetric(t *testing.T) {
	sectors := DefaultSectorUnits()

	tests := []struct {
		name    string
		sector  string
		region  string
		want    string
		wantErr bool
	}{
		{name: "region override", sector: "Electricity Utilities", region: "North America", want: "MWh"},
		{name: "global fallback", sector: "Electricity Utilities", region: "Europe", want: "GJ"},
		{name: "steel", sector: "Steel", region: "Global", want: "t Steel"},
		{name: "autos", sector: "Autos", region: "Asia", want: "pkm"},
		{name: "unknown sector", sector: "Space Tourism", region: "Global", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sectors.ProductionMetric(tt.sector, tt.region)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownSector)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSectorUnits_RegionWithoutGlobal(t *testing.T) {
	sectors := SectorUnits{"Rail": {"Europe": "pkm"}}

	_, err := sectors.ProductionMetric("Rail", "Asia")
	assert.ErrorIs(t, err, ErrUnknownSector)
}

func TestDefaultSectorUnits_Valid(t *testing.T) {
	sectors := DefaultSectorUnits()
	require.NoError(t, sectors.Validate())
	assert.Contains(t, sectors.Sectors(), "Oil & Gas")
}
