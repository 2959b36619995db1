package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/tempscore/internal/config"
)

// writeOverlay writes YAML content to a temp file and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestShallowMergeYAML_SingleKeyOverride(t *testing.T) {
	target := config.Default()
	overlay := writeOverlay(t, `
output:
  default_format: json
  precision: 4
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "json", target.Output.DefaultFormat)
	assert.Equal(t, 4, target.Output.Precision)
	assert.Equal(t, "info", target.Logging.Level, "absent section must be untouched")
	assert.Equal(t, config.DefaultTCRE, target.Scoring.TCRE)
}

func TestShallowMergeYAML_ControlsKeepUnsetFields(t *testing.T) {
	target := config.Default()
	overlay := writeOverlay(t, `
scoring:
  fallback_score: 3.4
projection:
  target_year: 2100
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.InDelta(t, 3.4, target.Scoring.FallbackScore, 1e-12)
	assert.InDelta(t, config.DefaultTCRE, target.Scoring.TCRE, 1e-12)
	assert.Equal(t, 2100, target.Projection.TargetYear)
	assert.Equal(t, config.DefaultBaseYear, target.Projection.BaseYear)
}

func TestShallowMergeYAML_SectorsReplaced(t *testing.T) {
	target := config.Default()
	overlay := writeOverlay(t, `
sectors:
  Shipping:
    Global: tkm
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, []string{"Shipping"}, target.Sectors.Sectors())
}

func TestShallowMergeYAML_UnknownKeysIgnored(t *testing.T) {
	target := config.Default()
	overlay := writeOverlay(t, `
plugins:
  aws: {}
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, config.Default().Output, target.Output)
}

func TestShallowMergeYAML_EmptyFile(t *testing.T) {
	target := config.Default()
	require.NoError(t, config.ShallowMergeYAML(target, writeOverlay(t, "# nothing\n")))
	assert.Equal(t, config.FormatTable, target.Output.DefaultFormat)
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	t.Run("nil target", func(t *testing.T) {
		assert.Error(t, config.ShallowMergeYAML(nil, "x.yaml"))
	})

	t.Run("missing file", func(t *testing.T) {
		err := config.ShallowMergeYAML(config.Default(), filepath.Join(t.TempDir(), "none.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		err := config.ShallowMergeYAML(config.Default(), writeOverlay(t, "output: [unclosed"))
		assert.Error(t, err)
	})
}
