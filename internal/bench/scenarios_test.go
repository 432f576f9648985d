package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardScenarios_OrderedBySize(t *testing.T) {
	scenarios := StandardScenarios()
	require.Len(t, scenarios, 7)

	assert.Equal(t, "micro", scenarios[0].Name)
	assert.Equal(t, "xl", scenarios[4].Name)

	names := map[string]bool{}
	for _, cfg := range scenarios {
		assert.False(t, names[cfg.Name], "duplicate scenario %q", cfg.Name)
		names[cfg.Name] = true
		assert.Greater(t, cfg.Obligations, 0)
		assert.GreaterOrEqual(t, cfg.StatusEvents, cfg.Obligations)
		assert.NotEmpty(t, cfg.Description)
	}
}

func TestScenarioByName(t *testing.T) {
	cfg, err := ScenarioByName("throughput")
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Obligations)
	assert.Equal(t, 5000, cfg.StatusEvents)

	_, err = ScenarioByName("gigantic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown benchmark scenario "gigantic"`)
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{Name: "micro"}.withDefaults()
	assert.Equal(t, defaultWarmupIterations, cfg.WarmupIterations)
	assert.Equal(t, defaultMeasurementIterations, cfg.MeasurementIterations)

	cfg = Config{Name: "large", WarmupIterations: 1, MeasurementIterations: 3}.withDefaults()
	assert.Equal(t, 1, cfg.WarmupIterations)
	assert.Equal(t, 3, cfg.MeasurementIterations)
}
