package bench

import "fmt"

// Config defines one benchmark scenario.
type Config struct {
	Name        string
	Description string

	Obligations  int
	StatusEvents int
	Duplicates   int
	Unmatches    int

	WarmupIterations      int
	MeasurementIterations int
}

// defaults applied when a config leaves iteration counts zero.
const (
	defaultWarmupIterations      = 3
	defaultMeasurementIterations = 5
)

// StandardScenarios returns the built-in benchmark suite, ordered by
// dataset size.
func StandardScenarios() []Config {
	return []Config{
		{
			Name:         "micro",
			Description:  "Micro benchmark: minimal dataset for baseline",
			Obligations:  10,
			StatusEvents: 20,
			Duplicates:   2,
			Unmatches:    1,
		},
		{
			Name:                  "small",
			Description:           "Small dataset: typical single-batch processing",
			Obligations:           100,
			StatusEvents:          250,
			Duplicates:            10,
			Unmatches:             5,
			MeasurementIterations: 10,
		},
		{
			Name:         "medium",
			Description:  "Medium dataset: moderate real-world load",
			Obligations:  1000,
			StatusEvents: 2500,
			Duplicates:   50,
			Unmatches:    25,
		},
		{
			Name:                  "large",
			Description:           "Large dataset: high-volume processing test",
			Obligations:           5000,
			StatusEvents:          12500,
			Duplicates:            250,
			Unmatches:             100,
			MeasurementIterations: 3,
		},
		{
			Name:                  "xl",
			Description:           "Extra large: stress test for scalability limits",
			Obligations:           10000,
			StatusEvents:          25000,
			Duplicates:            500,
			Unmatches:             200,
			MeasurementIterations: 2,
		},
		{
			Name:         "throughput",
			Description:  "Throughput test: many events per obligation",
			Obligations:  500,
			StatusEvents: 5000,
			Duplicates:   100,
			Unmatches:    50,
		},
		{
			Name:                  "memory",
			Description:           "Memory test: many obligations, few events each",
			Obligations:           5000,
			StatusEvents:          5500,
			Duplicates:            25,
			Unmatches:             25,
			MeasurementIterations: 3,
		},
	}
}

// ScenarioByName looks up a standard scenario.
func ScenarioByName(name string) (Config, error) {
	for _, cfg := range StandardScenarios() {
		if cfg.Name == name {
			return cfg, nil
		}
	}
	return Config{}, fmt.Errorf("unknown benchmark scenario %q", name)
}

// withDefaults fills in zero iteration counts.
func (c Config) withDefaults() Config {
	if c.WarmupIterations == 0 {
		c.WarmupIterations = defaultWarmupIterations
	}
	if c.MeasurementIterations == 0 {
		c.MeasurementIterations = defaultMeasurementIterations
	}
	return c
}
