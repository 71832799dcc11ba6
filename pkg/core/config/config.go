// Package config loads the engine's YAML-driven ambient defaults: the
// commercial tail lengths, the fallback MC sampling parameters, and the
// acceleration-curve constants consumed by the override applicator.
// cmd/valuation-demo passes DeterministicTailYears to the evaluator; the
// montecarlo and portfolio packages use their own compiled-in tail
// lengths, and the demo takes MC parameters from
// Snapshot.EffectiveMCConfig() rather than from DefaultMC.
package config

import (
	"os"

	"gopkg.in/yaml.v2"

	"rnpvengine/pkg/models"
)

// AccelerationConfig carries the kill/continue/accelerate engine's
// curve constants, overridable per deployment.
type AccelerationConfig struct {
	Alpha                float64 `yaml:"alpha"`
	MaxBudgetMultiplier  float64 `yaml:"max_budget_multiplier"`
	MaxTimelineReduction float64 `yaml:"max_timeline_reduction"`
}

// EngineConfig is the engine's full set of YAML-driven ambient defaults.
type EngineConfig struct {
	DeterministicTailYears int              `yaml:"deterministic_tail_years"`
	MonteCarloTailYears    int              `yaml:"montecarlo_tail_years"`
	DefaultMC              models.MCConfig  `yaml:"default_mc"`
	Acceleration           AccelerationConfig `yaml:"acceleration"`
}

// Default returns the engine-contract fallback values (§4.4, §4.5).
func Default() *EngineConfig {
	return &EngineConfig{
		DeterministicTailYears: 3,
		MonteCarloTailYears:    5,
		DefaultMC:              models.DefaultMCConfig(),
		Acceleration: AccelerationConfig{
			Alpha:                0.5,
			MaxBudgetMultiplier:  2.0,
			MaxTimelineReduction: 0.50,
		},
	}
}

// Load reads an EngineConfig from a YAML file at path, falling back to
// Default() field-by-field for anything the file omits. A missing file
// is not an error — it's treated as an empty override set.
func Load(path string) (*EngineConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, models.NewConfigError("reading engine config %q: %v", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, models.NewConfigError("parsing engine config %q: %v", path, err)
	}
	return cfg, nil
}
