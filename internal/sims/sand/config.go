package sand

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Params holds tunable thresholds and probabilities for the sand sim.
type Params struct {
	NoiseScale    float64 `yaml:"noise_scale"`
	WallThreshold float64 `yaml:"wall_threshold"`
	BorderWalls   bool    `yaml:"border_walls"`

	SandPatchCount     int     `yaml:"sand_patch_count"`
	SandPatchRadiusMin int     `yaml:"sand_patch_radius_min"`
	SandPatchRadiusMax int     `yaml:"sand_patch_radius_max"`
	SandPatchDensity   float64 `yaml:"sand_patch_density"`

	WaterPoolCount  int `yaml:"water_pool_count"`
	WaterPoolRadius int `yaml:"water_pool_radius"`

	PlantSeedCount  int     `yaml:"plant_seed_count"`
	PlantGrowChance float64 `yaml:"plant_grow_chance"`

	AgentCount int `yaml:"agent_count"`
}

// Config controls the sand simulation dimensions and the neighborhood-view
// toggles. UseCache routes per-tick queries through the precomputed tables;
// Parallel fans the cache build out across row bands.
type Config struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	Seed int64 `yaml:"seed"`

	UseCache bool `yaml:"use_cache"`
	Parallel bool `yaml:"parallel_build"`
	Workers  int  `yaml:"build_workers"`

	Params Params `yaml:"params"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:    256,
		Height:   192,
		Seed:     1337,
		UseCache: true,
		Parallel: true,
		Params: Params{
			NoiseScale:         0.035,
			WallThreshold:      0.62,
			BorderWalls:        true,
			SandPatchCount:     14,
			SandPatchRadiusMin: 3,
			SandPatchRadiusMax: 8,
			SandPatchDensity:   0.7,
			WaterPoolCount:     5,
			WaterPoolRadius:    6,
			PlantSeedCount:     20,
			PlantGrowChance:    0.02,
			AgentCount:         12,
		},
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["use_cache"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.UseCache = parsed
		}
	}
	if v, ok := cfg["parallel"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Parallel = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["wall_threshold"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Params.WallThreshold = parsed
		}
	}
	if v, ok := cfg["sand_patch_count"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.SandPatchCount = parsed
		}
	}
	if v, ok := cfg["water_pool_count"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.WaterPoolCount = parsed
		}
	}
	if v, ok := cfg["plant_seed_count"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.PlantSeedCount = parsed
		}
	}
	if v, ok := cfg["agent_count"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.AgentCount = parsed
		}
	}
	if c.Params.SandPatchRadiusMax < c.Params.SandPatchRadiusMin {
		c.Params.SandPatchRadiusMax = c.Params.SandPatchRadiusMin
	}
	return c
}

// LoadConfig reads a YAML configuration file layered over the defaults.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("sand: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("sand: parse config: %w", err)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return c, fmt.Errorf("sand: config dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	return c, nil
}
