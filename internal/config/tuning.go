package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"cropline/internal/domain/sim"
)

// SimTuning is the YAML schema for simulation tuning files. Durations are
// plain millisecond integers so files stay readable. Every field is
// optional; unset fields keep the built-in defaults.
type SimTuning struct {
	GridWidth  int `yaml:"grid_width"`
	GridHeight int `yaml:"grid_height"`

	// Pointers distinguish "not set" from a legitimate zero coordinate.
	StartX *int `yaml:"start_x"`
	StartY *int `yaml:"start_y"`

	Hazard *HazardTuning `yaml:"hazard"`

	HazardExposureDelayMS int `yaml:"hazard_exposure_delay_ms"`
	RecoveryLiftDelayMS   int `yaml:"recovery_lift_delay_ms"`
	RecoveryClearDelayMS  int `yaml:"recovery_clear_delay_ms"`
	ActionDurationMS      int `yaml:"action_duration_ms"`
	HarvestAnimDurationMS int `yaml:"harvest_anim_duration_ms"`
	TapMoveDurationMS     int `yaml:"tap_move_duration_ms"`
}

// HazardTuning positions the hazard rectangle in normalized field
// coordinates, matching sim.HazardZone.
type HazardTuning struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// SimConfig overlays the tuning values on the default simulation config and
// runs the result through the simulation's own sanity pass.
func (t SimTuning) SimConfig() sim.Config {
	cfg := sim.DefaultConfig()
	if t.GridWidth > 0 {
		cfg.GridWidth = t.GridWidth
	}
	if t.GridHeight > 0 {
		cfg.GridHeight = t.GridHeight
	}
	if t.StartX != nil {
		cfg.Start.X = *t.StartX
	}
	if t.StartY != nil {
		cfg.Start.Y = *t.StartY
	}
	if t.Hazard != nil {
		cfg.Hazard = sim.HazardZone{
			Left:   t.Hazard.Left,
			Top:    t.Hazard.Top,
			Width:  t.Hazard.Width,
			Height: t.Hazard.Height,
		}
	}
	if t.HazardExposureDelayMS > 0 {
		cfg.HazardExposureDelay = time.Duration(t.HazardExposureDelayMS) * time.Millisecond
	}
	if t.RecoveryLiftDelayMS > 0 {
		cfg.RecoveryLiftDelay = time.Duration(t.RecoveryLiftDelayMS) * time.Millisecond
	}
	if t.RecoveryClearDelayMS > 0 {
		cfg.RecoveryClearDelay = time.Duration(t.RecoveryClearDelayMS) * time.Millisecond
	}
	if t.ActionDurationMS > 0 {
		cfg.ActionDuration = time.Duration(t.ActionDurationMS) * time.Millisecond
	}
	if t.HarvestAnimDurationMS > 0 {
		cfg.HarvestAnimDuration = time.Duration(t.HarvestAnimDurationMS) * time.Millisecond
	}
	if t.TapMoveDurationMS > 0 {
		cfg.TapMoveDuration = time.Duration(t.TapMoveDurationMS) * time.Millisecond
	}
	return cfg.WithDefaults()
}

// LoadSimTuning reads a tuning file and returns the resulting simulation
// config. An empty path means no file was requested and yields the
// defaults; a path that cannot be read or parsed is an error, because a
// deployment that asks for tuning should not silently run untuned.
func LoadSimTuning(path string) (sim.Config, error) {
	if path == "" {
		return sim.DefaultConfig(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return sim.Config{}, fmt.Errorf("read sim tuning %s: %w", path, err)
	}
	var tuning SimTuning
	if err := yaml.Unmarshal(raw, &tuning); err != nil {
		return sim.Config{}, fmt.Errorf("parse sim tuning %s: %w", path, err)
	}
	return tuning.SimConfig(), nil
}
