package sim

import "time"

const (
	DefaultGridWidth  = 12
	DefaultGridHeight = 9

	DefaultHazardExposureDelay = 2000 * time.Millisecond
	DefaultRecoveryLiftDelay   = 1000 * time.Millisecond
	DefaultRecoveryClearDelay  = 3000 * time.Millisecond
	DefaultActionDuration      = 2000 * time.Millisecond
	DefaultHarvestAnimDuration = 3000 * time.Millisecond
	DefaultTapMoveDuration     = 200 * time.Millisecond
)

type Config struct {
	GridWidth  int
	GridHeight int
	Start      Position
	Hazard     HazardZone

	HazardExposureDelay time.Duration
	RecoveryLiftDelay   time.Duration
	RecoveryClearDelay  time.Duration
	ActionDuration      time.Duration
	HarvestAnimDuration time.Duration
	TapMoveDuration     time.Duration
}

func DefaultConfig() Config {
	return Config{
		GridWidth:  DefaultGridWidth,
		GridHeight: DefaultGridHeight,
		Start:      Position{X: 6, Y: 4},
		Hazard:     HazardZone{Left: 0.60, Top: 0.15, Width: 0.30, Height: 0.40},

		HazardExposureDelay: DefaultHazardExposureDelay,
		RecoveryLiftDelay:   DefaultRecoveryLiftDelay,
		RecoveryClearDelay:  DefaultRecoveryClearDelay,
		ActionDuration:      DefaultActionDuration,
		HarvestAnimDuration: DefaultHarvestAnimDuration,
		TapMoveDuration:     DefaultTapMoveDuration,
	}
}

// WithDefaults replaces missing or nonsense values field by field so a
// partially filled tuning file still yields a playable simulation.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.GridWidth < 2 {
		c.GridWidth = def.GridWidth
	}
	if c.GridHeight < 2 {
		c.GridHeight = def.GridHeight
	}
	if !c.Hazard.Valid() {
		c.Hazard = def.Hazard
	}
	c.Start.X = clamp(c.Start.X, 0, c.GridWidth-1)
	c.Start.Y = clamp(c.Start.Y, 0, c.GridHeight-1)
	if c.HazardExposureDelay <= 0 {
		c.HazardExposureDelay = def.HazardExposureDelay
	}
	if c.RecoveryLiftDelay <= 0 {
		c.RecoveryLiftDelay = def.RecoveryLiftDelay
	}
	if c.RecoveryClearDelay <= 0 {
		c.RecoveryClearDelay = def.RecoveryClearDelay
	}
	if c.ActionDuration <= 0 {
		c.ActionDuration = def.ActionDuration
	}
	if c.HarvestAnimDuration <= 0 {
		c.HarvestAnimDuration = def.HarvestAnimDuration
	}
	if c.TapMoveDuration <= 0 {
		c.TapMoveDuration = def.TapMoveDuration
	}
	return c
}
