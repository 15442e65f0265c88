// Package config owns the tunable falloff settings and their repair
// rules. The curve engine assumes a valid operating range; everything
// that can be misconfigured is caught and coerced here, before any
// evaluation happens.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/lixenwraith/falloff/curve"
	"github.com/lixenwraith/falloff/parameter"
)

// Config holds one instance's falloff settings
type Config struct {
	// Enabled gates all evaluation; disabled instances keep Start values
	Enabled bool `env:"FALLOFF_ENABLED" envDefault:"true"`

	// RangeMin and RangeMax bound the participant-count operating window
	RangeMin int `env:"FALLOFF_RANGE_MIN" envDefault:"1"`
	RangeMax int `env:"FALLOFF_RANGE_MAX" envDefault:"60"`

	// DistanceStart and DistanceEnd are max audible distance in meters
	// at the sparse and full ends of the range
	DistanceStart float64 `env:"FALLOFF_DISTANCE_START" envDefault:"25"`
	DistanceEnd   float64 `env:"FALLOFF_DISTANCE_END" envDefault:"10"`

	// GainStart and GainEnd are voice gain boost in dB
	GainStart float64 `env:"FALLOFF_GAIN_START" envDefault:"15"`
	GainEnd   float64 `env:"FALLOFF_GAIN_END" envDefault:"6"`

	// CurveName selects the response curve by its canonical name
	CurveName string `env:"FALLOFF_CURVE" envDefault:"smoothstep"`

	// Extended raises the participant ceiling from 80 to 100
	Extended bool `env:"FALLOFF_EXTENDED_INSTANCE" envDefault:"false"`

	// RefreshInterval is the periodic fallback re-evaluation tick
	RefreshInterval time.Duration `env:"FALLOFF_REFRESH_INTERVAL" envDefault:"10s"`

	// DepartureDebounce delays re-evaluation after leave events
	DepartureDebounce time.Duration `env:"FALLOFF_DEPARTURE_DEBOUNCE" envDefault:"500ms"`

	// Curve is resolved from CurveName during Load/Normalize
	Curve curve.Kind `env:"-"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Enabled:           true,
		RangeMin:          parameter.DefaultRangeMin,
		RangeMax:          parameter.DefaultRangeMax,
		DistanceStart:     parameter.DefaultFarDistanceStart,
		DistanceEnd:       parameter.DefaultFarDistanceEnd,
		GainStart:         parameter.DefaultGainStart,
		GainEnd:           parameter.DefaultGainEnd,
		CurveName:         curve.Smoothstep.String(),
		Curve:             curve.Smoothstep,
		RefreshInterval:   parameter.RefreshInterval,
		DepartureDebounce: parameter.DepartureDebounce,
	}
}

// Load reads configuration from environment variables, falling back to
// defaults for anything unset, then normalizes
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse falloff env: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Ceiling returns the participant cap this instance type allows
func (c *Config) Ceiling() int {
	if c.Extended {
		return parameter.ExtendedInstanceCeiling
	}
	return parameter.InstanceCeiling
}

// Normalize repairs invalid settings in place.
//
// Repair rules, applied in order:
//   - unknown curve name falls back to linear
//   - RangeMin is clamped to [1, ceiling-1]
//   - RangeMax is clamped to the ceiling
//   - RangeMax <= RangeMin is coerced to RangeMin+1
//   - gain values are clamped to [GainFloor, GainCeiling] dB
//   - negative distances are clamped to 0
//   - non-positive timings fall back to defaults
//
// The instance ceiling (80, or 100 extended) exists only here; the
// curve engine itself accepts any positive range.
func (c *Config) Normalize() {
	if k, err := curve.ParseKind(c.CurveName); err == nil {
		c.Curve = k
	} else {
		c.Curve = curve.Linear
		c.CurveName = curve.Linear.String()
	}

	ceiling := c.Ceiling()
	if c.RangeMin < 1 {
		c.RangeMin = 1
	}
	if c.RangeMin > ceiling-1 {
		c.RangeMin = ceiling - 1
	}
	if c.RangeMax > ceiling {
		c.RangeMax = ceiling
	}
	if c.RangeMax <= c.RangeMin {
		c.RangeMax = c.RangeMin + 1
	}

	c.GainStart = clamp(c.GainStart, parameter.GainFloor, parameter.GainCeiling)
	c.GainEnd = clamp(c.GainEnd, parameter.GainFloor, parameter.GainCeiling)

	if c.DistanceStart < 0 {
		c.DistanceStart = 0
	}
	if c.DistanceEnd < 0 {
		c.DistanceEnd = 0
	}

	if c.RefreshInterval <= 0 {
		c.RefreshInterval = parameter.RefreshInterval
	}
	if c.DepartureDebounce < 0 {
		c.DepartureDebounce = parameter.DepartureDebounce
	}
}

// Range returns the operating window as an engine value
func (c *Config) Range() curve.Range {
	return curve.Range{Min: c.RangeMin, Max: c.RangeMax}
}

// Distance returns the audible-distance output bounds
func (c *Config) Distance() curve.ValuePair {
	return curve.ValuePair{Start: c.DistanceStart, End: c.DistanceEnd}
}

// Gain returns the gain-boost output bounds
func (c *Config) Gain() curve.ValuePair {
	return curve.ValuePair{Start: c.GainStart, End: c.GainEnd}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
