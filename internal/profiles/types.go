package profiles

import (
	"time"

	"github.com/KevinKickass/OpenSignalLab/internal/config"
)

// SensorProfile bundles simulation constants under a name, so a lesson can
// switch between converter setups without editing the server config. Unset
// fields fall back to the base configuration.
type SensorProfile struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Simulation  ProfileOverrides `json:"simulation"`
}

type ProfileOverrides struct {
	UpdateIntervalMs    *int     `json:"update_interval_ms,omitempty"`
	AnimationIntervalMs *int     `json:"animation_interval_ms,omitempty"`
	ADCBits             *int     `json:"adc_bits,omitempty"`
	VoltageRef          *float64 `json:"voltage_ref,omitempty"`
	TempMin             *float64 `json:"temp_min,omitempty"`
	TempMax             *float64 `json:"temp_max,omitempty"`
	DetectionChance     *float64 `json:"detection_chance,omitempty"`
	StageCount          *int     `json:"stage_count,omitempty"`
}

// Apply layers the profile over a base configuration and validates the
// result. Profiles carrying invariant violations are rejected here, before
// an engine sees them.
func (p *SensorProfile) Apply(base config.SimulationConfig) (config.SimulationConfig, error) {
	out := base
	o := p.Simulation

	if o.UpdateIntervalMs != nil {
		out.UpdateInterval = time.Duration(*o.UpdateIntervalMs) * time.Millisecond
	}
	if o.AnimationIntervalMs != nil {
		out.AnimationInterval = time.Duration(*o.AnimationIntervalMs) * time.Millisecond
	}
	if o.ADCBits != nil {
		out.ADCBits = *o.ADCBits
	}
	if o.VoltageRef != nil {
		out.VoltageRef = *o.VoltageRef
	}
	if o.TempMin != nil {
		out.TempMin = *o.TempMin
	}
	if o.TempMax != nil {
		out.TempMax = *o.TempMax
	}
	if o.DetectionChance != nil {
		out.DetectionChance = *o.DetectionChance
	}
	if o.StageCount != nil {
		out.StageCount = *o.StageCount
	}

	if err := out.Validate(); err != nil {
		return config.SimulationConfig{}, err
	}
	return out, nil
}
