package sensor

import (
	"math/rand"
	"time"

	"github.com/KevinKickass/OpenSignalLab/internal/config"
	"github.com/KevinKickass/OpenSignalLab/internal/signal"
)

// Sampler produces synthetic raw readings for the active sensor mode.
// The random source is injected so scenarios stay reproducible; the
// sampler itself keeps no state between ticks, every sample is drawn
// independently.
type Sampler struct {
	cfg config.SimulationConfig
	rng *rand.Rand
}

func NewSampler(cfg config.SimulationConfig, rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{cfg: cfg, rng: rng}
}

// Sample draws one fresh reading for the given mode.
func (s *Sampler) Sample(mode signal.Mode) signal.Reading {
	switch mode {
	case signal.ModeDigital:
		return signal.Reading{
			Mode:     signal.ModeDigital,
			Detected: s.rng.Float64() < s.cfg.DetectionChance,
		}
	default:
		return signal.Reading{
			Mode:        signal.ModeAnalog,
			Temperature: s.cfg.TempMin + s.rng.Float64()*(s.cfg.TempMax-s.cfg.TempMin),
		}
	}
}
