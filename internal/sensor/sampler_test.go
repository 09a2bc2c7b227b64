package sensor

import (
	"math/rand"
	"testing"
	"time"

	"github.com/KevinKickass/OpenSignalLab/internal/config"
	"github.com/KevinKickass/OpenSignalLab/internal/signal"
)

func testConfig() config.SimulationConfig {
	return config.SimulationConfig{
		UpdateInterval:    3 * time.Second,
		AnimationInterval: 1500 * time.Millisecond,
		ADCBits:           12,
		VoltageRef:        3.3,
		TempMin:           20,
		TempMax:           25,
		DetectionChance:   0.3,
		StageCount:        4,
	}
}

func TestSampleAnalogStaysInRange(t *testing.T) {
	s := NewSampler(testConfig(), rand.New(rand.NewSource(1)))

	for i := 0; i < 1000; i++ {
		r := s.Sample(signal.ModeAnalog)
		if r.Mode != signal.ModeAnalog {
			t.Fatalf("Sample(analog).Mode = %s", r.Mode)
		}
		if r.Temperature < 20 || r.Temperature >= 25 {
			t.Fatalf("temperature %g outside [20,25)", r.Temperature)
		}
	}
}

func TestSampleDigitalZeroChanceNeverDetects(t *testing.T) {
	cfg := testConfig()
	cfg.DetectionChance = 0
	s := NewSampler(cfg, rand.New(rand.NewSource(42)))

	for i := 0; i < 1000; i++ {
		if r := s.Sample(signal.ModeDigital); r.Detected {
			t.Fatalf("trial %d: detected motion with detection_chance=0", i)
		}
	}
}

func TestSampleDigitalFullChanceAlwaysDetects(t *testing.T) {
	cfg := testConfig()
	cfg.DetectionChance = 1
	s := NewSampler(cfg, rand.New(rand.NewSource(42)))

	for i := 0; i < 1000; i++ {
		if r := s.Sample(signal.ModeDigital); !r.Detected {
			t.Fatalf("trial %d: missed motion with detection_chance=1", i)
		}
	}
}

func TestSampleSeededReproducible(t *testing.T) {
	a := NewSampler(testConfig(), rand.New(rand.NewSource(7)))
	b := NewSampler(testConfig(), rand.New(rand.NewSource(7)))

	for i := 0; i < 100; i++ {
		ra, rb := a.Sample(signal.ModeAnalog), b.Sample(signal.ModeAnalog)
		if ra.Temperature != rb.Temperature {
			t.Fatalf("sample %d diverged: %g vs %g", i, ra.Temperature, rb.Temperature)
		}
	}
}
