package encoder

import (
	"fmt"
	"math"
	"time"

	"github.com/KevinKickass/OpenSignalLab/internal/config"
	"github.com/KevinKickass/OpenSignalLab/internal/signal"
)

// Encoder turns a raw reading into the artifacts of the conversion
// pipeline: sensor voltage, quantization code, bit string and payload.
// Encode is a pure function of reading and config; the clock is injected
// only for the payload timestamp.
type Encoder struct {
	cfg config.SimulationConfig
	now func() time.Time
}

func NewEncoder(cfg config.SimulationConfig) *Encoder {
	return &Encoder{cfg: cfg, now: time.Now}
}

// NewEncoderWithClock is used by tests that need a fixed timestamp.
func NewEncoderWithClock(cfg config.SimulationConfig, now func() time.Time) *Encoder {
	return &Encoder{cfg: cfg, now: now}
}

// Encode runs one reading through the branch matching its mode.
func (e *Encoder) Encode(r signal.Reading) signal.EncodedSignal {
	if r.Mode == signal.ModeDigital {
		return e.encodeDigital(r)
	}
	return e.encodeAnalog(r)
}

func (e *Encoder) encodeAnalog(r signal.Reading) signal.EncodedSignal {
	voltage := e.Voltage(r.Temperature)
	code := e.Quantize(voltage)

	return signal.EncodedSignal{
		Mode:    signal.ModeAnalog,
		Voltage: voltage,
		Code:    code,
		Bits:    e.FormatBits(code),
		Payload: &signal.AnalogPayload{
			Temperature:      math.Round(r.Temperature*10) / 10,
			TimestampSeconds: e.now().Unix(),
		},
	}
}

func (e *Encoder) encodeDigital(r signal.Reading) signal.EncodedSignal {
	out := signal.EncodedSignal{
		Mode:        signal.ModeDigital,
		LogicLevel:  signal.LevelLow,
		Voltage:     0,
		Bit:         "0",
		StatusLabel: "None",
	}
	if r.Detected {
		out.LogicLevel = signal.LevelHigh
		out.Voltage = e.cfg.VoltageRef
		out.Bit = "1"
		out.StatusLabel = "Motion"
	}
	return out
}

// Voltage applies the analog sensor transfer function. The 2.0 V offset and
// 0.1 V/°C slope are properties of the simulated sensor, not of the ADC
// reference, so the two scales deliberately differ.
func (e *Encoder) Voltage(temperature float64) float64 {
	return 2.0 + (temperature-e.cfg.TempMin)*0.1
}

// Quantize maps a voltage onto the ADC code range. Codes are clamped to
// [0, ADCMax]: the transfer function can push voltage above the reference,
// and a real converter saturates rather than overflowing.
func (e *Encoder) Quantize(voltage float64) int {
	code := int(math.Floor(voltage / e.cfg.VoltageRef * float64(e.cfg.ADCMax())))
	if code < 0 {
		return 0
	}
	if max := e.cfg.ADCMax(); code > max {
		return max
	}
	return code
}

// FormatBits renders a code as a fixed-width binary string, zero-padded to
// the configured bit width.
func (e *Encoder) FormatBits(code int) string {
	return fmt.Sprintf("%0*b", e.cfg.ADCBits, code)
}
