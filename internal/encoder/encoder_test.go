package encoder

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
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

func fixedClock(sec int64) func() time.Time {
	return func() time.Time { return time.Unix(sec, 0) }
}

func TestEncodeAnalogReferenceScenario(t *testing.T) {
	// 22.5 °C against a 3.3 V reference and 12-bit converter.
	e := NewEncoderWithClock(testConfig(), fixedClock(1700000000))
	out := e.Encode(signal.Reading{Mode: signal.ModeAnalog, Temperature: 22.5})

	if math.Abs(out.Voltage-2.25) > 1e-9 {
		t.Errorf("voltage = %g, want 2.25", out.Voltage)
	}
	// floor(2.25 / 3.3 * 4095) = 2792.
	if out.Code != 2792 {
		t.Errorf("code = %d, want 2792", out.Code)
	}
	if out.Bits != "101011101000" {
		t.Errorf("bits = %q, want %q", out.Bits, "101011101000")
	}
	if out.Payload == nil {
		t.Fatal("payload missing")
	}
	if out.Payload.Temperature != 22.5 {
		t.Errorf("payload temperature = %g, want 22.5", out.Payload.Temperature)
	}
	if out.Payload.TimestampSeconds != 1700000000 {
		t.Errorf("payload timestamp = %d, want 1700000000", out.Payload.TimestampSeconds)
	}
}

func TestVoltageAffineAndMonotonic(t *testing.T) {
	e := NewEncoder(testConfig())

	prev := math.Inf(-1)
	for temp := 20.0; temp <= 25.0; temp += 0.25 {
		v := e.Voltage(temp)
		want := 2.0 + (temp-20.0)*0.1
		if math.Abs(v-want) > 1e-9 {
			t.Fatalf("Voltage(%g) = %g, want %g", temp, v, want)
		}
		if v < prev {
			t.Fatalf("Voltage not monotonic at %g: %g < %g", temp, v, prev)
		}
		prev = v
	}
}

func TestBitsWidthAndRoundTrip(t *testing.T) {
	e := NewEncoder(testConfig())

	for temp := 20.0; temp <= 25.0; temp += 0.1 {
		out := e.Encode(signal.Reading{Mode: signal.ModeAnalog, Temperature: temp})

		if len(out.Bits) != 12 {
			t.Fatalf("bits %q has length %d, want 12", out.Bits, len(out.Bits))
		}
		if strings.Trim(out.Bits, "01") != "" {
			t.Fatalf("bits %q contains non-binary characters", out.Bits)
		}

		parsed, err := strconv.ParseInt(out.Bits, 2, 64)
		if err != nil {
			t.Fatalf("ParseInt(%q): %v", out.Bits, err)
		}
		if int(parsed) != out.Code {
			t.Fatalf("round trip: parsed %d, code %d", parsed, out.Code)
		}
	}
}

func TestQuantizeClampsSaturatedInput(t *testing.T) {
	e := NewEncoder(testConfig())

	// 35 °C maps to 3.5 V, above the 3.3 V reference: the code saturates.
	if code := e.Quantize(e.Voltage(35)); code != 4095 {
		t.Errorf("saturated code = %d, want 4095", code)
	}
	if code := e.Quantize(-0.5); code != 0 {
		t.Errorf("negative voltage code = %d, want 0", code)
	}
}

func TestEncodeDigitalDeterministic(t *testing.T) {
	e := NewEncoder(testConfig())

	for i := 0; i < 3; i++ {
		out := e.Encode(signal.Reading{Mode: signal.ModeDigital, Detected: true})
		if out.LogicLevel != signal.LevelHigh || out.Voltage != 3.3 || out.Bit != "1" || out.StatusLabel != "Motion" {
			t.Fatalf("detected encode = %+v", out)
		}

		out = e.Encode(signal.Reading{Mode: signal.ModeDigital, Detected: false})
		if out.LogicLevel != signal.LevelLow || out.Voltage != 0 || out.Bit != "0" || out.StatusLabel != "None" {
			t.Fatalf("idle encode = %+v", out)
		}
	}
}

func TestZeroCodeStillRendersInJSON(t *testing.T) {
	// A high reference squeezes the whole transfer range below one LSB, so
	// a code of 0 is a legitimate quantization result and must survive
	// marshaling.
	cfg := testConfig()
	cfg.VoltageRef = 10000
	e := NewEncoderWithClock(cfg, fixedClock(0))

	out := e.Encode(signal.Reading{Mode: signal.ModeAnalog, Temperature: 20})
	if out.Code != 0 {
		t.Fatalf("code = %d, want 0", out.Code)
	}

	data, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"code":0`) {
		t.Errorf("zero code missing from JSON: %s", data)
	}
	if !strings.Contains(string(data), `"bits":"000000000000"`) {
		t.Errorf("bits for zero code missing from JSON: %s", data)
	}
}

func TestPayloadTemperatureRounding(t *testing.T) {
	e := NewEncoderWithClock(testConfig(), fixedClock(0))

	cases := []struct {
		in   float64
		want float64
	}{
		{22.54, 22.5},
		{22.55, 22.6},
		{24.999, 25.0},
		{20.0, 20.0},
	}
	for _, tc := range cases {
		out := e.Encode(signal.Reading{Mode: signal.ModeAnalog, Temperature: tc.in})
		if out.Payload.Temperature != tc.want {
			t.Errorf("payload temperature for %g = %g, want %g", tc.in, out.Payload.Temperature, tc.want)
		}
	}
}
