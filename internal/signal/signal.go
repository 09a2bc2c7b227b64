package signal

import "fmt"

// Mode selects which sensor branch of the pipeline is active. Exactly one
// mode is active at any time; switching is a discrete transition.
type Mode string

const (
	ModeAnalog  Mode = "analog"
	ModeDigital Mode = "digital"
)

// ParseMode validates a mode string coming from the API boundary.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAnalog:
		return ModeAnalog, nil
	case ModeDigital:
		return ModeDigital, nil
	default:
		return "", fmt.Errorf("unknown mode: %q", s)
	}
}

// LogicLevel is the binary electrical state of a digital sensor output.
type LogicLevel string

const (
	LevelHigh LogicLevel = "HIGH"
	LevelLow  LogicLevel = "LOW"
)

// Reading is a raw synthetic sensor value, created fresh on every sampling
// tick and discarded right after encoding.
type Reading struct {
	Mode Mode

	// Analog branch: temperature in °C.
	Temperature float64

	// Digital branch: motion detected.
	Detected bool
}

// AnalogPayload is the structured record attached to an analog frame.
type AnalogPayload struct {
	Temperature      float64 `json:"temperature"`
	TimestampSeconds int64   `json:"timestamp_seconds"`
}

// EncodedSignal is the result of running one reading through the
// sample→quantize→encode pipeline. Immutable per tick.
type EncodedSignal struct {
	Mode Mode `json:"mode"`

	// Analog branch.
	Voltage float64        `json:"voltage"`
	Code    int            `json:"code"`
	Bits    string         `json:"bits,omitempty"`
	Payload *AnalogPayload `json:"payload,omitempty"`

	// Digital branch.
	LogicLevel  LogicLevel `json:"logic_level,omitempty"`
	Bit         string     `json:"bit,omitempty"`
	StatusLabel string     `json:"status_label,omitempty"`
}
