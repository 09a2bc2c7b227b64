package engine

import (
	"fmt"
	"time"

	"github.com/KevinKickass/OpenSignalLab/internal/signal"
)

// DisplayFrame is one complete, internally consistent snapshot of the
// pipeline, ready for presentation. Frames are rebuilt whole on every tick,
// never patched in place.
type DisplayFrame struct {
	Mode        signal.Mode          `json:"mode"`
	Signal      signal.EncodedSignal `json:"signal"`
	VoltageText string               `json:"voltage_text"`
	ValueText   string               `json:"value_text"`
	Timestamp   time.Time            `json:"timestamp"`
}

// Status is the engine state exposed over the API.
type Status struct {
	EngineID    string      `json:"engine_id"`
	Mode        signal.Mode `json:"mode"`
	Running     bool        `json:"running"`
	Stage       int         `json:"stage"`
	StageLabel  string      `json:"stage_label"`
	StageCount  int         `json:"stage_count"`
	LastFrameAt time.Time   `json:"last_frame_at,omitempty"`
}

var stageLabels = []string{"sampling", "quantization", "encoding", "transmission"}

// StageLabel names a pipeline stage for display. Pointers beyond the named
// stages fall back to a numbered label.
func StageLabel(stage int) string {
	if stage >= 0 && stage < len(stageLabels) {
		return stageLabels[stage]
	}
	return fmt.Sprintf("stage-%d", stage+1)
}

// NewDisplayFrame derives the presentation text fields from an encoded
// signal.
func NewDisplayFrame(mode signal.Mode, enc signal.EncodedSignal, at time.Time) DisplayFrame {
	frame := DisplayFrame{
		Mode:        mode,
		Signal:      enc,
		VoltageText: fmt.Sprintf("%.2f V", enc.Voltage),
		Timestamp:   at,
	}

	if mode == signal.ModeDigital {
		frame.ValueText = enc.StatusLabel
	} else if enc.Payload != nil {
		frame.ValueText = fmt.Sprintf("%.1f °C", enc.Payload.Temperature)
	}

	return frame
}
