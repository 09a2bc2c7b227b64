package websocket

import (
	"time"

	"github.com/KevinKickass/OpenSignalLab/internal/engine"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Live pipeline values
	MessageTypeSignalFrame  MessageType = "signal_frame"
	MessageTypeStageAdvance MessageType = "stage_advance"
	MessageTypeModeChanged  MessageType = "mode_changed"

	// Engine lifecycle
	MessageTypeEngineState MessageType = "engine_state"
)

// Message represents a WebSocket message
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// StageAdvanceData highlights which pipeline step is currently active.
type StageAdvanceData struct {
	Stage int    `json:"stage"`
	Label string `json:"label"`
}

// ModeChangedData announces a sensor mode transition.
type ModeChangedData struct {
	Mode     string `json:"mode"`
	Previous string `json:"previous_mode"`
}

// NewMessage creates a new message with current timestamp
func NewMessage(msgType MessageType, data interface{}) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func NewSignalFrameMessage(frame engine.DisplayFrame) Message {
	return NewMessage(MessageTypeSignalFrame, frame)
}

func NewStageAdvanceMessage(stage int) Message {
	return NewMessage(MessageTypeStageAdvance, StageAdvanceData{
		Stage: stage,
		Label: engine.StageLabel(stage),
	})
}

func NewModeChangedMessage(mode, previous string) Message {
	return NewMessage(MessageTypeModeChanged, ModeChangedData{
		Mode:     mode,
		Previous: previous,
	})
}

func NewEngineStateMessage(status engine.Status) Message {
	return NewMessage(MessageTypeEngineState, status)
}
