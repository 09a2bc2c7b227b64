package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/KevinKickass/OpenSignalLab/internal/config"
	"github.com/KevinKickass/OpenSignalLab/internal/encoder"
	"github.com/KevinKickass/OpenSignalLab/internal/sched"
	"github.com/KevinKickass/OpenSignalLab/internal/sensor"
	"github.com/KevinKickass/OpenSignalLab/internal/signal"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine drives the simulation: it owns the active mode, the sampling and
// stage-highlight cycles, and pushes completed DisplayFrames to registered
// listeners. Each instance owns its own state and timer handles, so
// several engines can coexist in one process.
type Engine struct {
	id        uuid.UUID
	logger    *zap.Logger
	cfg       config.SimulationConfig
	sampler   *sensor.Sampler
	encoder   *encoder.Encoder
	scheduler sched.Scheduler

	mu           sync.Mutex
	mode         signal.Mode
	running      bool
	stage        int
	lastFrame    *DisplayFrame
	sampleHandle sched.Handle
	stageHandle  sched.Handle
	frameFns     []func(DisplayFrame)
	stageFns     []func(int)
}

// New builds an engine on the wall clock with a time-seeded random source.
func New(cfg config.SimulationConfig, logger *zap.Logger) (*Engine, error) {
	return NewWithScheduler(cfg, logger, sched.NewTicker(), nil)
}

// NewWithScheduler injects the scheduler and random source, which tests use
// to run the engine against a virtual clock and a fixed seed.
func NewWithScheduler(cfg config.SimulationConfig, logger *zap.Logger, scheduler sched.Scheduler, rng *rand.Rand) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		id:        uuid.New(),
		logger:    logger,
		cfg:       cfg,
		sampler:   sensor.NewSampler(cfg, rng),
		encoder:   encoder.NewEncoder(cfg),
		scheduler: scheduler,
		mode:      signal.ModeAnalog,
	}, nil
}

func (e *Engine) ID() uuid.UUID { return e.id }

// OnFrame registers a listener invoked once per completed sampling tick
// and once immediately on every mode switch.
func (e *Engine) OnFrame(fn func(DisplayFrame)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frameFns = append(e.frameFns, fn)
}

// OnStageAdvance registers a listener for the cyclic stage pointer.
func (e *Engine) OnStageAdvance(fn func(stage int)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stageFns = append(e.stageFns, fn)
}

// Start begins both cycles and emits one immediate frame plus the current
// stage pointer, so a UI attaches to fresh values instead of waiting a full
// interval. Calling Start on a running engine is a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true

	e.sampleHandle = e.scheduler.Every(e.cfg.UpdateInterval, e.sampleTick)
	e.stageHandle = e.scheduler.Every(e.cfg.AnimationInterval, e.stageTick)

	frame, frameFns := e.buildFrameLocked()
	stage, stageFns := e.stage, e.stageListenersLocked()
	e.mu.Unlock()

	e.logger.Info("Engine started",
		zap.String("engine_id", e.id.String()),
		zap.String("mode", string(frame.Mode)),
		zap.Duration("update_interval", e.cfg.UpdateInterval),
		zap.Duration("animation_interval", e.cfg.AnimationInterval))

	emitFrame(frame, frameFns)
	emitStage(stage, stageFns)
}

// Stop cancels both cycles. Safe on an engine that never started, and
// calling it twice is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	sampleHandle, stageHandle := e.sampleHandle, e.stageHandle
	e.sampleHandle, e.stageHandle = nil, nil
	e.mu.Unlock()

	if sampleHandle != nil {
		sampleHandle.Stop()
	}
	if stageHandle != nil {
		stageHandle.Stop()
	}

	e.logger.Info("Engine stopped", zap.String("engine_id", e.id.String()))
}

// SwitchMode transitions to the given mode. Switching to the mode that is
// already active does nothing: no frame, no timer reset. Otherwise the
// sampling cycle restarts and a frame for the new branch is emitted
// immediately, so no stale-mode frame can follow the transition.
func (e *Engine) SwitchMode(mode signal.Mode) {
	e.mu.Lock()
	if mode == e.mode {
		e.mu.Unlock()
		return
	}

	previous := e.mode
	e.mode = mode

	var oldHandle sched.Handle
	if e.running {
		oldHandle = e.sampleHandle
		e.sampleHandle = e.scheduler.Every(e.cfg.UpdateInterval, e.sampleTick)
	}

	frame, frameFns := e.buildFrameLocked()
	e.mu.Unlock()

	if oldHandle != nil {
		oldHandle.Stop()
	}

	e.logger.Info("Mode switched",
		zap.String("engine_id", e.id.String()),
		zap.String("mode", string(mode)),
		zap.String("previous", string(previous)))

	emitFrame(frame, frameFns)
}

// Mode returns the currently active mode.
func (e *Engine) Mode() signal.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// LastFrame returns the most recent frame, if any tick completed yet.
func (e *Engine) LastFrame() (DisplayFrame, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastFrame == nil {
		return DisplayFrame{}, false
	}
	return *e.lastFrame, true
}

// Status reports the engine state for the API surface.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Status{
		EngineID:   e.id.String(),
		Mode:       e.mode,
		Running:    e.running,
		Stage:      e.stage,
		StageLabel: StageLabel(e.stage),
		StageCount: e.cfg.StageCount,
	}
	if e.lastFrame != nil {
		s.LastFrameAt = e.lastFrame.Timestamp
	}
	return s
}

// sampleTick is one atomic unit of work: sample, encode, emit. The mode is
// read under the same lock, so a frame can never carry a mode the engine
// already left.
func (e *Engine) sampleTick() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	frame, fns := e.buildFrameLocked()
	e.mu.Unlock()

	emitFrame(frame, fns)
}

func (e *Engine) stageTick() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.stage = (e.stage + 1) % e.cfg.StageCount
	stage, fns := e.stage, e.stageListenersLocked()
	e.mu.Unlock()

	emitStage(stage, fns)
}

func (e *Engine) buildFrameLocked() (DisplayFrame, []func(DisplayFrame)) {
	reading := e.sampler.Sample(e.mode)
	frame := NewDisplayFrame(e.mode, e.encoder.Encode(reading), time.Now())
	e.lastFrame = &frame

	fns := make([]func(DisplayFrame), len(e.frameFns))
	copy(fns, e.frameFns)
	return frame, fns
}

func (e *Engine) stageListenersLocked() []func(int) {
	fns := make([]func(int), len(e.stageFns))
	copy(fns, e.stageFns)
	return fns
}

// Listeners run outside the engine lock so they may call back in.
func emitFrame(frame DisplayFrame, fns []func(DisplayFrame)) {
	for _, fn := range fns {
		fn(frame)
	}
}

func emitStage(stage int, fns []func(int)) {
	for _, fn := range fns {
		fn(stage)
	}
}
