package system

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/KevinKickass/OpenSignalLab/internal/api/rest"
	"github.com/KevinKickass/OpenSignalLab/internal/api/websocket"
	"github.com/KevinKickass/OpenSignalLab/internal/config"
	"github.com/KevinKickass/OpenSignalLab/internal/engine"
	"github.com/KevinKickass/OpenSignalLab/internal/mqtt"
	"github.com/KevinKickass/OpenSignalLab/internal/profiles"
	"github.com/KevinKickass/OpenSignalLab/internal/signal"
)

// LifecycleManager wires config, engine, hub and servers together and owns
// startup and shutdown order.
type LifecycleManager struct {
	config *config.Config
	logger *zap.Logger
	loader *profiles.Loader
	engine *engine.Engine
	wsHub  *websocket.Hub

	restServer    *rest.Server
	mqttPublisher *mqtt.Publisher

	modeMu   sync.Mutex
	lastMode signal.Mode

	shutdownOnce sync.Once
}

func NewLifecycleManager(cfg *config.Config, logger *zap.Logger) (*LifecycleManager, error) {
	loader, err := profiles.NewLoader(cfg.Profiles.SearchPaths)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile loader: %w", err)
	}

	simCfg := cfg.Simulation
	if cfg.Profiles.Active != "" {
		profile, err := loader.Load(cfg.Profiles.Active)
		if err != nil {
			return nil, fmt.Errorf("failed to load active profile: %w", err)
		}
		simCfg, err = profile.Apply(simCfg)
		if err != nil {
			return nil, fmt.Errorf("invalid active profile %q: %w", cfg.Profiles.Active, err)
		}
		logger.Info("Sensor profile applied", zap.String("profile", profile.Name))
	}

	eng, err := engine.New(simCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	wsHub := websocket.NewHub(logger)

	lm := &LifecycleManager{
		config:   cfg,
		logger:   logger,
		loader:   loader,
		engine:   eng,
		wsHub:    wsHub,
		lastMode: eng.Mode(),
	}

	eng.OnFrame(lm.handleFrame)
	eng.OnStageAdvance(lm.handleStageAdvance)

	lm.restServer = rest.NewServer(cfg, eng, loader, logger, wsHub)

	return lm, nil
}

func (lm *LifecycleManager) Engine() *engine.Engine {
	return lm.engine
}

// Start brings the system up: hub, optional MQTT link, REST API, then the
// simulation cycles.
func (lm *LifecycleManager) Start() error {
	go lm.wsHub.Run()

	if lm.config.MQTT.Enabled {
		publisher, err := mqtt.NewPublisher(lm.config.MQTT, lm.logger)
		if err != nil {
			return fmt.Errorf("failed to start MQTT publisher: %w", err)
		}
		lm.mqttPublisher = publisher
	}

	if err := lm.restServer.Start(); err != nil {
		return fmt.Errorf("failed to start REST API: %w", err)
	}

	lm.engine.Start()

	lm.logger.Info("System started successfully",
		zap.Int("http_port", lm.config.Server.HTTPPort),
		zap.Bool("mqtt_enabled", lm.config.MQTT.Enabled))

	return nil
}

// Shutdown stops the cycles first so no frame is produced into a closing
// transport. Safe to call more than once.
func (lm *LifecycleManager) Shutdown(ctx context.Context) error {
	var err error
	lm.shutdownOnce.Do(func() {
		lm.logger.Info("Shutting down")

		lm.engine.Stop()

		if lm.mqttPublisher != nil {
			lm.mqttPublisher.Close()
		}

		err = lm.restServer.Shutdown(ctx)
	})
	return err
}

func (lm *LifecycleManager) handleFrame(frame engine.DisplayFrame) {
	lm.modeMu.Lock()
	previous := lm.lastMode
	lm.lastMode = frame.Mode
	lm.modeMu.Unlock()

	if previous != frame.Mode {
		lm.wsHub.Broadcast(websocket.NewModeChangedMessage(string(frame.Mode), string(previous)))
	}

	lm.wsHub.Broadcast(websocket.NewSignalFrameMessage(frame))

	if lm.mqttPublisher != nil {
		lm.mqttPublisher.PublishFrame(frame)
	}
}

func (lm *LifecycleManager) handleStageAdvance(stage int) {
	lm.wsHub.Broadcast(websocket.NewStageAdvanceMessage(stage))
}
