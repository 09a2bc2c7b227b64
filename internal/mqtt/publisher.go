package mqtt

import (
	"encoding/json"
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/KevinKickass/OpenSignalLab/internal/config"
	"github.com/KevinKickass/OpenSignalLab/internal/engine"
)

// Publisher mirrors display frames onto an MQTT broker, so the simulated
// telemetry can feed dashboards the same way a real sensor fleet would.
type Publisher struct {
	client      paho.Client
	topicPrefix string
	logger      *zap.Logger
}

func NewPublisher(cfg config.MQTTConfig, logger *zap.Logger) (*Publisher, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(func(client paho.Client) {
		logger.Info("MQTT connected", zap.String("broker", cfg.BrokerURL))
	})
	opts.SetConnectionLostHandler(func(client paho.Client, err error) {
		logger.Warn("MQTT connection lost", zap.Error(err))
	})

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &Publisher{
		client:      client,
		topicPrefix: cfg.TopicPrefix,
		logger:      logger,
	}, nil
}

// PublishFrame sends one frame to <prefix>/frames/<mode>, fire and forget.
func (p *Publisher) PublishFrame(frame engine.DisplayFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		p.logger.Error("Failed to marshal frame", zap.Error(err))
		return
	}

	topic := fmt.Sprintf("%s/frames/%s", p.topicPrefix, frame.Mode)
	token := p.client.Publish(topic, 0, false, payload)
	go func() {
		if token.Wait() && token.Error() != nil {
			p.logger.Warn("MQTT publish failed",
				zap.String("topic", topic),
				zap.Error(token.Error()))
		}
	}()
}

func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
	p.logger.Info("MQTT publisher closed")
}
