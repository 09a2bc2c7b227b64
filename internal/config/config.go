package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	MQTT       MQTTConfig       `mapstructure:"mqtt"`
	Profiles   ProfilesConfig   `mapstructure:"sensor_profiles"`
}

type ServerConfig struct {
	HTTPPort        int           `mapstructure:"http_port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SimulationConfig holds the constants of the signal pipeline. Every field
// can be overridden per sensor profile or via environment variables.
type SimulationConfig struct {
	UpdateInterval    time.Duration `mapstructure:"update_interval"`
	AnimationInterval time.Duration `mapstructure:"animation_interval"`
	ADCBits           int           `mapstructure:"adc_bits"`
	VoltageRef        float64       `mapstructure:"voltage_ref"`
	TempMin           float64       `mapstructure:"temp_min"`
	TempMax           float64       `mapstructure:"temp_max"`
	DetectionChance   float64       `mapstructure:"detection_chance"`
	StageCount        int           `mapstructure:"stage_count"`
}

type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	BrokerURL   string `mapstructure:"broker_url"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	ClientID    string `mapstructure:"client_id"`
}

type ProfilesConfig struct {
	SearchPaths []string `mapstructure:"search_paths"`
	Active      string   `mapstructure:"active"`
}

func Load(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	// Defaults setzen
	viper.SetDefault("server.http_port", 8080)
	viper.SetDefault("server.shutdown_timeout", "30s")

	viper.SetDefault("simulation.update_interval", "3s")
	viper.SetDefault("simulation.animation_interval", "1500ms")
	viper.SetDefault("simulation.adc_bits", 12)
	viper.SetDefault("simulation.voltage_ref", 3.3)
	viper.SetDefault("simulation.temp_min", 20.0)
	viper.SetDefault("simulation.temp_max", 25.0)
	viper.SetDefault("simulation.detection_chance", 0.3)
	viper.SetDefault("simulation.stage_count", 4)

	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.broker_url", "tcp://localhost:1883")
	viper.SetDefault("mqtt.topic_prefix", "signallab")
	viper.SetDefault("mqtt.client_id", "signallab-server")

	viper.SetDefault("sensor_profiles.search_paths", []string{"profiles"})
	viper.SetDefault("sensor_profiles.active", "")

	// Environment Variables automatisch binden (Viper Feature)
	viper.AutomaticEnv()
	viper.SetEnvPrefix("OSL") // Environment Variables mit Prefix OSL_

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Simulation.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}

	return &config, nil
}

// Validate rejects invariant violations before an engine is built from
// these constants. Garbage constants must never reach the encoder.
func (s *SimulationConfig) Validate() error {
	if s.UpdateInterval <= 0 {
		return fmt.Errorf("update_interval must be positive, got %s", s.UpdateInterval)
	}
	if s.AnimationInterval <= 0 {
		return fmt.Errorf("animation_interval must be positive, got %s", s.AnimationInterval)
	}
	if s.ADCBits < 1 || s.ADCBits > 32 {
		return fmt.Errorf("adc_bits must be in [1,32], got %d", s.ADCBits)
	}
	if s.VoltageRef <= 0 {
		return fmt.Errorf("voltage_ref must be positive, got %g", s.VoltageRef)
	}
	if s.TempMax <= s.TempMin {
		return fmt.Errorf("temp_max (%g) must be greater than temp_min (%g)", s.TempMax, s.TempMin)
	}
	if s.DetectionChance < 0 || s.DetectionChance > 1 {
		return fmt.Errorf("detection_chance must be in [0,1], got %g", s.DetectionChance)
	}
	if s.StageCount <= 0 {
		return fmt.Errorf("stage_count must be positive, got %d", s.StageCount)
	}
	return nil
}

// ADCMax is the highest quantization code representable at the configured
// bit width (2^bits - 1).
func (s *SimulationConfig) ADCMax() int {
	return (1 << s.ADCBits) - 1
}
