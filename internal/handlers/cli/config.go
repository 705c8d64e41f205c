package cli

import (
	"time"

	"github.com/gabapcia/nodeprobe/internal/pkg/validator"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces every environment variable read by LoadConfig
// (NODEPROBE_ENDPOINT, NODEPROBE_LOG_LEVEL, and so on).
const envPrefix = "nodeprobe"

// Config carries the process-level settings shared by every command. The
// endpoint may be left empty here and supplied per invocation with the
// --endpoint flag instead.
type Config struct {
	Endpoint         string        `envconfig:"ENDPOINT"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info" validate:"required,oneof=debug info warn error"`
	HTTPTimeout      time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s" validate:"gt=0"`
	HTTPRetryMax     int           `envconfig:"HTTP_RETRY_MAX" default:"2" validate:"gte=0"`
	DialAttempts     uint          `envconfig:"DIAL_ATTEMPTS" default:"3" validate:"gte=1"`
	DialDelay        time.Duration `envconfig:"DIAL_DELAY" default:"1s" validate:"gt=0"`
	TelemetryEnabled bool          `envconfig:"TELEMETRY_ENABLED" default:"false"`
	ServiceName      string        `envconfig:"SERVICE_NAME" default:"nodeprobe" validate:"required"`
}

// LoadConfig reads the configuration from the environment and validates it.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, err
	}

	if err := validator.Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
