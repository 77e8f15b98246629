package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

// Config holds runtime configuration read once at process start.
type Config struct {
	// Server
	Port       int    `env:"PORT" envDefault:"3001" validate:"min=1,max=65535"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json text"`
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"*"`

	// Backends
	DefaultBackend string        `env:"DEFAULT_BACKEND" envDefault:"open_source" validate:"required"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"15s" validate:"gt=0"`
	Temperature    float64       `env:"LLM_TEMPERATURE" envDefault:"0.2" validate:"min=0,max=2"`

	// Realtime channel
	SendBuffer      int   `env:"WS_SEND_BUFFER" envDefault:"64" validate:"min=1"`
	MaxMessageBytes int64 `env:"WS_MAX_MESSAGE_BYTES" envDefault:"65536" validate:"min=256"`

	// Relay mirrors broadcast contributions to an external bus.
	RelayProvider string `env:"RELAY_PROVIDER" envDefault:"none" validate:"oneof=none nats redis"`
	RelayURL      string `env:"RELAY_URL" validate:"required_unless=RelayProvider none"`
	RelaySubject  string `env:"RELAY_SUBJECT" envDefault:"knowledge.contributions"`
	RelayPassword string `env:"RELAY_PASSWORD"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}

// Validate checks value ranges. Credentials are intentionally absent here:
// a missing key only matters once its backend is selected.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// AllowedOrigins splits CORS_ORIGIN on commas.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// ReadCredentials snapshots the named credential sources from the environment.
// Unset or empty variables are left out of the map.
func ReadCredentials(names []string) map[string]string {
	creds := make(map[string]string, len(names))
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			creds[name] = v
		}
	}
	return creds
}
