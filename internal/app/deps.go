package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/joho/godotenv"

	"globalai-knowledge/internal/broadcast"
	"globalai-knowledge/internal/config"
	"globalai-knowledge/internal/knowledge"
	"globalai-knowledge/internal/llm"
	"globalai-knowledge/internal/logger"
	"globalai-knowledge/internal/registry"
	"globalai-knowledge/internal/relay"
)

// Deps bundles the runtime dependencies of the gateway.
type Deps struct {
	Config     config.Config
	Log        *slog.Logger
	Registry   *registry.Registry
	Dispatcher *knowledge.Dispatcher
	Hub        *broadcast.Hub
	Relay      relay.Relay
}

// Build loads env, config, and shared components.
func Build() (Deps, error) {
	// A .env file is optional; the process environment always wins.
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Debug("no .env file loaded", "err", envErr)
	}
	if err := cfg.Validate(); err != nil {
		return Deps{}, err
	}

	backends := registry.Builtin()
	reg, err := registry.New(backends, cfg.DefaultBackend, config.ReadCredentials(registry.CredentialSources(backends)))
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize backend registry: %w", err)
	}

	rl, err := buildRelay(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize relay: %w", err)
	}

	return Assemble(cfg, log, reg, llm.NewOpenAIClient(&http.Client{}), rl), nil
}

// Assemble wires the dispatcher and hub from already-built parts.
func Assemble(cfg config.Config, log *slog.Logger, reg *registry.Registry, client llm.Client, rl relay.Relay) Deps {
	if rl == nil {
		rl = relay.Noop{}
	}
	dispatcher := knowledge.NewDispatcher(reg, client, log,
		knowledge.WithTimeout(cfg.BackendTimeout),
		knowledge.WithTemperature(cfg.Temperature),
	)

	hubOpts := []broadcast.Option{broadcast.WithBufferSize(cfg.SendBuffer)}
	if _, isNoop := rl.(relay.Noop); !isNoop {
		hubOpts = append(hubOpts, broadcast.WithObserver(relay.NewForwarder(rl, cfg.RelaySubject, log)))
	}

	return Deps{
		Config:     cfg,
		Log:        log,
		Registry:   reg,
		Dispatcher: dispatcher,
		Hub:        broadcast.NewHub(log, hubOpts...),
		Relay:      rl,
	}
}

func buildRelay(cfg config.Config, log *slog.Logger) (relay.Relay, error) {
	switch cfg.RelayProvider {
	case "none", "":
		return relay.Noop{}, nil
	case "nats":
		if cfg.RelayURL == "" {
			return nil, fmt.Errorf("RELAY_URL is required when RELAY_PROVIDER=nats")
		}
		r, err := relay.DialNATS(cfg.RelayURL, log)
		if err != nil {
			return nil, err
		}
		log.Info("using NATS relay", "subject", cfg.RelaySubject)
		return r, nil
	case "redis":
		if cfg.RelayURL == "" {
			return nil, fmt.Errorf("RELAY_URL is required when RELAY_PROVIDER=redis")
		}
		r, err := relay.DialRedis(cfg.RelayURL, cfg.RelayPassword)
		if err != nil {
			return nil, err
		}
		log.Info("using Redis relay", "channel", cfg.RelaySubject)
		return r, nil
	default:
		return nil, fmt.Errorf("invalid RELAY_PROVIDER: %s (valid options: none, nats, redis)", cfg.RelayProvider)
	}
}
