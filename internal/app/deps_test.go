package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"globalai-knowledge/internal/config"
	"globalai-knowledge/internal/llm"
	"globalai-knowledge/internal/logger"
	"globalai-knowledge/internal/registry"
	"globalai-knowledge/internal/relay"
)

func testConfig() config.Config {
	return config.Config{
		Port:           3001,
		DefaultBackend: registry.BackendOpenSource,
		BackendTimeout: time.Second,
		Temperature:    0.2,
		SendBuffer:     8,
		RelayProvider:  "none",
		RelaySubject:   "knowledge.contributions",
	}
}

func TestBuildRelay(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		url      string
		wantErr  bool
	}{
		{"none", "none", "", false},
		{"empty means none", "", "", false},
		{"nats requires url", "nats", "", true},
		{"redis requires url", "redis", "", true},
		{"unknown provider", "kafka", "x", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.RelayProvider = tt.provider
			cfg.RelayURL = tt.url
			r, err := buildRelay(cfg, logger.Discard())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, relay.Noop{}, r)
		})
	}
}

func TestAssemble(t *testing.T) {
	reg, err := registry.New(registry.Builtin(), registry.BackendOpenSource, nil)
	require.NoError(t, err)

	deps := Assemble(testConfig(), logger.Discard(), reg, new(llm.MockClient), nil)

	assert.NotNil(t, deps.Dispatcher)
	assert.NotNil(t, deps.Hub)
	assert.IsType(t, relay.Noop{}, deps.Relay)
	assert.Equal(t, 0, deps.Hub.Count())
}
