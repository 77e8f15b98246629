package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuiltin(t *testing.T, creds map[string]string) *Registry {
	t.Helper()
	r, err := New(Builtin(), BackendOpenSource, creds)
	require.NoError(t, err)
	return r
}

func TestResolve(t *testing.T) {
	r := newBuiltin(t, nil)

	tests := []struct {
		name      string
		requested string
		wantID    string
	}{
		{"known openai", "openai", BackendOpenAI},
		{"known open source", "open_source", BackendOpenSource},
		{"empty falls back", "", BackendOpenSource},
		{"unknown falls back", "claude-9000", BackendOpenSource},
		{"case sensitive", "OpenAI", BackendOpenSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantID, r.Resolve(tt.requested).ID)
		})
	}
}

func TestResolveReturnsDescriptor(t *testing.T) {
	r := newBuiltin(t, nil)
	b := r.Resolve("openai")
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", b.EndpointURL)
	assert.Equal(t, "gpt-4o-mini", b.ModelName)
	assert.Equal(t, "OPENAI_API_KEY", b.CredentialEnv)
	assert.Equal(t, BackendOpenSource, r.Default().ID)
}

func TestCredential(t *testing.T) {
	r := newBuiltin(t, map[string]string{"GROQ_API_KEY": "gsk-test"})

	key, err := r.Credential(r.Resolve("open_source"))
	require.NoError(t, err)
	assert.Equal(t, "gsk-test", key)

	_, err = r.Credential(r.Resolve("openai"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestCredentialSnapshotIsCopied(t *testing.T) {
	creds := map[string]string{"GROQ_API_KEY": "gsk-test"}
	r := newBuiltin(t, creds)
	delete(creds, "GROQ_API_KEY")

	_, err := r.Credential(r.Default())
	assert.NoError(t, err)
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name      string
		backends  []Backend
		defaultID string
	}{
		{"no backends", nil, "x"},
		{"unknown default", Builtin(), "missing"},
		{"duplicate id", append(Builtin(), Builtin()[0]), BackendOpenAI},
		{"incomplete backend", []Backend{{ID: "x"}}, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.backends, tt.defaultID, nil)
			assert.Error(t, err)
		})
	}
}

func TestListing(t *testing.T) {
	r := newBuiltin(t, nil)
	assert.Equal(t, []string{"open_source", "openai"}, r.IDs())
	assert.Equal(t, []string{"OPENAI_API_KEY", "GROQ_API_KEY"}, CredentialSources(Builtin()))
}
