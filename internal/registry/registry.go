package registry

import (
	"errors"
	"fmt"
	"sort"
)

// ErrMissingCredential is returned when a backend's credential source is unset.
var ErrMissingCredential = errors.New("missing backend credential")

// Backend describes one OpenAI-compatible chat-completions endpoint.
type Backend struct {
	ID            string
	EndpointURL   string
	ModelName     string
	CredentialEnv string
}

const (
	BackendOpenAI     = "openai"
	BackendOpenSource = "open_source"
)

// Builtin returns the backends shipped with the gateway.
func Builtin() []Backend {
	return []Backend{
		{
			ID:            BackendOpenAI,
			EndpointURL:   "https://api.openai.com/v1/chat/completions",
			ModelName:     "gpt-4o-mini",
			CredentialEnv: "OPENAI_API_KEY",
		},
		{
			ID:            BackendOpenSource,
			EndpointURL:   "https://api.groq.com/openai/v1/chat/completions",
			ModelName:     "llama3-70b-8192",
			CredentialEnv: "GROQ_API_KEY",
		},
	}
}

// CredentialSources lists the distinct credential names the backends reference.
func CredentialSources(backends []Backend) []string {
	seen := make(map[string]bool, len(backends))
	var names []string
	for _, b := range backends {
		if b.CredentialEnv == "" || seen[b.CredentialEnv] {
			continue
		}
		seen[b.CredentialEnv] = true
		names = append(names, b.CredentialEnv)
	}
	return names
}

// Registry is an immutable lookup of backends plus the credential snapshot
// taken at startup.
type Registry struct {
	backends    map[string]Backend
	defaultID   string
	credentials map[string]string
}

// New validates the backend set. The default id must be one of the backends.
func New(backends []Backend, defaultID string, credentials map[string]string) (*Registry, error) {
	if len(backends) == 0 {
		return nil, errors.New("registry: at least one backend required")
	}
	m := make(map[string]Backend, len(backends))
	for _, b := range backends {
		if b.ID == "" || b.EndpointURL == "" || b.ModelName == "" {
			return nil, fmt.Errorf("registry: incomplete backend %q", b.ID)
		}
		if _, dup := m[b.ID]; dup {
			return nil, fmt.Errorf("registry: duplicate backend %q", b.ID)
		}
		m[b.ID] = b
	}
	if _, ok := m[defaultID]; !ok {
		return nil, fmt.Errorf("registry: default backend %q is not registered", defaultID)
	}
	creds := make(map[string]string, len(credentials))
	for k, v := range credentials {
		creds[k] = v
	}
	return &Registry{backends: m, defaultID: defaultID, credentials: creds}, nil
}

// Resolve never fails: empty or unknown ids fall back to the default backend.
func (r *Registry) Resolve(id string) Backend {
	if b, ok := r.backends[id]; ok {
		return b
	}
	return r.backends[r.defaultID]
}

// Credential returns the configured credential for b.
func (r *Registry) Credential(b Backend) (string, error) {
	key, ok := r.credentials[b.CredentialEnv]
	if !ok || key == "" {
		return "", fmt.Errorf("%w: %s for backend %s", ErrMissingCredential, b.CredentialEnv, b.ID)
	}
	return key, nil
}

// Default returns the fallback backend.
func (r *Registry) Default() Backend {
	return r.backends[r.defaultID]
}

// Backends lists all backends sorted by id.
func (r *Registry) Backends() []Backend {
	out := make([]Backend, 0, len(r.backends))
	for _, b := range r.backends {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs lists backend ids sorted.
func (r *Registry) IDs() []string {
	bs := r.Backends()
	ids := make([]string, len(bs))
	for i, b := range bs {
		ids[i] = b.ID
	}
	return ids
}
