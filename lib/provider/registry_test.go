package provider

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vpsdeck/vpsdeck/lib/agent"
)

// fakeProvider is a minimal descriptor for registry tests.
type fakeProvider struct {
	id     string
	name   string
	routes map[string]Route
	agent  agent.Agent
}

func (f *fakeProvider) Id() string          { return f.id }
func (f *fakeProvider) Name() string        { return f.name }
func (f *fakeProvider) Logo() string        { return f.id + ".png" }
func (f *fakeProvider) Description() string { return "fake " + f.id }
func (f *fakeProvider) Features() []Feature { return []Feature{FeatureSnapshots} }

func (f *fakeProvider) NewAgent(cred agent.Credential) (agent.Agent, error) {
	if f.agent == nil {
		return nil, fmt.Errorf("no agent configured")
	}
	return f.agent, nil
}

func (f *fakeProvider) Routes() map[string]Route { return f.routes }

func (f *fakeProvider) Actions(inst *agent.Instance, deps ActionDeps) []Action { return nil }

func (f *fakeProvider) Component(name string) (*Component, error) {
	return nil, fmt.Errorf("component %q: %w", name, agent.ErrNotImplemented)
}

func TestRegisterOverwritesById(t *testing.T) {
	r := NewRegistry()
	first := &fakeProvider{id: "vultr", name: "first"}
	second := &fakeProvider{id: "vultr", name: "second"}

	r.Register(first)
	r.Register(second)

	got, err := r.Provider("vultr")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Name(), "later registration wins")
	assert.Len(t, r.Providers(), 1)
}

func TestProviderUnregistered(t *testing.T) {
	r := NewRegistry()
	_, err := r.Provider("nope")
	assert.Error(t, err)
}

func TestProvidersKeepsRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeProvider{id: "b"})
	r.Register(&fakeProvider{id: "a"})
	r.Register(&fakeProvider{id: "c"})

	ids := make([]string, 0, 3)
	for _, p := range r.Providers() {
		ids = append(ids, p.Id())
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestRoutesMergeLastWriteWins(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeProvider{id: "one", routes: map[string]Route{
		"deploy": {Name: "deploy", Screen: "OneDeploy"},
		"one.x":  {Name: "one.x", Screen: "OneX"},
	}})
	r.Register(&fakeProvider{id: "two", routes: map[string]Route{
		"deploy": {Name: "deploy", Screen: "TwoDeploy"},
	}})

	routes := r.Routes()
	assert.Equal(t, "TwoDeploy", routes["deploy"].Screen)
	assert.Equal(t, "OneX", routes["one.x"].Screen)
}

func TestAgentForUnknownProvider(t *testing.T) {
	r := NewRegistry()
	_, err := r.AgentFor(agent.Account{Id: "x", Provider: "ghost"})
	assert.Error(t, err)
}

func TestRegisterNilPanics(t *testing.T) {
	r := NewRegistry()
	assert.Panics(t, func() { r.Register(nil) })
}

func TestHasFeature(t *testing.T) {
	p := &fakeProvider{id: "x"}
	assert.True(t, HasFeature(p, FeatureSnapshots))
	assert.False(t, HasFeature(p, FeatureDeploy))
}
