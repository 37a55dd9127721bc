package provider

import (
	"fmt"
	"sync"

	"github.com/vpsdeck/vpsdeck/lib/agent"
)

// Registry is the process-wide provider table. It is constructed
// explicitly and handed to whatever composes the app rather than
// living as a module global; registration happens once at startup,
// before any lookup, and there is no teardown.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	order     []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register inserts or overwrites by provider id. Idempotent;
// registering the same id twice leaves only the later descriptor
// resolvable.
func (r *Registry) Register(p Provider) {
	if p == nil {
		panic("provider: Register called with nil provider")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.providers[p.Id()]; !dup {
		r.order = append(r.order, p.Id())
	}
	r.providers[p.Id()] = p
}

// Provider resolves a descriptor by id.
func (r *Registry) Provider(id string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[id]
	if !ok {
		return nil, fmt.Errorf("provider %s not registered", id)
	}
	return p, nil
}

// Providers returns a snapshot in registration order.
func (r *Registry) Providers() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Provider, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.providers[id])
	}
	return out
}

// Routes merges every provider's route map into one flat table.
// Later registrations win on name collision, which is acceptable only
// because providers prefix their route names by convention.
func (r *Registry) Routes() map[string]Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	merged := make(map[string]Route)
	for _, id := range r.order {
		for name, route := range r.providers[id].Routes() {
			merged[name] = route
		}
	}
	return merged
}

// AgentFor resolves the active agent for an account: looks up the
// account's provider and constructs the per-credential facade.
func (r *Registry) AgentFor(acct agent.Account) (agent.Agent, error) {
	p, err := r.Provider(acct.Provider)
	if err != nil {
		return nil, err
	}
	a, err := p.NewAgent(acct.Credential)
	if err != nil {
		return nil, fmt.Errorf("construct %s agent: %w", acct.Provider, err)
	}
	return a, nil
}
