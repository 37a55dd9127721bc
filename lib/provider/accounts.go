package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/vpsdeck/vpsdeck/lib/agent"
)

// AccountManager tracks the credentials the process knows about and the
// agent built for each one. Agents are stateless, so one cached agent
// per account is safe to share across requests.
type AccountManager struct {
	registry *Registry

	mu       sync.RWMutex
	accounts map[string]agent.Account
	agents   map[string]agent.Agent
	order    []string
}

func NewAccountManager(registry *Registry) *AccountManager {
	return &AccountManager{
		registry: registry,
		accounts: make(map[string]agent.Account),
		agents:   make(map[string]agent.Agent),
	}
}

// Add registers a credential under its derived account id and builds
// the agent for it. Adding the same credential twice is idempotent and
// returns the existing account.
func (m *AccountManager) Add(providerId string, cred agent.Credential) (agent.Account, error) {
	if _, err := m.registry.Provider(providerId); err != nil {
		return agent.Account{}, err
	}

	// Fold the secondary credential part into the derivation so two
	// accounts on the same vendor key material get distinct ids.
	material := cred.Key
	if cred.Extra != "" {
		material = cred.Extra + ":" + cred.Key
	}
	id := agent.AccountId(providerId, material)

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.accounts[id]; ok {
		return existing, nil
	}

	acct := agent.Account{Id: id, Provider: providerId, Credential: cred}
	a, err := m.registry.AgentFor(acct)
	if err != nil {
		return agent.Account{}, err
	}

	m.accounts[id] = acct
	m.agents[id] = a
	m.order = append(m.order, id)
	return acct, nil
}

// List returns a snapshot in insertion order.
func (m *AccountManager) List() []agent.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]agent.Account, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.accounts[id])
	}
	return out
}

func (m *AccountManager) Get(id string) (agent.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	acct, ok := m.accounts[id]
	if !ok {
		return agent.Account{}, fmt.Errorf("account %s: %w", id, agent.ErrNotFound)
	}
	return acct, nil
}

func (m *AccountManager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; !ok {
		return fmt.Errorf("account %s: %w", id, agent.ErrNotFound)
	}
	delete(m.accounts, id)
	delete(m.agents, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Resolve returns the account and its cached agent. Satisfies the API
// middleware's account resolver.
func (m *AccountManager) Resolve(ctx context.Context, id string) (agent.Account, agent.Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	acct, ok := m.accounts[id]
	if !ok {
		return agent.Account{}, nil, fmt.Errorf("account %s: %w", id, agent.ErrNotFound)
	}
	return acct, m.agents[id], nil
}

// Agents returns every cached agent keyed by account id, for fan-out
// reads across all accounts.
func (m *AccountManager) Agents() map[string]agent.Agent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]agent.Agent, len(m.agents))
	for id, a := range m.agents {
		out[id] = a
	}
	return out
}
