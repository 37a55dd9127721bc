package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vpsdeck/vpsdeck/lib/agent"
)

// stubAgent satisfies agent.Agent without implementing anything; the
// manager never invokes it.
type stubAgent struct{ agent.Agent }

func newManagerWithProvider(t *testing.T) *AccountManager {
	t.Helper()
	registry := NewRegistry()
	registry.Register(&fakeProvider{id: "fake", agent: stubAgent{}})
	return NewAccountManager(registry)
}

func TestAccountManagerAdd(t *testing.T) {
	m := newManagerWithProvider(t)

	acct, err := m.Add("fake", agent.Credential{Key: "key-1"})
	require.NoError(t, err)
	assert.Equal(t, "fake", acct.Provider)
	assert.NotEmpty(t, acct.Id)

	again, err := m.Add("fake", agent.Credential{Key: "key-1"})
	require.NoError(t, err)
	assert.Equal(t, acct.Id, again.Id, "same credential is idempotent")
	assert.Len(t, m.List(), 1)

	other, err := m.Add("fake", agent.Credential{Key: "key-2"})
	require.NoError(t, err)
	assert.NotEqual(t, acct.Id, other.Id)
}

func TestAccountManagerRejectsUnknownProvider(t *testing.T) {
	m := newManagerWithProvider(t)

	_, err := m.Add("nope", agent.Credential{Key: "key"})
	assert.Error(t, err)
	assert.Empty(t, m.List())
}

func TestAccountManagerExtraDistinguishesIds(t *testing.T) {
	m := newManagerWithProvider(t)

	a, err := m.Add("fake", agent.Credential{Key: "shared", Extra: "100"})
	require.NoError(t, err)
	b, err := m.Add("fake", agent.Credential{Key: "shared", Extra: "200"})
	require.NoError(t, err)

	assert.NotEqual(t, a.Id, b.Id, "extra part must feed the derivation")
}

func TestAccountManagerResolve(t *testing.T) {
	m := newManagerWithProvider(t)
	acct, err := m.Add("fake", agent.Credential{Key: "key-1"})
	require.NoError(t, err)

	resolved, ag, err := m.Resolve(context.Background(), acct.Id)
	require.NoError(t, err)
	assert.Equal(t, acct, resolved)
	assert.NotNil(t, ag)

	_, _, err = m.Resolve(context.Background(), "missing")
	assert.ErrorIs(t, err, agent.ErrNotFound)
}

func TestAccountManagerRemove(t *testing.T) {
	m := newManagerWithProvider(t)
	acct, err := m.Add("fake", agent.Credential{Key: "key-1"})
	require.NoError(t, err)

	require.NoError(t, m.Remove(acct.Id))
	assert.Empty(t, m.List())
	assert.ErrorIs(t, m.Remove(acct.Id), agent.ErrNotFound)
}
