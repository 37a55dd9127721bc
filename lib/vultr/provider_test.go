package vultr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vpsdeck/vpsdeck/lib/agent"
)

func TestComponentLookup(t *testing.T) {
	p := NewProvider(nil, nil)

	c, err := p.Component("snapshots")
	require.NoError(t, err)
	assert.Equal(t, "VultrSnapshots", c.Screen)

	_, err = p.Component("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, agent.ErrNotImplemented)
	assert.Contains(t, err.Error(), "nope")
}
