package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountIdDeterministic(t *testing.T) {
	first := AccountId("vultr", "some-api-key")
	second := AccountId("vultr", "some-api-key")
	assert.Equal(t, first, second, "same credential must always derive the same id")
	assert.Len(t, first, 32)
}

func TestAccountIdScopedToProvider(t *testing.T) {
	assert.NotEqual(t,
		AccountId("vultr", "key"),
		AccountId("digitalocean", "key"),
		"identical keys on different vendors are different accounts")
}

func TestAccountIdSharedSentinel(t *testing.T) {
	// A credential equal to the provider id is the shared/default
	// singleton account and keeps the provider id as its own id.
	assert.Equal(t, "vultr", AccountId("vultr", "vultr"))
	assert.NotEqual(t, "vultr", AccountId("vultr", "vultr2"))
}
