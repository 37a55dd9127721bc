package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPublicKey = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIAABAgMEBQYHCAkKCwwNDg8QERITFBUWFxgZGhscHR4f test@example"

func TestFingerprint(t *testing.T) {
	fp, err := Fingerprint(testPublicKey)
	require.NoError(t, err)
	assert.Equal(t, "0f:a2:0a:d7:38:3e:65:45:08:6b:63:84:1c:ff:dc:ba", fp)

	// Computed locally, so surrounding whitespace must not matter.
	again, err := Fingerprint("  " + testPublicKey + "\n")
	require.NoError(t, err)
	assert.Equal(t, fp, again)
}

func TestFingerprintRejectsGarbage(t *testing.T) {
	_, err := Fingerprint("not a key")
	assert.Error(t, err)
}
