package agent

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

// Fingerprint computes the legacy MD5 fingerprint (hex octets joined by
// colons) of an OpenSSH public key. Vendors that return fingerprints
// are not trusted for this; the value is always derivable locally from
// the key material itself.
func Fingerprint(publicKey string) (string, error) {
	key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(strings.TrimSpace(publicKey)))
	if err != nil {
		return "", fmt.Errorf("parse public key: %w", err)
	}
	// FingerprintLegacyMD5 returns the colon-joined hex form directly.
	return ssh.FingerprintLegacyMD5(key), nil
}
