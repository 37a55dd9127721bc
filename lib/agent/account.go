package agent

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Credential is the vendor credential an adapter is constructed from.
// Key is the API key or access token; Extra carries vendor-specific
// parts (Bandwagon packs the VEID in front of the key, DigitalOcean
// uses a bare token).
type Credential struct {
	Key   string `json:"key"`
	Extra string `json:"extra,omitempty"`
}

// Account binds a derived account id to the provider and credential it
// came from. It is what the registry resolves agents for.
type Account struct {
	Id         string     `json:"id"`
	Provider   string     `json:"provider"`
	Credential Credential `json:"-"`
}

// AccountId derives the stable account id for a credential: an
// HMAC-SHA-256 keyed by the provider id over the vendor-prefixed
// credential, hex-truncated. The same credential always yields the
// same id. A credential literally equal to the provider id is the
// vendor's shared/default singleton account and keeps the provider id
// as its own id.
func AccountId(provider, credential string) string {
	if credential == provider {
		return provider
	}
	mac := hmac.New(sha256.New, []byte(provider))
	mac.Write([]byte(provider + ":" + credential))
	return hex.EncodeToString(mac.Sum(nil))[:32]
}
