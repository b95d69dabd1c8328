package services

import (
	"crypto/subtle"

	"github.com/ericman314/pinewood-server/internal/platform/apierr"
)

// SecretGuard gates the legacy endpoints that authenticate with a shared
// static secret instead of a bearer token. An empty secret rejects everything.
type SecretGuard struct {
	secret []byte
}

func NewSecretGuard(secret string) *SecretGuard {
	return &SecretGuard{secret: []byte(secret)}
}

func (g *SecretGuard) Check(given string) error {
	if g == nil || len(g.secret) == 0 || subtle.ConstantTimeCompare(g.secret, []byte(given)) != 1 {
		return apierr.SecretMismatch()
	}
	return nil
}
