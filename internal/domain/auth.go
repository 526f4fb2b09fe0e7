package domain

import (
	"fmt"
	"strings"
)

type Auth struct {
	// SecretRef points to a secret-store entry, typically in "discord://<account>/token" form.
	SecretRef string
}

const TokenSecretScheme = "discord"

func TokenSecretRef(id AccountID) string {
	return fmt.Sprintf("%s://%s/token", TokenSecretScheme, id)
}

// SecretPath turns a "scheme://a/b" ref into the relative path "scheme/a/b"
// used by path-based secret backends. Refs without a scheme pass through.
func SecretPath(ref string) string {
	scheme, rest, ok := strings.Cut(strings.TrimSpace(ref), "://")
	if !ok {
		return strings.TrimSpace(ref)
	}
	return scheme + "/" + strings.TrimLeft(rest, "/")
}
