package crud

import (
	"crypto/rand"
	"encoding/base64"
)

// idBytes is the entropy of generated track and comment ids, 48 bits.
const idBytes = 6

// generateID returns a short URL-safe random token, the unpadded base64
// encoding of idBytes random bytes. Existing stored records use exactly
// this scheme, so it must not change.
func generateID() (string, error) {
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
