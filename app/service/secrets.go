package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// GenerateResetSecret produces a 256-bit random secret and the sha256 digest
// under which it is stored. Only the digest is ever persisted; a leaked
// database row cannot be replayed as a reset token.
func GenerateResetSecret() (rawSecret, digest string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}

	rawSecret = hex.EncodeToString(buf)
	return rawSecret, HashResetSecret(rawSecret), nil
}

func HashResetSecret(rawSecret string) string {
	sum := sha256.Sum256([]byte(rawSecret))
	return hex.EncodeToString(sum[:])
}

func resetSecretMatches(rawSecret, digest string) bool {
	computed := HashResetSecret(rawSecret)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}
