// Package password hashes and verifies user passwords.
//
// New digests are bcrypt hashes with a per-record salt. Digests produced by
// the previous system (base64 SHA-256 over the password and a fixed suffix)
// are still accepted by Verify so imported accounts can log in; NeedsRehash
// tells the caller to replace them.
package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const legacySuffix = "MyAppSalt"

// MaxLength is the longest plaintext, in bytes, that bcrypt accepts.
const MaxLength = 72

// Cost is the bcrypt cost used for new digests.
var Cost = bcrypt.DefaultCost

// Fits reports whether plaintext can be hashed.
func Fits(plaintext string) bool {
	return len(plaintext) <= MaxLength
}

// Hash returns a salted bcrypt digest of plaintext.
func Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches digest.
func Verify(plaintext, digest string) bool {
	if digest == "" {
		return false
	}
	if isBcrypt(digest) {
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
	}
	expected := LegacyHash(plaintext)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(digest)) == 1
}

// NeedsRehash reports whether digest should be replaced by a fresh Hash.
func NeedsRehash(digest string) bool {
	if !isBcrypt(digest) {
		return true
	}
	cost, err := bcrypt.Cost([]byte(digest))
	return err != nil || cost < Cost
}

// LegacyHash is the deterministic digest format of the previous system.
// It is only used to verify imported rows.
func LegacyHash(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext + legacySuffix))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func isBcrypt(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") || strings.HasPrefix(digest, "$2b$") || strings.HasPrefix(digest, "$2y$")
}
