package demographics

import (
	"crypto/sha256"
	"encoding/hex"
)

// Pseudonym returns the lowercase hex SHA-256 digest of value.
// The digest is unsalted so the same identifier always maps to the same
// pseudonym across runs and sites.
func Pseudonym(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:])
}
