package source

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashText computes the content hash used by the preprocessor's
// hash-to-lines table: SHA-256 over the exact, unescaped literal value,
// hex encoded. Hashing the same value always yields the same key, so a
// consumer holding the text a model field was decoded from can recover the
// physical lines it occupied in the raw file.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
