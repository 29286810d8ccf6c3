// ABOUTME: Stable 16-hex-character identifier derivation via truncated SHA-256
// ABOUTME: Used for subscription GUIDs (from the feed URL) and item GUIDs (from the link)

package guid

import (
	"crypto/sha256"
	"encoding/hex"
)

// Length is the number of hex characters in a derived GUID.
const Length = 16

// Hash16 derives a stable identifier from any string: SHA-256 over the
// UTF-8 bytes, hex-encoded, truncated to 16 characters. Collisions at this
// truncation length are an accepted tradeoff; there is no handling for them.
func Hash16(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])[:Length]
}
