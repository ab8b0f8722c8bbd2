package test

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/blinklabs-io/cryptcards/identity"
)

// DecodeHexString is a helper function for tests that decodes hex strings. It doesn't return
// an error value, which makes it usable inline.
func DecodeHexString(hexData string) []byte {
	// Strip off any leading/trailing whitespace in hex string
	hexData = strings.TrimSpace(hexData)
	decoded, err := hex.DecodeString(hexData)
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// MockTxHash returns a realistic-length, unique transaction identifier for the given id
func MockTxHash(id int) string {
	return fmt.Sprintf(
		"%dMockTxHash%06dabcdef1234567890abcdef1234567890abcdef1234567890%d",
		id,
		id,
		id%10,
	)
}

// MockAddress returns a stable identity derived from a label, e.g. "alice"
func MockAddress(label string) identity.Address {
	return identity.Address(sha256.Sum256([]byte("test-identity:" + label)))
}

// MockNarrationHash returns the SHA-256 digest of text
func MockNarrationHash(text string) [32]byte {
	return sha256.Sum256([]byte(text))
}
