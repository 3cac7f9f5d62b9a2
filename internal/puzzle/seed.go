package puzzle

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Seed derives the daily puzzle seed: hex-encoded SHA-256 of
// "<date>-<secret>". The digest keys the whole generation pipeline, so
// two devices holding the same secret derive identical puzzles without a
// server round-trip.
func Seed(date, secret string) string {
	sum := sha256.Sum256([]byte(date + "-" + secret))
	return hex.EncodeToString(sum[:])
}

// FallbackSeed is a non-cryptographic stand-in for Seed, kept for parity
// with client runtimes that lack a SHA-256 primitive. It is deterministic
// and collision-tolerant for this domain but not security-grade; prefer
// Seed wherever the digest is available.
func FallbackSeed(date, secret string) string {
	input := date + "-" + secret
	var h int32
	for _, c := range input {
		h = (h << 5) - h + c
	}
	if h < 0 {
		h = -h
	}
	hexed := fmt.Sprintf("%x", h)
	if pad := 64 - len(hexed); pad > 0 {
		hexed = strings.Repeat("0", pad) + hexed
	}
	return hexed[:64]
}
