package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"fairhouse/config"
)

// GenerateServerSeed draws a fresh server seed from the OS entropy source and
// returns it alongside its public sha256 commitment. A failing entropy source
// is a hard error; there is no fallback to weaker randomness.
func GenerateServerSeed() (seed string, hash string, err error) {
	buf := make([]byte, config.ServerSeedBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("secure randomness unavailable: %w", err)
	}

	seed = hex.EncodeToString(buf)
	return seed, HashSeed(seed), nil
}

// GenerateClientSeed draws a random default client seed for users that never
// set one.
func GenerateClientSeed() (string, error) {
	buf := make([]byte, config.DefaultClientSeedBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("secure randomness unavailable: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashSeed computes the public commitment for a seed plaintext.
func HashSeed(seed string) string {
	h := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(h[:])
}

// VerifySeed reports whether a revealed seed matches its published commitment.
func VerifySeed(seed, hash string) bool {
	computed := HashSeed(seed)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}
