package game

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"strconv"
)

// DerivePrefixBytes is the fixed digest prefix width used for outcomes. Four
// bytes give 2^32 equally likely values, normalized into [0,1).
const DerivePrefixBytes = 4

// Derive computes the uniform outcome for a round:
//
//	HMAC-SHA256(key = serverSeed, message = clientSeed + ":" + nonce)
//
// with the first 4 digest bytes read as a big-endian uint32 and divided by
// 2^32. Pure and deterministic: identical inputs always produce the identical
// float, across restarts.
func Derive(serverSeed, clientSeed string, nonce uint64) float64 {
	mac := hmac.New(sha256.New, []byte(serverSeed))
	mac.Write([]byte(clientSeed + ":" + strconv.FormatUint(nonce, 10)))
	sum := mac.Sum(nil)

	v := binary.BigEndian.Uint32(sum[:DerivePrefixBytes])
	return float64(v) / (1 << 32)
}
