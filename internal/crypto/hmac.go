package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HMACHex returns the lowercase hex HMAC-SHA256 of data under key. Used both
// to address rows by name (the key hash) and, with the same master key, to
// seal the database file's integrity hash.
func HMACHex(key [32]byte, data []byte) string {
	mac := hmac.New(sha256.New, key[:])
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

// SHA256 returns the plain SHA-256 digest of data.
func SHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}
