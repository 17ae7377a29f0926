package crypto

import (
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// scrypt cost parameters fixed by the on-disk format. N=2^17 needs roughly
// 128 MiB of working memory (128*N*r bytes), allocated on every call;
// scrypt.Key applies no memory ceiling of its own and returns an error only
// for parameters it rejects as malformed or too large.
const (
	scryptN      = 1 << 17
	scryptR      = 8
	scryptP      = 1
	masterKeyLen = 32
)

// DeriveMasterKey derives the 32-byte master key from the machine identity
// string and keyfile bytes (concatenated into the scrypt password) and the
// store's salt.
func DeriveMasterKey(machineID []byte, keyfile []byte, salt []byte) ([32]byte, error) {
	var key [32]byte
	password := make([]byte, 0, len(machineID)+len(keyfile))
	password = append(password, machineID...)
	password = append(password, keyfile...)
	defer Zero(password)

	derived, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, masterKeyLen)
	if err != nil {
		return key, fmt.Errorf("derive master key: %w", err)
	}
	defer Zero(derived)
	copy(key[:], derived)
	return key, nil
}
