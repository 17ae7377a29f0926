package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"unicode/utf8"
)

// NonceSize is the standard AES-GCM nonce length used for both name and
// value ciphertexts.
const NonceSize = 12

const tagSize = 16

// Encrypt seals plaintext under key with a freshly generated nonce and no
// associated data. The returned ciphertext has the 16-byte GCM tag appended.
func Encrypt(key [32]byte, plaintext string) (nonce []byte, ciphertext []byte, err error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce = make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("generate nonce: %w", err)
	}
	ciphertext = gcm.Seal(nil, nonce, []byte(plaintext), nil)
	return nonce, ciphertext, nil
}

// Decrypt opens a ciphertext (with its 16-byte tag appended) previously
// produced by Encrypt. diagHash, if non-empty, is included (truncated) in
// error messages for diagnostics; plaintext is never included.
func Decrypt(key [32]byte, nonce, ciphertext []byte, diagHash string) (string, error) {
	if len(ciphertext) < tagSize {
		return "", &DecryptError{Hash: truncateHash(diagHash), Reason: "ciphertext too short"}
	}
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	if len(nonce) != gcm.NonceSize() {
		return "", &DecryptError{Hash: truncateHash(diagHash), Reason: "invalid nonce length"}
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", &DecryptError{Hash: truncateHash(diagHash), Reason: "authentication failed"}
	}
	if !utf8.Valid(plaintext) {
		return "", &DecryptError{Hash: truncateHash(diagHash), Reason: "plaintext is not valid UTF-8"}
	}
	return string(plaintext), nil
}

func newGCM(key [32]byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("new aes cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return gcm, nil
}

func truncateHash(h string) string {
	if len(h) <= 16 {
		return h
	}
	return h[:16]
}

// DecryptError reports an AEAD decryption failure. It never carries
// plaintext; Hash is the first 16 characters of the row's key hash, for
// diagnostics only.
type DecryptError struct {
	Hash   string
	Reason string
}

func (e *DecryptError) Error() string {
	if e.Hash == "" {
		return "decrypt: " + e.Reason
	}
	return fmt.Sprintf("decrypt: %s (key_hash=%s…)", e.Reason, e.Hash)
}
