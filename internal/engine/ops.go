package engine

import (
	"sort"
	"time"

	"github.com/wgtechlabs/secrets-engine/internal/apperrors"
	"github.com/wgtechlabs/secrets-engine/internal/crypto"
	"github.com/wgtechlabs/secrets-engine/internal/glob"
	"github.com/wgtechlabs/secrets-engine/internal/seal"
)

// Get returns the decrypted value for name, and whether it was found.
func (e *Engine) Get(name string) (string, bool, error) {
	e.requireOpen()

	keyHash := crypto.HMACHex(e.masterKey, []byte(name))
	row, err := e.store.FindByHash(keyHash)
	if err != nil {
		return "", false, err
	}
	if row == nil {
		return "", false, nil
	}
	value, err := crypto.Decrypt(e.masterKey, row.IV, row.Cipher, keyHash)
	if err != nil {
		return "", false, &apperrors.DecryptionError{HashPrefix: truncate(keyHash), Err: err}
	}
	return value, true, nil
}

// GetOrThrow is Get, raising KeyNotFoundError instead of returning false.
func (e *Engine) GetOrThrow(name string) (string, error) {
	value, ok, err := e.Get(name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &apperrors.KeyNotFoundError{Name: name}
	}
	return value, nil
}

// Set encrypts and upserts name/value, then re-seals without checkpointing.
func (e *Engine) Set(name, value string) error {
	e.requireOpen()

	keyHash := crypto.HMACHex(e.masterKey, []byte(name))

	nameNonce, nameCT, err := crypto.Encrypt(e.masterKey, name)
	if err != nil {
		return err
	}
	valueNonce, valueCT, err := crypto.Encrypt(e.masterKey, value)
	if err != nil {
		return err
	}
	keyEnc := append(append([]byte{}, nameNonce...), nameCT...)

	now := time.Now().Unix()
	if err := e.store.Upsert(keyHash, keyEnc, valueNonce, valueCT, now); err != nil {
		return err
	}
	e.nameIndex[keyHash] = name

	return seal.UpdateOnMutation(e.masterKey, e.store, e.salt, e.writeMeta)
}

// Has reports whether name exists, via the in-memory index only, with no
// disk access and no decryption.
func (e *Engine) Has(name string) bool {
	e.requireOpen()

	keyHash := crypto.HMACHex(e.masterKey, []byte(name))
	_, ok := e.nameIndex[keyHash]
	return ok
}

// Delete removes name, reporting whether it existed.
func (e *Engine) Delete(name string) (bool, error) {
	e.requireOpen()

	keyHash := crypto.HMACHex(e.masterKey, []byte(name))
	deleted, err := e.store.DeleteByHash(keyHash)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}
	delete(e.nameIndex, keyHash)

	if err := seal.UpdateOnMutation(e.masterKey, e.store, e.salt, e.writeMeta); err != nil {
		return false, err
	}
	return true, nil
}

// Keys returns the sorted names matching pattern ("" matches everything).
func (e *Engine) Keys(pattern string) ([]string, error) {
	e.requireOpen()

	names := make([]string, 0, len(e.nameIndex))
	for _, name := range e.nameIndex {
		names = append(names, name)
	}

	if pattern != "" {
		re, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		filtered := names[:0]
		for _, name := range names {
			if re.MatchString(name) {
				filtered = append(filtered, name)
			}
		}
		names = filtered
	}

	sort.Strings(names)
	return names, nil
}

// Size returns the number of entries in the in-memory name index.
func (e *Engine) Size() int {
	e.requireOpen()
	return len(e.nameIndex)
}
