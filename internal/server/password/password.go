// Package password implements deterministic salted password hashing for
// credential verification. Hashing is one-way (argon2id); verification
// recomputes the digest with the stored salt and compares in constant time.
package password

import (
	"crypto/subtle"
	"encoding/hex"

	"github.com/dmitrijs2005/qaboard/internal/common"
	"github.com/dmitrijs2005/qaboard/internal/server/apperr"
	"golang.org/x/crypto/argon2"
)

const saltSize = 32

// argon2id parameters: time=1, memory=64MiB, threads=4, keyLen=32.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

type Hasher struct{}

func NewHasher() *Hasher {
	return &Hasher{}
}

// Hash derives a hex-encoded digest from plaintext and salt. The same
// inputs always yield the same digest. Empty plaintext or salt is rejected
// with apperr.ErrInvalidInput.
func (h *Hasher) Hash(plaintext string, salt []byte) (string, error) {
	if plaintext == "" || len(salt) == 0 {
		return "", apperr.ErrInvalidInput
	}
	digest := argon2.IDKey([]byte(plaintext), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return hex.EncodeToString(digest), nil
}

// NewSalt returns a fresh unpredictable salt for a new credential.
func (h *Hasher) NewSalt() []byte {
	return common.GenerateRandByteArray(saltSize)
}

// Verify recomputes the digest for candidate under salt and compares it to
// the stored digest in constant time.
func (h *Hasher) Verify(candidate string, salt []byte, storedDigest string) (bool, error) {
	digest, err := h.Hash(candidate, salt)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(digest), []byte(storedDigest)) == 1, nil
}
