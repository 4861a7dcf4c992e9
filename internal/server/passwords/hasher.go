// Package passwords hashes and verifies user passwords. Encoded hashes are
// self-describing (algorithm and cost live in the string), so a stored hash
// stays verifiable after the configured algorithm or cost changes.
package passwords

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// MaxPasswordLength is the longest password bcrypt can hash, in bytes.
// Both algorithms share it so switching algorithm never strands a password.
const MaxPasswordLength = 72

var (
	ErrEmptyPassword = errors.New("password cannot be empty")
	ErrInvalidHash   = errors.New("invalid password hash")
)

// Hasher produces and checks encoded password hashes.
type Hasher interface {
	// Hash returns the encoded hash of password using a fresh random salt.
	Hash(password string) (string, error)

	// Verify reports whether password matches encoded. A mismatch is
	// (false, nil); an unparseable hash is an error.
	Verify(password, encoded string) (bool, error)

	// NeedsRehash reports whether encoded was produced with a different
	// algorithm or cost than this hasher is configured for.
	NeedsRehash(encoded string) bool
}

// New returns the hasher for algorithm. cost is the bcrypt cost for
// "bcrypt" and the argon2 time parameter for "argon2id".
func New(algorithm string, cost int) (Hasher, error) {
	switch strings.ToLower(algorithm) {
	case "", AlgorithmBcrypt:
		return NewBcryptHasher(cost)
	case AlgorithmArgon2id:
		return NewArgon2idHasher(uint32(cost))
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q", algorithm)
	}
}

// verifyEncoded picks the algorithm from the encoded prefix.
func verifyEncoded(password, encoded string) (bool, error) {
	switch {
	case isBcrypt(encoded):
		return verifyBcrypt(password, encoded)
	case isArgon2id(encoded):
		return verifyArgon2id(password, encoded)
	default:
		return false, ErrInvalidHash
	}
}

// DummyHash hashes a random throwaway secret with h. Verifying against it
// costs the same as verifying against a real hash and never succeeds.
func DummyHash(h Hasher) (string, error) {
	secret, err := common.MakeRandHexString(32)
	if err != nil {
		return "", fmt.Errorf("dummy secret: %w", err)
	}
	return h.Hash(secret)
}
