// Package cryptox implements the password encoding scheme: PBKDF2 over an
// HMAC pseudorandom function, a per-credential random salt and a constant
// time check of the derived key.
package cryptox

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"hash"

	"github.com/dmitrijs2005/userkeeper/internal/common"
	"github.com/dmitrijs2005/userkeeper/internal/models"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultHashAlgorithm is the PRF digest used for new credentials.
	DefaultHashAlgorithm = "sha256"
	// DefaultRounds is the PBKDF2 iteration count used for new credentials.
	// Existing credentials keep the count they were created with.
	DefaultRounds = 100000
	// SaltSize is the length of a generated salt in bytes.
	SaltSize = 16
)

// digests maps a stored algorithm tag to its hash constructor. The derived
// key length is the digest size.
var digests = map[string]func() hash.Hash{
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// generateSalt is a test seam for the secure random source.
var generateSalt = func() ([]byte, error) {
	return common.GenerateRandByteArray(SaltSize)
}

// Encode derives a credential from password using the current defaults.
//
// When salt is empty (nil or zero length) a fresh SaltSize-byte salt is read
// from crypto/rand. If
// the random source fails the error wraps common.ErrorRandomnessUnavailable
// and no credential is returned. The returned credential has no Username;
// the caller assigns it before storing.
//
// Example:
//
//	cred, err := cryptox.Encode("correct horse", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ok := cryptox.Verify("correct horse", cred) // true
func Encode(password string, salt []byte) (*models.Credential, error) {
	if len(salt) == 0 {
		var err error
		salt, err = generateSalt()
		if err != nil {
			return nil, err
		}
	}

	key, ok := deriveKey(password, salt, DefaultHashAlgorithm, DefaultRounds)
	if !ok {
		// the defaults are always supported
		panic("cryptox: unsupported default hash algorithm")
	}

	return &models.Credential{
		HashAlgorithm: DefaultHashAlgorithm,
		Salt:          salt,
		Rounds:        DefaultRounds,
		DerivedKey:    key,
	}, nil
}

// Verify reports whether password matches the stored credential.
//
// The key is re-derived with the salt, round count and algorithm read from
// cred, never from the package defaults, so credentials created with older
// parameters keep verifying. A malformed credential yields false without
// saying why.
func Verify(password string, cred *models.Credential) bool {
	if cred == nil || len(cred.Salt) == 0 {
		return false
	}

	candidate, ok := deriveKey(password, cred.Salt, cred.HashAlgorithm, cred.Rounds)
	if !ok {
		return false
	}

	return constantTimeEqual(candidate, cred.DerivedKey)
}

func deriveKey(password string, salt []byte, algorithm string, rounds int) ([]byte, bool) {
	newHash, ok := digests[algorithm]
	if !ok || rounds <= 0 {
		return nil, false
	}
	keyLen := newHash().Size()
	return pbkdf2.Key([]byte(password), salt, rounds, keyLen, newHash), true
}

// constantTimeEqual compares candidate and stored over the full length of
// candidate even when the lengths differ. subtle.ConstantTimeCompare alone
// returns early on a length mismatch.
func constantTimeEqual(candidate, stored []byte) bool {
	padded := make([]byte, len(candidate))
	copy(padded, stored)

	same := subtle.ConstantTimeCompare(candidate, padded)
	sameLen := subtle.ConstantTimeEq(int32(len(candidate)), int32(len(stored)))

	return same&sameLen == 1
}
