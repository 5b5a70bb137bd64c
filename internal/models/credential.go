// Package models holds the persisted data types shared by the codec and the
// storage adapters.
package models

import (
	"encoding/json"
	"fmt"
)

// Credential is the stored form of one user's password: the KDF parameters
// it was derived with and the derived key itself. The plaintext password is
// never part of it.
//
// Salt and DerivedKey are raw bytes and must be persisted as bytes, not text.
type Credential struct {
	Username      string
	HashAlgorithm string
	Salt          []byte
	Rounds        int
	DerivedKey    []byte
}

// Clone returns a deep copy so callers cannot mutate a stored credential
// through a shared slice.
func (c *Credential) Clone() *Credential {
	if c == nil {
		return nil
	}
	out := *c
	out.Salt = append([]byte(nil), c.Salt...)
	out.DerivedKey = append([]byte(nil), c.DerivedKey...)
	return &out
}

// Document is the JSON storage form of a Credential. Field names follow the
// item layout used by the DynamoDB table. []byte fields are base64 encoded by
// encoding/json, so salt and key survive the round trip byte for byte.
type Document struct {
	Username string `json:"username"`
	Hash     string `json:"hash"`
	Salt     []byte `json:"salt"`
	Rounds   int    `json:"rounds"`
	Hashed   []byte `json:"hashed"`
}

// MarshalCredential serializes c into its JSON document.
func MarshalCredential(c *Credential) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("marshal credential: nil credential")
	}
	return json.Marshal(Document{
		Username: c.Username,
		Hash:     c.HashAlgorithm,
		Salt:     c.Salt,
		Rounds:   c.Rounds,
		Hashed:   c.DerivedKey,
	})
}

// UnmarshalCredential parses a JSON document produced by MarshalCredential.
func UnmarshalCredential(data []byte) (*Credential, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal credential: %w", err)
	}
	return &Credential{
		Username:      d.Username,
		HashAlgorithm: d.Hash,
		Salt:          d.Salt,
		Rounds:        d.Rounds,
		DerivedKey:    d.Hashed,
	}, nil
}
