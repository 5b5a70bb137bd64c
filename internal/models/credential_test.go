package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCredential_RoundTripKeepsRawBytes(t *testing.T) {
	// bytes that are not valid UTF-8 and include NUL
	salt := []byte{0x00, 0xff, 0xfe, 0x80, 0x0a, 0x22, 0x5c, 0x00, 0xc3, 0x28, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(255 - i*7)
	}

	in := &Credential{Username: "alice", HashAlgorithm: "sha256", Salt: salt, Rounds: 100000, DerivedKey: key}

	data, err := MarshalCredential(in)
	require.NoError(t, err)

	out, err := UnmarshalCredential(data)
	require.NoError(t, err)

	assert.Equal(t, in, out)
	assert.Equal(t, salt, out.Salt)
	assert.Equal(t, key, out.DerivedKey)
}

func TestMarshalCredential_Nil(t *testing.T) {
	_, err := MarshalCredential(nil)
	require.Error(t, err)
}

func TestUnmarshalCredential_Invalid(t *testing.T) {
	_, err := UnmarshalCredential([]byte("{not json"))
	require.Error(t, err)

	// salt must be base64, not arbitrary text
	_, err = UnmarshalCredential([]byte(`{"username":"a","salt":"%%%"}`))
	require.Error(t, err)
}

func TestCredential_CloneIsDeep(t *testing.T) {
	c := &Credential{Username: "alice", Salt: []byte{1, 2}, DerivedKey: []byte{3, 4}}
	cp := c.Clone()
	cp.Salt[0] = 9
	cp.DerivedKey[0] = 9

	assert.Equal(t, byte(1), c.Salt[0])
	assert.Equal(t, byte(3), c.DerivedKey[0])
	assert.Nil(t, (*Credential)(nil).Clone())
}
