package common

import (
	"crypto/rand"
	"fmt"
)

// randRead is a test seam for crypto/rand.Read.
var randRead = rand.Read

// GenerateRandByteArray returns size bytes read from the operating system's
// secure random source. It never falls back to a weaker generator: a read
// failure is reported as ErrorRandomnessUnavailable.
func GenerateRandByteArray(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := randRead(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrorRandomnessUnavailable, err)
	}
	return b, nil
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// This is useful for removing passwords read from a terminal from memory
// after use.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
