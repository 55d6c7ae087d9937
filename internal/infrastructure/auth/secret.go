// Package auth provides the concrete credential primitives: password
// generation, password hashing and session token signing.
package auth

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// PasswordAlphabet is the character set generated passwords are drawn from.
const PasswordAlphabet = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!@#$%^&*()-_=+[]{}"

var errInvalidLength = errors.New("secret length must be positive")

// SecretGenerator draws passwords uniformly from PasswordAlphabet using crypto/rand.
// It holds no mutable state and is safe for concurrent use.
type SecretGenerator struct {
	alphabet []byte
}

// NewSecretGenerator returns a generator over PasswordAlphabet.
func NewSecretGenerator() *SecretGenerator {
	return &SecretGenerator{alphabet: []byte(PasswordAlphabet)}
}

// Generate returns a random string of exactly length characters.
func (g *SecretGenerator) Generate(length int) (string, error) {
	if length < 1 {
		return "", errInvalidLength
	}

	max := big.NewInt(int64(len(g.alphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = g.alphabet[n.Int64()]
	}
	return string(out), nil
}
