// Package secret generates one-time connection secrets for workspaces.
package secret

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	// Alphabet is the set of characters a secret is drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// Length of a generated secret. 32 symbols over 62 give ~190 bits.
	Length = 32

	// maxByte is the largest multiple of len(Alphabet) not above 256.
	// Bytes at or above it are rejected so every symbol is equally likely.
	maxByte = 256 - 256%len(Alphabet)
)

// Source produces connection secrets.
type Source interface {
	Generate() (string, error)
}

// Generator draws secrets from a random byte stream.
type Generator struct {
	Rand io.Reader
}

// New returns a Generator backed by crypto/rand.
func New() *Generator {
	return &Generator{Rand: rand.Reader}
}

// Generate returns a fresh secret of Length symbols from Alphabet.
func (g *Generator) Generate() (string, error) {
	out := make([]byte, 0, Length)
	buf := make([]byte, Length*2)

	for len(out) < Length {
		if _, err := io.ReadFull(g.Rand, buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxByte {
				continue
			}
			out = append(out, Alphabet[int(b)%len(Alphabet)])
			if len(out) == Length {
				break
			}
		}
	}

	return string(out), nil
}

// Generate returns a fresh secret using crypto/rand.
func Generate() (string, error) {
	return New().Generate()
}

// Fixed always returns the same value. It exists for tests and dry runs
// that need a predictable redirect URL.
type Fixed string

func (f Fixed) Generate() (string, error) {
	return string(f), nil
}
