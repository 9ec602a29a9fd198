package secret

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestGenerate_LengthAndAlphabet(t *testing.T) {
	for i := 0; i < 1000; i++ {
		s, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		if len(s) != Length {
			t.Fatalf("len(Generate()) = %d, want %d", len(s), Length)
		}
		for _, c := range s {
			if !strings.ContainsRune(Alphabet, c) {
				t.Fatalf("Generate() = %q contains %q outside the alphabet", s, c)
			}
		}
	}
}

func TestGenerate_Unique(t *testing.T) {
	const trials = 10000
	seen := make(map[string]struct{}, trials)

	for i := 0; i < trials; i++ {
		s, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		if _, dup := seen[s]; dup {
			t.Fatalf("duplicate secret after %d trials: %s", i, s)
		}
		seen[s] = struct{}{}
	}
}

func TestGenerate_CoversAlphabet(t *testing.T) {
	counts := make(map[rune]int)
	for i := 0; i < 2000; i++ {
		s, err := Generate()
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range s {
			counts[c]++
		}
	}

	// 64000 draws over 62 symbols: every symbol is expected ~1032 times.
	for _, c := range Alphabet {
		if counts[c] < 700 {
			t.Errorf("symbol %q drawn %d times, distribution looks skewed", c, counts[c])
		}
	}
}

func TestGenerator_RejectsBiasedBytes(t *testing.T) {
	// 0xF8..0xFF are at or above maxByte and must be skipped.
	stream := append(bytes.Repeat([]byte{0xFF}, Length*2), bytes.Repeat([]byte{0}, Length*2)...)
	g := &Generator{Rand: bytes.NewReader(stream)}

	s, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if s != strings.Repeat("A", Length) {
		t.Errorf("Generate() = %q, want all 'A'", s)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestGenerator_ReadError(t *testing.T) {
	g := &Generator{Rand: failingReader{}}
	if _, err := g.Generate(); err == nil {
		t.Error("Generate() should fail when the random source fails")
	}
}

func TestFixed(t *testing.T) {
	var src Source = Fixed("abc123")
	s, err := src.Generate()
	if err != nil || s != "abc123" {
		t.Errorf("Fixed.Generate() = %q, %v", s, err)
	}
}
