package random

import (
	"testing"
)

func TestSeqLength(t *testing.T) {
	for _, n := range []int{0, 1, 16, 32} {
		if got := len(Seq(n)); got != n {
			t.Errorf("len(Seq(%d)) = %d", n, got)
		}
	}
}

func TestHex(t *testing.T) {
	token := Hex(32)
	if len(token) != 64 {
		t.Fatalf("Hex(32) length = %d, want 64", len(token))
	}
	for _, r := range token {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			t.Fatalf("Hex(32) contains non-hex rune %q", r)
		}
	}
}

func TestHexUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := Hex(32)
		if seen[token] {
			t.Fatal("Hex(32) produced a duplicate token")
		}
		seen[token] = true
	}
}
