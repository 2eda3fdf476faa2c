package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret1" {
		t.Fatalf("expected hashed value, got plaintext")
	}

	ok, err := h.Verify("secret1", hash)
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}

	for _, wrong := range []string{"", "secret", "secret12", "SECRET1"} {
		ok, err := h.Verify(wrong, hash)
		if err != nil {
			t.Fatalf("verify %q: %v", wrong, err)
		}
		if ok {
			t.Fatalf("expected %q not to match", wrong)
		}
	}
}

func TestHasher_Salted(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatalf("expected distinct hashes for the same plaintext")
	}
}

func TestHasher_MalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	if _, err := h.Verify("x", "not-a-bcrypt-hash"); err == nil {
		t.Fatalf("expected error for malformed hash")
	}
}

func TestNewHasher_Cost(t *testing.T) {
	if got := NewHasher(0).Cost(); got != DefaultCost {
		t.Fatalf("expected default cost %d, got %d", DefaultCost, got)
	}
	if got := NewHasher(1).Cost(); got != bcrypt.MinCost {
		t.Fatalf("expected clamp to %d, got %d", bcrypt.MinCost, got)
	}
	if got := NewHasher(99).Cost(); got != bcrypt.MaxCost {
		t.Fatalf("expected clamp to %d, got %d", bcrypt.MaxCost, got)
	}

	hash, _ := NewHasher(bcrypt.MinCost + 1).Hash("pw")
	if cost, _ := bcrypt.Cost([]byte(hash)); cost != bcrypt.MinCost+1 {
		t.Fatalf("expected hash cost %d, got %d", bcrypt.MinCost+1, cost)
	}
}
