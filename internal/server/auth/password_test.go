package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if !h.Verify("pw1", digest) {
		t.Fatalf("Verify(pw1, Hash(pw1)) = false, want true")
	}
	if h.Verify("pw2", digest) {
		t.Fatalf("Verify accepted a wrong password")
	}
}

func TestBcryptHasher_SaltedOutputsDiffer(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	b, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if a == b {
		t.Fatalf("two hashes of the same password are identical")
	}
	if !h.Verify("same-password", a) || !h.Verify("same-password", b) {
		t.Fatalf("both hashes must verify against the original password")
	}
}

func TestBcryptHasher_MalformedHashVerifiesFalse(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)
	if h.Verify("pw1", "not-a-bcrypt-hash") {
		t.Fatalf("Verify accepted a malformed stored hash")
	}
	if h.Verify("pw1", "") {
		t.Fatalf("Verify accepted an empty stored hash")
	}
}

func TestNewBcryptHasher_CostClamped(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(999)
	digest, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash error with clamped cost: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil {
		t.Fatalf("Cost error: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", cost)
	}
}
