package service

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
	digest, err := hashPassword("secret1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if !verifyPassword("secret1", digest) {
		t.Fatalf("expected original password to verify")
	}
	if verifyPassword("secret2", digest) {
		t.Fatalf("expected mutated password to fail verification")
	}
	if verifyPassword("Secret1", digest) {
		t.Fatalf("expected case-mutated password to fail verification")
	}
	if verifyPassword("secret1 ", digest) {
		t.Fatalf("expected padded password to fail verification")
	}
}

func TestVerifyPasswordMalformedDigest(t *testing.T) {
	if verifyPassword("secret1", "not-a-bcrypt-digest") {
		t.Fatalf("expected malformed digest to fail verification")
	}
	if verifyPassword("secret1", "") {
		t.Fatalf("expected empty digest to fail verification")
	}
}

func TestHashPasswordDefaultsCost(t *testing.T) {
	digest, err := hashPassword("secret1", 0)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil {
		t.Fatalf("cost inspection failed: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost %d, got %d", bcrypt.DefaultCost, cost)
	}
}
