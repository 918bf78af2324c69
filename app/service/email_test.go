package service

import "testing"

func TestCanonicalizeEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"alice@example.com", "alice@example.com"},
		{"Alice@Example.COM", "alice@example.com"},
		{"  alice@example.com  ", "alice@example.com"},
		{"ALICE+tag@example.com", "alice+tag@example.com"},
	}

	for _, tc := range cases {
		if got := CanonicalizeEmail(tc.in); got != tc.want {
			t.Fatalf("CanonicalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
