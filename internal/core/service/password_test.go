package service

import "testing"

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	hasher := NewBcryptHasher()

	hash, err := hasher.Hash("Sup3rSecret")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "Sup3rSecret" {
		t.Fatalf("hash equals the plaintext")
	}

	if !hasher.Verify("Sup3rSecret", hash) {
		t.Fatalf("Verify rejected the correct password")
	}
	if hasher.Verify("WrongPass1", hash) {
		t.Fatalf("Verify accepted a wrong password")
	}
}

func TestBcryptHasher_MeetsStrengthPolicy(t *testing.T) {
	hasher := NewBcryptHasher()

	cases := []struct {
		password string
		want     bool
	}{
		{"Sup3rSecret", true},
		{"Short1A", false},    // under 8 characters
		{"alllowercase1", false}, // no uppercase
		{"NoDigitsHere", false},  // no digit
		{"", false},
	}
	for _, tc := range cases {
		if got := hasher.MeetsStrengthPolicy(tc.password); got != tc.want {
			t.Errorf("MeetsStrengthPolicy(%q) = %v, want %v", tc.password, got, tc.want)
		}
	}
}
