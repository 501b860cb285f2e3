package auth

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	digest, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}

	if digest == "correct horse battery staple" {
		t.Fatal("HashPassword() returned the plaintext")
	}

	if !VerifyPassword(digest, "correct horse battery staple") {
		t.Error("VerifyPassword() rejected the correct password")
	}

	if VerifyPassword(digest, "wrong password") {
		t.Error("VerifyPassword() accepted a wrong password")
	}
}

func TestPasswordHashesAreSalted(t *testing.T) {
	first, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}
	second, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}

	if first == second {
		t.Error("two hashes of the same password are identical, expected per-hash salt")
	}
}
