package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hashed == "correct horse battery" {
		t.Fatal("password stored in plaintext")
	}

	if !CheckPassword(hashed, "correct horse battery") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hashed, "wrong password") {
		t.Fatal("wrong password accepted")
	}
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	a, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password should differ")
	}
}
