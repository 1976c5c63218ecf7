package auth

import "testing"

func TestHashPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("pass1234")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "" || hash == "pass1234" {
		t.Fatalf("hash must be a non-empty derived value, got %q", hash)
	}

	if !VerifyPassword("pass1234", hash) {
		t.Error("correct password should verify")
	}
	if VerifyPassword("wrong", hash) {
		t.Error("wrong password should not verify")
	}
}

func TestHashPasswordSaltsPerCall(t *testing.T) {
	first, err := HashPassword("pass1234")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	second, err := HashPassword("pass1234")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password should differ by salt")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if VerifyPassword("pass1234", "not-a-bcrypt-hash") {
		t.Error("malformed hash should not verify")
	}
}
