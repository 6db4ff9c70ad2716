package crypto

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPasswordAsBcrypt("admin123")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "admin123" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPasswordHash(hash, "admin123") {
		t.Error("correct password should verify")
	}
	if CheckPasswordHash(hash, "admin124") {
		t.Error("wrong password should not verify")
	}
}

func TestHashIsSalted(t *testing.T) {
	h1, err := HashPasswordAsBcrypt("secret")
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashPasswordAsBcrypt("secret")
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should differ")
	}
}
