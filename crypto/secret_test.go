package crypto

import (
	"strings"
	"testing"
)

func testArgon2() *Argon2 {
	// Low-cost parameters for test speed only
	return &Argon2{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestArgon2_HashAndVerify(t *testing.T) {
	hasher := testArgon2()

	hash, err := hasher.Hash("client-secret")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("Hash() = %q, want argon2id encoding", hash)
	}

	ok, err := hasher.Verify("client-secret", hash)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !ok {
		t.Error("Verify() = false for the right secret")
	}

	ok, err = hasher.Verify("wrong-secret", hash)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if ok {
		t.Error("Verify() = true for the wrong secret")
	}
}

func TestArgon2_HashesAreSalted(t *testing.T) {
	hasher := testArgon2()
	first, err := hasher.Hash("client-secret")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := hasher.Hash("client-secret")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if first == second {
		t.Error("two hashes of the same secret are identical, salt missing")
	}
}

func TestArgon2_VerifyRejectsMalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{name: "empty", hash: ""},
		{name: "not a hash", hash: "plaintext"},
		{name: "wrong algorithm", hash: "$bcrypt$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA"},
		{name: "truncated", hash: "$argon2id$v=19$m=8192,t=1"},
		{name: "bad salt encoding", hash: "$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA"},
	}

	hasher := testArgon2()
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if _, err := hasher.Verify("secret", test.hash); err == nil {
				t.Error("Verify() accepted a malformed hash")
			}
		})
	}
}
