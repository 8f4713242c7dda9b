package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", encoded)
	}

	if !Verify("s3cret-pass", encoded) {
		t.Fatal("expected password to verify")
	}
	if Verify("wrong-pass", encoded) {
		t.Fatal("expected wrong password to fail")
	}
}

func TestHashUniqueSalt(t *testing.T) {
	a, err := Hash("same")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := Hash("same")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct hashes for the same password")
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=x,t=1,p=4$c2FsdA$aGFzaA",
	}
	for _, encoded := range cases {
		if Verify("anything", encoded) {
			t.Fatalf("expected malformed hash to fail: %q", encoded)
		}
	}
}
