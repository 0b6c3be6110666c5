package hasher

import "testing"

func TestHash_Deterministic(t *testing.T) {
	in := "refresh-token"
	if Hash(in) != Hash(in) {
		t.Fatal("hash must be deterministic")
	}
}

func TestHash_KnownVector(t *testing.T) {
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got := Hash("hello"); got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestVerify(t *testing.T) {
	stored := Hash("token-a")
	if !Verify("token-a", stored) {
		t.Error("matching token rejected")
	}
	if Verify("token-b", stored) {
		t.Error("different token accepted")
	}
	if Verify("token-a", "") {
		t.Error("empty hash accepted")
	}
}

func BenchmarkHash(b *testing.B) {
	in := "some reasonably sized input"
	for b.Loop() {
		_ = Hash(in)
	}
}
