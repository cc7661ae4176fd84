package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := hex.EncodeToString(bytes.Repeat([]byte{0x42}, 32))
	service, err := New(key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plain := []byte("0001-2345-6789")
	sealed, err := service.Encrypt(plain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytes.Equal(sealed, plain) {
		t.Fatal("ciphertext must differ from plaintext")
	}

	opened, err := service.Decrypt(sealed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(opened, plain) {
		t.Fatalf("expected %q, got %q", plain, opened)
	}
}

func TestUnconfiguredPassthrough(t *testing.T) {
	service, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if service.Configured() {
		t.Fatal("empty key must leave the service unconfigured")
	}
	out, err := service.Encrypt([]byte("plain"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "plain" {
		t.Fatalf("expected passthrough, got %q", out)
	}
}

func TestRejectsShortKey(t *testing.T) {
	if _, err := New(hex.EncodeToString([]byte("short"))); err == nil {
		t.Fatal("expected error for short key")
	}
}
