package cripta_test

import (
	"bytes"
	"testing"

	"github.com/nPaBwaYT/aescripta/cripta"
)

func TestKeyFingerprint(t *testing.T) {
	key := []byte("0123456789abcdef")

	first := cripta.KeyFingerprint(key)
	if len(first) != 16 {
		t.Fatalf("длина отпечатка %d, ожидается 16", len(first))
	}
	if second := cripta.KeyFingerprint(key); second != first {
		t.Errorf("отпечаток не детерминирован: %s != %s", first, second)
	}
	if other := cripta.KeyFingerprint([]byte("0123456789abcdeF")); other == first {
		t.Error("разные ключи дали одинаковый отпечаток")
	}
}

func TestGenerateRandomBytes(t *testing.T) {
	data := make([]byte, 32)
	n, err := cripta.GenerateRandomBytes(data)
	if err != nil || n != 32 {
		t.Fatalf("GenerateRandomBytes: n=%d, err=%v", n, err)
	}
	if bytes.Equal(data, make([]byte, 32)) {
		t.Error("буфер остался нулевым")
	}
}
