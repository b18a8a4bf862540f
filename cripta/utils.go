package cripta

import (
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// GenerateRandomBytes заполняет буфер криптографически стойкими случайными байтами
func GenerateRandomBytes(data []byte) (int, error) {
	return rand.Read(data)
}

// KeyFingerprint возвращает первые 8 байт BLAKE2b-256 от ключа в hex.
// Позволяет опознать ключ в выводе, не раскрывая его.
func KeyFingerprint(key []byte) string {
	sum := blake2b.Sum256(key)
	return hex.EncodeToString(sum[:8])
}
