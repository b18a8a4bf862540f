package cripta

import (
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/xts"
)

// SectorSize - размер сектора для EncryptAll/DecryptAll
const SectorSize = 4096

// SectorCipher шифрует независимые секторы в режиме XTS поверх собственного AES.
// Ключ состоит из двух ключей AES одинаковой длины.
type SectorCipher struct {
	xts *xts.Cipher
}

// NewSectorCipher принимает ключ 32, 48 или 64 байта
func NewSectorCipher(key []byte) (*SectorCipher, error) {
	switch len(key) {
	case 32, 48, 64:
	default:
		return nil, fmt.Errorf("%w: XTS key must be 32, 48 or 64 bytes, got %d", ErrInvalidKeyLength, len(key))
	}

	c, err := xts.NewCipher(func(k []byte) (cipher.Block, error) {
		rc, err := NewRijndaelCipher(k)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create XTS cipher: %w", err)
	}

	return &SectorCipher{xts: c}, nil
}

func checkSector(dst, src []byte) error {
	if len(src) == 0 || len(src)%BlockSize != 0 {
		return fmt.Errorf("%w: sector must be a non-empty multiple of %d bytes, got %d",
			ErrInvalidBlockLength, BlockSize, len(src))
	}
	if len(dst) < len(src) {
		return fmt.Errorf("%w: output %d bytes is shorter than input %d", ErrInvalidBlockLength, len(dst), len(src))
	}
	return nil
}

// EncryptSector шифрует один сектор
func (sc *SectorCipher) EncryptSector(dst, src []byte, sectorNum uint64) error {
	if err := checkSector(dst, src); err != nil {
		return err
	}
	sc.xts.Encrypt(dst, src, sectorNum)
	return nil
}

// DecryptSector расшифровывает один сектор
func (sc *SectorCipher) DecryptSector(dst, src []byte, sectorNum uint64) error {
	if err := checkSector(dst, src); err != nil {
		return err
	}
	sc.xts.Decrypt(dst, src, sectorNum)
	return nil
}

// EncryptAll дополняет данные по PKCS#7 и шифрует их секторами по SectorSize,
// нумеруя секторы с нуля
func (sc *SectorCipher) EncryptAll(plaintext []byte) ([]byte, error) {
	padded := Pad(plaintext)
	out := make([]byte, len(padded))

	for off, sector := 0, uint64(0); off < len(padded); off, sector = off+SectorSize, sector+1 {
		end := min(off+SectorSize, len(padded))
		if err := sc.EncryptSector(out[off:end], padded[off:end], sector); err != nil {
			return nil, fmt.Errorf("XTS encryption failed for sector %d: %w", sector, err)
		}
	}

	return out, nil
}

// DecryptAll расшифровывает результат EncryptAll
func (sc *SectorCipher) DecryptAll(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext must be a non-empty multiple of %d bytes, got %d",
			ErrInvalidBlockLength, BlockSize, len(ciphertext))
	}

	out := make([]byte, len(ciphertext))

	for off, sector := 0, uint64(0); off < len(ciphertext); off, sector = off+SectorSize, sector+1 {
		end := min(off+SectorSize, len(ciphertext))
		if err := sc.DecryptSector(out[off:end], ciphertext[off:end], sector); err != nil {
			return nil, fmt.Errorf("XTS decryption failed for sector %d: %w", sector, err)
		}
	}

	return Unpad(out)
}
