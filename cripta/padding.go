package cripta

import (
	"fmt"
)

type PaddingMode int

const (
	PaddingModePKCS7 PaddingMode = iota
	PaddingModeANSIX923
	PaddingModeISO10126
)

func (pm PaddingMode) String() string {
	switch pm {
	case PaddingModePKCS7:
		return "PKCS7"
	case PaddingModeANSIX923:
		return "ANSIX923"
	case PaddingModeISO10126:
		return "ISO10126"
	default:
		return "Unknown"
	}
}

// Pad дополняет данные по PKCS#7 до кратного 16 байт. Добавляется от 1 до 16 байт,
// поэтому данные кратной длины получают целый дополнительный блок.
func Pad(data []byte) []byte {
	padded, _ := applyPadding(data, PaddingModePKCS7, BlockSize)
	return padded
}

// Unpad снимает дополнение PKCS#7
func Unpad(data []byte) ([]byte, error) {
	return removePadding(data, PaddingModePKCS7, BlockSize)
}

func applyPadding(data []uint8, mode PaddingMode, blockSize int) ([]uint8, error) {
	dataLength := len(data)
	paddingLength := blockSize - (dataLength % blockSize)

	padded := make([]uint8, dataLength+paddingLength)
	copy(padded, data)

	switch mode {
	case PaddingModePKCS7:
		for i := dataLength; i < len(padded); i++ {
			padded[i] = uint8(paddingLength)
		}

	case PaddingModeANSIX923:
		padded[len(padded)-1] = uint8(paddingLength)

	case PaddingModeISO10126:
		if paddingLength > 1 {
			if _, err := GenerateRandomBytes(padded[dataLength : len(padded)-1]); err != nil {
				return nil, fmt.Errorf("failed to generate random bytes: %w", err)
			}
		}
		padded[len(padded)-1] = uint8(paddingLength)

	default:
		return nil, fmt.Errorf("unsupported padding mode %v", mode)
	}

	return padded, nil
}

func removePadding(data []uint8, mode PaddingMode, blockSize int) ([]uint8, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: padded data must be a non-empty multiple of %d bytes, got %d",
			ErrInvalidBlockLength, blockSize, len(data))
	}

	paddingLength := int(data[len(data)-1])
	if paddingLength == 0 || paddingLength > blockSize {
		return nil, fmt.Errorf("%w: pad length byte %d out of range 1..%d", ErrInvalidPadding, paddingLength, blockSize)
	}

	start := len(data) - paddingLength

	switch mode {
	case PaddingModePKCS7:
		for i := start; i < len(data); i++ {
			if data[i] != uint8(paddingLength) {
				return nil, fmt.Errorf("%w: byte %d is 0x%02x, want 0x%02x", ErrInvalidPadding, i, data[i], paddingLength)
			}
		}

	case PaddingModeANSIX923:
		for i := start; i < len(data)-1; i++ {
			if data[i] != 0 {
				return nil, fmt.Errorf("%w: byte %d is 0x%02x, want 0x00", ErrInvalidPadding, i, data[i])
			}
		}

	case PaddingModeISO10126:
		// Заполнитель случайный, проверять нечего

	default:
		return nil, fmt.Errorf("unsupported padding mode %v", mode)
	}

	return data[:start], nil
}
