package cripta

import (
	"fmt"
)

// aesModulus - младший байт неприводимого полинома x⁸ + x⁴ + x³ + x + 1 (0x11B).
// Старший бит x⁸ уходит при сдвиге байта, поэтому XOR делается только с 0x1B.
const aesModulus byte = 0x1B

// GF28Service предоставляет функционал для работы с полем GF(2⁸)
type GF28Service struct{}

// NewGF28Service создает новый сервис для работы с GF(2⁸)
func NewGF28Service() *GF28Service {
	return &GF28Service{}
}

// Add складывает два элемента из GF(2⁸) (побитовое XOR)
func (s *GF28Service) Add(a, b byte) byte {
	return a ^ b
}

// Multiply умножает два элемента из GF(2⁸) по модулю AES
func (s *GF28Service) Multiply(a, b byte) byte {
	return s.MultiplyMod(a, b, aesModulus)
}

// MultiplyMod умножает два элемента из GF(2⁸) по заданному модулю
func (s *GF28Service) MultiplyMod(a, b byte, modulus byte) byte {
	var result byte = 0
	var highBit byte = 0x80

	for i := 0; i < 8; i++ {
		if (b & 1) != 0 {
			result ^= a
		}

		carry := (a & highBit) != 0
		a <<= 1

		if carry {
			a ^= modulus
		}

		b >>= 1
	}

	return result
}

// Double умножает элемент на x (xtime)
func (s *GF28Service) Double(a byte) byte {
	if a&0x80 != 0 {
		return (a << 1) ^ aesModulus
	}
	return a << 1
}

// Inverse находит обратный элемент для элемента из GF(2⁸) по модулю AES
func (s *GF28Service) Inverse(a byte) (byte, error) {
	if a == 0 {
		return 0, fmt.Errorf("zero element has no inverse")
	}

	// a²⁵⁴ = a⁻¹, так как мультипликативная группа имеет порядок 255
	result := byte(1)
	base := a
	for e := 254; e > 0; e >>= 1 {
		if e&1 != 0 {
			result = s.Multiply(result, base)
		}
		base = s.Multiply(base, base)
	}
	return result, nil
}
