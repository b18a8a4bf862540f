package cripta

import (
	"encoding/binary"
	"fmt"
)

// ghashR - старший байт приводящего многочлена x¹²⁸ + x⁷ + x² + x + 1
// в битовом порядке GCM (коэффициент x⁰ - старший бит первого байта)
const ghashR = 0xe1 << 56

// fieldElement - элемент GF(2¹²⁸), хранится как два big-endian слова
type fieldElement struct {
	high, low uint64
}

func loadFieldElement(b []byte) fieldElement {
	return fieldElement{
		high: binary.BigEndian.Uint64(b[:8]),
		low:  binary.BigEndian.Uint64(b[8:16]),
	}
}

func (x fieldElement) marshal() []byte {
	out := make([]byte, BlockSize)
	binary.BigEndian.PutUint64(out[:8], x.high)
	binary.BigEndian.PutUint64(out[8:], x.low)
	return out
}

// bit возвращает i-й бит, считая от старшего бита первого байта
func (x fieldElement) bit(i int) uint64 {
	if i < 64 {
		return (x.high >> (63 - i)) & 1
	}
	return (x.low >> (127 - i)) & 1
}

// mul умножает два элемента сдвигами и условными XOR (SP 800-38D, алгоритм 1)
func (x fieldElement) mul(y fieldElement) fieldElement {
	var z fieldElement
	v := y

	for i := 0; i < 128; i++ {
		if x.bit(i) == 1 {
			z.high ^= v.high
			z.low ^= v.low
		}

		lsb := v.low & 1
		v.low = v.low>>1 | v.high<<63
		v.high >>= 1
		if lsb == 1 {
			v.high ^= ghashR
		}
	}

	return z
}

// BlockMultiply умножает два 16-байтовых блока в GF(2¹²⁸)
func BlockMultiply(x, y []byte) ([]byte, error) {
	if len(x) != BlockSize || len(y) != BlockSize {
		return nil, fmt.Errorf("%w: operands must be %d bytes, got %d and %d",
			ErrInvalidBlockLength, BlockSize, len(x), len(y))
	}
	return loadFieldElement(x).mul(loadFieldElement(y)).marshal(), nil
}

// GHASH вычисляет GHASH_H над данными кратными 16 байтам:
// Y₀ = 0, Yᵢ = (Yᵢ₋₁ ⊕ Xᵢ)·H. Подключ H и формирование тега GCM остаются
// за вызывающим.
func GHASH(h, data []byte) ([]byte, error) {
	if len(h) != BlockSize {
		return nil, fmt.Errorf("%w: hash subkey must be %d bytes, got %d", ErrInvalidBlockLength, BlockSize, len(h))
	}
	if len(data) == 0 || len(data)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: data must be a non-empty multiple of %d bytes, got %d",
			ErrInvalidBlockLength, BlockSize, len(data))
	}

	key := loadFieldElement(h)
	var y fieldElement

	for i := 0; i < len(data); i += BlockSize {
		x := loadFieldElement(data[i : i+BlockSize])
		y.high ^= x.high
		y.low ^= x.low
		y = y.mul(key)
	}

	return y.marshal(), nil
}
