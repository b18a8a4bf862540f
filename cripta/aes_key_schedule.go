package cripta

import (
	"encoding/binary"
	"fmt"

	"github.com/ericlagergren/subtle"
)

const (
	// BlockSize - размер блока AES в байтах
	BlockSize = 16
	// nb - число столбцов состояния (32-битных слов в блоке)
	nb = 4
)

// KeySchedule хранит развернутый ключ вместе с числом раундов.
// После построения не изменяется и может использоваться из нескольких горутин.
type KeySchedule struct {
	words  []uint32
	nk     int
	rounds int
}

// NewKeySchedule разворачивает ключ 16, 24 или 32 байт в (Nr+1)*4 слов
func NewKeySchedule(key []byte) (*KeySchedule, error) {
	return expandKey(gf28, key)
}

func expandKey(gf *GF28Service, key []byte) (*KeySchedule, error) {
	nk := len(key) / 4
	if len(key)%4 != 0 || (nk != 4 && nk != 6 && nk != 8) {
		return nil, fmt.Errorf("%w: key must be 16, 24 or 32 bytes, got %d", ErrInvalidKeyLength, len(key))
	}

	rounds := nk + 6
	words := make([]uint32, nb*(rounds+1))

	for i := 0; i < nk; i++ {
		words[i] = binary.BigEndian.Uint32(key[4*i:])
	}

	// Константа раунда живет только в пределах одного развертывания
	rcon := byte(0x01)

	for i := nk; i < len(words); i++ {
		temp := words[i-1]

		if i%nk == 0 {
			temp = subWord(rotWord(temp)) ^ uint32(rcon)<<24
			rcon = gf.Double(rcon)
		} else if nk > 6 && i%nk == 4 {
			// Для ключей 256 бит: дополнительная подстановка
			temp = subWord(temp)
		}

		words[i] = words[i-nk] ^ temp
	}

	return &KeySchedule{
		words:  words,
		nk:     nk,
		rounds: rounds,
	}, nil
}

// rotWord циклически сдвигает байты слова влево на один
func rotWord(w uint32) uint32 {
	return w<<8 | w>>24
}

// subWord применяет S-бокс к каждому байту слова
func subWord(w uint32) uint32 {
	return uint32(substitute(byte(w>>24), false))<<24 |
		uint32(substitute(byte(w>>16), false))<<16 |
		uint32(substitute(byte(w>>8), false))<<8 |
		uint32(substitute(byte(w), false))
}

// roundKey возвращает 4 слова ключа раунда
func (ks *KeySchedule) roundKey(round int) []uint32 {
	return ks.words[nb*round : nb*(round+1)]
}

// Rounds возвращает количество раундов Nr
func (ks *KeySchedule) Rounds() int {
	return ks.rounds
}

// KeySize возвращает размер исходного ключа в байтах
func (ks *KeySchedule) KeySize() int {
	return ks.nk * 4
}

// Words возвращает копию развернутого ключа
func (ks *KeySchedule) Words() []uint32 {
	words := make([]uint32, len(ks.words))
	copy(words, ks.words)
	return words
}

// RoundKeys возвращает раундовые ключи по 16 байт
func (ks *KeySchedule) RoundKeys() [][]byte {
	roundKeys := make([][]byte, ks.rounds+1)
	for r := range roundKeys {
		roundKeys[r] = make([]byte, BlockSize)
		for c, w := range ks.roundKey(r) {
			binary.BigEndian.PutUint32(roundKeys[r][4*c:], w)
		}
	}
	return roundKeys
}

// Equal сравнивает два расписания за постоянное время
func (ks *KeySchedule) Equal(other *KeySchedule) bool {
	if ks == nil || other == nil {
		return ks == other
	}
	if ks.rounds != other.rounds {
		return false
	}
	return subtle.ConstantTimeCompare(ks.bytes(), other.bytes()) == 1
}

func (ks *KeySchedule) bytes() []byte {
	out := make([]byte, 0, 4*len(ks.words))
	for _, w := range ks.words {
		out = binary.BigEndian.AppendUint32(out, w)
	}
	return out
}

// RijndaelKeySchedule реализует расписание ключей для Rijndael/AES
type RijndaelKeySchedule struct {
	gfService *GF28Service
}

// NewRijndaelKeySchedule создает расписание ключей
func NewRijndaelKeySchedule() *RijndaelKeySchedule {
	return &RijndaelKeySchedule{gfService: NewGF28Service()}
}

// ExpandKey генерирует раундовые ключи
func (rks *RijndaelKeySchedule) ExpandKey(masterKey []byte) (*KeySchedule, error) {
	return expandKey(rks.gfService, masterKey)
}
