package cripta

import (
	"crypto/cipher"
	"fmt"
)

var (
	forwardRound = &RijndaelRoundFunction{}
	inverseRound = &RijndaelRoundFunction{inverse: true}
)

// EncryptBlock шифрует 16-байтовый блок на месте
func EncryptBlock(block []byte, ks *KeySchedule) error {
	if err := checkBlock(block, ks); err != nil {
		return err
	}

	var state State
	state.load(block)
	ks.encryptState(&state, forwardRound)
	state.store(block)
	return nil
}

// DecryptBlock расшифровывает 16-байтовый блок на месте
func DecryptBlock(block []byte, ks *KeySchedule) error {
	if err := checkBlock(block, ks); err != nil {
		return err
	}

	var state State
	state.load(block)
	ks.decryptState(&state, inverseRound)
	state.store(block)
	return nil
}

func checkBlock(block []byte, ks *KeySchedule) error {
	if len(block) != BlockSize {
		return fmt.Errorf("%w: block must be %d bytes, got %d", ErrInvalidBlockLength, BlockSize, len(block))
	}
	if ks == nil {
		return fmt.Errorf("key not set, call SetKey first")
	}
	return nil
}

func (ks *KeySchedule) encryptState(state *State, round IRoundFunction) {
	// Начальное добавление ключа
	addRoundKey(state, ks.roundKey(0))

	// Основные раунды
	for r := 1; r < ks.rounds; r++ {
		round.Apply(state, ks.roundKey(r))
	}

	// Финальный раунд (без mixColumns)
	subBytes(state, false)
	shiftRows(state, false)
	addRoundKey(state, ks.roundKey(ks.rounds))
}

func (ks *KeySchedule) decryptState(state *State, round IRoundFunction) {
	addRoundKey(state, ks.roundKey(ks.rounds))

	// Ключи раундов в обратном порядке
	for r := ks.rounds - 1; r > 0; r-- {
		round.Apply(state, ks.roundKey(r))
	}

	shiftRows(state, true)
	subBytes(state, true)
	addRoundKey(state, ks.roundKey(0))
}

// RijndaelCipher реализует алгоритм AES с блоком 128 бит
type RijndaelCipher struct {
	keySchedule IKeySchedule
	schedule    *KeySchedule
}

var _ cipher.Block = (*RijndaelCipher)(nil)

// NewRijndaelCipher создает шифр и сразу устанавливает ключ
func NewRijndaelCipher(key []byte) (*RijndaelCipher, error) {
	rc := &RijndaelCipher{keySchedule: NewRijndaelKeySchedule()}
	if err := rc.SetKey(key); err != nil {
		return nil, err
	}
	return rc, nil
}

// newScheduledCipher оборачивает уже развернутый ключ
func newScheduledCipher(ks *KeySchedule) *RijndaelCipher {
	return &RijndaelCipher{
		keySchedule: NewRijndaelKeySchedule(),
		schedule:    ks,
	}
}

// SetKey устанавливает ключ шифрования
func (rc *RijndaelCipher) SetKey(key []byte) error {
	schedule, err := rc.keySchedule.ExpandKey(key)
	if err != nil {
		return fmt.Errorf("failed to generate round keys: %w", err)
	}

	rc.schedule = schedule
	return nil
}

// EncryptBlock шифрует блок данных, возвращая новый срез
func (rc *RijndaelCipher) EncryptBlock(plainBlock []byte) ([]byte, error) {
	state := make([]byte, len(plainBlock))
	copy(state, plainBlock)

	if err := EncryptBlock(state, rc.schedule); err != nil {
		return nil, err
	}
	return state, nil
}

// DecryptBlock расшифровывает блок данных, возвращая новый срез
func (rc *RijndaelCipher) DecryptBlock(cipherBlock []byte) ([]byte, error) {
	state := make([]byte, len(cipherBlock))
	copy(state, cipherBlock)

	if err := DecryptBlock(state, rc.schedule); err != nil {
		return nil, err
	}
	return state, nil
}

// BlockSize возвращает размер блока
func (rc *RijndaelCipher) BlockSize() int {
	return BlockSize
}

// Encrypt реализует cipher.Block
func (rc *RijndaelCipher) Encrypt(dst, src []byte) {
	rc.crypt(dst, src, false)
}

// Decrypt реализует cipher.Block
func (rc *RijndaelCipher) Decrypt(dst, src []byte) {
	rc.crypt(dst, src, true)
}

func (rc *RijndaelCipher) crypt(dst, src []byte, inverse bool) {
	if len(src) < BlockSize {
		panic("cripta: input not full block")
	}
	if len(dst) < BlockSize {
		panic("cripta: output not full block")
	}
	if rc.schedule == nil {
		panic("cripta: key not set")
	}

	var state State
	state.load(src)
	if inverse {
		rc.schedule.decryptState(&state, inverseRound)
	} else {
		rc.schedule.encryptState(&state, forwardRound)
	}
	state.store(dst)
}

// Schedule возвращает развернутый ключ
func (rc *RijndaelCipher) Schedule() *KeySchedule {
	return rc.schedule
}

// GetKeySize возвращает размер ключа
func (rc *RijndaelCipher) GetKeySize() int {
	if rc.schedule == nil {
		return 0
	}
	return rc.schedule.KeySize()
}

// GetRounds возвращает количество раундов
func (rc *RijndaelCipher) GetRounds() int {
	if rc.schedule == nil {
		return 0
	}
	return rc.schedule.Rounds()
}
