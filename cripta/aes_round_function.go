package cripta

// gf28 не имеет состояния, поэтому один экземпляр разделяется всеми операциями
var gf28 = NewGF28Service()

// Коэффициенты циркулянтной матрицы MixColumns
var (
	mixCoefficients    = [4]byte{0x02, 0x03, 0x01, 0x01}
	invMixCoefficients = [4]byte{0x0e, 0x0b, 0x0d, 0x09}
)

// State - матрица 4x4 одного блока, state[r][c] соответствует байту r+4c входа
type State [4][4]byte

// load заполняет состояние из 16-байтового блока
func (s *State) load(block []byte) {
	for c := 0; c < nb; c++ {
		for r := 0; r < 4; r++ {
			s[r][c] = block[r+4*c]
		}
	}
}

// store записывает состояние обратно в блок
func (s *State) store(block []byte) {
	for c := 0; c < nb; c++ {
		for r := 0; r < 4; r++ {
			block[r+4*c] = s[r][c]
		}
	}
}

// subBytes применяет S-бокс (или обратный) к каждому байту состояния
func subBytes(s *State, inverse bool) {
	for r := 0; r < 4; r++ {
		for c := 0; c < nb; c++ {
			s[r][c] = substitute(s[r][c], inverse)
		}
	}
}

// shiftRows сдвигает строку r на r позиций влево (вправо для обратного)
func shiftRows(s *State, inverse bool) {
	for r := 1; r < 4; r++ {
		row := s[r]
		for c := 0; c < nb; c++ {
			if inverse {
				s[r][c] = row[(c-r+nb)%nb]
			} else {
				s[r][c] = row[(c+r)%nb]
			}
		}
	}
}

// mixColumns умножает каждый столбец на фиксированную матрицу над GF(2⁸)
func mixColumns(s *State, inverse bool) {
	coef := mixCoefficients
	if inverse {
		coef = invMixCoefficients
	}

	for c := 0; c < nb; c++ {
		col := [4]byte{s[0][c], s[1][c], s[2][c], s[3][c]}
		for r := 0; r < 4; r++ {
			var acc byte
			for j := 0; j < 4; j++ {
				acc ^= gf28.Multiply(col[j], coef[(j-r+4)%4])
			}
			s[r][c] = acc
		}
	}
}

// addRoundKey складывает состояние с четырьмя словами ключа раунда
func addRoundKey(s *State, roundKey []uint32) {
	for c := 0; c < nb; c++ {
		w := roundKey[c]
		s[0][c] ^= byte(w >> 24)
		s[1][c] ^= byte(w >> 16)
		s[2][c] ^= byte(w >> 8)
		s[3][c] ^= byte(w)
	}
}

// RijndaelRoundFunction реализует полный промежуточный раунд Rijndael
type RijndaelRoundFunction struct {
	inverse bool
}

// Apply применяет раундовую функцию к состоянию на месте
func (rrf *RijndaelRoundFunction) Apply(state *State, roundKey []uint32) {
	if rrf.inverse {
		shiftRows(state, true)
		subBytes(state, true)
		addRoundKey(state, roundKey)
		mixColumns(state, true)
		return
	}

	subBytes(state, false)
	shiftRows(state, false)
	mixColumns(state, false)
	addRoundKey(state, roundKey)
}
