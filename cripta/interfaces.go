package cripta

type IKeySchedule interface {
	ExpandKey(masterKey []uint8) (*KeySchedule, error)
}

type IRoundFunction interface {
	Apply(state *State, roundKey []uint32)
}

type ISymmetricCipher interface {
	SetKey(key []uint8) error
	EncryptBlock(plainBlock []uint8) ([]uint8, error)
	DecryptBlock(cipherBlock []uint8) ([]uint8, error)
}
