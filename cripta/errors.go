package cripta

import "errors"

// Ошибки валидации входных данных. Все они синхронные и исправляются вызывающим.
var (
	ErrInvalidKeyLength   = errors.New("invalid key length")
	ErrInvalidBlockLength = errors.New("invalid block length")
	ErrInvalidPadding     = errors.New("invalid padding")
)
