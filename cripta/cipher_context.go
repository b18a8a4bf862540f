package cripta

import (
	"encoding/binary"
	"fmt"
	"os"
	"runtime"
	"sync"
)

type CipherMode int

const (
	CipherModeECB CipherMode = iota
	CipherModeCBC
	CipherModeCFB
	CipherModeOFB
	CipherModeCTR
)

func (cm CipherMode) String() string {
	switch cm {
	case CipherModeECB:
		return "ECB"
	case CipherModeCBC:
		return "CBC"
	case CipherModeCFB:
		return "CFB"
	case CipherModeOFB:
		return "OFB"
	case CipherModeCTR:
		return "CTR"
	default:
		return "Unknown"
	}
}

type CipherContext struct {
	cipher      ISymmetricCipher
	mode        CipherMode
	paddingMode PaddingMode
	iv          []uint8
	blockSize   int
	parallel    bool
}

// NewCipherContext создает контекст режима поверх шифра с уже установленным ключом.
// Для всех режимов, кроме ECB, iv должен быть ровно 16 байт.
func NewCipherContext(
	cipher ISymmetricCipher,
	mode CipherMode,
	paddingMode PaddingMode,
	iv []uint8,
	parallel bool,
) (*CipherContext, error) {

	if cipher == nil {
		return nil, fmt.Errorf("cipher implementation cannot be nil")
	}
	if mode < CipherModeECB || mode > CipherModeCTR {
		return nil, fmt.Errorf("unsupported cipher mode %d", mode)
	}
	if paddingMode < PaddingModePKCS7 || paddingMode > PaddingModeISO10126 {
		return nil, fmt.Errorf("unsupported padding mode %d", paddingMode)
	}

	ctx := &CipherContext{
		cipher:      cipher,
		mode:        mode,
		paddingMode: paddingMode,
		blockSize:   BlockSize,
		parallel:    parallel,
	}

	if mode != CipherModeECB {
		if len(iv) != ctx.blockSize {
			return nil, fmt.Errorf("%w: IV must be %d bytes, got %d", ErrInvalidBlockLength, ctx.blockSize, len(iv))
		}
		ctx.iv = make([]uint8, len(iv))
		copy(ctx.iv, iv)
	}

	return ctx, nil
}

func xorBlocks(dest []uint8, src []uint8) []uint8 {
	minSize := len(dest)
	if len(src) < minSize {
		minSize = len(src)
	}

	result := make([]uint8, minSize)
	for i := 0; i < minSize; i++ {
		result[i] = dest[i] ^ src[i]
	}
	return result
}

// IncrementCounter увеличивает младшие 32 бита счетчика (big-endian) по модулю 2³²,
// старшие 96 бит не меняются
func IncrementCounter(counter []uint8) error {
	if len(counter) != BlockSize {
		return fmt.Errorf("%w: counter must be %d bytes, got %d", ErrInvalidBlockLength, BlockSize, len(counter))
	}
	addCounter(counter, 1)
	return nil
}

func addCounter(counter []uint8, n uint32) {
	low := counter[len(counter)-4:]
	binary.BigEndian.PutUint32(low, binary.BigEndian.Uint32(low)+n)
}

// counterAt возвращает значение счетчика для блока с номером index
func (ctx *CipherContext) counterAt(index int) []uint8 {
	counter := make([]uint8, len(ctx.iv))
	copy(counter, ctx.iv)
	addCounter(counter, uint32(index))
	return counter
}

// processParallel делит блоки между горутинами. Каждая горутина пишет только
// в свой диапазон выходного буфера.
func (ctx *CipherContext) processParallel(
	data []uint8,
	transform func(index int, block []uint8) ([]uint8, error),
) ([]uint8, error) {
	numBlocks := len(data) / ctx.blockSize
	output := make([]uint8, len(data))

	numThreads := runtime.NumCPU()
	if numThreads == 0 {
		numThreads = 4
	}
	if numThreads > numBlocks {
		numThreads = numBlocks
	}

	var wg sync.WaitGroup
	errs := make(chan error, numThreads)

	blocksPerThread := (numBlocks + numThreads - 1) / numThreads

	for t := 0; t < numThreads; t++ {
		startBlock := t * blocksPerThread
		endBlock := startBlock + blocksPerThread
		if endBlock > numBlocks {
			endBlock = numBlocks
		}

		if startBlock >= numBlocks {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			for i := start; i < end; i++ {
				block := data[i*ctx.blockSize : (i+1)*ctx.blockSize]

				result, err := transform(i, block)
				if err != nil {
					errs <- fmt.Errorf("%v failed for block %d: %w", ctx.mode, i, err)
					return
				}

				copy(output[i*ctx.blockSize:], result)
			}
		}(startBlock, endBlock)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		return nil, err
	}

	return output, nil
}

func (ctx *CipherContext) ctrParallel(data []uint8) ([]uint8, error) {
	return ctx.processParallel(data, func(index int, block []uint8) ([]uint8, error) {
		keystream, err := ctx.cipher.EncryptBlock(ctx.counterAt(index))
		if err != nil {
			return nil, err
		}
		return xorBlocks(keystream, block), nil
	})
}

// Encrypt дополняет открытый текст и шифрует его в выбранном режиме
func (ctx *CipherContext) Encrypt(plaintext []uint8) ([]uint8, error) {
	padded, err := applyPadding(plaintext, ctx.paddingMode, ctx.blockSize)
	if err != nil {
		return nil, fmt.Errorf("padding failed: %w", err)
	}

	if ctx.parallel {
		switch ctx.mode {
		case CipherModeECB:
			return ctx.processParallel(padded, func(_ int, block []uint8) ([]uint8, error) {
				return ctx.cipher.EncryptBlock(block)
			})
		case CipherModeCTR:
			return ctx.ctrParallel(padded)
		}
	}

	ciphertext := make([]uint8, 0, len(padded))

	currentBlock := make([]uint8, len(ctx.iv))
	copy(currentBlock, ctx.iv)

	for i := 0; i < len(padded); i += ctx.blockSize {
		block := padded[i : i+ctx.blockSize]

		var encryptedBlock []uint8

		switch ctx.mode {
		case CipherModeECB:
			encryptedBlock, err = ctx.cipher.EncryptBlock(block)
			if err != nil {
				return nil, fmt.Errorf("ECB encryption failed for block %d: %w", i/ctx.blockSize, err)
			}

		case CipherModeCBC:
			encryptedBlock, err = ctx.cipher.EncryptBlock(xorBlocks(block, currentBlock))
			if err != nil {
				return nil, fmt.Errorf("CBC encryption failed for block %d: %w", i/ctx.blockSize, err)
			}
			currentBlock = encryptedBlock

		case CipherModeCFB:
			encryptedBlock, err = ctx.cipher.EncryptBlock(currentBlock)
			if err != nil {
				return nil, fmt.Errorf("CFB encryption failed for block %d: %w", i/ctx.blockSize, err)
			}
			encryptedBlock = xorBlocks(encryptedBlock, block)
			currentBlock = encryptedBlock

		case CipherModeOFB:
			currentBlock, err = ctx.cipher.EncryptBlock(currentBlock)
			if err != nil {
				return nil, fmt.Errorf("OFB encryption failed for block %d: %w", i/ctx.blockSize, err)
			}
			encryptedBlock = xorBlocks(currentBlock, block)

		case CipherModeCTR:
			keystream, err := ctx.cipher.EncryptBlock(currentBlock)
			if err != nil {
				return nil, fmt.Errorf("CTR encryption failed for block %d: %w", i/ctx.blockSize, err)
			}
			encryptedBlock = xorBlocks(keystream, block)
			addCounter(currentBlock, 1)
		}

		ciphertext = append(ciphertext, encryptedBlock...)
	}

	return ciphertext, nil
}

// Decrypt расшифровывает данные и снимает дополнение
func (ctx *CipherContext) Decrypt(ciphertext []uint8) ([]uint8, error) {
	if len(ciphertext) == 0 || len(ciphertext)%ctx.blockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext must be a non-empty multiple of %d bytes, got %d",
			ErrInvalidBlockLength, ctx.blockSize, len(ciphertext))
	}

	plaintext, err := ctx.decryptBlocks(ciphertext)
	if err != nil {
		return nil, err
	}

	return removePadding(plaintext, ctx.paddingMode, ctx.blockSize)
}

func (ctx *CipherContext) decryptBlocks(ciphertext []uint8) ([]uint8, error) {
	if ctx.parallel {
		switch ctx.mode {
		case CipherModeECB:
			return ctx.processParallel(ciphertext, func(_ int, block []uint8) ([]uint8, error) {
				return ctx.cipher.DecryptBlock(block)
			})
		case CipherModeCTR:
			return ctx.ctrParallel(ciphertext)
		}
	}

	plaintext := make([]uint8, 0, len(ciphertext))

	currentBlock := make([]uint8, len(ctx.iv))
	copy(currentBlock, ctx.iv)

	for i := 0; i < len(ciphertext); i += ctx.blockSize {
		block := ciphertext[i : i+ctx.blockSize]

		var decryptedBlock []uint8
		var err error

		switch ctx.mode {
		case CipherModeECB:
			decryptedBlock, err = ctx.cipher.DecryptBlock(block)
			if err != nil {
				return nil, fmt.Errorf("ECB decryption failed for block %d: %w", i/ctx.blockSize, err)
			}

		case CipherModeCBC:
			decryptedBlock, err = ctx.cipher.DecryptBlock(block)
			if err != nil {
				return nil, fmt.Errorf("CBC decryption failed for block %d: %w", i/ctx.blockSize, err)
			}
			decryptedBlock = xorBlocks(decryptedBlock, currentBlock)
			currentBlock = block

		case CipherModeCFB:
			decryptedBlock, err = ctx.cipher.EncryptBlock(currentBlock)
			if err != nil {
				return nil, fmt.Errorf("CFB decryption failed for block %d: %w", i/ctx.blockSize, err)
			}
			decryptedBlock = xorBlocks(decryptedBlock, block)
			currentBlock = block

		case CipherModeOFB:
			currentBlock, err = ctx.cipher.EncryptBlock(currentBlock)
			if err != nil {
				return nil, fmt.Errorf("OFB decryption failed for block %d: %w", i/ctx.blockSize, err)
			}
			decryptedBlock = xorBlocks(currentBlock, block)

		case CipherModeCTR:
			keystream, err := ctx.cipher.EncryptBlock(currentBlock)
			if err != nil {
				return nil, fmt.Errorf("CTR decryption failed for block %d: %w", i/ctx.blockSize, err)
			}
			decryptedBlock = xorBlocks(keystream, block)
			addCounter(currentBlock, 1)
		}

		plaintext = append(plaintext, decryptedBlock...)
	}

	return plaintext, nil
}

func (ctx *CipherContext) EncryptFile(inputPath string, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	encrypted, err := ctx.Encrypt(data)
	if err != nil {
		return fmt.Errorf("encryption failed: %w", err)
	}

	err = os.WriteFile(outputPath, encrypted, 0644)
	if err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

func (ctx *CipherContext) DecryptFile(inputPath string, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	decrypted, err := ctx.Decrypt(data)
	if err != nil {
		return fmt.Errorf("decryption failed: %w", err)
	}

	err = os.WriteFile(outputPath, decrypted, 0644)
	if err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

func (ctx *CipherContext) GetMode() CipherMode {
	return ctx.mode
}

func (ctx *CipherContext) GetPaddingMode() PaddingMode {
	return ctx.paddingMode
}

func (ctx *CipherContext) GetBlockSize() int {
	return ctx.blockSize
}
