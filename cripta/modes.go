package cripta

import "fmt"

// CBCEncrypt шифрует данные в режиме CBC с дополнением PKCS#7
func CBCEncrypt(ks *KeySchedule, iv, plaintext []byte) ([]byte, error) {
	return transform(ks, CipherModeCBC, iv, plaintext, true)
}

// CBCDecrypt расшифровывает данные в режиме CBC и снимает дополнение PKCS#7
func CBCDecrypt(ks *KeySchedule, iv, ciphertext []byte) ([]byte, error) {
	return transform(ks, CipherModeCBC, iv, ciphertext, false)
}

// CTREncrypt шифрует данные в режиме CTR. Последний неполный блок дополняется
// по PKCS#7, чтобы при расшифровании восстановить точную длину.
func CTREncrypt(ks *KeySchedule, counter, plaintext []byte) ([]byte, error) {
	return transform(ks, CipherModeCTR, counter, plaintext, true)
}

// CTRDecrypt расшифровывает данные в режиме CTR
func CTRDecrypt(ks *KeySchedule, counter, ciphertext []byte) ([]byte, error) {
	return transform(ks, CipherModeCTR, counter, ciphertext, false)
}

func transform(ks *KeySchedule, mode CipherMode, iv, data []byte, encrypt bool) ([]byte, error) {
	if ks == nil {
		return nil, fmt.Errorf("key schedule cannot be nil")
	}

	ctx, err := NewCipherContext(newScheduledCipher(ks), mode, PaddingModePKCS7, iv, false)
	if err != nil {
		return nil, err
	}

	if encrypt {
		return ctx.Encrypt(data)
	}
	return ctx.Decrypt(data)
}
