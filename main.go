package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/nPaBwaYT/aescripta/cripta"
)

/*
Шифрование файла AES-128 в режиме CBC (ключ и IV будут сгенерированы)
go run main.go -e -m=cbc input.txt output.enc

Дешифрование файла
go run main.go -d -m=cbc -k=2b7e151628aed2a6abf7158809cf4f3c -iv=000102030405060708090a0b0c0d0e0f input.enc output.txt

Шифрование AES-256 в режиме CTR с параллельной обработкой
go run main.go -e -m=ctr -ks=256 -parallel input.txt output.enc

Ключ и IV из файлов (сырые байты)
go run main.go -e -kf=key.bin -ivf=iv.bin input.txt output.enc

Шифрование секторами XTS (ключ из двух ключей AES)
go run main.go -e -m=xts -ks=256 input.img output.enc

Режимы шифрования: ECB, CBC, CFB, OFB, CTR, XTS
Режимы набивки: PKCS7, ANSI X.923, ISO 10126
Параллельная обработка: для ECB и CTR режимов
*/

type options struct {
	encrypt  bool
	decrypt  bool
	mode     string
	padding  string
	parallel bool
	keyHex   string
	keyFile  string
	keyBits  int
	ivHex    string
	ivFile   string
	input    string
	output   string
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("Ошибка: %v", err)
	}
}

func parseArgs(args []string, output io.Writer) (*options, error) {
	fs := flag.NewFlagSet("aescripta", flag.ContinueOnError)
	fs.SetOutput(output)

	opts := &options{}
	fs.BoolVar(&opts.encrypt, "e", false, "Режим шифрования")
	fs.BoolVar(&opts.decrypt, "d", false, "Режим дешифрования")
	fs.StringVar(&opts.mode, "m", "cbc", "Режим шифрования: ecb, cbc, cfb, ofb, ctr, xts")
	fs.StringVar(&opts.padding, "p", "pkcs7", "Режим набивки: pkcs7, ansi, iso")
	fs.BoolVar(&opts.parallel, "parallel", false, "Использовать параллельную обработку (только для ECB/CTR)")
	fs.StringVar(&opts.keyHex, "k", "", "Ключ шифрования в hex (если не указан, будет сгенерирован)")
	fs.StringVar(&opts.keyFile, "kf", "", "Файл с ключом (сырые байты)")
	fs.IntVar(&opts.keyBits, "ks", 128, "Размер генерируемого ключа AES в битах: 128, 192, 256")
	fs.StringVar(&opts.ivHex, "iv", "", "Вектор инициализации в hex (если не указан, будет сгенерирован)")
	fs.StringVar(&opts.ivFile, "ivf", "", "Файл с вектором инициализации (16 байт)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.encrypt == opts.decrypt {
		fmt.Fprintln(output, "Использование:")
		fmt.Fprintln(output, "  Шифрование: go run main.go -e -m=cbc input.txt output.enc")
		fmt.Fprintln(output, "  Дешифрование: go run main.go -d -m=cbc -k=<hex> -iv=<hex> input.enc output.txt")
		fmt.Fprintln(output, "\nФлаги:")
		fs.PrintDefaults()
		return nil, errors.New("укажите ровно один из флагов -e или -d")
	}

	if fs.NArg() != 2 {
		return nil, errors.New("необходимо указать входной и выходной файлы")
	}
	opts.input = fs.Arg(0)
	opts.output = fs.Arg(1)

	return opts, nil
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseArgs(args, stdout)
	if err != nil {
		return err
	}

	// Проверяем существование входного файла
	if _, err := os.Stat(opts.input); err != nil {
		return fmt.Errorf("входной файл '%s' недоступен: %w", opts.input, err)
	}
	// Выходной файл не перезаписываем
	if _, err := os.Stat(opts.output); err == nil {
		return fmt.Errorf("выходной файл '%s' уже существует, укажите другое имя", opts.output)
	}

	keyLength, err := keyLengthFor(opts.mode, opts.keyBits)
	if err != nil {
		return err
	}

	key, keyGenerated, err := loadMaterial(opts.keyHex, opts.keyFile, keyLength, opts.encrypt)
	if err != nil {
		return fmt.Errorf("ошибка работы с ключом: %w", err)
	}

	startTime := time.Now()
	var iv []byte
	var ivGenerated bool

	if opts.mode == "xts" {
		if err := processSectors(opts, key); err != nil {
			return err
		}
	} else {
		cipherMode, err := parseCipherMode(opts.mode)
		if err != nil {
			return err
		}
		paddingMode, err := parsePaddingMode(opts.padding)
		if err != nil {
			return err
		}

		if cipherMode != cripta.CipherModeECB {
			iv, ivGenerated, err = loadMaterial(opts.ivHex, opts.ivFile, cripta.BlockSize, opts.encrypt)
			if err != nil {
				return fmt.Errorf("ошибка работы с IV: %w", err)
			}
		}

		rc, err := cripta.NewRijndaelCipher(key)
		if err != nil {
			return fmt.Errorf("ошибка создания шифра: %w", err)
		}

		ctx, err := cripta.NewCipherContext(rc, cipherMode, paddingMode, iv, opts.parallel)
		if err != nil {
			return fmt.Errorf("ошибка создания контекста шифрования: %w", err)
		}

		if opts.encrypt {
			err = ctx.EncryptFile(opts.input, opts.output)
		} else {
			err = ctx.DecryptFile(opts.input, opts.output)
		}
		if err != nil {
			return err
		}
	}

	duration := time.Since(startTime)

	if opts.encrypt {
		fmt.Fprintf(stdout, "Файл успешно зашифрован: %s -> %s\n", opts.input, opts.output)
	} else {
		fmt.Fprintf(stdout, "Файл успешно дешифрован: %s -> %s\n", opts.input, opts.output)
	}

	fileInfo, err := os.Stat(opts.input)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "\nИнформация:\n")
	fmt.Fprintf(stdout, "  Режим: %s\n", opts.mode)
	if opts.mode != "xts" {
		fmt.Fprintf(stdout, "  Набивка: %s\n", opts.padding)
		fmt.Fprintf(stdout, "  Параллельная обработка: %v\n", opts.parallel)
	}
	fmt.Fprintf(stdout, "  Размер файла: %d байт\n", fileInfo.Size())
	fmt.Fprintf(stdout, "  Время выполнения: %v\n", duration)
	fmt.Fprintf(stdout, "  Отпечаток ключа: %s\n", cripta.KeyFingerprint(key))
	if keyGenerated {
		fmt.Fprintf(stdout, "  Сгенерированный ключ: %x\n", key)
	}
	if ivGenerated {
		fmt.Fprintf(stdout, "  Сгенерированный IV: %x\n", iv)
	} else if iv != nil {
		fmt.Fprintf(stdout, "  IV: %x\n", iv)
	}

	return nil
}

// processSectors шифрует или дешифрует файл в режиме XTS
func processSectors(opts *options, key []byte) error {
	sc, err := cripta.NewSectorCipher(key)
	if err != nil {
		return fmt.Errorf("ошибка создания шифра XTS: %w", err)
	}

	data, err := os.ReadFile(opts.input)
	if err != nil {
		return fmt.Errorf("ошибка чтения файла: %w", err)
	}

	var result []byte
	if opts.encrypt {
		result, err = sc.EncryptAll(data)
	} else {
		result, err = sc.DecryptAll(data)
	}
	if err != nil {
		return fmt.Errorf("ошибка XTS: %w", err)
	}

	if err := os.WriteFile(opts.output, result, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла: %w", err)
	}
	return nil
}

// keyLengthFor возвращает длину ключа в байтах; для XTS нужен двойной ключ
func keyLengthFor(mode string, keyBits int) (int, error) {
	if keyBits != 128 && keyBits != 192 && keyBits != 256 {
		return 0, fmt.Errorf("неверный размер ключа: %d бит", keyBits)
	}
	if mode == "xts" {
		return keyBits / 4, nil
	}
	return keyBits / 8, nil
}

// loadMaterial возвращает ключ или IV из hex-строки, из файла или генерирует новый.
// Генерация разрешена только при шифровании.
func loadMaterial(hexValue, path string, length int, allowGenerate bool) ([]byte, bool, error) {
	switch {
	case hexValue != "" && path != "":
		return nil, false, errors.New("значение и файл указаны одновременно")
	case hexValue != "":
		data, err := parseHexString(hexValue)
		return data, false, err
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("ошибка чтения файла: %w", err)
		}
		return data, false, nil
	case !allowGenerate:
		return nil, false, errors.New("для дешифрования значение должно быть указано")
	}

	data := make([]byte, length)
	if _, err := cripta.GenerateRandomBytes(data); err != nil {
		return nil, false, fmt.Errorf("ошибка генерации: %w", err)
	}
	return data, true, nil
}

// parseHexString парсит hex строку в байты
func parseHexString(hexStr string) ([]byte, error) {
	data, err := hex.DecodeString(hexStr)
	if err != nil {
		return nil, fmt.Errorf("неверный hex формат: %w", err)
	}
	return data, nil
}

// parseCipherMode преобразует строку в CipherMode
func parseCipherMode(mode string) (cripta.CipherMode, error) {
	switch mode {
	case "ecb":
		return cripta.CipherModeECB, nil
	case "cbc":
		return cripta.CipherModeCBC, nil
	case "cfb":
		return cripta.CipherModeCFB, nil
	case "ofb":
		return cripta.CipherModeOFB, nil
	case "ctr":
		return cripta.CipherModeCTR, nil
	default:
		return 0, fmt.Errorf("неизвестный режим шифрования: %s", mode)
	}
}

// parsePaddingMode преобразует строку в PaddingMode
func parsePaddingMode(padding string) (cripta.PaddingMode, error) {
	switch padding {
	case "pkcs7":
		return cripta.PaddingModePKCS7, nil
	case "ansi":
		return cripta.PaddingModeANSIX923, nil
	case "iso":
		return cripta.PaddingModeISO10126, nil
	default:
		return 0, fmt.Errorf("неизвестный режим набивки: %s", padding)
	}
}
