package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	testKey = "2b7e151628aed2a6abf7158809cf4f3c"
	testIV  = "000102030405060708090a0b0c0d0e0f"
)

func writeInput(t *testing.T, dir string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("не удалось записать входной файл: %v", err)
	}
	return path
}

func TestRunRoundTrip(t *testing.T) {
	plaintext := bytes.Repeat([]byte("Съешь же ещё этих мягких французских булок. "), 40)

	testCases := []struct {
		name  string
		flags []string
	}{
		{"ECB", []string{"-m=ecb"}},
		{"ECB параллельно", []string{"-m=ecb", "-parallel"}},
		{"CBC", []string{"-m=cbc"}},
		{"CBC ANSI", []string{"-m=cbc", "-p=ansi"}},
		{"CFB ISO", []string{"-m=cfb", "-p=iso"}},
		{"OFB", []string{"-m=ofb"}},
		{"CTR", []string{"-m=ctr"}},
		{"CTR параллельно", []string{"-m=ctr", "-parallel"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			input := writeInput(t, dir, plaintext)
			encrypted := filepath.Join(dir, "output.enc")
			decrypted := filepath.Join(dir, "output.txt")

			var out bytes.Buffer
			args := append([]string{"-e", "-k=" + testKey, "-iv=" + testIV}, tc.flags...)
			if err := run(append(args, input, encrypted), &out); err != nil {
				t.Fatalf("шифрование: %v", err)
			}
			if !strings.Contains(out.String(), "Файл успешно зашифрован") {
				t.Errorf("нет сообщения об успехе:\n%s", out.String())
			}
			if strings.Contains(out.String(), "Сгенерированный ключ") {
				t.Error("переданный ключ не должен выводиться как сгенерированный")
			}

			args = append([]string{"-d", "-k=" + testKey, "-iv=" + testIV}, tc.flags...)
			if err := run(append(args, encrypted, decrypted), &out); err != nil {
				t.Fatalf("дешифрование: %v", err)
			}

			got, err := os.ReadFile(decrypted)
			if err != nil {
				t.Fatalf("чтение результата: %v", err)
			}
			if !bytes.Equal(got, plaintext) {
				t.Error("расшифрованный файл не совпадает с исходным")
			}
		})
	}
}

func TestRunKeyFromFile(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, []byte("данные для проверки ключа из файла"))

	keyPath := filepath.Join(dir, "key.bin")
	ivPath := filepath.Join(dir, "iv.bin")
	if err := os.WriteFile(keyPath, bytes.Repeat([]byte{0x42}, 32), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ivPath, bytes.Repeat([]byte{0x24}, 16), 0600); err != nil {
		t.Fatal(err)
	}

	encrypted := filepath.Join(dir, "output.enc")
	decrypted := filepath.Join(dir, "output.txt")

	var out bytes.Buffer
	if err := run([]string{"-e", "-kf=" + keyPath, "-ivf=" + ivPath, input, encrypted}, &out); err != nil {
		t.Fatalf("шифрование: %v", err)
	}
	if err := run([]string{"-d", "-kf=" + keyPath, "-ivf=" + ivPath, encrypted, decrypted}, &out); err != nil {
		t.Fatalf("дешифрование: %v", err)
	}

	original, _ := os.ReadFile(input)
	got, _ := os.ReadFile(decrypted)
	if !bytes.Equal(got, original) {
		t.Error("расшифрованный файл не совпадает с исходным")
	}
}

func TestRunGeneratesKey(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, []byte("ключ будет сгенерирован"))

	var out bytes.Buffer
	if err := run([]string{"-e", "-ks=256", input, filepath.Join(dir, "output.enc")}, &out); err != nil {
		t.Fatalf("шифрование: %v", err)
	}
	for _, want := range []string{"Сгенерированный ключ", "Сгенерированный IV", "Отпечаток ключа"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("в выводе нет %q:\n%s", want, out.String())
		}
	}
}

func TestRunXTS(t *testing.T) {
	dir := t.TempDir()
	plaintext := bytes.Repeat([]byte{0x5a}, 10000)
	input := writeInput(t, dir, plaintext)
	encrypted := filepath.Join(dir, "output.enc")
	decrypted := filepath.Join(dir, "output.txt")
	key := testKey + testKey[2:] + "00"

	var out bytes.Buffer
	if err := run([]string{"-e", "-m=xts", "-k=" + key, input, encrypted}, &out); err != nil {
		t.Fatalf("шифрование: %v", err)
	}
	if err := run([]string{"-d", "-m=xts", "-k=" + key, encrypted, decrypted}, &out); err != nil {
		t.Fatalf("дешифрование: %v", err)
	}

	got, _ := os.ReadFile(decrypted)
	if !bytes.Equal(got, plaintext) {
		t.Error("расшифрованный файл не совпадает с исходным")
	}
}

func TestRunRefusesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, []byte("данные"))
	output := filepath.Join(dir, "output.enc")
	if err := os.WriteFile(output, []byte("не трогать"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err := run([]string{"-e", "-k=" + testKey, "-iv=" + testIV, input, output}, &out)
	if err == nil || !strings.Contains(err.Error(), "уже существует") {
		t.Fatalf("ожидается отказ перезаписи, получено: %v", err)
	}

	content, _ := os.ReadFile(output)
	if string(content) != "не трогать" {
		t.Error("существующий файл был изменён")
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, []byte("данные"))
	output := filepath.Join(dir, "output.enc")

	testCases := []struct {
		name string
		args []string
	}{
		{"без -e и -d", []string{input, output}},
		{"одновременно -e и -d", []string{"-e", "-d", input, output}},
		{"нет выходного файла", []string{"-e", input}},
		{"неизвестный режим", []string{"-e", "-m=gcm", input, output}},
		{"неизвестная набивка", []string{"-e", "-p=zeros", input, output}},
		{"неверный размер ключа", []string{"-e", "-ks=64", input, output}},
		{"неверный hex ключа", []string{"-e", "-k=zz", input, output}},
		{"ключ неверной длины", []string{"-e", "-k=00112233", input, output}},
		{"IV неверной длины", []string{"-e", "-k=" + testKey, "-iv=0011", input, output}},
		{"дешифрование без ключа", []string{"-d", input, output}},
		{"дешифрование без IV", []string{"-d", "-k=" + testKey, input, output}},
		{"ключ и файл ключа", []string{"-e", "-k=" + testKey, "-kf=key.bin", input, output}},
		{"XTS с одинарным ключом", []string{"-e", "-m=xts", "-k=" + testKey, input, output}},
		{"нет входного файла", []string{"-e", filepath.Join(dir, "missing.txt"), output}},
		{"неизвестный флаг", []string{"-e", "-x", input, output}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := run(tc.args, &out); err == nil {
				t.Error("ожидалась ошибка")
			}
			if _, err := os.Stat(output); err == nil {
				t.Fatal("при ошибке выходной файл не должен создаваться")
			}
		})
	}
}

func TestParseModes(t *testing.T) {
	for _, mode := range []string{"ecb", "cbc", "cfb", "ofb", "ctr"} {
		if _, err := parseCipherMode(mode); err != nil {
			t.Errorf("parseCipherMode(%s): %v", mode, err)
		}
	}
	for _, padding := range []string{"pkcs7", "ansi", "iso"} {
		if _, err := parsePaddingMode(padding); err != nil {
			t.Errorf("parsePaddingMode(%s): %v", padding, err)
		}
	}

	testCases := []struct {
		mode    string
		keyBits int
		want    int
	}{
		{"cbc", 128, 16},
		{"ctr", 192, 24},
		{"ecb", 256, 32},
		{"xts", 128, 32},
		{"xts", 256, 64},
	}
	for _, tc := range testCases {
		got, err := keyLengthFor(tc.mode, tc.keyBits)
		if err != nil || got != tc.want {
			t.Errorf("keyLengthFor(%s, %d) = %d, %v; ожидается %d", tc.mode, tc.keyBits, got, err, tc.want)
		}
	}
}
