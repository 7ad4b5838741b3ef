package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nPaBwaYT/aeslab/cripta"
)

func TestParseCipherMode(t *testing.T) {
	tests := []struct {
		in      string
		want    cripta.CipherMode
		wantErr bool
	}{
		{"ecb", cripta.CipherModeECB, false},
		{"CBC", cripta.CipherModeCBC, false},
		{"ctr", cripta.CipherModeCTR, false},
		{"pcbc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseCipherMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseCipherMode(%q): ошибка %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseCipherMode(%q) = %v, ожидается %v", tt.in, got, tt.want)
		}
	}
}

func TestResolveKey(t *testing.T) {
	src := cripta.NewMTSource([]byte("cli"))

	key, err := resolveKey("59454c4c4f57205355424d4152494e45", "", defaultSalt, src)
	if err != nil {
		t.Fatalf("resolveKey: %v", err)
	}
	if string(key) != "YELLOW SUBMARINE" {
		t.Errorf("ключ %q, ожидается YELLOW SUBMARINE", key)
	}

	if _, err := resolveKey("0011", "", defaultSalt, src); !errors.Is(err, cripta.ErrInvalidKeyLength) {
		t.Errorf("ключ 2 байта: ошибка %v, ожидается ErrInvalidKeyLength", err)
	}
	if _, err := resolveKey("zz", "", defaultSalt, src); err == nil {
		t.Error("неверный hex должен вернуть ошибку")
	}
	if _, err := resolveKey("00", "pass", defaultSalt, src); err == nil {
		t.Error("-k и -passphrase одновременно должны вернуть ошибку")
	}

	generated, err := resolveKey("", "", defaultSalt, src)
	if err != nil {
		t.Fatalf("resolveKey: %v", err)
	}
	if len(generated) != 16 {
		t.Errorf("сгенерирован ключ %d байт, ожидается 16", len(generated))
	}
}

func TestDeriveKey(t *testing.T) {
	a := deriveKey("correct horse", "salt")
	b := deriveKey("correct horse", "salt")
	c := deriveKey("correct horse", "pepper")

	if len(a) != pbkdf2KeyLength {
		t.Fatalf("длина ключа %d, ожидается %d", len(a), pbkdf2KeyLength)
	}
	if !bytes.Equal(a, b) {
		t.Error("PBKDF2 не детерминирован")
	}
	if bytes.Equal(a, c) {
		t.Error("разная соль дала одинаковый ключ")
	}
	if _, err := cripta.NewRijndaelCipher(a); err != nil {
		t.Errorf("ключ из пароля не подходит для AES: %v", err)
	}
}

func TestDecodeBase64IgnoresNewlines(t *testing.T) {
	got, err := decodeBase64([]byte("WUVMTE9X\nIFNVQk1B\r\nUklORQ==\n"))
	if err != nil {
		t.Fatalf("decodeBase64: %v", err)
	}
	if string(got) != "YELLOW SUBMARINE" {
		t.Errorf("получено %q", got)
	}

	if _, err := decodeBase64([]byte("not base64!")); err == nil {
		t.Error("неверный base64 должен вернуть ошибку")
	}
}

func TestBase64FileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "plain.txt")
	encrypted := filepath.Join(dir, "cipher.b64")
	output := filepath.Join(dir, "plain.out")

	data := []byte("I'm back and I'm ringin' the bell\nA rockin' on the mike while the fly girls yell\n")
	if err := os.WriteFile(input, data, 0644); err != nil {
		t.Fatalf("Ошибка записи файла: %v", err)
	}

	key, _ := hex.DecodeString("59454c4c4f57205355424d4152494e45")
	cipher, err := cripta.NewRijndaelCipher(key)
	if err != nil {
		t.Fatalf("Ошибка создания шифра: %v", err)
	}

	for _, mode := range []cripta.CipherMode{cripta.CipherModeECB, cripta.CipherModeCBC, cripta.CipherModeCTR} {
		ctx, err := cripta.NewCipherContext(cipher, mode, cripta.PaddingModePKCS7, make([]byte, cripta.BlockSize), 0, false)
		if err != nil {
			t.Fatalf("Ошибка создания контекста: %v", err)
		}

		if err := encryptFile(ctx, input, encrypted, true); err != nil {
			t.Fatalf("%v: encryptFile: %v", mode, err)
		}
		if err := decryptFile(ctx, encrypted, output, true); err != nil {
			t.Fatalf("%v: decryptFile: %v", mode, err)
		}

		result, err := os.ReadFile(output)
		if err != nil {
			t.Fatalf("Ошибка чтения файла: %v", err)
		}
		if !bytes.Equal(result, data) {
			t.Errorf("%v: файл не восстановлен", mode)
		}
	}
}

func TestRunAttack(t *testing.T) {
	src := cripta.NewMTSource([]byte("cli attack"))

	if err := runAttack("detect", src, 20); err != nil {
		t.Errorf("detect: %v", err)
	}
	if err := runAttack("bitflip", src, 0); err != nil {
		t.Errorf("bitflip: %v", err)
	}
	if err := runAttack("ctr-nonce", src, 0); err != nil {
		t.Errorf("ctr-nonce: %v", err)
	}
	if err := runAttack("detect", src, 0); err == nil {
		t.Error("нулевое число испытаний должно вернуть ошибку")
	}
	if err := runAttack("rsa", src, 1); err == nil {
		t.Error("неизвестная атака должна вернуть ошибку")
	}
}
