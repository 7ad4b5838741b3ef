package cripta

import (
	"bytes"
	"crypto/aes"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
)

func mustHex(t testing.TB, s string) []uint8 {
	t.Helper()
	data, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("неверный hex %q: %v", s, err)
	}
	return data
}

func TestGF28Operations(t *testing.T) {
	gf := NewGF28Service()

	if got := gf.Add(0x57, 0x83); got != 0xd4 {
		t.Errorf("0x57 ⊕ 0x83 = 0x%02x, ожидается 0xd4", got)
	}
	if got := gf.Multiply(0x57, 0x83, AESModulus); got != 0xc1 {
		t.Errorf("0x57 ⊗ 0x83 = 0x%02x, ожидается 0xc1", got)
	}
	if got := gf.Multiply(0x57, 0x13, AESModulus); got != 0xfe {
		t.Errorf("0x57 ⊗ 0x13 = 0x%02x, ожидается 0xfe", got)
	}

	inv, err := gf.Inverse(0x53, AESModulus)
	if err != nil {
		t.Fatalf("Inverse(0x53): %v", err)
	}
	if inv != 0xca {
		t.Errorf("(0x53)⁻¹ = 0x%02x, ожидается 0xca", inv)
	}

	for a := 1; a < 256; a++ {
		inv, err := gf.Inverse(uint8(a), AESModulus)
		if err != nil {
			t.Fatalf("Inverse(0x%02x): %v", a, err)
		}
		if check := gf.Multiply(uint8(a), inv, AESModulus); check != 1 {
			t.Fatalf("0x%02x ⊗ 0x%02x = 0x%02x, ожидается 0x01", a, inv, check)
		}
	}

	if _, err := gf.Inverse(0, AESModulus); err == nil {
		t.Error("у нуля не должно быть обратного элемента")
	}
}

func TestSBox(t *testing.T) {
	tests := []struct {
		in, out uint8
	}{
		{0x00, 0x63},
		{0x01, 0x7c},
		{0x53, 0xed},
		{0xff, 0x16},
		{0x10, 0xca},
	}

	for _, tt := range tests {
		if sBox[tt.in] != tt.out {
			t.Errorf("S(0x%02x) = 0x%02x, ожидается 0x%02x", tt.in, sBox[tt.in], tt.out)
		}
	}

	for i := 0; i < 256; i++ {
		if invSBox[sBox[i]] != uint8(i) {
			t.Fatalf("InvS(S(0x%02x)) = 0x%02x", i, invSBox[sBox[i]])
		}
	}
}

func TestMixColumn(t *testing.T) {
	tests := []struct {
		in, out [4]uint8
	}{
		{[4]uint8{0xdb, 0x13, 0x53, 0x45}, [4]uint8{0x8e, 0x4d, 0xa1, 0xbc}},
		{[4]uint8{0xf2, 0x0a, 0x22, 0x5c}, [4]uint8{0x9f, 0xdc, 0x58, 0x9d}},
		{[4]uint8{0x01, 0x01, 0x01, 0x01}, [4]uint8{0x01, 0x01, 0x01, 0x01}},
		{[4]uint8{0xc6, 0xc6, 0xc6, 0xc6}, [4]uint8{0xc6, 0xc6, 0xc6, 0xc6}},
		{[4]uint8{0xd4, 0xd4, 0xd4, 0xd5}, [4]uint8{0xd5, 0xd5, 0xd7, 0xd6}},
		{[4]uint8{0x2d, 0x26, 0x31, 0x4c}, [4]uint8{0x4d, 0x7e, 0xbd, 0xf8}},
	}

	for _, tt := range tests {
		column := tt.in
		mixColumn(column[:])
		if column != tt.out {
			t.Errorf("MixColumn(%x) = %x, ожидается %x", tt.in, column, tt.out)
		}
		invMixColumn(column[:])
		if column != tt.in {
			t.Errorf("InvMixColumn(MixColumn(%x)) = %x", tt.in, column)
		}
	}
}

func TestShiftRows(t *testing.T) {
	var state Block
	for i := range state {
		state[i] = uint8(i)
	}
	shiftRows(&state)

	// Строка r сдвигается влево на r позиций
	expected := Block{0, 5, 10, 15, 4, 9, 14, 3, 8, 13, 2, 7, 12, 1, 6, 11}
	if state != expected {
		t.Errorf("ShiftRows = %v, ожидается %v", state, expected)
	}

	invShiftRows(&state)
	for i := range state {
		if state[i] != uint8(i) {
			t.Fatalf("InvShiftRows не восстановил позицию %d", i)
		}
	}
}

func TestKeyExpansionZeroKey(t *testing.T) {
	expected := mustHex(t, ""+
		"00000000000000000000000000000000"+
		"62636363626363636263636362636363"+
		"9b9898c9f9fbfbaa9b9898c9f9fbfbaa"+
		"90973450696ccffaf2f457330b0fac99"+
		"ee06da7b876a1581759e42b27e91ee2b"+
		"7f2e2b88f8443e098dda7cbbf34b9290"+
		"ec614b851425758c99ff09376ab49ba7"+
		"217517873550620bacaf6b3cc61bf09b"+
		"0ef903333ba9613897060a04511dfa9f"+
		"b1d4d8e28a7db9da1d7bb3de4c664941"+
		"b4ef5bcb3e92e21123e951cf6f8f188e")

	cipher, err := NewRijndaelCipher(make([]uint8, 16))
	if err != nil {
		t.Fatalf("Ошибка создания шифра: %v", err)
	}

	roundKeys := cipher.RoundKeys()
	if len(roundKeys) != 11 {
		t.Fatalf("получено %d раундовых ключей, ожидается 11", len(roundKeys))
	}
	for i, rk := range roundKeys {
		want := expected[i*BlockSize : (i+1)*BlockSize]
		if !bytes.Equal(rk[:], want) {
			t.Errorf("раундовый ключ %d = %x, ожидается %x", i, rk[:], want)
		}
	}
}

func TestRijndaelKnownAnswers(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		plaintext  string
		ciphertext string
		rounds     int
	}{
		{"AES-128 FIPS-197 C.1", "000102030405060708090a0b0c0d0e0f", "00112233445566778899aabbccddeeff", "69c4e0d86a7b0430d8cdb78070b4c55a", 10},
		{"AES-192 FIPS-197 C.2", "000102030405060708090a0b0c0d0e0f1011121314151617", "00112233445566778899aabbccddeeff", "dda97ca4864cdfe06eaf70a0ec0d7191", 12},
		{"AES-256 FIPS-197 C.3", "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f", "00112233445566778899aabbccddeeff", "8ea2b7ca516745bfeafc49904b496089", 14},
		{"AES-128 FIPS-197 B", "2b7e151628aed2a6abf7158809cf4f3c", "3243f6a8885a308d313198a2e0370734", "3925841d02dc09fbdc118597196a0b32", 10},
		{"YELLOW SUBMARINE", "59454c4c4f57205355424d4152494e45", "626f6f70626f6f70626f6f70626f6f70", "524086dcdd3fba9d571165a93e5bf91c", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := mustHex(t, tt.key)
			cipher, err := NewRijndaelCipher(key)
			if err != nil {
				t.Fatalf("Ошибка создания шифра: %v", err)
			}
			if cipher.GetRounds() != tt.rounds {
				t.Errorf("раундов %d, ожидается %d", cipher.GetRounds(), tt.rounds)
			}
			if cipher.GetKeySize() != len(key) {
				t.Errorf("размер ключа %d, ожидается %d", cipher.GetKeySize(), len(key))
			}
			if cipher.GetBlockSize() != BlockSize {
				t.Errorf("размер блока %d, ожидается %d", cipher.GetBlockSize(), BlockSize)
			}

			plain := BlockFromSlice(mustHex(t, tt.plaintext))
			want := BlockFromSlice(mustHex(t, tt.ciphertext))

			got := cipher.EncryptBlock(plain)
			if got != want {
				t.Errorf("EncryptBlock = %s, ожидается %s", got, want)
			}
			if back := cipher.DecryptBlock(got); back != plain {
				t.Errorf("DecryptBlock = %s, ожидается %s", back, plain)
			}
		})
	}
}

func TestRijndaelInvalidKeyLength(t *testing.T) {
	for _, n := range []int{0, 1, 8, 15, 17, 20, 31, 33, 64} {
		_, err := NewRijndaelCipher(make([]uint8, n))
		if !errors.Is(err, ErrInvalidKeyLength) {
			t.Errorf("ключ %d байт: ошибка %v, ожидается ErrInvalidKeyLength", n, err)
		}
	}
}

func TestRijndaelMatchesStdlib(t *testing.T) {
	src := NewMTSource([]uint8("stdlib cross-check"))

	for _, keySize := range []int{16, 24, 32} {
		for trial := 0; trial < 50; trial++ {
			key := RandomBytes(src, keySize)
			plain := BlockFromSlice(RandomBytes(src, BlockSize))

			ours, err := NewRijndaelCipher(key)
			if err != nil {
				t.Fatalf("Ошибка создания шифра: %v", err)
			}
			ref, err := aes.NewCipher(key)
			if err != nil {
				t.Fatalf("crypto/aes: %v", err)
			}

			var want Block
			ref.Encrypt(want[:], plain[:])

			if got := ours.EncryptBlock(plain); got != want {
				t.Fatalf("AES-%d ключ %x: получено %s, crypto/aes дает %s", keySize*8, key, got, want)
			}
			if back := ours.DecryptBlock(want); back != plain {
				t.Fatalf("AES-%d ключ %x: расшифровка %s, ожидается %s", keySize*8, key, back, plain)
			}
		}
	}
}

func TestRoundKeysReturnsCopy(t *testing.T) {
	cipher, err := NewRijndaelCipher(make([]uint8, 16))
	if err != nil {
		t.Fatalf("Ошибка создания шифра: %v", err)
	}

	keys := cipher.RoundKeys()
	keys[0][0] ^= 0xff

	if cipher.RoundKeys()[0][0] != 0 {
		t.Error("изменение копии раундовых ключей повлияло на шифр")
	}
}

func BenchmarkRijndaelEncryptBlock(b *testing.B) {
	for _, keySize := range []int{16, 24, 32} {
		cipher, err := NewRijndaelCipher(make([]uint8, keySize))
		if err != nil {
			b.Fatalf("Ошибка создания шифра: %v", err)
		}
		b.Run(fmt.Sprintf("AES-%d", keySize*8), func(b *testing.B) {
			var block Block
			b.SetBytes(BlockSize)
			for i := 0; i < b.N; i++ {
				block = cipher.EncryptBlock(block)
			}
		})
	}
}
