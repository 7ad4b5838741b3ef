package cripta

import (
	"fmt"
)

// AESModulus младшие 8 бит неприводимого полинома x⁸+x⁴+x³+x+1
const AESModulus byte = 0x1B

// GF28Service предоставляет функционал для работы с полем GF(2⁸)
type GF28Service struct{}

// NewGF28Service создает новый сервис для работы с GF(2⁸)
func NewGF28Service() *GF28Service {
	return &GF28Service{}
}

// Add складывает два элемента из GF(2⁸) (побитовое XOR)
func (s *GF28Service) Add(a, b byte) byte {
	return a ^ b
}

// Multiply умножает два элемента из GF(2⁸) по заданному модулю
func (s *GF28Service) Multiply(a, b byte, modulus byte) byte {
	var result byte = 0
	var highBit byte = 0x80

	for i := 0; i < 8; i++ {
		if (b & 1) != 0 {
			result ^= a
		}

		carry := (a & highBit) != 0
		a <<= 1

		if carry {
			a ^= modulus
		}

		b >>= 1
	}

	return result
}

// MultiplySimple умножает по стандартному модулю AES
func (s *GF28Service) MultiplySimple(a, b byte) byte {
	return s.Multiply(a, b, AESModulus)
}

// Inverse находит обратный элемент для элемента из GF(2⁸) по заданному модулю
func (s *GF28Service) Inverse(a byte, modulus byte) (byte, error) {
	if a == 0 {
		return 0, fmt.Errorf("zero element has no inverse")
	}

	// a^254 = a^-1, так как мультипликативная группа имеет порядок 255
	result := byte(1)
	base := a
	for exp := 254; exp > 0; exp >>= 1 {
		if exp&1 == 1 {
			result = s.Multiply(result, base, modulus)
		}
		base = s.Multiply(base, base, modulus)
	}

	if s.Multiply(result, a, modulus) != 1 {
		return 0, fmt.Errorf("inverse not found for 0x%02x", a)
	}
	return result, nil
}

// MultiplicationTable возвращает таблицу умножения на константу c
func (s *GF28Service) MultiplicationTable(c byte) [256]byte {
	var table [256]byte
	for i := 0; i < 256; i++ {
		table[i] = s.MultiplySimple(byte(i), c)
	}
	return table
}

// Таблицы для MixColumns и InvMixColumns
var (
	gfMul2  = NewGF28Service().MultiplicationTable(0x02)
	gfMul3  = NewGF28Service().MultiplicationTable(0x03)
	gfMul9  = NewGF28Service().MultiplicationTable(0x09)
	gfMul11 = NewGF28Service().MultiplicationTable(0x0b)
	gfMul13 = NewGF28Service().MultiplicationTable(0x0d)
	gfMul14 = NewGF28Service().MultiplicationTable(0x0e)
)
