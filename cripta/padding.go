package cripta

import (
	"bytes"
	"fmt"
)

type PaddingMode int

const (
	PaddingModeZeros PaddingMode = iota
	PaddingModeANSIX923
	PaddingModePKCS7
	PaddingModeISO10126
)

// PaddingErrorKind причина отказа при снятии набивки
type PaddingErrorKind int

const (
	PaddingNotBlockAligned PaddingErrorKind = iota
	PaddingZero
	PaddingOverflow
	PaddingMismatch
)

func (k PaddingErrorKind) String() string {
	switch k {
	case PaddingNotBlockAligned:
		return "length is not a multiple of the block size"
	case PaddingZero:
		return "pad value is zero"
	case PaddingOverflow:
		return "pad value exceeds buffer"
	case PaddingMismatch:
		return "pad bytes are not uniform"
	default:
		return "unknown"
	}
}

// PaddingError описывает некорректную набивку; errors.Is(err, ErrInvalidPadding) == true
type PaddingError struct {
	Kind   PaddingErrorKind
	Length int
	Value  uint8
}

func (e *PaddingError) Error() string {
	return fmt.Sprintf("%v: %v (length %d, pad value %d)", ErrInvalidPadding, e.Kind, e.Length, e.Value)
}

func (e *PaddingError) Unwrap() error {
	return ErrInvalidPadding
}

// PKCS7Pad возвращает копию буфера с набивкой PKCS#7 (от 1 до blockSize байт)
func PKCS7Pad(buf []uint8, blockSize int) []uint8 {
	if blockSize <= 0 || blockSize > 0xff {
		panic(fmt.Sprintf("PKCS7Pad: invalid block size %d", blockSize))
	}
	n := blockSize - len(buf)%blockSize

	padded := make([]uint8, len(buf), len(buf)+n)
	copy(padded, buf)
	return append(padded, bytes.Repeat([]uint8{uint8(n)}, n)...)
}

// PKCS7Unpad снимает набивку PKCS#7 и возвращает копию данных
func PKCS7Unpad(buf []uint8, blockSize int) ([]uint8, error) {
	if len(buf) == 0 || len(buf)%blockSize != 0 {
		return nil, &PaddingError{Kind: PaddingNotBlockAligned, Length: len(buf)}
	}

	b := buf[len(buf)-1]
	n := int(b)
	switch {
	case n == 0:
		return nil, &PaddingError{Kind: PaddingZero, Length: len(buf), Value: b}
	case n > blockSize || n > len(buf):
		return nil, &PaddingError{Kind: PaddingOverflow, Length: len(buf), Value: b}
	}

	for _, p := range buf[len(buf)-n:] {
		if p != b {
			return nil, &PaddingError{Kind: PaddingMismatch, Length: len(buf), Value: b}
		}
	}

	return append([]uint8{}, buf[:len(buf)-n]...), nil
}

// applyPadding дополняет данные до границы блока
func applyPadding(mode PaddingMode, data []uint8, blockSize int, src RandomSource) ([]uint8, error) {
	if data == nil {
		return nil, fmt.Errorf("data cannot be nil")
	}

	if mode == PaddingModePKCS7 {
		return PKCS7Pad(data, blockSize), nil
	}

	dataLength := len(data)
	paddingLength := blockSize - (dataLength % blockSize)

	padded := make([]uint8, dataLength+paddingLength)
	copy(padded, data)

	switch mode {
	case PaddingModeZeros:
		// Уже скопировали данные, остальная часть автоматически нули

	case PaddingModeANSIX923:
		padded[len(padded)-1] = uint8(paddingLength)

	case PaddingModeISO10126:
		if paddingLength > 1 {
			if _, err := GenerateRandomBytes(src, padded[dataLength:len(padded)-1]); err != nil {
				return nil, fmt.Errorf("failed to generate random bytes: %w", err)
			}
		}
		padded[len(padded)-1] = uint8(paddingLength)

	default:
		return nil, fmt.Errorf("unsupported padding mode %d", mode)
	}

	return padded, nil
}

// removePadding снимает набивку заданного типа
func removePadding(mode PaddingMode, data []uint8, blockSize int) ([]uint8, error) {
	if mode == PaddingModePKCS7 {
		return PKCS7Unpad(data, blockSize)
	}

	if len(data) == 0 {
		return data, nil
	}

	switch mode {
	case PaddingModeZeros:
		return bytes.TrimRight(data, "\x00"), nil

	case PaddingModeANSIX923, PaddingModeISO10126:
		b := data[len(data)-1]
		n := int(b)
		if n == 0 {
			return nil, &PaddingError{Kind: PaddingZero, Length: len(data), Value: b}
		}
		if n > blockSize || n > len(data) {
			return nil, &PaddingError{Kind: PaddingOverflow, Length: len(data), Value: b}
		}
		if mode == PaddingModeANSIX923 {
			for _, p := range data[len(data)-n : len(data)-1] {
				if p != 0 {
					return nil, &PaddingError{Kind: PaddingMismatch, Length: len(data), Value: b}
				}
			}
		}
		return data[:len(data)-n], nil

	default:
		return nil, fmt.Errorf("unsupported padding mode %d", mode)
	}
}
