package cripta

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	ErrBlockSizeNotFound = errors.New("block size not detected")
	ErrNotECB            = errors.New("oracle does not use ECB mode")
	ErrPrefixNotFound    = errors.New("prefix length not detected")
	ErrSuffixNotFound    = errors.New("suffix length not detected")
	ErrByteNotRecovered  = errors.New("suffix byte not recovered")
)

const maxBlockSizeGuess = 64

// Байт-разделитель отличается от всех заполнителей, иначе выравнивание
// префикса сливается с серией одинаковых блоков
const prefixSeparator = 0x00

var prefixFillers = [3]uint8{'A', 'B', 'C'}

// ECBSuffixBreaker восстанавливает секретный суффикс оракула prefix || input || secret в режиме ECB.
// Шаги выполняются по порядку: DetectBlockSize, DetectECB, DetectPrefixLength, DetectSuffixLength, Break.
// BreakOracle выполняет их все.
type ECBSuffixBreaker struct {
	oracle    IEncryptionOracle
	filler    uint8
	blockSize int
	prefixLen int
	suffixLen int
}

func NewECBSuffixBreaker(oracle IEncryptionOracle) *ECBSuffixBreaker {
	return &ECBSuffixBreaker{
		oracle: oracle,
		filler: 'A',
	}
}

func (x *ECBSuffixBreaker) BlockSize() int {
	return x.blockSize
}

func (x *ECBSuffixBreaker) PrefixLength() int {
	return x.prefixLen
}

func (x *ECBSuffixBreaker) SuffixLength() int {
	return x.suffixLen
}

// DetectBlockSize наращивает вход до скачка длины шифртекста
func (x *ECBSuffixBreaker) DetectBlockSize() (int, error) {
	initLen := len(x.oracle.Encrypt(nil))
	for n := 1; n <= maxBlockSizeGuess; n++ {
		nextLen := len(x.oracle.Encrypt(bytes.Repeat([]uint8{x.filler}, n)))
		if nextLen > initLen {
			x.blockSize = nextLen - initLen
			return x.blockSize, nil
		}
	}
	return 0, ErrBlockSizeNotFound
}

// DetectECB проверяет, что одинаковые блоки входа дают одинаковые блоки шифртекста
func (x *ECBSuffixBreaker) DetectECB() error {
	if x.blockSize == 0 {
		return ErrBlockSizeNotFound
	}
	input := bytes.Repeat([]uint8{x.filler}, 3*x.blockSize)
	if !HasRepeatedBlocks(x.oracle.Encrypt(input), x.blockSize) {
		return ErrNotECB
	}
	return nil
}

// DetectPrefixLength ищет такое выравнивание, при котором серия из трех одинаковых
// блоков появляется на одном и том же месте для всех трех заполнителей
func (x *ECBSuffixBreaker) DetectPrefixLength() (int, error) {
	bs := x.blockSize
	if bs == 0 {
		return 0, ErrBlockSizeNotFound
	}

	for pad := 0; pad < bs; pad++ {
		index := -1
		agreed := true

		for _, filler := range prefixFillers {
			input := append(bytes.Repeat([]uint8{prefixSeparator}, pad), bytes.Repeat([]uint8{filler}, 3*bs)...)
			j := findRepeatedRun(x.oracle.Encrypt(input), bs, 3)
			if j < 0 || (index >= 0 && j != index) {
				agreed = false
				break
			}
			index = j
		}

		if agreed {
			x.prefixLen = index*bs - pad
			return x.prefixLen, nil
		}
	}

	return 0, ErrPrefixNotFound
}

// alignment возвращает разделители, дополняющие префикс до границы блока
func (x *ECBSuffixBreaker) alignment() []uint8 {
	bs := x.blockSize
	return bytes.Repeat([]uint8{prefixSeparator}, (bs-x.prefixLen%bs)%bs)
}

// DetectSuffixLength вычисляет длину секрета по моменту добавления блока набивки
func (x *ECBSuffixBreaker) DetectSuffixLength() (int, error) {
	bs := x.blockSize
	if bs == 0 {
		return 0, ErrBlockSizeNotFound
	}

	align := x.alignment()
	baseLen := len(x.oracle.Encrypt(align))

	for k := 1; k <= bs; k++ {
		input := append(append([]uint8{}, align...), bytes.Repeat([]uint8{x.filler}, k)...)
		n := len(x.oracle.Encrypt(input))
		if n > baseLen {
			x.suffixLen = n - bs - (x.prefixLen + len(align)) - k
			return x.suffixLen, nil
		}
	}

	return 0, ErrSuffixNotFound
}

// Break восстанавливает секрет по одному байту, сравнивая целевой блок со словарем
// из 256 вариантов последнего байта
func (x *ECBSuffixBreaker) Break() ([]uint8, error) {
	bs := x.blockSize
	if bs == 0 {
		return nil, ErrBlockSizeNotFound
	}

	align := x.alignment()
	startBlock := (x.prefixLen + len(align)) / bs

	// known всегда начинается с bs-1 заполнителей, за которыми идут найденные байты
	known := bytes.Repeat([]uint8{x.filler}, bs-1)

	for i := 0; i < x.suffixLen; i++ {
		window := known[len(known)-(bs-1):]

		dictionary := make(map[string]uint8, 256)
		guess := make([]uint8, 0, len(align)+bs)
		guess = append(guess, align...)
		guess = append(guess, window...)
		guess = append(guess, 0)
		for g := 0; g < 256; g++ {
			guess[len(guess)-1] = uint8(g)
			ciphertext := x.oracle.Encrypt(guess)
			dictionary[string(ciphertext[startBlock*bs:(startBlock+1)*bs])] = uint8(g)
		}

		shift := bs - 1 - i%bs
		shifted := append(append([]uint8{}, align...), bytes.Repeat([]uint8{x.filler}, shift)...)
		ciphertext := x.oracle.Encrypt(shifted)

		target := (startBlock + i/bs) * bs
		if target+bs > len(ciphertext) {
			return nil, fmt.Errorf("%w: byte %d is outside the ciphertext", ErrByteNotRecovered, i)
		}

		b, ok := dictionary[string(ciphertext[target:target+bs])]
		if !ok {
			return nil, fmt.Errorf("%w: byte %d", ErrByteNotRecovered, i)
		}
		known = append(known, b)
	}

	return append([]uint8{}, known[bs-1:]...), nil
}

// BreakOracle выполняет все шаги атаки
func (x *ECBSuffixBreaker) BreakOracle() ([]uint8, error) {
	if _, err := x.DetectBlockSize(); err != nil {
		return nil, err
	}
	if err := x.DetectECB(); err != nil {
		return nil, err
	}
	if _, err := x.DetectPrefixLength(); err != nil {
		return nil, err
	}
	if _, err := x.DetectSuffixLength(); err != nil {
		return nil, err
	}
	return x.Break()
}
