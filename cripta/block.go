package cripta

import (
	"bytes"
	"fmt"
)

// BlockSize размер блока AES в байтах
const BlockSize = 16

// Block блок AES; байт i находится в строке i%4 и столбце i/4
type Block [BlockSize]uint8

// BlockFromSlice копирует первые BlockSize байт среза в блок
func BlockFromSlice(data []uint8) Block {
	var block Block
	copy(block[:], data)
	return block
}

// String выводит блок в hex
func (b Block) String() string {
	return fmt.Sprintf("%x", b[:])
}

func xorBlocks(a, b Block) Block {
	var result Block
	for i := range result {
		result[i] = a[i] ^ b[i]
	}
	return result
}

// xorBytes записывает a^b в dst и возвращает число обработанных байт
func xorBytes(dst, a, b []uint8) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dst[i] = a[i] ^ b[i]
	}
	return n
}

// SplitBlocks делит буфер на блоки заданного размера без копирования
func SplitBlocks(buf []uint8, blockSize int) [][]uint8 {
	var blocks [][]uint8
	for len(buf) >= blockSize {
		blocks = append(blocks, buf[:blockSize])
		buf = buf[blockSize:]
	}
	return blocks
}

// HasRepeatedBlocks возвращает true, если какой-либо блок встречается дважды
func HasRepeatedBlocks(buf []uint8, blockSize int) bool {
	seen := make(map[string]bool)
	for _, block := range SplitBlocks(buf, blockSize) {
		key := string(block)
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

// findRepeatedRun ищет run подряд идущих одинаковых блоков и возвращает индекс первого
func findRepeatedRun(buf []uint8, blockSize, run int) int {
	blocks := SplitBlocks(buf, blockSize)
	for i := 0; i+run <= len(blocks); i++ {
		match := true
		for j := 1; j < run; j++ {
			if !bytes.Equal(blocks[i], blocks[i+j]) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func checkBlockAligned(data []uint8) error {
	if len(data)%BlockSize != 0 {
		return fmt.Errorf("%w: got %d bytes", ErrNotBlockAligned, len(data))
	}
	return nil
}
