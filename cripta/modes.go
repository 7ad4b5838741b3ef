package cripta

import (
	"encoding/binary"
	"fmt"
)

type CipherMode int

const (
	CipherModeECB CipherMode = iota
	CipherModeCBC
	CipherModeCTR
)

func (m CipherMode) String() string {
	switch m {
	case CipherModeECB:
		return "ECB"
	case CipherModeCBC:
		return "CBC"
	case CipherModeCTR:
		return "CTR"
	default:
		return fmt.Sprintf("CipherMode(%d)", int(m))
	}
}

// ECBEncrypt шифрует каждый блок независимо
func ECBEncrypt(cipher ISymmetricCipher, plaintext []uint8) ([]uint8, error) {
	if err := checkBlockAligned(plaintext); err != nil {
		return nil, err
	}
	ciphertext := make([]uint8, len(plaintext))
	ecbEncryptRange(cipher, plaintext, ciphertext, 0, len(plaintext)/BlockSize)
	return ciphertext, nil
}

// ECBDecrypt расшифровывает каждый блок независимо
func ECBDecrypt(cipher ISymmetricCipher, ciphertext []uint8) ([]uint8, error) {
	if err := checkBlockAligned(ciphertext); err != nil {
		return nil, err
	}
	plaintext := make([]uint8, len(ciphertext))
	ecbDecryptRange(cipher, ciphertext, plaintext, 0, len(ciphertext)/BlockSize)
	return plaintext, nil
}

func ecbEncryptRange(cipher ISymmetricCipher, src, dst []uint8, startBlock, endBlock int) {
	for i := startBlock; i < endBlock; i++ {
		block := cipher.EncryptBlock(BlockFromSlice(src[i*BlockSize:]))
		copy(dst[i*BlockSize:], block[:])
	}
}

func ecbDecryptRange(cipher ISymmetricCipher, src, dst []uint8, startBlock, endBlock int) {
	for i := startBlock; i < endBlock; i++ {
		block := cipher.DecryptBlock(BlockFromSlice(src[i*BlockSize:]))
		copy(dst[i*BlockSize:], block[:])
	}
}

func ivBlock(iv []uint8) (Block, error) {
	if len(iv) != BlockSize {
		return Block{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidIVLength, len(iv), BlockSize)
	}
	return BlockFromSlice(iv), nil
}

// CBCEncrypt шифрует в режиме CBC; набивка остается на вызывающей стороне
func CBCEncrypt(cipher ISymmetricCipher, iv []uint8, plaintext []uint8) ([]uint8, error) {
	chain, err := ivBlock(iv)
	if err != nil {
		return nil, err
	}
	if err := checkBlockAligned(plaintext); err != nil {
		return nil, err
	}

	ciphertext := make([]uint8, len(plaintext))
	for i := 0; i < len(plaintext); i += BlockSize {
		block := cipher.EncryptBlock(xorBlocks(BlockFromSlice(plaintext[i:]), chain))
		copy(ciphertext[i:], block[:])
		chain = block
	}
	return ciphertext, nil
}

// CBCDecrypt расшифровывает в режиме CBC; сцепление идет по входным блокам шифртекста
func CBCDecrypt(cipher ISymmetricCipher, iv []uint8, ciphertext []uint8) ([]uint8, error) {
	chain, err := ivBlock(iv)
	if err != nil {
		return nil, err
	}
	if err := checkBlockAligned(ciphertext); err != nil {
		return nil, err
	}

	plaintext := make([]uint8, len(ciphertext))
	for i := 0; i < len(ciphertext); i += BlockSize {
		block := BlockFromSlice(ciphertext[i:])
		decrypted := xorBlocks(cipher.DecryptBlock(block), chain)
		copy(plaintext[i:], decrypted[:])
		chain = block
	}
	return plaintext, nil
}

// counterBlock собирает блок счетчика: nonce (LE) || номер блока (LE)
func counterBlock(nonce uint64, index uint64) Block {
	var block Block
	binary.LittleEndian.PutUint64(block[:8], nonce)
	binary.LittleEndian.PutUint64(block[8:], index)
	return block
}

// CTRKeystreamBlock возвращает блок гаммы с номером index
func CTRKeystreamBlock(cipher ISymmetricCipher, nonce uint64, index uint64) Block {
	return cipher.EncryptBlock(counterBlock(nonce, index))
}

// CTRTransform шифрует и расшифровывает в режиме CTR; длина данных произвольная
func CTRTransform(cipher ISymmetricCipher, nonce uint64, data []uint8) []uint8 {
	out := make([]uint8, len(data))
	ctrTransformRange(cipher, nonce, data, out, 0, (len(data)+BlockSize-1)/BlockSize)
	return out
}

func ctrTransformRange(cipher ISymmetricCipher, nonce uint64, src, dst []uint8, startBlock, endBlock int) {
	for i := startBlock; i < endBlock; i++ {
		keystream := CTRKeystreamBlock(cipher, nonce, uint64(i))
		// Последний блок может быть короче, гамма берется только на его длину
		xorBytes(dst[i*BlockSize:], src[i*BlockSize:], keystream[:])
	}
}

// CTREdit заменяет открытый текст начиная с offset прямо в шифртексте
func CTREdit(cipher ISymmetricCipher, nonce uint64, ciphertext []uint8, offset int, newPlaintext []uint8) error {
	end := offset + len(newPlaintext)
	if offset < 0 || end > len(ciphertext) {
		return fmt.Errorf("%w: edit [%d, %d) of %d bytes", ErrOutOfBounds, offset, end, len(ciphertext))
	}

	for blockIndex := offset / BlockSize; blockIndex*BlockSize < end; blockIndex++ {
		start := blockIndex * BlockSize
		stop := min(start+BlockSize, len(ciphertext))
		chunk := ciphertext[start:stop]

		keystream := CTRKeystreamBlock(cipher, nonce, uint64(blockIndex))

		// Восстанавливаем старый открытый текст блока
		var plain Block
		n := xorBytes(plain[:], chunk, keystream[:])

		from, to := max(offset, start), min(end, stop)
		copy(plain[from-start:to-start], newPlaintext[from-offset:to-offset])

		xorBytes(chunk, plain[:n], keystream[:])
	}

	return nil
}
