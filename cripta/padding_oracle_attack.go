package cripta

import "fmt"

// RecoverPlaintextViaPaddingOracle восстанавливает открытый текст CBC, используя только
// сигнал корректности набивки. Результат содержит набивку PKCS#7.
//
// Пары (предыдущий блок, текущий блок) независимы и делятся между
// runtime.NumCPU() горутинами, у каждой свой рабочий буфер. Если оракул
// не подтверждает ни один байт, контракт оракула нарушен и функция паникует.
func RecoverPlaintextViaPaddingOracle(oracle IPaddingOracle, iv []uint8, ciphertext []uint8) []uint8 {
	if len(iv) != BlockSize {
		panic(fmt.Sprintf("padding oracle attack: IV must be %d bytes, got %d", BlockSize, len(iv)))
	}
	if len(ciphertext)%BlockSize != 0 {
		panic(fmt.Sprintf("padding oracle attack: ciphertext length %d is not a multiple of %d", len(ciphertext), BlockSize))
	}

	numBlocks := len(ciphertext) / BlockSize
	plaintext := make([]uint8, len(ciphertext))
	errs := make([]error, numBlocks)

	runParallel(numBlocks, func(start, end int) {
		for index := start; index < end; index++ {
			prev := BlockFromSlice(iv)
			if index > 0 {
				prev = BlockFromSlice(ciphertext[(index-1)*BlockSize:])
			}
			curr := BlockFromSlice(ciphertext[index*BlockSize:])

			block, err := recoverBlock(oracle, prev, curr)
			if err != nil {
				errs[index] = fmt.Errorf("block %d: %w", index, err)
				continue
			}
			copy(plaintext[index*BlockSize:], block[:])
		}
	})

	for _, err := range errs {
		if err != nil {
			panic(fmt.Sprintf("padding oracle attack: %v", err))
		}
	}

	return plaintext
}

// RecoverAndUnpad восстанавливает открытый текст и снимает набивку
func RecoverAndUnpad(oracle IPaddingOracle, iv []uint8, ciphertext []uint8) ([]uint8, error) {
	return PKCS7Unpad(RecoverPlaintextViaPaddingOracle(oracle, iv, ciphertext), BlockSize)
}

// recoverBlock подбирает промежуточное состояние D(curr) байт за байтом с конца
func recoverBlock(oracle IPaddingOracle, prev, curr Block) (Block, error) {
	var intermediate, plain Block

	forged := make([]uint8, 2*BlockSize)
	copy(forged[BlockSize:], curr[:])

	for i := BlockSize - 1; i >= 0; i-- {
		pad := uint8(BlockSize - i)

		// Уже найденные байты выставляем так, чтобы они расшифровались в pad
		c1 := prev
		for j := i + 1; j < BlockSize; j++ {
			c1[j] = pad ^ intermediate[j]
		}

		found := false
		for b := 0; b < 256; b++ {
			// Исходный байт пропускаем: в последней позиции он всегда дает исходную набивку
			if uint8(b) == prev[i] {
				continue
			}
			c1[i] = uint8(b)
			if !paddingAccepted(oracle, forged, c1) {
				continue
			}
			if i == BlockSize-1 && !confirmLastByte(oracle, forged, c1, i) {
				continue
			}
			found = true
			break
		}

		if !found {
			c1[i] = prev[i]
			if !paddingAccepted(oracle, forged, c1) {
				return Block{}, fmt.Errorf("no byte value produces valid padding at position %d", i)
			}
		}

		intermediate[i] = c1[i] ^ pad
		plain[i] = prev[i] ^ intermediate[i]
	}

	return plain, nil
}

func paddingAccepted(oracle IPaddingOracle, forged []uint8, c1 Block) bool {
	copy(forged[:BlockSize], c1[:])
	return oracle.DecryptAndValidate(forged) == nil
}

// confirmLastByte отсекает случайную длинную набивку (02 02, 03 03 03, ...):
// после инверсии всех байт перед позицией i корректной останется только набивка 01
func confirmLastByte(oracle IPaddingOracle, forged []uint8, c1 Block, i int) bool {
	flipped := c1
	for j := 0; j < i; j++ {
		flipped[j] ^= 0xff
	}
	return paddingAccepted(oracle, forged, flipped)
}
