package cripta

// RijndaelRoundFunction реализует раундовую функцию для Rijndael
type RijndaelRoundFunction struct{}

// Apply применяет полный прямой раунд: SubBytes, ShiftRows, MixColumns, AddRoundKey
func (rrf *RijndaelRoundFunction) Apply(state *Block, roundKey *Block) {
	subBytes(state)
	shiftRows(state)
	mixColumns(state)
	addRoundKey(state, roundKey)
}

// ApplyInverse отменяет раунд в обратном порядке
func (rrf *RijndaelRoundFunction) ApplyInverse(state *Block, roundKey *Block) {
	addRoundKey(state, roundKey)
	invMixColumns(state)
	invShiftRows(state)
	invSubBytes(state)
}

// subBytes применяет S-бокс к каждому байту состояния
func subBytes(state *Block) {
	for i := range state {
		state[i] = sBox[state[i]]
	}
}

// invSubBytes применяет обратный S-бокс
func invSubBytes(state *Block) {
	for i := range state {
		state[i] = invSBox[state[i]]
	}
}

// shiftRows циклически сдвигает строку r влево на r позиций
func shiftRows(state *Block) {
	old := *state
	for col := 0; col < 4; col++ {
		for row := 1; row < 4; row++ {
			state[col*4+row] = old[((col+row)%4)*4+row]
		}
	}
}

// invShiftRows циклически сдвигает строку r вправо на r позиций
func invShiftRows(state *Block) {
	old := *state
	for col := 0; col < 4; col++ {
		for row := 1; row < 4; row++ {
			state[((col+row)%4)*4+row] = old[col*4+row]
		}
	}
}

// mixColumn умножает столбец на матрицу MixColumns
func mixColumn(column []uint8) {
	s0, s1, s2, s3 := column[0], column[1], column[2], column[3]

	column[0] = gfMul2[s0] ^ gfMul3[s1] ^ s2 ^ s3
	column[1] = s0 ^ gfMul2[s1] ^ gfMul3[s2] ^ s3
	column[2] = s0 ^ s1 ^ gfMul2[s2] ^ gfMul3[s3]
	column[3] = gfMul3[s0] ^ s1 ^ s2 ^ gfMul2[s3]
}

// invMixColumn умножает столбец на обратную матрицу
func invMixColumn(column []uint8) {
	s0, s1, s2, s3 := column[0], column[1], column[2], column[3]

	column[0] = gfMul14[s0] ^ gfMul11[s1] ^ gfMul13[s2] ^ gfMul9[s3]
	column[1] = gfMul9[s0] ^ gfMul14[s1] ^ gfMul11[s2] ^ gfMul13[s3]
	column[2] = gfMul13[s0] ^ gfMul9[s1] ^ gfMul14[s2] ^ gfMul11[s3]
	column[3] = gfMul11[s0] ^ gfMul13[s1] ^ gfMul9[s2] ^ gfMul14[s3]
}

func mixColumns(state *Block) {
	for i := 0; i < BlockSize; i += 4 {
		mixColumn(state[i : i+4])
	}
}

func invMixColumns(state *Block) {
	for i := 0; i < BlockSize; i += 4 {
		invMixColumn(state[i : i+4])
	}
}

// addRoundKey добавляет раундовый ключ
func addRoundKey(state *Block, roundKey *Block) {
	for i := range state {
		state[i] ^= roundKey[i]
	}
}
