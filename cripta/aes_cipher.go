package cripta

import (
	"fmt"
	"math/bits"
)

// S-боксы вычисляются один раз через обращение в поле GF(2⁸)
var sBox, invSBox = computeSBoxes(NewGF28Service(), AESModulus)

// computeSBoxes строит S-бокс как аффинное преобразование обратного элемента
func computeSBoxes(gf *GF28Service, modulus byte) ([256]uint8, [256]uint8) {
	var sbox, inv [256]uint8

	for i := 0; i < 256; i++ {
		var x byte
		if i != 0 {
			x, _ = gf.Inverse(byte(i), modulus)
		}
		sbox[i] = affineTransform(x)
	}

	for i := 0; i < 256; i++ {
		inv[sbox[i]] = byte(i)
	}

	return sbox, inv
}

// affineTransform выполняет аффинное преобразование для S-бокса
func affineTransform(b byte) byte {
	return b ^
		bits.RotateLeft8(b, 1) ^
		bits.RotateLeft8(b, 2) ^
		bits.RotateLeft8(b, 3) ^
		bits.RotateLeft8(b, 4) ^
		0x63
}

// RijndaelCipher реализует AES с блоком 128 бит и ключом 128/192/256 бит.
// После создания шифр только читает расписание ключей и безопасен
// для одновременного использования из нескольких горутин.
type RijndaelCipher struct {
	keySchedule   IKeySchedule
	roundFunction IRoundFunction
	keySize       int
	rounds        int
	roundKeys     []Block
}

// NewRijndaelCipher создает шифр и разворачивает ключ
func NewRijndaelCipher(key []uint8) (*RijndaelCipher, error) {
	rounds, err := roundsForKeySize(len(key))
	if err != nil {
		return nil, err
	}

	cipher := &RijndaelCipher{
		keySchedule:   &RijndaelKeySchedule{},
		roundFunction: &RijndaelRoundFunction{},
		keySize:       len(key),
		rounds:        rounds,
	}

	roundKeys, err := cipher.keySchedule.GenerateRoundKeys(key)
	if err != nil {
		return nil, fmt.Errorf("failed to generate round keys: %w", err)
	}
	if len(roundKeys) != rounds+1 {
		return nil, fmt.Errorf("key schedule produced %d round keys, want %d", len(roundKeys), rounds+1)
	}

	cipher.roundKeys = roundKeys
	return cipher, nil
}

// EncryptBlock шифрует блок данных
func (rc *RijndaelCipher) EncryptBlock(plainBlock Block) Block {
	state := plainBlock

	// Начальное добавление ключа
	addRoundKey(&state, &rc.roundKeys[0])

	// Основные раунды
	for round := 1; round < rc.rounds; round++ {
		rc.roundFunction.Apply(&state, &rc.roundKeys[round])
	}

	// Финальный раунд (без mixColumns)
	subBytes(&state)
	shiftRows(&state)
	addRoundKey(&state, &rc.roundKeys[rc.rounds])

	return state
}

// DecryptBlock расшифровывает блок данных
func (rc *RijndaelCipher) DecryptBlock(cipherBlock Block) Block {
	state := cipherBlock

	addRoundKey(&state, &rc.roundKeys[rc.rounds])
	invShiftRows(&state)
	invSubBytes(&state)

	// Основные раунды в обратном порядке
	for round := rc.rounds - 1; round > 0; round-- {
		rc.roundFunction.ApplyInverse(&state, &rc.roundKeys[round])
	}

	// Финальное добавление ключа
	addRoundKey(&state, &rc.roundKeys[0])

	return state
}

// RoundKeys возвращает копию расписания ключей
func (rc *RijndaelCipher) RoundKeys() []Block {
	keys := make([]Block, len(rc.roundKeys))
	copy(keys, rc.roundKeys)
	return keys
}

// GetKeySize возвращает размер ключа
func (rc *RijndaelCipher) GetKeySize() int {
	return rc.keySize
}

// GetRounds возвращает количество раундов
func (rc *RijndaelCipher) GetRounds() int {
	return rc.rounds
}

// GetBlockSize возвращает размер блока
func (rc *RijndaelCipher) GetBlockSize() int {
	return BlockSize
}
