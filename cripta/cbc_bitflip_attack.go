package cripta

import (
	"bytes"
	"fmt"
	"net/url"
)

const bitflipFiller = 'A'

// escapeMask подбирает для каждого байта target маску, после которой байт
// проходит экранирование оракула без изменений
func escapeMask(target []uint8) ([]uint8, error) {
	mask := make([]uint8, len(target))
	for i, b := range target {
		found := false
		for j := 0; j < 256; j++ {
			s := string([]uint8{b ^ uint8(j)})
			if s == url.QueryEscape(s) {
				mask[i] = uint8(j)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("no mask for byte 0x%02x", b)
		}
	}
	return mask, nil
}

// CBCBitflipAttack вставляет target в открытый текст, не зная ключа.
// Атакующий шифрует блок-заполнитель и замаскированный target, затем
// изменяет шифртекст заполнителя: при расшифровании CBC это снимает маску
// со следующего блока, а сам заполнитель превращается в мусор.
func CBCBitflipAttack(oracle IBitflipOracle, target []uint8) ([]uint8, error) {
	if len(target) == 0 || len(target) > BlockSize {
		return nil, fmt.Errorf("%w: target of %d bytes must fit one block", ErrOutOfBounds, len(target))
	}

	mask, err := escapeMask(target)
	if err != nil {
		return nil, err
	}
	masked := make([]uint8, len(target))
	xorBytes(masked, target, mask)

	prefixLen := oracle.PrefixLength()
	align := (BlockSize - prefixLen%BlockSize) % BlockSize

	input := bytes.Repeat([]uint8{bitflipFiller}, align+BlockSize)
	input = append(input, masked...)

	ciphertext := oracle.Encrypt(input)

	// Блок-заполнитель стоит сразу за выровненным префиксом
	start := prefixLen + align
	if start+BlockSize+len(mask) > len(ciphertext) {
		return nil, fmt.Errorf("%w: ciphertext of %d bytes is too short", ErrOutOfBounds, len(ciphertext))
	}
	xorBytes(ciphertext[start:], ciphertext[start:start+len(mask)], mask)

	return ciphertext, nil
}
