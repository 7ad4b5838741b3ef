package cripta

import "fmt"

// rconTable константы раундов; нулевой элемент не используется
var rconTable = computeRcon(NewGF28Service())

func computeRcon(gf *GF28Service) [15]uint8 {
	var rcon [15]uint8
	rcon[0] = 0x8d
	rcon[1] = 0x01
	for i := 2; i < len(rcon); i++ {
		rcon[i] = gf.MultiplySimple(rcon[i-1], 0x02)
	}
	return rcon
}

// RijndaelKeySchedule реализует расписание ключей для Rijndael/AES
type RijndaelKeySchedule struct{}

type word [4]uint8

// GenerateRoundKeys генерирует Nr+1 раундовых ключей
func (rks *RijndaelKeySchedule) GenerateRoundKeys(masterKey []uint8) ([]Block, error) {
	rounds, err := roundsForKeySize(len(masterKey))
	if err != nil {
		return nil, err
	}

	// Количество слов в ключе (4 байта на слово)
	nk := len(masterKey) / 4
	total := 4 * (rounds + 1)

	words := make([]word, total)
	for i := 0; i < nk; i++ {
		copy(words[i][:], masterKey[4*i:4*i+4])
	}

	for i := nk; i < total; i++ {
		temp := words[i-1]

		if i%nk == 0 {
			temp = subWord(rotWord(temp))
			temp[0] ^= rconTable[i/nk]
		} else if nk == 8 && i%8 == 4 {
			// Только для ключей 256 бит
			temp = subWord(temp)
		}

		for j := range temp {
			words[i][j] = words[i-nk][j] ^ temp[j]
		}
	}

	roundKeys := make([]Block, rounds+1)
	for r := range roundKeys {
		for w := 0; w < 4; w++ {
			copy(roundKeys[r][4*w:], words[4*r+w][:])
		}
	}

	return roundKeys, nil
}

// rotWord циклический сдвиг слова на байт влево
func rotWord(w word) word {
	return word{w[1], w[2], w[3], w[0]}
}

// subWord применяет S-бокс к каждому байту слова
func subWord(w word) word {
	for i := range w {
		w[i] = sBox[w[i]]
	}
	return w
}

// roundsForKeySize определяет количество раундов по длине ключа
func roundsForKeySize(keySize int) (int, error) {
	switch keySize {
	case 16:
		return 10, nil
	case 24:
		return 12, nil
	case 32:
		return 14, nil
	default:
		return 0, fmt.Errorf("%w: key size must be 16, 24 or 32 bytes, got %d", ErrInvalidKeyLength, keySize)
	}
}
