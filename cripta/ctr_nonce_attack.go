package cripta

// englishScale знаменатель таблицы частот
const englishScale = 10000

// Частоты букв английского текста a..z на englishScale символов
var letterFrequencies = [26]int{
	724, 132, 241, 385, 1072, 205, 180, 528, 651, 9, 61, 355, 233,
	619, 685, 162, 10, 537, 560, 811, 256, 98, 186, 15, 188, 6,
}

var englishFrequencies = buildEnglishFrequencies()

func buildEnglishFrequencies() [256]int {
	var table [256]int
	table[' '] = 1076
	table['\''] = 100
	for i, f := range letterFrequencies {
		table['A'+i] = f
		table['a'+i] = f
	}
	return table
}

// EnglishScore сравнивает распределение байтов с английским текстом.
// Чем меньше значение, тем ближе текст к английскому.
func EnglishScore(text []uint8) int {
	if len(text) == 0 {
		return 0
	}

	var counts [256]int
	for _, b := range text {
		counts[b]++
	}

	score := 0
	for b, expected := range englishFrequencies {
		diff := expected - counts[b]*englishScale/len(text)
		// Байты, которых не бывает в английском тексте, штрафуются сильнее
		if expected == 0 && counts[b] > 0 {
			diff *= 2
		}
		if diff < 0 {
			diff = -diff
		}
		score += diff
	}
	return score
}

// breakSingleByteXOR подбирает байт, после XOR с которым столбец больше всего похож на английский
func breakSingleByteXOR(column []uint8) uint8 {
	candidate := make([]uint8, len(column))
	best, bestScore := uint8(0), -1

	for guess := 0; guess < 256; guess++ {
		for i, b := range column {
			candidate[i] = b ^ uint8(guess)
		}
		if score := EnglishScore(candidate); bestScore < 0 || score < bestScore {
			best, bestScore = uint8(guess), score
		}
	}
	return best
}

// BreakFixedNonceCTR восстанавливает общую гамму шифртекстов CTR с повторным nonce.
// Байт гаммы i подбирается по столбцу из i-х байт всех шифртекстов, достаточно длинных.
// Регистр букв в столбцах, где все буквы заглавные, не различается, а хвосты
// длинных строк, покрытые немногими шифртекстами, восстанавливаются ненадежно.
func BreakFixedNonceCTR(ciphertexts [][]uint8) []uint8 {
	maxLen := 0
	for _, ciphertext := range ciphertexts {
		maxLen = max(maxLen, len(ciphertext))
	}

	keystream := make([]uint8, maxLen)
	column := make([]uint8, 0, len(ciphertexts))
	for i := range keystream {
		column = column[:0]
		for _, ciphertext := range ciphertexts {
			if i < len(ciphertext) {
				column = append(column, ciphertext[i])
			}
		}
		keystream[i] = breakSingleByteXOR(column)
	}
	return keystream
}

// ApplyKeystream расшифровывает каждый шифртекст гаммой keystream
func ApplyKeystream(ciphertexts [][]uint8, keystream []uint8) [][]uint8 {
	plaintexts := make([][]uint8, len(ciphertexts))
	for i, ciphertext := range ciphertexts {
		plaintext := make([]uint8, len(ciphertext))
		n := xorBytes(plaintext, ciphertext, keystream)
		plaintexts[i] = plaintext[:n]
	}
	return plaintexts
}
