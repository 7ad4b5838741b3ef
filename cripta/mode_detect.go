package cripta

import "bytes"

// modeFillerByte заполняет вход различителя; 48 байт гарантируют два целых
// одинаковых блока при любом сдвиге до 16 байт
const modeFillerByte = 'A'

// DetectECB возвращает true, если в шифртексте есть повторяющийся блок
func DetectECB(ciphertext []uint8) bool {
	return HasRepeatedBlocks(ciphertext, BlockSize)
}

// DistinguishMode определяет режим оракула по одному запросу
func DistinguishMode(oracle IEncryptionOracle) CipherMode {
	input := bytes.Repeat([]uint8{modeFillerByte}, 3*BlockSize)
	if DetectECB(oracle.Encrypt(input)) {
		return CipherModeECB
	}
	return CipherModeCBC
}
