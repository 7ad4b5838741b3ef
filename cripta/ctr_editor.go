package cripta

// CTREditor хранит шифртекст CTR и позволяет редактировать его по смещению
type CTREditor struct {
	cipher     ISymmetricCipher
	nonce      uint64
	ciphertext []uint8
}

// NewCTREditor шифрует plaintext и сохраняет результат
func NewCTREditor(cipher ISymmetricCipher, nonce uint64, plaintext []uint8) *CTREditor {
	return &CTREditor{
		cipher:     cipher,
		nonce:      nonce,
		ciphertext: CTRTransform(cipher, nonce, plaintext),
	}
}

// Edit записывает plaintext начиная с offset
func (e *CTREditor) Edit(offset int, plaintext []uint8) error {
	return CTREdit(e.cipher, e.nonce, e.ciphertext, offset, plaintext)
}

// Ciphertext возвращает копию текущего шифртекста
func (e *CTREditor) Ciphertext() []uint8 {
	return append([]uint8{}, e.ciphertext...)
}

// BreakCTREditor восстанавливает открытый текст, записывая шифртекст поверх самого себя.
// Содержимое редактора после вызова заменяется открытым текстом.
func BreakCTREditor(e *CTREditor) ([]uint8, error) {
	ciphertext := e.Ciphertext()
	if err := e.Edit(0, ciphertext); err != nil {
		return nil, err
	}
	return e.Ciphertext(), nil
}
