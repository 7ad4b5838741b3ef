package cripta

import (
	"bytes"
	"fmt"
	"net/url"
)

// CBCPaddingOracle расшифровывает CBC с фиксированным IV и сообщает только о корректности набивки.
// Оракул не меняет состояние и безопасен для одновременных вызовов.
type CBCPaddingOracle struct {
	cipher ISymmetricCipher
	iv     Block
}

func NewCBCPaddingOracle(key []uint8, iv []uint8) (*CBCPaddingOracle, error) {
	cipher, err := NewRijndaelCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	block, err := ivBlock(iv)
	if err != nil {
		return nil, err
	}
	return &CBCPaddingOracle{cipher: cipher, iv: block}, nil
}

// NewRandomCBCPaddingOracle создает оракул со случайным ключом и IV
func NewRandomCBCPaddingOracle(src RandomSource) (*CBCPaddingOracle, error) {
	return NewCBCPaddingOracle(RandomBytes(src, BlockSize), RandomBytes(src, BlockSize))
}

// IV возвращает копию вектора инициализации; IV передается вместе с шифртекстом и не секретен
func (o *CBCPaddingOracle) IV() []uint8 {
	return append([]uint8{}, o.iv[:]...)
}

// Encrypt добавляет набивку PKCS#7 и шифрует в режиме CBC
func (o *CBCPaddingOracle) Encrypt(plaintext []uint8) ([]uint8, error) {
	return CBCEncrypt(o.cipher, o.iv[:], PKCS7Pad(plaintext, BlockSize))
}

// DecryptAndValidate возвращает nil, если набивка корректна. Причина ошибки не раскрывается.
func (o *CBCPaddingOracle) DecryptAndValidate(ciphertext []uint8) error {
	plaintext, err := CBCDecrypt(o.cipher, o.iv[:], ciphertext)
	if err != nil {
		return err
	}
	if _, err := PKCS7Unpad(plaintext, BlockSize); err != nil {
		return ErrInvalidPadding
	}
	return nil
}

// ECBSuffixOracle шифрует prefix || данные атакующего || secret в режиме ECB
type ECBSuffixOracle struct {
	cipher ISymmetricCipher
	prefix []uint8
	secret []uint8
}

// NewECBSuffixOracle создает оракул со случайным ключом и случайным префиксом длины [0, maxPrefix]
func NewECBSuffixOracle(src RandomSource, secret []uint8, maxPrefix int) (*ECBSuffixOracle, error) {
	cipher, err := NewRijndaelCipher(RandomBytes(src, BlockSize))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	var prefix []uint8
	if maxPrefix > 0 {
		prefix = RandomBytes(src, RandomRange(src, 0, maxPrefix))
	}

	return &ECBSuffixOracle{
		cipher: cipher,
		prefix: prefix,
		secret: append([]uint8{}, secret...),
	}, nil
}

func (o *ECBSuffixOracle) Encrypt(plaintext []uint8) []uint8 {
	buf := make([]uint8, 0, len(o.prefix)+len(plaintext)+len(o.secret))
	buf = append(buf, o.prefix...)
	buf = append(buf, plaintext...)
	buf = append(buf, o.secret...)

	ciphertext, err := ECBEncrypt(o.cipher, PKCS7Pad(buf, BlockSize))
	if err != nil {
		panic(fmt.Sprintf("ECBSuffixOracle: %v", err))
	}
	return ciphertext
}

// ModeOracle случайно выбирает ECB или CBC и окружает данные 5-10 случайными байтами с каждой стороны
type ModeOracle struct {
	cipher ISymmetricCipher
	mode   CipherMode
	iv     []uint8
	src    RandomSource
}

func NewModeOracle(src RandomSource) (*ModeOracle, error) {
	cipher, err := NewRijndaelCipher(RandomBytes(src, BlockSize))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	oracle := &ModeOracle{cipher: cipher, mode: CipherModeECB, src: src}
	if src.Intn(2) == 1 {
		oracle.mode = CipherModeCBC
		oracle.iv = RandomBytes(src, BlockSize)
	}
	return oracle, nil
}

// Mode возвращает фактический режим
func (o *ModeOracle) Mode() CipherMode {
	return o.mode
}

func (o *ModeOracle) Encrypt(plaintext []uint8) []uint8 {
	before := RandomBytes(o.src, RandomRange(o.src, 5, 10))
	after := RandomBytes(o.src, RandomRange(o.src, 5, 10))

	buf := make([]uint8, 0, len(before)+len(plaintext)+len(after))
	buf = append(buf, before...)
	buf = append(buf, plaintext...)
	buf = append(buf, after...)
	buf = PKCS7Pad(buf, BlockSize)

	var ciphertext []uint8
	var err error
	if o.mode == CipherModeECB {
		ciphertext, err = ECBEncrypt(o.cipher, buf)
	} else {
		ciphertext, err = CBCEncrypt(o.cipher, o.iv, buf)
	}
	if err != nil {
		panic(fmt.Sprintf("ModeOracle: %v", err))
	}
	return ciphertext
}

const (
	userDataPrefix = "comment1=cooking%20MCs;userdata="
	userDataSuffix = ";comment2=%20like%20a%20pound%20of%20bacon"
	adminField     = "admin=true"
)

// CBCBitflipOracle встраивает данные пользователя в строку полей через ';'
// и шифрует ее в режиме CBC. Символы ';' и '=' в данных экранируются.
type CBCBitflipOracle struct {
	cipher ISymmetricCipher
	iv     Block
	prefix string
	suffix string
}

// NewCBCBitflipOracle создает оракул со случайным ключом и IV
func NewCBCBitflipOracle(src RandomSource) (*CBCBitflipOracle, error) {
	return newCBCBitflipOracle(src, userDataPrefix, userDataSuffix)
}

func newCBCBitflipOracle(src RandomSource, prefix, suffix string) (*CBCBitflipOracle, error) {
	cipher, err := NewRijndaelCipher(RandomBytes(src, BlockSize))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return &CBCBitflipOracle{
		cipher: cipher,
		iv:     BlockFromSlice(RandomBytes(src, BlockSize)),
		prefix: prefix,
		suffix: suffix,
	}, nil
}

// PrefixLength возвращает длину открытого префикса перед данными пользователя
func (o *CBCBitflipOracle) PrefixLength() int {
	return len(o.prefix)
}

// UserData собирает строку полей; данные пользователя экранируются как в query
func (o *CBCBitflipOracle) UserData(data []uint8) []uint8 {
	return []uint8(o.prefix + url.QueryEscape(string(data)) + o.suffix)
}

func (o *CBCBitflipOracle) Encrypt(plaintext []uint8) []uint8 {
	ciphertext, err := CBCEncrypt(o.cipher, o.iv[:], PKCS7Pad(o.UserData(plaintext), BlockSize))
	if err != nil {
		panic(fmt.Sprintf("CBCBitflipOracle: %v", err))
	}
	return ciphertext
}

// IsAdmin расшифровывает строку полей и ищет поле admin=true
func (o *CBCBitflipOracle) IsAdmin(ciphertext []uint8) (bool, error) {
	padded, err := CBCDecrypt(o.cipher, o.iv[:], ciphertext)
	if err != nil {
		return false, err
	}
	plaintext, err := PKCS7Unpad(padded, BlockSize)
	if err != nil {
		return false, err
	}
	return HasAdminField(plaintext), nil
}

// HasAdminField сообщает, есть ли среди полей через ';' поле admin=true
func HasAdminField(fields []uint8) bool {
	for _, field := range bytes.Split(fields, []uint8(";")) {
		if string(field) == adminField {
			return true
		}
	}
	return false
}
