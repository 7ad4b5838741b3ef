package cripta

type IKeySchedule interface {
	GenerateRoundKeys(masterKey []uint8) ([]Block, error)
}

type IRoundFunction interface {
	Apply(state *Block, roundKey *Block)
	ApplyInverse(state *Block, roundKey *Block)
}

type ISymmetricCipher interface {
	EncryptBlock(plainBlock Block) Block
	DecryptBlock(cipherBlock Block) Block
}

// IPaddingOracle сообщает только о корректности набивки после расшифрования
type IPaddingOracle interface {
	DecryptAndValidate(ciphertext []uint8) error
}

// IEncryptionOracle шифрует данные атакующего вместе с секретом
type IEncryptionOracle interface {
	Encrypt(plaintext []uint8) []uint8
}

// IBitflipOracle шифрует данные атакующего внутри строки с префиксом известной длины
type IBitflipOracle interface {
	IEncryptionOracle
	PrefixLength() int
}
