package cripta

import (
	"fmt"
	"os"
	"runtime"
	"sync"
)

type CipherContext struct {
	cipher      ISymmetricCipher
	mode        CipherMode
	paddingMode PaddingMode
	iv          []uint8
	nonce       uint64
	random      RandomSource
	parallel    bool
}

func NewCipherContext(
	cipher ISymmetricCipher,
	mode CipherMode,
	paddingMode PaddingMode,
	iv []uint8,
	nonce uint64,
	parallel bool,
) (*CipherContext, error) {

	if cipher == nil {
		return nil, fmt.Errorf("cipher implementation cannot be nil")
	}

	switch mode {
	case CipherModeECB, CipherModeCBC, CipherModeCTR:
	default:
		return nil, fmt.Errorf("unsupported cipher mode %v", mode)
	}

	ctx := &CipherContext{
		cipher:      cipher,
		mode:        mode,
		paddingMode: paddingMode,
		nonce:       nonce,
		random:      NewCryptoSource(),
		parallel:    parallel,
	}

	if err := ctx.SetIV(iv); err != nil {
		return nil, err
	}

	return ctx, nil
}

// runParallel делит блоки между горутинами по числу процессоров
func runParallel(numBlocks int, work func(start, end int)) {
	numThreads := runtime.NumCPU()
	if numThreads == 0 {
		numThreads = 4
	}
	if numThreads > numBlocks {
		numThreads = numBlocks
	}
	if numThreads == 0 {
		return
	}

	var wg sync.WaitGroup
	blocksPerThread := (numBlocks + numThreads - 1) / numThreads

	for t := 0; t < numThreads; t++ {
		startBlock := t * blocksPerThread
		endBlock := startBlock + blocksPerThread
		if endBlock > numBlocks {
			endBlock = numBlocks
		}

		if startBlock >= numBlocks {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			work(start, end)
		}(startBlock, endBlock)
	}

	wg.Wait()
}

func (ctx *CipherContext) encryptECBParallel(padded []uint8) []uint8 {
	ciphertext := make([]uint8, len(padded))
	runParallel(len(padded)/BlockSize, func(start, end int) {
		ecbEncryptRange(ctx.cipher, padded, ciphertext, start, end)
	})
	return ciphertext
}

func (ctx *CipherContext) decryptECBParallel(ciphertext []uint8) []uint8 {
	plaintext := make([]uint8, len(ciphertext))
	runParallel(len(ciphertext)/BlockSize, func(start, end int) {
		ecbDecryptRange(ctx.cipher, ciphertext, plaintext, start, end)
	})
	return plaintext
}

// Каждая горутина вычисляет свой счетчик из номера блока, общего состояния нет
func (ctx *CipherContext) transformCTRParallel(data []uint8) []uint8 {
	out := make([]uint8, len(data))
	runParallel((len(data)+BlockSize-1)/BlockSize, func(start, end int) {
		ctrTransformRange(ctx.cipher, ctx.nonce, data, out, start, end)
	})
	return out
}

// Encrypt шифрует сообщение целиком; параллельный путь задается при создании контекста
func (ctx *CipherContext) Encrypt(plaintext []uint8) ([]uint8, error) {
	if plaintext == nil {
		return nil, fmt.Errorf("plaintext cannot be nil")
	}

	if ctx.mode == CipherModeCTR {
		if ctx.parallel {
			return ctx.transformCTRParallel(plaintext), nil
		}
		return CTRTransform(ctx.cipher, ctx.nonce, plaintext), nil
	}

	padded, err := applyPadding(ctx.paddingMode, plaintext, BlockSize, ctx.random)
	if err != nil {
		return nil, fmt.Errorf("padding failed: %w", err)
	}

	switch ctx.mode {
	case CipherModeECB:
		if ctx.parallel {
			return ctx.encryptECBParallel(padded), nil
		}
		ciphertext, err := ECBEncrypt(ctx.cipher, padded)
		if err != nil {
			return nil, fmt.Errorf("ECB encryption failed: %w", err)
		}
		return ciphertext, nil

	case CipherModeCBC:
		ciphertext, err := CBCEncrypt(ctx.cipher, ctx.iv, padded)
		if err != nil {
			return nil, fmt.Errorf("CBC encryption failed: %w", err)
		}
		return ciphertext, nil

	default:
		return nil, fmt.Errorf("unsupported cipher mode")
	}
}

func (ctx *CipherContext) Decrypt(ciphertext []uint8) ([]uint8, error) {
	if ciphertext == nil {
		return nil, fmt.Errorf("ciphertext cannot be nil")
	}

	var plaintext []uint8
	var err error

	switch ctx.mode {
	case CipherModeCTR:
		if ctx.parallel {
			return ctx.transformCTRParallel(ciphertext), nil
		}
		return CTRTransform(ctx.cipher, ctx.nonce, ciphertext), nil

	case CipherModeECB:
		if err := checkBlockAligned(ciphertext); err != nil {
			return nil, fmt.Errorf("ECB decryption failed: %w", err)
		}
		if ctx.parallel {
			plaintext = ctx.decryptECBParallel(ciphertext)
		} else if plaintext, err = ECBDecrypt(ctx.cipher, ciphertext); err != nil {
			return nil, fmt.Errorf("ECB decryption failed: %w", err)
		}

	case CipherModeCBC:
		plaintext, err = CBCDecrypt(ctx.cipher, ctx.iv, ciphertext)
		if err != nil {
			return nil, fmt.Errorf("CBC decryption failed: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported cipher mode")
	}

	unpadded, err := removePadding(ctx.paddingMode, plaintext, BlockSize)
	if err != nil {
		return nil, fmt.Errorf("padding removal failed: %w", err)
	}
	return unpadded, nil
}

func (ctx *CipherContext) EncryptFile(inputPath string, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	encrypted, err := ctx.Encrypt(data)
	if err != nil {
		return fmt.Errorf("encryption failed: %w", err)
	}

	err = os.WriteFile(outputPath, encrypted, 0644)
	if err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

func (ctx *CipherContext) DecryptFile(inputPath string, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	decrypted, err := ctx.Decrypt(data)
	if err != nil {
		return fmt.Errorf("decryption failed: %w", err)
	}

	err = os.WriteFile(outputPath, decrypted, 0644)
	if err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

func (ctx *CipherContext) SetMode(newMode CipherMode) {
	ctx.mode = newMode
}

func (ctx *CipherContext) SetPaddingMode(newPaddingMode PaddingMode) {
	ctx.paddingMode = newPaddingMode
}

// SetIV задает вектор инициализации; пустой IV заменяется нулевым блоком
func (ctx *CipherContext) SetIV(newIV []uint8) error {
	if len(newIV) == 0 {
		ctx.iv = make([]uint8, BlockSize)
		return nil
	}
	if ctx.mode == CipherModeCBC && len(newIV) != BlockSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidIVLength, len(newIV), BlockSize)
	}
	ctx.iv = make([]uint8, len(newIV))
	copy(ctx.iv, newIV)
	return nil
}

// SetParallel включает параллельную обработку ECB и CTR; на CBC не влияет
func (ctx *CipherContext) SetParallel(parallel bool) {
	ctx.parallel = parallel
}

func (ctx *CipherContext) SetNonce(nonce uint64) {
	ctx.nonce = nonce
}

// SetRandomSource задает источник для набивки ISO 10126
func (ctx *CipherContext) SetRandomSource(src RandomSource) {
	ctx.random = src
}

func (ctx *CipherContext) GetMode() CipherMode {
	return ctx.mode
}

func (ctx *CipherContext) GetBlockSize() int {
	return BlockSize
}
