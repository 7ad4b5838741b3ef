package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/sys/cpu"

	"github.com/nPaBwaYT/aeslab/cripta"
)

/*
Шифрование файла AES в режиме CBC
go run main.go -e -m=cbc input.txt output.enc

Дешифрование файла в base64 (ключ YELLOW SUBMARINE, нулевой IV)
go run main.go -d -m=cbc -k=59454c4c4f57205355424d4152494e45 -iv=00000000000000000000000000000000 -base64 input.b64 output.txt

Шифрование в режиме CTR с параллельной обработкой
go run main.go -e -m=ctr -nonce=7 -parallel input.txt output.enc

Ключ из пароля (PBKDF2-HMAC-SHA256)
go run main.go -e -m=cbc -passphrase="secret" -salt="aeslab" input.txt output.enc

Демонстрация атак
go run main.go -attack=padding-oracle
go run main.go -attack=ecb-suffix -seed=demo
go run main.go -attack=detect -trials=200
go run main.go -attack=bitflip
go run main.go -attack=ctr-nonce

Ключи: 16, 24 или 32 байта (AES-128/192/256)
Режимы шифрования: ECB, CBC, CTR
Режимы набивки: Zeros, PKCS7, ANSI X.923, ISO 10126
Параллельная обработка: для ECB и CTR режимов
*/

const (
	pbkdf2Iterations = 4096
	pbkdf2KeyLength  = 16
	defaultSalt      = "aeslab"
)

func main() {
	// Определяем флаги
	encryptFlag := flag.Bool("e", false, "Режим шифрования")
	decryptFlag := flag.Bool("d", false, "Режим дешифрования")
	modeFlag := flag.String("m", "cbc", "Режим шифрования: ecb, cbc, ctr")
	paddingFlag := flag.String("p", "pkcs7", "Режим набивки: zeros, pkcs7, ansi, iso")
	parallelFlag := flag.Bool("parallel", false, "Использовать параллельную обработку (только для ECB/CTR)")
	keyFlag := flag.String("k", "", "Ключ шифрования в hex: 16, 24 или 32 байта (если не указан, будет сгенерирован)")
	passphraseFlag := flag.String("passphrase", "", "Пароль для получения ключа через PBKDF2")
	saltFlag := flag.String("salt", defaultSalt, "Соль для PBKDF2")
	ivFlag := flag.String("iv", "", "Вектор инициализации в hex (если не указан, будет сгенерирован)")
	nonceFlag := flag.Uint64("nonce", 0, "Nonce для режима CTR")
	base64Flag := flag.Bool("base64", false, "Шифртекст в base64")
	attackFlag := flag.String("attack", "", "Демонстрация атаки: padding-oracle, ecb-suffix, detect, bitflip, ctr-nonce")
	trialsFlag := flag.Int("trials", 100, "Число испытаний для -attack=detect")
	seedFlag := flag.String("seed", "", "Seed детерминированного генератора (по умолчанию crypto/rand)")

	flag.Parse()

	if *attackFlag != "" {
		src := newRandomSource(*seedFlag)
		if err := runAttack(*attackFlag, src, *trialsFlag); err != nil {
			log.Fatalf("Ошибка атаки: %v", err)
		}
		return
	}

	// Проверяем аргументы
	if (*encryptFlag && *decryptFlag) || (!*encryptFlag && !*decryptFlag) {
		fmt.Println("Использование:")
		fmt.Println("  Шифрование: go run main.go -e -m=cbc input.txt output.enc")
		fmt.Println("  Дешифрование: go run main.go -d -m=cbc -k=<hex> -iv=<hex> input.enc output.txt")
		fmt.Println("  Атака: go run main.go -attack=padding-oracle")
		fmt.Println("\nФлаги:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) != 2 {
		fmt.Println("Ошибка: необходимо указать входной и выходной файлы")
		os.Exit(1)
	}

	inputFile := args[0]
	outputFile := args[1]

	// Проверяем существование входного файла
	if _, err := os.Stat(inputFile); os.IsNotExist(err) {
		log.Fatalf("Ошибка: входной файл '%s' не существует", inputFile)
	}

	src := newRandomSource(*seedFlag)

	key, err := resolveKey(*keyFlag, *passphraseFlag, *saltFlag, src)
	if err != nil {
		log.Fatalf("Ошибка работы с ключом: %v", err)
	}

	cipher, err := cripta.NewRijndaelCipher(key)
	if err != nil {
		log.Fatalf("Ошибка создания шифра: %v", err)
	}

	cipherMode, err := parseCipherMode(*modeFlag)
	if err != nil {
		log.Fatalf("Ошибка: %v", err)
	}
	paddingMode := parsePaddingMode(*paddingFlag)

	// IV нужен только в режиме CBC
	var iv []byte
	if cipherMode == cripta.CipherModeCBC {
		iv, err = getOrGenerateIV(*ivFlag, cripta.BlockSize, src)
		if err != nil {
			log.Fatalf("Ошибка работы с IV: %v", err)
		}
	}

	// Создаем контекст шифрования
	ctx, err := cripta.NewCipherContext(cipher, cipherMode, paddingMode, iv, *nonceFlag, *parallelFlag)
	if err != nil {
		log.Fatalf("Ошибка создания контекста шифрования: %v", err)
	}
	ctx.SetRandomSource(src)

	// Выполняем операцию
	startTime := time.Now()

	if *encryptFlag {
		err = encryptFile(ctx, inputFile, outputFile, *base64Flag)
		if err != nil {
			log.Fatalf("Ошибка шифрования: %v", err)
		}
		fmt.Printf("Файл успешно зашифрован: %s -> %s\n", inputFile, outputFile)
	} else {
		err = decryptFile(ctx, inputFile, outputFile, *base64Flag)
		if err != nil {
			log.Fatalf("Ошибка дешифрования: %v", err)
		}
		fmt.Printf("Файл успешно дешифрован: %s -> %s\n", inputFile, outputFile)
	}

	// Выводим информацию
	duration := time.Since(startTime)
	fileInfo, _ := os.Stat(inputFile)
	fileSize := fileInfo.Size()

	fmt.Printf("\nИнформация:\n")
	fmt.Printf("  Алгоритм: AES-%d (%d раундов)\n", cipher.GetKeySize()*8, cipher.GetRounds())
	fmt.Printf("  Режим: %s\n", cipherMode)
	fmt.Printf("  Набивка: %s\n", *paddingFlag)
	fmt.Printf("  Параллельная обработка: %v\n", *parallelFlag)
	fmt.Printf("  Аппаратный AES у процессора: %v\n", hasHardwareAES())
	fmt.Printf("  Размер файла: %d байт\n", fileSize)
	fmt.Printf("  Время выполнения: %v\n", duration)
	fmt.Printf("  Ключ: %x\n", key)
	switch cipherMode {
	case cripta.CipherModeCBC:
		fmt.Printf("  IV: %x\n", iv)
	case cripta.CipherModeCTR:
		fmt.Printf("  Nonce: %d\n", *nonceFlag)
	}
}

// hasHardwareAES сообщает, есть ли у процессора инструкции AES.
// Сам шифр их не использует, флаг выводится для сравнения производительности.
func hasHardwareAES() bool {
	return cpu.X86.HasAES || cpu.ARM64.HasAES
}

// newRandomSource возвращает детерминированный источник, если задан seed
func newRandomSource(seed string) cripta.RandomSource {
	if seed == "" {
		return cripta.NewCryptoSource()
	}
	return cripta.NewMTSource([]byte(seed))
}

// resolveKey возвращает ключ из hex, из пароля или генерирует новый
func resolveKey(keyFlag, passphrase, salt string, src cripta.RandomSource) ([]byte, error) {
	if keyFlag != "" && passphrase != "" {
		return nil, fmt.Errorf("нельзя указывать одновременно -k и -passphrase")
	}
	if passphrase != "" {
		return deriveKey(passphrase, salt), nil
	}
	return getOrGenerateKey(keyFlag, src)
}

// deriveKey получает 128-битный ключ из пароля через PBKDF2-HMAC-SHA256
func deriveKey(passphrase, salt string) []byte {
	return pbkdf2.Key([]byte(passphrase), []byte(salt), pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
}

// getOrGenerateKey возвращает ключ из флага или генерирует новый
func getOrGenerateKey(keyFlag string, src cripta.RandomSource) ([]byte, error) {
	if keyFlag != "" {
		key, err := hex.DecodeString(keyFlag)
		if err != nil {
			return nil, fmt.Errorf("неверный hex формат: %w", err)
		}
		switch len(key) {
		case 16, 24, 32:
			return key, nil
		default:
			return nil, fmt.Errorf("%w: получено %d байт", cripta.ErrInvalidKeyLength, len(key))
		}
	}

	// Генерируем случайный ключ
	key := make([]byte, 16)
	_, err := cripta.GenerateRandomBytes(src, key)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации ключа: %w", err)
	}
	return key, nil
}

// getOrGenerateIV возвращает IV из флага или генерирует новый
func getOrGenerateIV(ivFlag string, ivLength int, src cripta.RandomSource) ([]byte, error) {
	if ivFlag != "" {
		return parseHexString(ivFlag, ivLength)
	}

	// Генерируем случайный IV
	iv := make([]byte, ivLength)
	_, err := cripta.GenerateRandomBytes(src, iv)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации IV: %w", err)
	}
	return iv, nil
}

// parseHexString парсит hex строку в байты
func parseHexString(hexStr string, expectedLength int) ([]byte, error) {
	data, err := hex.DecodeString(hexStr)
	if err != nil {
		return nil, fmt.Errorf("неверный hex формат: %w", err)
	}

	// Проверяем длину
	if len(data) != expectedLength {
		return nil, fmt.Errorf("неверная длина: ожидается %d байт, получено %d", expectedLength, len(data))
	}

	return data, nil
}

// parseCipherMode преобразует строку в CipherMode
func parseCipherMode(mode string) (cripta.CipherMode, error) {
	switch strings.ToLower(mode) {
	case "ecb":
		return cripta.CipherModeECB, nil
	case "cbc":
		return cripta.CipherModeCBC, nil
	case "ctr":
		return cripta.CipherModeCTR, nil
	default:
		return 0, fmt.Errorf("неизвестный режим шифрования: %s", mode)
	}
}

// parsePaddingMode преобразует строку в PaddingMode
func parsePaddingMode(padding string) cripta.PaddingMode {
	switch padding {
	case "zeros":
		return cripta.PaddingModeZeros
	case "pkcs7":
		return cripta.PaddingModePKCS7
	case "ansi":
		return cripta.PaddingModeANSIX923
	case "iso":
		return cripta.PaddingModeISO10126
	default:
		return cripta.PaddingModePKCS7
	}
}

// decodeBase64 декодирует base64, игнорируя переводы строк
func decodeBase64(data []byte) ([]byte, error) {
	compact := bytes.Join(bytes.Fields(data), nil)
	decoded := make([]byte, base64.StdEncoding.DecodedLen(len(compact)))
	n, err := base64.StdEncoding.Decode(decoded, compact)
	if err != nil {
		return nil, fmt.Errorf("неверный base64: %w", err)
	}
	return decoded[:n], nil
}

// encryptFile шифрует файл
func encryptFile(ctx *cripta.CipherContext, inputPath, outputPath string, useBase64 bool) error {
	if !useBase64 {
		if err := ctx.EncryptFile(inputPath, outputPath); err != nil {
			return fmt.Errorf("ошибка шифрования файла: %w", err)
		}
		return nil
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("ошибка чтения файла: %w", err)
	}

	encrypted, err := ctx.Encrypt(data)
	if err != nil {
		return fmt.Errorf("ошибка шифрования: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(encrypted) + "\n"
	if err := os.WriteFile(outputPath, []byte(encoded), 0644); err != nil {
		return fmt.Errorf("ошибка записи файла: %w", err)
	}
	return nil
}

// decryptFile дешифрует файл
func decryptFile(ctx *cripta.CipherContext, inputPath, outputPath string, useBase64 bool) error {
	if !useBase64 {
		if err := ctx.DecryptFile(inputPath, outputPath); err != nil {
			return fmt.Errorf("ошибка дешифрования файла: %w", err)
		}
		return nil
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("ошибка чтения файла: %w", err)
	}

	ciphertext, err := decodeBase64(data)
	if err != nil {
		return err
	}

	decrypted, err := ctx.Decrypt(ciphertext)
	if err != nil {
		return fmt.Errorf("ошибка дешифрования: %w", err)
	}

	if err := os.WriteFile(outputPath, decrypted, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла: %w", err)
	}
	return nil
}

// runAttack запускает демонстрацию атаки
func runAttack(name string, src cripta.RandomSource, trials int) error {
	switch name {
	case "padding-oracle":
		return cripta.DemoPaddingOracle(os.Stdout, src)
	case "ecb-suffix":
		return cripta.DemoECBSuffix(os.Stdout, src)
	case "detect":
		if trials <= 0 {
			return fmt.Errorf("число испытаний должно быть положительным: %d", trials)
		}
		_, err := cripta.DemoModeDetection(os.Stdout, src, trials)
		return err
	case "bitflip":
		return cripta.DemoCBCBitflip(os.Stdout, src)
	case "ctr-nonce":
		return cripta.DemoFixedNonceCTR(os.Stdout, src)
	default:
		return fmt.Errorf("неизвестная атака: %s", name)
	}
}
