package cripta

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"time"
)

// Строки для демонстрации атаки на оракул набивки
var paddingOracleDemoLines = []string{
	"MDAwMDAwTm93IHRoYXQgdGhlIHBhcnR5IGlzIGp1bXBpbmc=",
	"MDAwMDAxV2l0aCB0aGUgYmFzcyBraWNrZWQgaW4gYW5kIHRoZSBWZWdhJ3MgYXJlIHB1bXBpbic=",
	"MDAwMDAyUXVpY2sgdG8gdGhlIHBvaW50LCB0byB0aGUgcG9pbnQsIG5vIGZha2luZw==",
	"MDAwMDAzQ29va2luZyBNQydzIGxpa2UgYSBwb3VuZCBvZiBiYWNvbg==",
	"MDAwMDA0QnVybmluZyAnZW0sIGlmIHlvdSBhaW4ndCBxdWljayBhbmQgbmltYmxl",
	"MDAwMDA1SSBnbyBjcmF6eSB3aGVuIEkgaGVhciBhIGN5bWJhbA==",
	"MDAwMDA2QW5kIGEgaGlnaCBoYXQgd2l0aCBhIHNvdXBlZCB1cCB0ZW1wbw==",
	"MDAwMDA3SSdtIG9uIGEgcm9sbCwgaXQncyB0aW1lIHRvIGdvIHNvbG8=",
	"MDAwMDA4b2xsaW4nIGluIG15IGZpdmUgcG9pbnQgb2g=",
	"MDAwMDA5aXRoIG15IHJhZy10b3AgZG93biBzbyBteSBoYWlyIGNhbiBibG93",
}

// Секрет для демонстрации побайтовой атаки на ECB
const ecbSuffixDemoSecret = `Um9sbGluJyBpbiBteSA1LjAKV2l0aCBteSByYWctdG9wIGRvd24gc28gbXkg
aGFpciBjYW4gYmxvdwpUaGUgZ2lybGllcyBvbiBzdGFuZGJ5IHdhdmluZyBq
dXN0IHRvIHNheSBoaQpEaWQgeW91IHN0b3A/IE5vLCBJIGp1c3QgZHJvdmUg
YnkK`

const ecbSuffixDemoMaxPrefix = 40

func decodeDemoBase64(s string) ([]uint8, error) {
	compact := bytes.Join(bytes.Fields([]uint8(s)), nil)
	return base64.StdEncoding.DecodeString(string(compact))
}

// DemoPaddingOracle шифрует случайную строку и восстанавливает ее через оракул набивки
func DemoPaddingOracle(w io.Writer, src RandomSource) error {
	fmt.Fprintln(w, "=== Атака на оракул набивки CBC ===")

	oracle, err := NewRandomCBCPaddingOracle(src)
	if err != nil {
		return err
	}

	line := paddingOracleDemoLines[src.Intn(len(paddingOracleDemoLines))]
	plaintext, err := decodeDemoBase64(line)
	if err != nil {
		return fmt.Errorf("failed to decode demo line: %w", err)
	}

	ciphertext, err := oracle.Encrypt(plaintext)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "   Шифртекст (%d байт): %x\n", len(ciphertext), ciphertext)

	startTime := time.Now()
	recovered, err := RecoverAndUnpad(oracle, oracle.IV(), ciphertext)
	if err != nil {
		return fmt.Errorf("recovered plaintext has invalid padding: %w", err)
	}
	fmt.Fprintf(w, "   Восстановлено за %v: %q\n", time.Since(startTime), recovered)

	if !bytes.Equal(recovered, plaintext) {
		return fmt.Errorf("recovered plaintext does not match")
	}
	fmt.Fprintln(w, "   Совпадает с исходным текстом: true")
	return nil
}

// DemoECBSuffix восстанавливает секрет оракула ECB со случайным префиксом
func DemoECBSuffix(w io.Writer, src RandomSource) error {
	fmt.Fprintln(w, "=== Побайтовая атака на ECB ===")

	secret, err := decodeDemoBase64(ecbSuffixDemoSecret)
	if err != nil {
		return fmt.Errorf("failed to decode demo secret: %w", err)
	}

	oracle, err := NewECBSuffixOracle(src, secret, ecbSuffixDemoMaxPrefix)
	if err != nil {
		return err
	}

	breaker := NewECBSuffixBreaker(oracle)
	startTime := time.Now()
	recovered, err := breaker.BreakOracle()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "   Размер блока: %d\n", breaker.BlockSize())
	fmt.Fprintf(w, "   Длина префикса: %d\n", breaker.PrefixLength())
	fmt.Fprintf(w, "   Длина секрета: %d\n", breaker.SuffixLength())
	fmt.Fprintf(w, "   Время: %v\n", time.Since(startTime))
	fmt.Fprintf(w, "   Секрет:\n%s", recovered)

	if !bytes.Equal(recovered, secret) {
		return fmt.Errorf("recovered secret does not match")
	}
	return nil
}

// DemoModeDetection запускает различитель режимов trials раз и возвращает число верных ответов
func DemoModeDetection(w io.Writer, src RandomSource, trials int) (int, error) {
	fmt.Fprintln(w, "=== Различитель ECB/CBC ===")

	correct := 0
	counts := map[CipherMode]int{}
	for i := 0; i < trials; i++ {
		oracle, err := NewModeOracle(src)
		if err != nil {
			return correct, err
		}
		guess := DistinguishMode(oracle)
		counts[oracle.Mode()]++
		if guess == oracle.Mode() {
			correct++
		}
	}

	fmt.Fprintf(w, "   Испытаний: %d (ECB: %d, CBC: %d)\n", trials, counts[CipherModeECB], counts[CipherModeCBC])
	fmt.Fprintf(w, "   Верно определено: %d\n", correct)

	if correct != trials {
		return correct, fmt.Errorf("mode distinguisher failed in %d of %d trials", trials-correct, trials)
	}
	return correct, nil
}

// DemoCBCBitflip вставляет поле admin=true в зашифрованную строку без знания ключа
func DemoCBCBitflip(w io.Writer, src RandomSource) error {
	fmt.Fprintln(w, "=== Подмена битов в CBC ===")

	oracle, err := NewCBCBitflipOracle(src)
	if err != nil {
		return err
	}

	honest, err := oracle.IsAdmin(oracle.Encrypt([]uint8(";admin=true;")))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "   Прямая вставка ;admin=true; дает admin: %v\n", honest)

	forged, err := CBCBitflipAttack(oracle, []uint8(";admin=true;"))
	if err != nil {
		return err
	}
	admin, err := oracle.IsAdmin(forged)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "   Измененный шифртекст дает admin: %v\n", admin)

	if honest || !admin {
		return fmt.Errorf("bitflip attack failed")
	}
	return nil
}

// Строки с общим nonce для демонстрации атаки на CTR
var fixedNonceDemoLines = []string{
	"SSBoYXZlIG1ldCB0aGVtIGF0IGNsb3NlIG9mIGRheQ==",
	"Q29taW5nIHdpdGggdml2aWQgZmFjZXM=",
	"RnJvbSBjb3VudGVyIG9yIGRlc2sgYW1vbmcgZ3JleQ==",
	"RWlnaHRlZW50aC1jZW50dXJ5IGhvdXNlcy4=",
	"SSBoYXZlIHBhc3NlZCB3aXRoIGEgbm9kIG9mIHRoZSBoZWFk",
	"T3IgcG9saXRlIG1lYW5pbmdsZXNzIHdvcmRzLA==",
	"T3IgaGF2ZSBsaW5nZXJlZCBhd2hpbGUgYW5kIHNhaWQ=",
	"UG9saXRlIG1lYW5pbmdsZXNzIHdvcmRzLA==",
	"QW5kIHRob3VnaHQgYmVmb3JlIEkgaGFkIGRvbmU=",
	"T2YgYSBtb2NraW5nIHRhbGUgb3IgYSBnaWJl",
	"VG8gcGxlYXNlIGEgY29tcGFuaW9u",
	"QXJvdW5kIHRoZSBmaXJlIGF0IHRoZSBjbHViLA==",
	"QmVpbmcgY2VydGFpbiB0aGF0IHRoZXkgYW5kIEk=",
	"QnV0IGxpdmVkIHdoZXJlIG1vdGxleSBpcyB3b3JuOg==",
	"QWxsIGNoYW5nZWQsIGNoYW5nZWQgdXR0ZXJseTo=",
	"QSB0ZXJyaWJsZSBiZWF1dHkgaXMgYm9ybi4=",
	"VGhhdCB3b21hbidzIGRheXMgd2VyZSBzcGVudA==",
	"SW4gaWdub3JhbnQgZ29vZCB3aWxsLA==",
	"SGVyIG5pZ2h0cyBpbiBhcmd1bWVudA==",
	"VW50aWwgaGVyIHZvaWNlIGdyZXcgc2hyaWxsLg==",
	"V2hhdCB2b2ljZSBtb3JlIHN3ZWV0IHRoYW4gaGVycw==",
	"V2hlbiB5b3VuZyBhbmQgYmVhdXRpZnVsLA==",
	"U2hlIHJvZGUgdG8gaGFycmllcnM/",
	"VGhpcyBtYW4gaGFkIGtlcHQgYSBzY2hvb2w=",
	"QW5kIHJvZGUgb3VyIHdpbmdlZCBob3JzZS4=",
	"VGhpcyBvdGhlciBoaXMgaGVscGVyIGFuZCBmcmllbmQ=",
	"V2FzIGNvbWluZyBpbnRvIGhpcyBmb3JjZTs=",
	"SGUgbWlnaHQgaGF2ZSB3b24gZmFtZSBpbiB0aGUgZW5kLA==",
	"U28gc2Vuc2l0aXZlIGhpcyBuYXR1cmUgc2VlbWVkLA==",
	"U28gZGFyaW5nIGFuZCBzd2VldCBoaXMgdGhvdWdodC4=",
	"VGhpcyBvdGhlciBtYW4gSSBoYWQgZHJlYW1lZA==",
	"QSBkcnVua2VuLCB2YWluLWdsb3Jpb3VzIGxvdXQu",
	"SGUgaGFkIGRvbmUgbW9zdCBiaXR0ZXIgd3Jvbmc=",
	"VG8gc29tZSB3aG8gYXJlIG5lYXIgbXkgaGVhcnQs",
	"WWV0IEkgbnVtYmVyIGhpbSBpbiB0aGUgc29uZzs=",
	"SGUsIHRvbywgaGFzIHJlc2lnbmVkIGhpcyBwYXJ0",
	"SW4gdGhlIGNhc3VhbCBjb21lZHk7",
	"SGUsIHRvbywgaGFzIGJlZW4gY2hhbmdlZCBpbiBoaXMgdHVybiw=",
	"VHJhbnNmb3JtZWQgdXR0ZXJseTo=",
	"QSB0ZXJyaWJsZSBiZWF1dHkgaXMgYm9ybi4=",
}

// fixedNonceReliableColumns число начальных столбцов, покрытых всеми демонстрационными строками
const fixedNonceReliableColumns = 20

// DemoFixedNonceCTR шифрует строки с одинаковым nonce и восстанавливает их по частотам букв
func DemoFixedNonceCTR(w io.Writer, src RandomSource) error {
	fmt.Fprintln(w, "=== Атака на CTR с повторным nonce ===")

	cipher, err := NewRijndaelCipher(RandomBytes(src, BlockSize))
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintexts := make([][]uint8, len(fixedNonceDemoLines))
	ciphertexts := make([][]uint8, len(fixedNonceDemoLines))
	for i, line := range fixedNonceDemoLines {
		if plaintexts[i], err = decodeDemoBase64(line); err != nil {
			return fmt.Errorf("failed to decode demo line: %w", err)
		}
		ciphertexts[i] = CTRTransform(cipher, 0, plaintexts[i])
	}

	keystream := BreakFixedNonceCTR(ciphertexts)
	recovered := ApplyKeystream(ciphertexts, keystream)

	mismatches := 0
	for i, line := range recovered {
		fmt.Fprintf(w, "   %q\n", line)
		n := min(len(line), fixedNonceReliableColumns)
		if !bytes.EqualFold(line[:n], plaintexts[i][:n]) {
			mismatches++
		}
	}

	fmt.Fprintf(w, "   Строк: %d, расхождений в первых %d байтах: %d\n", len(recovered), fixedNonceReliableColumns, mismatches)
	if mismatches > 0 {
		return fmt.Errorf("fixed nonce attack failed on %d lines", mismatches)
	}
	return nil
}
