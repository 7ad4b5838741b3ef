package cripta

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"sync"

	mtwist "blitter.com/go/mtwist"
	"golang.org/x/crypto/sha3"
)

// mtStateBytes размер полного состояния MT19937-64: 312 слов по 8 байт
const mtStateBytes = 312 * 8

// RandomSource источник случайности, который явно передается в оракулы и тесты
type RandomSource interface {
	io.Reader
	Intn(n int) int
}

type cryptoSource struct{}

// NewCryptoSource возвращает источник на основе crypto/rand
func NewCryptoSource() RandomSource {
	return cryptoSource{}
}

func (cryptoSource) Read(p []uint8) (int, error) {
	return rand.Read(p)
}

func (cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("Intn: invalid argument")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("Intn: %v", err))
	}
	return int(v.Int64())
}

// MTSource детерминированный источник на вихре Мерсенна (MT19937-64)
type MTSource struct {
	mu   sync.Mutex
	prng *mtwist.MT19937_64
}

// NewMTSource создает источник, полностью определяемый seed.
// Seed любой длины растягивается через SHAKE256 до полного состояния генератора.
func NewMTSource(seed []uint8) *MTSource {
	state := make([]uint8, mtStateBytes)
	sha3.ShakeSum256(state, seed)

	prng := mtwist.New()
	prng.SeedFullState(state)

	// Отбрасываем первые 64 значения
	for idx := 0; idx < 64; idx++ {
		_ = prng.Int63()
	}
	return &MTSource{prng: prng}
}

func (s *MTSource) Read(p []uint8) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prng.Read(p)
}

func (s *MTSource) Intn(n int) int {
	if n <= 0 {
		panic("Intn: invalid argument")
	}
	var buf [8]uint8
	if _, err := s.Read(buf[:]); err != nil {
		panic(fmt.Sprintf("Intn: %v", err))
	}
	return int(binary.LittleEndian.Uint64(buf[:]) % uint64(n))
}

// GenerateRandomBytes заполняет data случайными байтами
func GenerateRandomBytes(src RandomSource, data []uint8) (int, error) {
	return io.ReadFull(src, data)
}

// RandomBytes возвращает n случайных байт
func RandomBytes(src RandomSource, n int) []uint8 {
	buf := make([]uint8, n)
	if _, err := GenerateRandomBytes(src, buf); err != nil {
		panic(fmt.Sprintf("RandomBytes: %v", err))
	}
	return buf
}

// RandomRange возвращает число из отрезка [lo, hi]
func RandomRange(src RandomSource, lo, hi int) int {
	if lo < 0 || lo > hi {
		panic("RandomRange: invalid range")
	}
	return lo + src.Intn(hi-lo+1)
}
