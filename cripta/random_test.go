package cripta

import (
	"bytes"
	"io"
	"sync"
	"testing"
)

func TestMTSourceDeterministic(t *testing.T) {
	a := NewMTSource([]uint8("seed"))
	b := NewMTSource([]uint8("seed"))
	c := NewMTSource([]uint8("other seed"))

	bufA := RandomBytes(a, 64)
	bufB := RandomBytes(b, 64)
	bufC := RandomBytes(c, 64)

	if !bytes.Equal(bufA, bufB) {
		t.Error("одинаковый seed дал разные последовательности")
	}
	if bytes.Equal(bufA, bufC) {
		t.Error("разные seed дали одинаковые последовательности")
	}
}

func TestRandomRange(t *testing.T) {
	sources := map[string]RandomSource{
		"mt":     NewMTSource([]uint8("range")),
		"crypto": NewCryptoSource(),
	}

	for name, src := range sources {
		seen := map[int]bool{}
		for i := 0; i < 1000; i++ {
			v := RandomRange(src, 5, 10)
			if v < 5 || v > 10 {
				t.Fatalf("%s: RandomRange(5, 10) = %d", name, v)
			}
			seen[v] = true
		}
		if len(seen) != 6 {
			t.Errorf("%s: получены не все значения отрезка: %v", name, seen)
		}

		if v := RandomRange(src, 7, 7); v != 7 {
			t.Errorf("%s: RandomRange(7, 7) = %d", name, v)
		}
	}
}

func TestRandomRangePanics(t *testing.T) {
	src := NewMTSource(nil)
	expectPanic(t, "lo > hi", func() { RandomRange(src, 3, 2) })
	expectPanic(t, "Intn(0)", func() { src.Intn(0) })
}

func TestCryptoSourceFillsBuffer(t *testing.T) {
	buf := make([]uint8, 256)
	n, err := GenerateRandomBytes(NewCryptoSource(), buf)
	if err != nil {
		t.Fatalf("GenerateRandomBytes: %v", err)
	}
	if n != len(buf) {
		t.Errorf("заполнено %d байт, ожидается %d", n, len(buf))
	}
	if bytes.Equal(buf, make([]uint8, len(buf))) {
		t.Error("буфер остался нулевым")
	}
}

func TestMTSourceConcurrentUse(t *testing.T) {
	src := NewMTSource([]uint8("concurrent"))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if _, err := io.ReadFull(src, make([]uint8, 33)); err != nil {
					t.Errorf("Read: %v", err)
					return
				}
				src.Intn(1000)
			}
		}()
	}
	wg.Wait()
}
