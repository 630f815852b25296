package wavelet

import (
	"math/rand"
	"testing"
)

// clampToMax mirrors what a caller must do before Encode: every sample is
// already known to be <= maxValue.
func clampToMax(buf []uint16, maxValue uint16) {
	for i, v := range buf {
		if v > maxValue {
			buf[i] = v % (maxValue + 1)
		}
	}
}

func roundTrip(t *testing.T, nx, ox, ny, oy int, maxValue uint16, buf []uint16) {
	t.Helper()
	want := append([]uint16(nil), buf...)
	Encode(buf, nx, ox, ny, oy, maxValue)
	Decode(buf, nx, ox, ny, oy, maxValue)
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("nx=%d ox=%d ny=%d oy=%d maxValue=%d: mismatch at %d: got %d, want %d",
				nx, ox, ny, oy, maxValue, i, buf[i], want[i])
		}
	}
}

func packedBuf(nx, ny int, rng *rand.Rand, maxValue uint16) ([]uint16, int, int) {
	ox, oy := 1, nx
	buf := make([]uint16, nx*ny)
	for i := range buf {
		buf[i] = uint16(rng.Intn(int(maxValue) + 1))
	}
	return buf, ox, oy
}

func TestRoundTripShapesAndThresholds(t *testing.T) {
	maxValues := []uint16{0, 1, 0x3FFF, 0x4000, 0xFFFF}
	shapes := [][2]int{
		{1, 1}, {1, 2}, {2, 1}, {2, 2}, {3, 3}, {4, 4},
		{5, 3}, {3, 5}, {1, 8}, {8, 1}, {16, 16}, {17, 9}, {32, 3},
	}
	for _, mv := range maxValues {
		rng := rand.New(rand.NewSource(int64(mv) + 1))
		for _, sh := range shapes {
			nx, ny := sh[0], sh[1]
			buf, ox, oy := packedBuf(nx, ny, rng, mv)
			roundTrip(t, nx, ox, ny, oy, mv, buf)
		}
	}
}

func TestRoundTripStridedView(t *testing.T) {
	// A wider backing array than nx*ny, with ox/oy chosen so the
	// transformed region is a strided sub-rectangle (e.g. one channel of
	// several interleaved in the same scratch buffer).
	const nx, ny = 6, 4
	const channels = 3
	ox, oy := channels, channels*nx
	total := oy * ny
	rng := rand.New(rand.NewSource(99))

	buf := make([]uint16, total)
	for i := range buf {
		buf[i] = uint16(rng.Intn(65536))
	}
	want := append([]uint16(nil), buf...)

	const maxValue = 0xFFFF
	Encode(buf, nx, ox, ny, oy, maxValue)
	Decode(buf, nx, ox, ny, oy, maxValue)

	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("mismatch at %d: got %d, want %d", i, buf[i], want[i])
		}
	}
}

func TestRoundTripAllZero(t *testing.T) {
	const nx, ny = 16, 16
	buf := make([]uint16, nx*ny)
	roundTrip(t, nx, 1, ny, nx, 0, buf)
}

func TestRoundTripSingleSample(t *testing.T) {
	buf := []uint16{0x1234}
	roundTrip(t, 1, 1, 1, 1, 0xFFFF, buf)
}

func TestNewRingClampNeverTruncates(t *testing.T) {
	for _, mv := range []uint16{0x4000, 0x7FFF, 0x8000, 0xFFFF} {
		rg := newRing(mv)
		if rg.wrap {
			t.Fatalf("maxValue=%#x: expected clamp ring, got wrap", mv)
		}
		if uint32(mv) > rg.mask {
			t.Fatalf("maxValue=%#x: mask %#x cannot represent it", mv, rg.mask)
		}
	}
}

func TestLiftRoundTripWrap(t *testing.T) {
	rg := ring{wrap: true}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10000; i++ {
		p := uint16(rng.Intn(65536))
		q := uint16(rng.Intn(65536))
		low, high := liftEncode(p, q, rg)
		gotP, gotQ := liftDecode(low, high, rg)
		if gotP != p || gotQ != q {
			t.Fatalf("wrap lift(%d,%d): got (%d,%d)", p, q, gotP, gotQ)
		}
	}
}

func TestLiftRoundTripClamp(t *testing.T) {
	rg := newRing(0xFFFF)
	rng := rand.New(rand.NewSource(8))
	for i := 0; i < 10000; i++ {
		p := uint16(rng.Intn(65536))
		q := uint16(rng.Intn(65536))
		low, high := liftEncode(p, q, rg)
		gotP, gotQ := liftDecode(low, high, rg)
		if gotP != p || gotQ != q {
			t.Fatalf("clamp lift(%d,%d): got (%d,%d)", p, q, gotP, gotQ)
		}
	}
}
