// Package wavelet implements the reversible 2D lifting transform PIZ
// applies to each channel's deinterleaved samples before entropy coding.
// Encode and Decode operate in place over a strided view of a flat
// []uint16 buffer: explicit row/column strides addressed directly,
// without an intermediate 2D slice.
package wavelet

// wavThreshold is the single branch point between the two lifting
// arithmetics (Design Notes: "Wavelet path selection on maxValue"). Both
// Encode and Decode must key off exactly this constant so a decoder
// mirrors whichever path the encoder took for the same maxValue.
const wavThreshold = 0x4000

// Encode transforms the ny x nx samples addressed by buf[i*oy + j*ox] in
// place (0 <= j < nx, 0 <= i < ny), using strides ox, oy measured in
// samples, not bytes. maxValue bounds every sample's value and selects
// the lifting arithmetic (see Design Notes).
func Encode(buf []uint16, nx, ox, ny, oy int, maxValue uint16) {
	transform(buf, nx, ox, ny, oy, maxValue, true)
}

// Decode inverts a transform previously applied by Encode, given the
// same nx, ox, ny, oy, and maxValue.
func Decode(buf []uint16, nx, ox, ny, oy int, maxValue uint16) {
	transform(buf, nx, ox, ny, oy, maxValue, false)
}

// ring bundles the arithmetic chosen for one transform call: wrap
// (modulo 65536) below wavThreshold, or clamp (modulo 1<<bits, the
// narrowest power of two that still holds maxValue) at or above it.
// Deriving bits from maxValue, rather than hard-coding 14, keeps the
// clamp path lossless for every legal maxValue up to 65535 while still
// bounding intermediate dynamic range tighter than the full 16-bit ring
// whenever maxValue allows it.
type ring struct {
	wrap bool
	bits uint
	mask uint32
}

func newRing(maxValue uint16) ring {
	if maxValue < wavThreshold {
		return ring{wrap: true}
	}
	bits := uint(15)
	for (uint32(1) << bits) <= uint32(maxValue) {
		bits++
	}
	return ring{bits: bits, mask: (uint32(1) << bits) - 1}
}

// transform runs the level-stepped lifting pyramid shared by Encode and
// Decode. Strides double from one level to the next for as long as the
// doubled stride still fits within the smaller of nx and ny; Encode runs
// the levels finest stride first and Decode runs them coarsest first, so
// each level is undone in reverse order. Each level performs a fused 2x2
// butterfly over every (px, px+ox*p, px+oy*p, px+ox*p+oy*p) quadruple,
// plus an explicit odd leftover row/column pass where an axis holds an
// odd number of samples at the current stride.
func transform(buf []uint16, nx, ox, ny, oy int, maxValue uint16, encode bool) {
	rg := newRing(maxValue)

	n := nx
	if ny < n {
		n = ny
	}

	var strides []int
	for p := 1; p<<1 <= n; p <<= 1 {
		strides = append(strides, p)
	}

	for k := range strides {
		p := strides[k]
		if !encode {
			p = strides[len(strides)-1-k]
		}
		p2 := p << 1
		ox1 := ox * p
		oy1 := oy * p
		ox2 := ox * p2
		oy2 := oy * p2

		// yEnd/xEnd bound the main pairing loop to pairs (j, j+p) whose
		// whole 2p-wide span [j, j+2p) is in range; a row/column left
		// unpaired by an odd sample count is picked up by the
		// trailing-row/column branches below using the loop's own
		// post-loop cursor.
		yEnd := oy * (ny - p2)
		xEnd := ox * (nx - p2)

		var py int
		for py = 0; py <= yEnd; py += oy2 {
			var px int
			for px = py; px <= py+xEnd; px += ox2 {
				i00, i01, i10, i11 := px, px+ox1, px+oy1, px+oy1+ox1
				if encode {
					butterflyEncode(buf, i00, i01, i10, i11, rg)
				} else {
					butterflyDecode(buf, i00, i01, i10, i11, rg)
				}
			}

			// Odd trailing column at this level: lift vertically only.
			if nx&p != 0 {
				a, b := px, px+oy1
				if encode {
					buf[a], buf[b] = liftEncode(buf[a], buf[b], rg)
				} else {
					buf[a], buf[b] = liftDecode(buf[a], buf[b], rg)
				}
			}
		}

		// Odd trailing row at this level: lift horizontally only, reusing
		// py where the row loop above left off.
		if ny&p != 0 {
			for px := py; px <= py+xEnd; px += ox2 {
				a, b := px, px+ox1
				if encode {
					buf[a], buf[b] = liftEncode(buf[a], buf[b], rg)
				} else {
					buf[a], buf[b] = liftDecode(buf[a], buf[b], rg)
				}
			}
		}
	}
}

func butterflyEncode(buf []uint16, i00, i01, i10, i11 int, rg ring) {
	a, b := liftEncode(buf[i00], buf[i01], rg)
	c, d := liftEncode(buf[i10], buf[i11], rg)
	buf[i00], buf[i10] = liftEncode(a, c, rg)
	buf[i01], buf[i11] = liftEncode(b, d, rg)
}

func butterflyDecode(buf []uint16, i00, i01, i10, i11 int, rg ring) {
	a, c := liftDecode(buf[i00], buf[i10], rg)
	b, d := liftDecode(buf[i01], buf[i11], rg)
	buf[i00], buf[i01] = liftDecode(a, b, rg)
	buf[i10], buf[i11] = liftDecode(c, d, rg)
}

// liftEncode applies the reversible Haar-style lift (p, q) -> (low, high)
// where low = floor((p+q)/2) and high = q-p, computed modulo 65536
// (wrap path) or modulo 1<<rg.bits (clamp path), per Design Notes.
func liftEncode(p, q uint16, rg ring) (low, high uint16) {
	if rg.wrap {
		h := q - p
		l := p + uint16(int16(h)>>1)
		return l, h
	}
	h := uint32(int32(q)-int32(p)) & rg.mask
	hs := signExtend(h, rg.bits)
	l := uint32(int32(p)+int32(hs>>1)) & rg.mask
	return uint16(l), uint16(h)
}

// liftDecode inverts liftEncode.
func liftDecode(low, high uint16, rg ring) (p, q uint16) {
	if rg.wrap {
		p = low - uint16(int16(high)>>1)
		q = p + high
		return p, q
	}
	hs := signExtend(uint32(high), rg.bits)
	pu := uint32(int32(low)-int32(hs>>1)) & rg.mask
	qu := (pu + uint32(high)) & rg.mask
	return uint16(pu), uint16(qu)
}

func signExtend(x uint32, bits uint) int32 {
	v := int32(x)
	if v&(1<<(bits-1)) != 0 {
		v -= 1 << bits
	}
	return v
}
