// Package rangecompact builds the presence bitmap and forward/reverse
// lookup tables PIZ uses to squeeze the set of sample values actually
// occurring in a block into a dense prefix, bounding both the Huffman
// alphabet and the wavelet's working dynamic range.
package rangecompact

// BitmapSize is the number of bytes in a presence bitmap: one bit for
// each of the 65,536 possible 16-bit sample values.
const BitmapSize = 8192

// Bitmap records which 16-bit values occur in a block's samples.
type Bitmap [BitmapSize]byte

func (b *Bitmap) set(v uint16) {
	b[v>>3] |= 1 << (v & 7)
}

func (b *Bitmap) isSet(v uint16) bool {
	return b[v>>3]&(1<<(v&7)) != 0
}

// BitmapFromData sets one bit per distinct value in samples, then clears
// bit 0 unconditionally (value 0 is always implicitly present). It also
// returns the smallest and largest byte indices of the bitmap containing
// any set bit; if no bits are set, minNonZero > maxNonZero and the
// caller should transmit no bitmap bytes at all.
func BitmapFromData(samples []uint16) (bitmap Bitmap, minNonZero, maxNonZero uint16) {
	for _, s := range samples {
		bitmap.set(s)
	}
	bitmap[0] &^= 1 // clear bit 0: value 0 is implicit, never transmitted

	minNonZero, maxNonZero = BitmapSize-1, 0
	found := false
	for i, byt := range bitmap {
		if byt == 0 {
			continue
		}
		if !found {
			minNonZero = uint16(i)
			found = true
		}
		maxNonZero = uint16(i)
	}
	if !found {
		minNonZero, maxNonZero = BitmapSize-1, 0
	}
	return bitmap, minNonZero, maxNonZero
}

// ForwardLUT maps an original 16-bit value to its dense index. It is an
// alias, not a defined type, so it can be passed interchangeably with
// ReverseLUT to ApplyLUT.
type ForwardLUT = [65536]uint16

// ReverseLUT maps a dense index back to the original 16-bit value it
// was assigned during forward construction.
type ReverseLUT = [65536]uint16

// ForwardLUTFromBitmap walks all 65,536 values in ascending order;
// value 0 and any value whose bit is set are assigned the next dense
// index starting from 0. Unrepresented values map to 0 (the same index
// value 0 itself receives, since it is always present). maxValue is the
// number of assigned indices minus one.
func ForwardLUTFromBitmap(bitmap *Bitmap) (lut ForwardLUT, maxValue uint16) {
	var next uint32
	for v := 0; v < 65536; v++ {
		if v == 0 || bitmap.isSet(uint16(v)) {
			lut[v] = uint16(next)
			next++
		}
	}
	return lut, uint16(next - 1)
}

// ReverseLUTFromBitmap is the inverse enumeration: the i-th present
// value (value 0 always being the 0th) is recorded at index i. Indices
// beyond maxValue are left at 0. maxValue matches ForwardLUTFromBitmap
// on the same bitmap.
func ReverseLUTFromBitmap(bitmap *Bitmap) (lut ReverseLUT, maxValue uint16) {
	var next uint32
	for v := 0; v < 65536; v++ {
		if v == 0 || bitmap.isSet(uint16(v)) {
			lut[next] = uint16(v)
			next++
		}
	}
	return lut, uint16(next - 1)
}

// ApplyLUT rewrites each sample in place through lut, a 65,536-entry
// table indexed by sample value (ForwardLUT and ReverseLUT share this
// shape, so either satisfies this parameter).
func ApplyLUT(lut *[65536]uint16, samples []uint16) {
	for i, s := range samples {
		samples[i] = lut[s]
	}
}
