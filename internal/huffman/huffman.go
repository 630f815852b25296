// Package huffman implements the self-describing entropy coder used by
// the PIZ block codec: canonical Huffman coding of 16-bit symbol
// sequences, with the code-length table packed into the output alongside
// the entropy-coded payload.
package huffman

import (
	"errors"
	"fmt"

	"github.com/openexr-go/piz/internal/xdr"
)

// ErrCorruptStream is returned by Decompress/DecompressInto when the
// payload is internally inconsistent: a malformed code-length table, a
// code that does not resolve to any known symbol, a symbol index at or
// beyond 65536, or a stream that ends before its header promises.
var ErrCorruptStream = errors.New("huffman: corrupt stream")

// ErrLengthMismatch is returned when the number of symbols the stream
// actually encodes differs from the caller's expected count.
var ErrLengthMismatch = errors.New("huffman: length mismatch")

const headerSize = 4 * 5 // min_code, max_code, table_length, bit_length, reserved

// flatBits is the width of the direct-lookup decode table; codes no
// longer than this are resolved in O(1), with longer codes falling back
// to a linear scan of the sorted long-code table.
const flatBits = 14

// Compress encodes src (up to 2^31-1 16-bit symbols) into a self-describing
// byte string: a fixed header, a packed code-length table, and an
// MSB-first entropy-coded payload.
func Compress(src []uint16) []byte {
	w := xdr.NewWriter(make([]byte, 0, headerSize+len(src)))

	if len(src) == 0 {
		w.PutUint32(0)
		w.PutUint32(0)
		w.PutUint32(0)
		w.PutUint32(0)
		w.PutUint32(0)
		return w.Bytes()
	}

	var counts [65536]uint64
	for _, s := range src {
		counts[s]++
	}

	minCode, maxCode := -1, -1
	for i, c := range counts {
		if c == 0 {
			continue
		}
		if minCode == -1 {
			minCode = i
		}
		maxCode = i
	}

	alphabet := counts[minCode : maxCode+1]
	lengths := buildCodeLengths(alphabet, maxCodeLength)
	codes := canonicalCodes(lengths)
	table := packLengths(lengths)

	w.PutUint32(uint32(minCode))
	w.PutUint32(uint32(maxCode))
	w.PutUint32(uint32(len(table)))

	bitLenOff := w.Len()
	w.PutUint32(0) // patched below
	w.PutUint32(0) // reserved
	w.PutBytes(table)

	var bitLength int
	var payload []byte
	if minCode != maxCode {
		bw := newBitWriter(len(src))
		for _, s := range src {
			c := codes[int(s)-minCode]
			bw.putBits(c.code, int(c.length))
		}
		bitLength = bw.bitLength()
		payload = bw.flush()
	}

	w.PatchUint32(bitLenOff, uint32(bitLength))
	w.PutBytes(payload)
	return w.Bytes()
}

// Decompress decodes a Compress-produced byte string into exactly
// nExpected symbols.
func Decompress(data []byte, nExpected int) ([]uint16, error) {
	dst := make([]uint16, nExpected)
	if err := DecompressInto(data, dst); err != nil {
		return nil, err
	}
	return dst, nil
}

// DecompressInto decodes data into dst, which must have length equal to
// the expected symbol count. It fails with ErrCorruptStream on any
// internal inconsistency and ErrLengthMismatch if the stream encodes a
// different number of symbols than len(dst).
func DecompressInto(data []byte, dst []uint16) error {
	if len(data) < headerSize {
		return fmt.Errorf("%w: header truncated", ErrCorruptStream)
	}
	r := xdr.NewReader(data)
	minCode := int(r.GetUint32())
	maxCode := int(r.GetUint32())
	tableLength := int(r.GetUint32())
	bitLength := int(r.GetUint32())
	_ = r.GetUint32() // reserved

	if len(dst) == 0 {
		return nil
	}
	if minCode < 0 || maxCode < minCode || maxCode >= 65536 {
		return fmt.Errorf("%w: bad code range [%d,%d]", ErrCorruptStream, minCode, maxCode)
	}
	if tableLength < 0 || r.Remaining() < tableLength {
		return fmt.Errorf("%w: code-length table truncated", ErrCorruptStream)
	}
	table := r.GetBytes(tableLength)

	alphabetSize := maxCode - minCode + 1
	lengths, err := unpackLengths(table, alphabetSize)
	if err != nil {
		return err
	}
	if err := checkKraftInequality(lengths); err != nil {
		return err
	}

	if minCode == maxCode {
		sym := uint16(minCode)
		for i := range dst {
			dst[i] = sym
		}
		return nil
	}

	if bitLength < 0 {
		return fmt.Errorf("%w: negative bit length", ErrCorruptStream)
	}
	payloadBytes := (bitLength + 7) / 8
	if r.Remaining() < payloadBytes {
		return fmt.Errorf("%w: payload truncated", ErrCorruptStream)
	}
	payload := r.GetBytes(payloadBytes)

	flatSymbol, flatLen, long := buildDecodeTables(lengths, minCode)

	br := newBitReader(payload)
	bitsRemaining := bitLength
	count := 0
	for bitsRemaining > 0 {
		window := br.peek(flatBits)
		sym, length, ok := flatSymbol[window], flatLen[window], flatSymbol[window] >= 0
		if !ok {
			sym, length, ok = scanLong(br, long)
		}
		if !ok {
			return fmt.Errorf("%w: no matching code", ErrCorruptStream)
		}
		if count >= len(dst) {
			return ErrLengthMismatch
		}
		br.consume(int(length))
		dst[count] = uint16(sym)
		count++
		bitsRemaining -= int(length)
	}
	if count != len(dst) {
		return ErrLengthMismatch
	}
	return nil
}

type longCode struct {
	code   uint64
	length uint8
	symbol int32
}

// buildDecodeTables builds the flat 2^flatBits lookup table for codes no
// longer than flatBits, and the linearly-scanned table for longer codes.
func buildDecodeTables(lengths []uint8, minCode int) (flatSymbol []int32, flatLen []uint8, long []longCode) {
	codes := canonicalCodes(lengths)

	size := 1 << flatBits
	flatSymbol = make([]int32, size)
	for i := range flatSymbol {
		flatSymbol[i] = -1
	}
	flatLen = make([]uint8, size)

	for i, l := range lengths {
		if l == 0 {
			continue
		}
		c := codes[i]
		symbol := int32(minCode + i)
		if int(l) <= flatBits {
			shift := flatBits - int(l)
			base := c.code << uint(shift)
			for x := 0; x < 1<<uint(shift); x++ {
				idx := base | uint64(x)
				flatSymbol[idx] = symbol
				flatLen[idx] = l
			}
		} else {
			long = append(long, longCode{code: c.code, length: l, symbol: symbol})
		}
	}
	return flatSymbol, flatLen, long
}

func scanLong(br *bitReader, long []longCode) (symbol int32, length uint8, ok bool) {
	for _, e := range long {
		if br.peek(int(e.length)) == e.code {
			return e.symbol, e.length, true
		}
	}
	return 0, 0, false
}
