package piz

import (
	"fmt"

	"github.com/openexr-go/piz/internal/huffman"
	"github.com/openexr-go/piz/internal/rangecompact"
	"github.com/openexr-go/piz/internal/wavelet"
	"github.com/openexr-go/piz/internal/xdr"
)

// Codec is a single-threaded PIZ compressor/decompressor for one fixed
// channel schema and block geometry. Construct one instance per
// concurrent worker; an instance holds no cross-call state beyond its
// own reused scratch buffer.
type Codec struct {
	channels        []ChannelDescriptor
	dataWindow      Rect
	maxScanLineSize int
	linesPerBlock   int

	// native records whether every channel is 16-bit float, the one
	// condition under which a container may hand the codec its native
	// in-memory pixel layout instead of the portable wire form. See the
	// comment on deinterleave for why this codebase treats both forms
	// identically.
	native bool

	scratch []uint16
}

// NewCodec constructs a Codec for the given channel schema, data
// window, and block sizing. maxScanLineSize bounds bytes per scan line
// and linesPerBlock bounds rows per block; both come from the
// surrounding container and size the codec's one reusable scratch
// buffer so no reallocation is needed on the hot path.
func NewCodec(channels []ChannelDescriptor, dataWindow Rect, maxScanLineSize, linesPerBlock int) *Codec {
	native := true
	for _, c := range channels {
		if c.Type != PixelHalf {
			native = false
			break
		}
	}

	maxSamplesPerLine := maxScanLineSize / 2
	scratchCap := maxSamplesPerLine * linesPerBlock

	return &Codec{
		channels:        append([]ChannelDescriptor(nil), channels...),
		dataWindow:      dataWindow,
		maxScanLineSize: maxScanLineSize,
		linesPerBlock:   linesPerBlock,
		native:          native,
		scratch:         make([]uint16, 0, scratchCap),
	}
}

// Format reports "native" if every channel is 16-bit float (PixelHalf),
// or "portable" otherwise. Read-only; mirrors the format()
// accessor the surrounding container uses to pick its I/O strategy.
func (c *Codec) Format() string {
	if c.native {
		return "native"
	}
	return "portable"
}

// LinesPerBlock returns the number of scanlines per block this Codec
// was constructed with.
func (c *Codec) LinesPerBlock() int {
	return c.linesPerBlock
}

func (c *Codec) scanLineRect(firstLine int) Rect {
	last := firstLine + c.linesPerBlock - 1
	if last > c.dataWindow.MaxY {
		last = c.dataWindow.MaxY
	}
	return Rect{
		MinX: c.dataWindow.MinX,
		MaxX: c.dataWindow.MaxX,
		MinY: firstLine,
		MaxY: last,
	}
}

// Compress encodes the scanline block starting at firstLine. in must
// hold exactly the bytes for that block's rows in the container's
// chosen input format. An empty input yields an empty output.
func (c *Codec) Compress(in []byte, firstLine int) ([]byte, error) {
	return c.compressRect(in, c.scanLineRect(firstLine))
}

// CompressTile encodes an arbitrary rectangular tile.
func (c *Codec) CompressTile(in []byte, tile Rect) ([]byte, error) {
	return c.compressRect(in, tile)
}

// Decompress inverts Compress for the scanline block starting at
// firstLine.
func (c *Codec) Decompress(in []byte, firstLine int) ([]byte, error) {
	return c.decompressRect(in, c.scanLineRect(firstLine))
}

// DecompressTile inverts CompressTile for an arbitrary rectangular tile.
func (c *Codec) DecompressTile(in []byte, tile Rect) ([]byte, error) {
	return c.decompressRect(in, tile)
}

func (c *Codec) resizeScratch(n int) []uint16 {
	if cap(c.scratch) < n {
		c.scratch = make([]uint16, n)
	} else {
		c.scratch = c.scratch[:n]
	}
	return c.scratch
}

func (c *Codec) compressRect(in []byte, rect Rect) ([]byte, error) {
	if len(in) == 0 {
		return nil, nil
	}

	regions := computeRegions(c.channels, rect)
	scratch := c.resizeScratch(totalSamples(regions))

	if err := deinterleave(in, scratch, regions, rect); err != nil {
		return nil, err
	}

	bitmap, minNZ, maxNZ := rangecompact.BitmapFromData(scratch)
	fwd, maxValue := rangecompact.ForwardLUTFromBitmap(&bitmap)
	rangecompact.ApplyLUT(&fwd, scratch)

	w := xdr.NewWriter(make([]byte, 0, 2*2+rangecompact.BitmapSize+4+len(scratch)*2))
	w.PutUint16(minNZ)
	w.PutUint16(maxNZ)
	if minNZ <= maxNZ {
		w.PutBytes(bitmap[minNZ : maxNZ+1])
	}

	for _, reg := range regions {
		if reg.length == 0 {
			continue
		}
		stride := reg.nx * reg.size
		for j := 0; j < reg.size; j++ {
			plane := scratch[reg.offset+j : reg.offset+reg.length]
			wavelet.Encode(plane, reg.nx, reg.size, reg.ny, stride, maxValue)
		}
	}

	lengthOff := w.Len()
	w.PutUint32(0) // patched below
	payload := huffman.Compress(scratch)
	if len(payload) > 1<<31-1 {
		return nil, fmt.Errorf("%w: huffman payload too large to represent as i32", ErrInternal)
	}
	w.PatchUint32(lengthOff, uint32(len(payload)))
	w.PutBytes(payload)

	return w.Bytes(), nil
}

func (c *Codec) decompressRect(in []byte, rect Rect) ([]byte, error) {
	if len(in) == 0 {
		return nil, nil
	}
	if len(in) < 4 {
		return nil, fmt.Errorf("%w: block header truncated", ErrTruncatedBlock)
	}

	r := xdr.NewReader(in)
	minNZ := r.GetUint16()
	maxNZ := r.GetUint16()

	if int(maxNZ) >= rangecompact.BitmapSize {
		return nil, fmt.Errorf("%w: maxNonZero %d out of range", ErrCorruptBlock, maxNZ)
	}

	var bitmap rangecompact.Bitmap
	if minNZ <= maxNZ {
		sliceLen := int(maxNZ) - int(minNZ) + 1
		if r.Remaining() < sliceLen {
			return nil, fmt.Errorf("%w: bitmap slice truncated", ErrTruncatedBlock)
		}
		copy(bitmap[minNZ:int(maxNZ)+1], r.GetBytes(sliceLen))
	}

	reverse, maxValue := rangecompact.ReverseLUTFromBitmap(&bitmap)

	if r.Remaining() < 4 {
		return nil, fmt.Errorf("%w: huffman length truncated", ErrTruncatedBlock)
	}
	huffLen := r.GetInt32()
	if huffLen < 0 {
		return nil, fmt.Errorf("%w: negative huffman length %d", ErrCorruptBlock, huffLen)
	}
	if r.Remaining() < int(huffLen) {
		return nil, fmt.Errorf("%w: huffman payload truncated", ErrTruncatedBlock)
	}
	payload := r.GetBytes(int(huffLen))

	regions := computeRegions(c.channels, rect)
	scratch := c.resizeScratch(totalSamples(regions))

	if err := huffman.DecompressInto(payload, scratch); err != nil {
		return nil, translateHuffmanErr(err)
	}

	for _, reg := range regions {
		if reg.length == 0 {
			continue
		}
		stride := reg.nx * reg.size
		for j := 0; j < reg.size; j++ {
			plane := scratch[reg.offset+j : reg.offset+reg.length]
			wavelet.Decode(plane, reg.nx, reg.size, reg.ny, stride, maxValue)
		}
	}

	rangecompact.ApplyLUT(&reverse, scratch)

	return reinterleave(scratch, regions, rect), nil
}
