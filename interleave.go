package piz

import (
	"fmt"

	"github.com/openexr-go/piz/internal/xdr"
)

// deinterleave copies in, a single contiguous run of little-endian
// 16-bit samples ordered rows-outermost-channels-inner (the on-wire
// contract, §5 "Ordering guarantees"), into scratch's per-channel
// regions. A channel contributes a row of nx*size samples for row y
// only when rowActive(y, channel.YSampling).
//
// The codec's "native vs portable" input-format tag (decided once at
// construction, see Codec.native) does not change this routine: both
// forms present the same little-endian 16-bit words to the block
// codec, since a genuine host-memcpy fast path would require unsafe
// code the rest of this codebase does not use. Neither deinterleave nor
// reinterleave consults the tag; it is only reported by Codec.Format.
func deinterleave(in []byte, scratch []uint16, regions []channelRegion, rect Rect) error {
	r := xdr.NewReader(in)
	rowsWritten := make([]int, len(regions))

	for y := rect.MinY; y <= rect.MaxY; y++ {
		for i, reg := range regions {
			if !rowActive(y, reg.desc.YSampling) {
				continue
			}
			n := reg.nx * reg.size
			if r.Remaining() < n*2 {
				return fmt.Errorf("%w: input ended mid-row at y=%d channel=%q", ErrInternal, y, reg.desc.Name)
			}
			base := reg.offset + rowsWritten[i]*n
			dst := scratch[base : base+n]
			for k := range dst {
				dst[k] = r.GetUint16()
			}
			rowsWritten[i]++
		}
	}
	return nil
}

// reinterleave is deinterleave's inverse: it walks scratch in the same
// row-outermost-channel-inner order and produces the packed
// little-endian byte string a container would hand back to its caller.
func reinterleave(scratch []uint16, regions []channelRegion, rect Rect) []byte {
	n := totalSamples(regions)
	w := xdr.NewWriter(make([]byte, 0, n*2))
	rowsWritten := make([]int, len(regions))

	for y := rect.MinY; y <= rect.MaxY; y++ {
		for i, reg := range regions {
			if !rowActive(y, reg.desc.YSampling) {
				continue
			}
			cnt := reg.nx * reg.size
			base := reg.offset + rowsWritten[i]*cnt
			for _, s := range scratch[base : base+cnt] {
				w.PutUint16(s)
			}
			rowsWritten[i]++
		}
	}
	return w.Bytes()
}
