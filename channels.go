package piz

// channelRegion describes one channel's slice of the scratch buffer for
// a single block: nx*ny*size contiguous samples, starting at offset.
// Regions are adjacent with no padding — the Huffman stage depends on
// being able to treat the whole scratch buffer as one symbol sequence.
type channelRegion struct {
	desc   ChannelDescriptor
	nx, ny int
	size   int
	offset int
	length int
}

// computeRegions lays out one channelRegion per channel, in the given
// order, for a block covering rect. nx/ny follow the container's
// canonical ceiling rule for subsampled channels.
func computeRegions(channels []ChannelDescriptor, rect Rect) []channelRegion {
	regions := make([]channelRegion, len(channels))
	w, h := rect.Width(), rect.Height()

	offset := 0
	for i, c := range channels {
		nx := ceilDiv(w, c.XSampling)
		ny := ceilDiv(h, c.YSampling)
		size := c.Type.size()
		length := nx * ny * size

		regions[i] = channelRegion{
			desc:   c,
			nx:     nx,
			ny:     ny,
			size:   size,
			offset: offset,
			length: length,
		}
		offset += length
	}
	return regions
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// totalSamples returns the combined sample count of all regions,
// relying on their adjacency: the last region's offset+length is the
// end of the whole scratch buffer.
func totalSamples(regions []channelRegion) int {
	if len(regions) == 0 {
		return 0
	}
	last := regions[len(regions)-1]
	return last.offset + last.length
}

// rowActive reports whether absolute row y contributes a row of samples
// to a channel subsampled by ys, per the container's "y mod ys == 0"
// rule.
func rowActive(y, ys int) bool {
	m := y % ys
	if m < 0 {
		m += ys
	}
	return m == 0
}
