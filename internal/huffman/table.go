package huffman

import "fmt"

// Code-length table opcodes. Values 0..58 are literal code lengths.
const (
	opRepeatRun byte = 59 // followed by a count byte: repeat the previous length
	opZeroRun   byte = 63 // followed by a count byte: emit that many zero lengths
)

// packLengths encodes the code lengths for alphabet positions
// [0, len(lengths)) (positions min_code..max_code) using the run-length
// scheme from the block format: direct lengths in [0,58], opRepeatRun for
// runs of a repeated nonzero length, opZeroRun for runs of unused
// symbols. Runs longer than 255 are split across multiple opcodes.
func packLengths(lengths []uint8) []byte {
	var out []byte
	i := 0
	for i < len(lengths) {
		if lengths[i] == 0 {
			j := i
			for j < len(lengths) && lengths[j] == 0 {
				j++
			}
			run := j - i
			for run > 0 {
				chunk := run
				if chunk > 255 {
					chunk = 255
				}
				out = append(out, opZeroRun, byte(chunk))
				run -= chunk
			}
			i = j
			continue
		}

		length := lengths[i]
		out = append(out, length)
		i++

		j := i
		for j < len(lengths) && lengths[j] == length {
			j++
		}
		run := j - i
		for run > 0 {
			chunk := run
			if chunk > 255 {
				chunk = 255
			}
			out = append(out, opRepeatRun, byte(chunk))
			run -= chunk
		}
		i = j
	}
	return out
}

// unpackLengths decodes a packed code-length table back into a
// count-sized length array. Returns ErrCorruptStream on an invalid
// opcode, a repeat run with no preceding literal, or a table that does
// not produce exactly count entries.
func unpackLengths(table []byte, count int) ([]uint8, error) {
	lengths := make([]uint8, count)
	pos := 0
	i := 0
	haveLiteral := false
	var prevLen uint8

	for i < count {
		if pos >= len(table) {
			return nil, fmt.Errorf("%w: truncated code-length table", ErrCorruptStream)
		}
		b := table[pos]
		pos++

		switch {
		case b <= 58:
			lengths[i] = b
			prevLen = b
			haveLiteral = true
			i++
		case b == opRepeatRun:
			if !haveLiteral {
				return nil, fmt.Errorf("%w: repeat run with no prior length", ErrCorruptStream)
			}
			if pos >= len(table) {
				return nil, fmt.Errorf("%w: truncated repeat run", ErrCorruptStream)
			}
			cnt := int(table[pos])
			pos++
			if i+cnt > count {
				return nil, fmt.Errorf("%w: repeat run overruns table", ErrCorruptStream)
			}
			for k := 0; k < cnt; k++ {
				lengths[i] = prevLen
				i++
			}
		case b == opZeroRun:
			if pos >= len(table) {
				return nil, fmt.Errorf("%w: truncated zero run", ErrCorruptStream)
			}
			cnt := int(table[pos])
			pos++
			if i+cnt > count {
				return nil, fmt.Errorf("%w: zero run overruns table", ErrCorruptStream)
			}
			i += cnt
		default:
			return nil, fmt.Errorf("%w: invalid code-length opcode %d", ErrCorruptStream, b)
		}
	}
	if pos != len(table) {
		return nil, fmt.Errorf("%w: trailing bytes in code-length table", ErrCorruptStream)
	}
	return lengths, nil
}

// checkKraftInequality rejects a code-length table that cannot possibly
// form a valid prefix code: sum(2^-length) over all nonzero lengths must
// not exceed 1, scaled here to an integer budget of 1<<maxCodeLength so
// no float or big.Int arithmetic is needed. A table accepted here still
// need not be "complete" (sum exactly 1). canonicalCodes's monotonic
// code assignment is only unsafe when the budget is oversubscribed,
// which is exactly what this rejects.
func checkKraftInequality(lengths []uint8) error {
	const budget = uint64(1) << maxCodeLength
	var sum uint64
	for _, l := range lengths {
		if l == 0 {
			continue
		}
		sum += budget >> l
		if sum > budget {
			return fmt.Errorf("%w: code-length table oversubscribes the Kraft inequality", ErrCorruptStream)
		}
	}
	return nil
}
