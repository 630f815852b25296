package piz

import (
	"errors"
	"fmt"

	"github.com/openexr-go/piz/internal/huffman"
)

// Taxonomy of errors Decompress can return. Compress only ever returns
// ErrInternal, and only when a codec invariant it should itself
// maintain is violated.
var (
	// ErrTruncatedBlock means the input ended before a required field.
	ErrTruncatedBlock = errors.New("piz: truncated block")
	// ErrCorruptBlock means block header fields were present but
	// inconsistent (e.g. maxNonZero >= 8192, a negative Huffman length).
	ErrCorruptBlock = errors.New("piz: corrupt block header")
	// ErrCorruptStream means the Huffman payload was malformed.
	ErrCorruptStream = errors.New("piz: corrupt huffman stream")
	// ErrLengthMismatch means the Huffman stream produced a different
	// sample count than the block's declared geometry requires.
	ErrLengthMismatch = errors.New("piz: huffman length mismatch")
	// ErrInternal means an invariant the codec itself should maintain
	// was violated; this should be unreachable on correct input.
	ErrInternal = errors.New("piz: internal invariant violated")
)

// translateHuffmanErr maps internal/huffman's local error taxonomy onto
// the block codec's own, keeping internal/huffman free of any
// dependency back on this package.
func translateHuffmanErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, huffman.ErrLengthMismatch):
		return fmt.Errorf("%w: %v", ErrLengthMismatch, err)
	case errors.Is(err, huffman.ErrCorruptStream):
		return fmt.Errorf("%w: %v", ErrCorruptStream, err)
	default:
		return err
	}
}
