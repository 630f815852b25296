package huffman

import (
	"container/heap"
	"sort"
)

// maxCodeLength is the hard limit on canonical Huffman code length. It is
// sized so that a single code always fits in bitWriter's 64-bit
// accumulator with headroom to spare; it is a constant of the format, not
// a tunable heuristic.
const maxCodeLength = 58

// treeNode is a node in the Huffman merge tree: a leaf (value >= 0) or an
// internal node (value == -1) referencing two pool indices.
type treeNode struct {
	count uint64
	value int // alphabet-relative symbol index for leaves, -1 otherwise
	left  int
	right int
}

type nodeHeap struct {
	pool    []treeNode
	indices []int
}

func (h *nodeHeap) Len() int { return len(h.indices) }
func (h *nodeHeap) Less(i, j int) bool {
	a, b := h.pool[h.indices[i]], h.pool[h.indices[j]]
	if a.count != b.count {
		return a.count < b.count
	}
	return h.indices[i] < h.indices[j]
}
func (h *nodeHeap) Swap(i, j int) { h.indices[i], h.indices[j] = h.indices[j], h.indices[i] }
func (h *nodeHeap) Push(x any)    { h.indices = append(h.indices, x.(int)) }
func (h *nodeHeap) Pop() any {
	old := h.indices
	n := len(old)
	idx := old[n-1]
	h.indices = old[:n-1]
	return idx
}

// buildCodeLengths assigns a canonical code length to every alphabet
// position with a nonzero count, bounded by limit. Positions with a zero
// count keep length 0 (they never occur and carry no code).
//
// The tree is rebuilt with progressively raised minimum leaf weights
// until every depth fits within limit: a count-doubling strategy for
// length-limited canonical codes, generalized here to this format's
// 58-bit cap.
func buildCodeLengths(counts []uint64, limit int) []uint8 {
	n := len(counts)
	lengths := make([]uint8, n)

	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	switch nonZero {
	case 0:
		return lengths
	case 1:
		for i, c := range counts {
			if c > 0 {
				lengths[i] = 0 // degenerate single-symbol alphabet: zero-bit code
			}
		}
		return lengths
	}

	for countMin := uint64(1); ; countMin *= 2 {
		for i := range lengths {
			lengths[i] = 0
		}

		h := &nodeHeap{pool: make([]treeNode, 0, 2*nonZero+1)}
		for i, c := range counts {
			if c == 0 {
				continue
			}
			if c < countMin {
				c = countMin
			}
			idx := len(h.pool)
			h.pool = append(h.pool, treeNode{count: c, value: i, left: -1, right: -1})
			h.indices = append(h.indices, idx)
		}

		heap.Init(h)
		for h.Len() > 1 {
			l := heap.Pop(h).(int)
			r := heap.Pop(h).(int)
			parent := len(h.pool)
			h.pool = append(h.pool, treeNode{
				count: h.pool[l].count + h.pool[r].count,
				value: -1,
				left:  l,
				right: r,
			})
			heap.Push(h, parent)
		}

		root := h.indices[0]
		maxDepth := assignDepths(h.pool, root, 0, lengths)
		if maxDepth <= limit {
			return lengths
		}
	}
}

func assignDepths(pool []treeNode, idx, depth int, lengths []uint8) int {
	node := &pool[idx]
	if node.value >= 0 {
		lengths[node.value] = uint8(depth)
		return depth
	}
	maxDepth := depth
	if node.left >= 0 {
		if d := assignDepths(pool, node.left, depth+1, lengths); d > maxDepth {
			maxDepth = d
		}
	}
	if node.right >= 0 {
		if d := assignDepths(pool, node.right, depth+1, lengths); d > maxDepth {
			maxDepth = d
		}
	}
	return maxDepth
}

// symCode pairs a canonical code with its length for one alphabet position.
type symCode struct {
	code   uint64
	length uint8
}

// canonicalCodes assigns canonical codewords from code lengths: symbols
// are ordered by (length, symbol index), and codes increment by one at
// each step, left-shifting whenever length grows. This is the standard
// canonical-Huffman assignment, generalized here to a 64-bit code width.
func canonicalCodes(lengths []uint8) []symCode {
	codes := make([]symCode, len(lengths))

	type entry struct {
		sym    int
		length uint8
	}
	var order []entry
	for i, l := range lengths {
		if l > 0 {
			order = append(order, entry{i, l})
		}
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].length != order[j].length {
			return order[i].length < order[j].length
		}
		return order[i].sym < order[j].sym
	})

	var code uint64
	var prevLen uint8
	for _, e := range order {
		if e.length != prevLen {
			code <<= uint(e.length - prevLen)
			prevLen = e.length
		}
		codes[e.sym] = symCode{code: code, length: e.length}
		code++
	}
	return codes
}
