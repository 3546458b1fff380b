// Package suffixarray implements substring and prefix search over a suffix array
// of all indexed terms.
package suffixarray

import (
	"math"
	"sort"

	"github.com/gcbaptista/go-fuzzy-search/internal/errors"
)

// endOfChain terminates the linked lists threaded through isa.
const endOfChain = math.MaxInt32

type chain struct {
	head   int32
	length int32
}

type suffixRank struct {
	head int32
	rank int32
}

// builder sorts suffixes by repeatedly splitting chains of positions that share a
// prefix of a given length. While a position is unranked, isa holds the next
// position of its chain; once ranked it holds -rank.
type builder struct {
	input []byte
	sa    []int32
	isa   []int32

	// chainTails[c] is the last position appended to the chain of byte c during
	// the current refinement, or -1.
	chainTails [256]int32
	touched    []byte

	chainStack []chain
	subChains  []chain
	nextRank   int32
}

// Create returns the suffix array of input: sa[i] is the offset of the i-th
// smallest suffix in byte order. A nil input is a usage error.
func Create(input []byte) ([]int32, error) {
	if input == nil {
		return nil, errors.NewUsageError("suffixarray.Create", "input cannot be nil")
	}
	b := &builder{
		input:    input,
		sa:       make([]int32, len(input)),
		isa:      make([]int32, len(input)),
		nextRank: 1,
	}
	for i := range b.chainTails {
		b.chainTails[i] = -1
	}
	b.formInitialChains()
	b.build()
	return b.sa, nil
}

func (b *builder) formInitialChains() {
	for i, c := range b.input {
		if tail := b.chainTails[c]; tail >= 0 {
			b.isa[i] = tail
		} else {
			b.isa[i] = endOfChain
			b.touched = append(b.touched, c)
		}
		b.chainTails[c] = int32(i)
	}
	for _, c := range b.touched {
		b.subChains = append(b.subChains, chain{head: b.chainTails[c], length: 1})
	}
	b.sortAndPushSubChains()
}

func (b *builder) build() {
	for len(b.chainStack) > 0 {
		c := b.chainStack[len(b.chainStack)-1]
		b.chainStack = b.chainStack[:len(b.chainStack)-1]

		if b.isa[c.head] == endOfChain {
			b.rankSuffix(c.head)
		} else {
			b.refine(c)
		}
	}
}

func (b *builder) rankSuffix(i int32) {
	b.isa[i] = -b.nextRank
	b.sa[b.nextRank-1] = i
	b.nextRank++
}

// refine splits c by the byte following its shared prefix. Positions whose
// continuation is already ranked are ranked right away in continuation order.
func (b *builder) refine(c chain) {
	var noted []suffixRank
	b.resetChainTails()
	b.subChains = b.subChains[:0]

	n := int32(len(b.input))
	for c.head != endOfChain {
		next := b.isa[c.head]
		switch {
		case c.head+c.length > n-1:
			b.rankSuffix(c.head)
		case b.isa[c.head+c.length] < 0:
			noted = append(noted, suffixRank{head: c.head, rank: -b.isa[c.head+c.length]})
		default:
			b.extend(c)
		}
		c.head = next
	}

	b.sortAndPushSubChains()

	sort.Slice(noted, func(i, j int) bool { return noted[i].rank < noted[j].rank })
	for _, s := range noted {
		b.rankSuffix(s.head)
	}
}

func (b *builder) extend(c chain) {
	sym := b.input[c.head+c.length]
	if tail := b.chainTails[sym]; tail >= 0 {
		b.isa[tail] = c.head
	} else {
		b.subChains = append(b.subChains, chain{head: c.head, length: c.length + 1})
		b.touched = append(b.touched, sym)
	}
	b.isa[c.head] = endOfChain
	b.chainTails[sym] = c.head
}

func (b *builder) resetChainTails() {
	for _, c := range b.touched {
		b.chainTails[c] = -1
	}
	b.touched = b.touched[:0]
}

// sortAndPushSubChains pushes the sub-chains in reverse order so they pop in ascending order.
func (b *builder) sortAndPushSubChains() {
	sort.Slice(b.subChains, func(i, j int) bool {
		c1, c2 := b.subChains[i], b.subChains[j]
		length := min(c1.length, c2.length)
		return CompareOrdinal(b.input, int(c1.head), b.input, int(c2.head), int(length)) < 0
	})
	for i := len(b.subChains) - 1; i >= 0; i-- {
		b.chainStack = append(b.chainStack, b.subChains[i])
	}
}

// CompareOrdinal compares at most length bytes of a starting at ia with b starting
// at ib. If one side runs out first it is the smaller one.
func CompareOrdinal(a []byte, ia int, b []byte, ib int, length int) int {
	endA := min(ia+length, len(a))
	endB := min(ib+length, len(b))

	i, j := ia, ib
	for i < endA && j < endB {
		if a[i] != b[j] {
			if a[i] < b[j] {
				return -1
			}
			return 1
		}
		i++
		j++
	}

	comparedA := endA - ia
	comparedB := endB - ib
	switch {
	case comparedA == comparedB:
		return 0
	case comparedA < comparedB:
		return -1
	default:
		return 1
	}
}
