// Package packer assembles model-ready id sequences: start and end token
// insertion, content truncation against a fixed budget, right padding and
// the matching padding mask.
package packer

import "github.com/samcharles93/weft/pkg/tokenizer"

// Packer describes one packing policy. A negative StartID or EndID skips
// that insertion; a negative PadID disables padding, so results may come
// out shorter than SequenceLength. SequenceLength zero means unbounded.
type Packer struct {
	StartID        int
	EndID          int
	PadID          int
	SequenceLength int
}

// For derives a packer from a tokenizer's special-token policy.
func For(t *tokenizer.Tokenizer, sequenceLength int) Packer {
	return Packer{
		StartID:        t.StartTokenID(),
		EndID:          t.EndTokenID(),
		PadID:          t.PadTokenID(),
		SequenceLength: sequenceLength,
	}
}

// Pack inserts the control tokens around ids and shapes the result to the
// sequence length. Content is truncated so that both control tokens
// survive; when the budget cannot even fit those, they are still emitted
// and the result overruns the budget. The mask is 1 for real tokens and 0
// for padding.
func (p Packer) Pack(ids []int) ([]int, []int) {
	reserve := 0
	if p.StartID >= 0 {
		reserve++
	}
	if p.EndID >= 0 {
		reserve++
	}

	content := ids
	if p.SequenceLength > 0 {
		avail := p.SequenceLength - reserve
		if avail < 0 {
			avail = 0
		}
		if len(content) > avail {
			content = content[:avail]
		}
	}

	size := len(content) + reserve
	if p.SequenceLength > size {
		size = p.SequenceLength
	}
	packed := make([]int, 0, size)
	if p.StartID >= 0 {
		packed = append(packed, p.StartID)
	}
	packed = append(packed, content...)
	if p.EndID >= 0 {
		packed = append(packed, p.EndID)
	}

	mask := make([]int, len(packed), size)
	for i := range mask {
		mask[i] = 1
	}

	if p.PadID >= 0 {
		for len(packed) < p.SequenceLength {
			packed = append(packed, p.PadID)
			mask = append(mask, 0)
		}
	}
	return packed, mask
}
