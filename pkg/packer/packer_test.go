package packer

import (
	"testing"

	"github.com/samcharles93/weft/pkg/bpe"
	"github.com/samcharles93/weft/pkg/tokenizer"
)

func assertIDs(t *testing.T, label string, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: unexpected length: got %v want %v", label, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s: unexpected value at %d: got %d want %d", label, i, got[i], want[i])
		}
	}
}

func TestPackTruncatesContentKeepsControlTokens(t *testing.T) {
	p := Packer{StartID: 0, EndID: 2, PadID: 1, SequenceLength: 4}

	ids, mask := p.Pack([]int{133, 2119, 6219, 23602, 4})
	assertIDs(t, "ids", ids, []int{0, 133, 2119, 2})
	assertIDs(t, "mask", mask, []int{1, 1, 1, 1})
}

func TestPackPadsShortSequences(t *testing.T) {
	p := Packer{StartID: 0, EndID: 2, PadID: 1, SequenceLength: 6}

	ids, mask := p.Pack([]int{133})
	assertIDs(t, "ids", ids, []int{0, 133, 2, 1, 1, 1})
	assertIDs(t, "mask", mask, []int{1, 1, 1, 0, 0, 0})
}

func TestPackUnbounded(t *testing.T) {
	p := Packer{StartID: 0, EndID: 2, PadID: 1}

	ids, mask := p.Pack([]int{5, 6})
	assertIDs(t, "ids", ids, []int{0, 5, 6, 2})
	assertIDs(t, "mask", mask, []int{1, 1, 1, 1})
}

func TestPackWithoutControlTokens(t *testing.T) {
	p := Packer{StartID: -1, EndID: -1, PadID: 9, SequenceLength: 3}

	ids, mask := p.Pack([]int{7})
	assertIDs(t, "ids", ids, []int{7, 9, 9})
	assertIDs(t, "mask", mask, []int{1, 0, 0})
}

func TestPackBudgetOnlyFitsControlTokens(t *testing.T) {
	p := Packer{StartID: 0, EndID: 2, PadID: 1, SequenceLength: 2}

	ids, mask := p.Pack([]int{133, 2119})
	assertIDs(t, "ids", ids, []int{0, 2})
	assertIDs(t, "mask", mask, []int{1, 1})
}

func TestPackControlTokensOverrunTinyBudget(t *testing.T) {
	p := Packer{StartID: 0, EndID: 2, PadID: 1, SequenceLength: 1}

	ids, mask := p.Pack(nil)
	assertIDs(t, "ids", ids, []int{0, 2})
	assertIDs(t, "mask", mask, []int{1, 1})
}

func TestPackNegativePadDisablesPadding(t *testing.T) {
	p := Packer{StartID: -1, EndID: 5, PadID: -1, SequenceLength: 8}

	ids, mask := p.Pack([]int{1, 2})
	assertIDs(t, "ids", ids, []int{1, 2, 5})
	assertIDs(t, "mask", mask, []int{1, 1, 1})
}

func TestForDerivesFromTokenizer(t *testing.T) {
	vocab := map[string]int{
		"[PAD]": 0, "[UNK]": 1, "<|endoftext|>": 2, "a": 3, "b": 4,
	}
	tok, err := tokenizer.New(tokenizer.GPTNeoX, tokenizer.Config{Vocabulary: bpe.VocabMap(vocab)})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	p := For(tok, 5)
	if p.StartID != 2 || p.EndID != 2 || p.PadID != 0 || p.SequenceLength != 5 {
		t.Fatalf("unexpected packer: %+v", p)
	}

	ids, mask := p.Pack([]int{3, 4})
	assertIDs(t, "ids", ids, []int{2, 3, 4, 2, 0})
	assertIDs(t, "mask", mask, []int{1, 1, 1, 1, 0})
}
