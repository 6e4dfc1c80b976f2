package tokenizer

import "sort"

// Variant is a model family's special-token policy: the control tokens
// that must exist in the vocabulary and the roles they fill. An empty
// role token means the family has no such role.
type Variant struct {
	Name    string
	Start   string
	End     string
	Pad     string
	Mask    string
	Unknown string

	// PadID is the padding id reported when Pad is empty. The GPT
	// families pin padding to id 0 without reserving a vocabulary
	// entry; a variant with no padding at all sets -1.
	PadID int
}

// RequiredTokens returns the deduplicated role tokens in role order.
// This is both the construction-time validation set and the engine's
// unsplittable set.
func (v Variant) RequiredTokens() []string {
	seen := make(map[string]bool, 5)
	var out []string
	for _, tok := range []string{v.Start, v.End, v.Pad, v.Mask, v.Unknown} {
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

var (
	// GPT2 and GPTNeoX use one control token for both sequence ends.
	GPT2 = Variant{
		Name:  "gpt2",
		Start: "<|endoftext|>",
		End:   "<|endoftext|>",
		PadID: 0,
	}

	GPTNeoX = Variant{
		Name:  "gpt_neo_x",
		Start: "<|endoftext|>",
		End:   "<|endoftext|>",
		PadID: 0,
	}

	RoBERTa = Variant{
		Name:  "roberta",
		Start: "<s>",
		End:   "</s>",
		Pad:   "<pad>",
		Mask:  "<mask>",
	}

	DistilBERT = Variant{
		Name:    "distil_bert",
		Start:   "[CLS]",
		End:     "[SEP]",
		Pad:     "[PAD]",
		Mask:    "[MASK]",
		Unknown: "[UNK]",
	}
)

// LookupVariant resolves a built-in variant by name.
func LookupVariant(name string) (Variant, bool) {
	switch name {
	case GPT2.Name:
		return GPT2, true
	case GPTNeoX.Name:
		return GPTNeoX, true
	case RoBERTa.Name:
		return RoBERTa, true
	case DistilBERT.Name:
		return DistilBERT, true
	default:
		return Variant{}, false
	}
}

// VariantNames lists the built-in variant names, sorted.
func VariantNames() []string {
	names := []string{GPT2.Name, GPTNeoX.Name, RoBERTa.Name, DistilBERT.Name}
	sort.Strings(names)
	return names
}
