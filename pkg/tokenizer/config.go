package tokenizer

import (
	"github.com/samcharles93/weft/pkg/bpe"
)

// Config is the serializable construction recipe for a BPE-backed
// tokenizer. The unsplittable token set is deliberately not representable
// here: it is derived from the variant on every construction and must
// never round-trip as data.
type Config struct {
	Variant      string          `json:"variant"`
	Vocabulary   bpe.VocabSource `json:"vocabulary"`
	Merges       bpe.MergeSource `json:"merges"`
	Pattern      string          `json:"pattern,omitempty"`
	UnknownToken string          `json:"unknown_token,omitempty"`
	CacheSize    int             `json:"cache_size,omitempty"`
}

// New builds a BPE engine from the config sources and wraps it with the
// variant's policy. The engine's unknown-token fallback defaults to the
// variant's unknown role when the config leaves it empty.
func New(v Variant, cfg Config) (*Tokenizer, error) {
	tokens, err := cfg.Vocabulary.Resolve()
	if err != nil {
		return nil, newConfigError(v.Name, "load vocabulary: %v", err)
	}
	merges, err := cfg.Merges.Resolve()
	if err != nil {
		return nil, newConfigError(v.Name, "load merges: %v", err)
	}

	unk := cfg.UnknownToken
	if unk == "" {
		unk = v.Unknown
	}
	engine, err := bpe.New(tokens, merges, bpe.Options{
		Pattern:      cfg.Pattern,
		UnknownToken: unk,
		CacheSize:    cfg.CacheSize,
		Unsplittable: v.RequiredTokens(),
	})
	if err != nil {
		return nil, newConfigError(v.Name, "build engine: %v", err)
	}

	t, err := Wrap(v, engine)
	if err != nil {
		return nil, err
	}
	t.cfg = cfg
	t.cfg.Variant = v.Name
	return t, nil
}

// FromConfig resolves the variant by name and delegates to New.
func FromConfig(cfg Config) (*Tokenizer, error) {
	v, ok := LookupVariant(cfg.Variant)
	if !ok {
		return nil, newConfigError(cfg.Variant, "unknown tokenizer variant %q", cfg.Variant)
	}
	return New(v, cfg)
}

// Config returns the construction recipe. Reconstructing from it yields a
// tokenizer with identical observable behavior. Tokenizers wrapped around
// a caller-supplied engine have no recipe; they return a config carrying
// only the variant name.
func (t *Tokenizer) Config() Config {
	cfg := t.cfg
	cfg.Variant = t.variant.Name
	return cfg
}
