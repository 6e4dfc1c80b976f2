// Package tokenizer binds subword engines to model-family special-token
// policy.
//
// A bare engine knows how to turn text into ids. A model checkpoint
// additionally expects certain control tokens to exist in the vocabulary
// and certain ids to be derivable from them (start, end, padding, mask).
// Wrap validates that contract at construction time and derives the named
// ids once, so a tokenizer that constructed successfully can never hand
// out a wrong special id later.
package tokenizer

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// Engine is the subword model under a Tokenizer. Implementations must be
// read-only after construction and safe for concurrent use.
type Engine interface {
	Encode(text string) ([]int, error)
	Decode(ids []int) (string, error)
	TokenToID(token string) (int, error)
	IDToToken(id int) (string, error)
	Vocabulary() map[string]int
	VocabularySize() int
}

// Tokenizer is an engine plus a variant's derived special-token ids.
// Immutable after construction; absent roles report -1.
type Tokenizer struct {
	variant Variant
	engine  Engine
	cfg     Config

	startID int
	endID   int
	padID   int
	maskID  int
	unkID   int
}

// Wrap validates that every token the variant requires resolves in the
// engine's vocabulary, then derives the named ids. The first missing
// token aborts construction; nothing partially constructed is returned.
func Wrap(v Variant, e Engine) (*Tokenizer, error) {
	if e == nil {
		return nil, newConfigError(v.Name, "nil engine")
	}
	for _, tok := range v.RequiredTokens() {
		if _, err := e.TokenToID(tok); err != nil {
			return nil, missingTokenError(v.Name, tok)
		}
	}

	roleID := func(tok string) int {
		if tok == "" {
			return -1
		}
		id, err := e.TokenToID(tok)
		if err != nil {
			return -1
		}
		return id
	}

	t := &Tokenizer{
		variant: v,
		engine:  e,
		startID: roleID(v.Start),
		endID:   roleID(v.End),
		maskID:  roleID(v.Mask),
		unkID:   roleID(v.Unknown),
	}
	if v.Pad != "" {
		t.padID = roleID(v.Pad)
	} else {
		t.padID = v.PadID
	}
	return t, nil
}

func (t *Tokenizer) Variant() Variant { return t.variant }

// StartTokenID aliases EndTokenID for variants that use one control token
// for both sequence ends.
func (t *Tokenizer) StartTokenID() int { return t.startID }

func (t *Tokenizer) EndTokenID() int { return t.endID }

// PadTokenID reports the id of the variant's padding token, or the
// variant's pinned fallback when no padding token exists.
func (t *Tokenizer) PadTokenID() int { return t.padID }

func (t *Tokenizer) MaskTokenID() int { return t.maskID }

func (t *Tokenizer) UnknownTokenID() int { return t.unkID }

// Encode delegates to the engine. Engine lookup failures propagate
// untranslated.
func (t *Tokenizer) Encode(text string) ([]int, error) {
	return t.engine.Encode(text)
}

func (t *Tokenizer) Decode(ids []int) (string, error) {
	return t.engine.Decode(ids)
}

func (t *Tokenizer) TokenToID(token string) (int, error) {
	return t.engine.TokenToID(token)
}

func (t *Tokenizer) IDToToken(id int) (string, error) {
	return t.engine.IDToToken(id)
}

func (t *Tokenizer) Vocabulary() map[string]int { return t.engine.Vocabulary() }

func (t *Tokenizer) VocabularySize() int { return t.engine.VocabularySize() }

// EncodeBatch encodes texts concurrently, bounded by GOMAXPROCS. Output
// order matches input order; the first failure cancels the batch.
func (t *Tokenizer) EncodeBatch(ctx context.Context, texts []string) ([][]int, error) {
	out := make([][]int, len(texts))
	p := pool.New().WithMaxGoroutines(runtime.GOMAXPROCS(0)).WithContext(ctx).WithCancelOnError()
	for i, text := range texts {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ids, err := t.engine.Encode(text)
			if err != nil {
				return fmt.Errorf("text %d: %w", i, err)
			}
			out[i] = ids
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
