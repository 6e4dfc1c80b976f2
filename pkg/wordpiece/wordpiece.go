// Package wordpiece adapts a sugarme WordPiece model to the
// tokenizer.Engine contract for the BERT families. Special-token policy
// stays out of the engine: encoding never inserts control tokens, and
// construction never validates them. The tokenizer package does both.
package wordpiece

import (
	"fmt"
	"os"
	"strings"

	tk "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/model/wordpiece"
	"github.com/sugarme/tokenizer/normalizer"
	"github.com/sugarme/tokenizer/pretokenizer"

	"github.com/samcharles93/weft/pkg/bpe"
)

const defaultUnknownToken = "[UNK]"

// Options tune engine construction.
type Options struct {
	// UnknownToken is the fallback entry for unmatchable words.
	// Defaults to [UNK].
	UnknownToken string
}

// Engine encodes with a BERT-normalized WordPiece model. Id lookups and
// decoding run against the vocabulary file directly, where line number is
// id. Read-only after construction and safe for concurrent use.
type Engine struct {
	tok     *tk.Tokenizer
	forward map[string]int
	reverse []string
}

// NewFromFile loads a vocab.txt with one token per line.
func NewFromFile(vocabPath string, opts Options) (*Engine, error) {
	unk := opts.UnknownToken
	if unk == "" {
		unk = defaultUnknownToken
	}

	model, err := wordpiece.NewWordPieceFromFile(vocabPath, unk)
	if err != nil {
		return nil, fmt.Errorf("load wordpiece vocabulary: %w", err)
	}

	forward, reverse, err := readVocabFile(vocabPath)
	if err != nil {
		return nil, err
	}
	if _, ok := forward[unk]; !ok {
		return nil, fmt.Errorf("%w: unknown-token %q is not in the vocabulary", bpe.ErrUnknownToken, unk)
	}

	t := tk.NewTokenizer(model)
	t.WithNormalizer(normalizer.NewBertNormalizer(true, true, true, true))
	t.WithPreTokenizer(pretokenizer.NewBertPreTokenizer())

	return &Engine{tok: t, forward: forward, reverse: reverse}, nil
}

func readVocabFile(path string) (map[string]int, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read vocabulary: %w", err)
	}
	lines := strings.Split(string(data), "\n")
	forward := make(map[string]int, len(lines))
	reverse := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		forward[line] = len(reverse)
		reverse = append(reverse, line)
	}
	if len(reverse) == 0 {
		return nil, nil, bpe.ErrEmptyVocabulary
	}
	return forward, reverse, nil
}

func (e *Engine) Encode(text string) ([]int, error) {
	if strings.TrimSpace(text) == "" {
		return []int{}, nil
	}
	enc, err := e.tok.Encode(tk.NewSingleEncodeInput(tk.NewInputSequence(text)), false)
	if err != nil {
		return nil, fmt.Errorf("wordpiece encode: %w", err)
	}
	ids := enc.GetIds()
	out := make([]int, len(ids))
	copy(out, ids)
	return out, nil
}

// Decode joins tokens, fusing ## continuations onto the previous word.
func (e *Engine) Decode(ids []int) (string, error) {
	var b strings.Builder
	for i, id := range ids {
		if id < 0 || id >= len(e.reverse) {
			return "", fmt.Errorf("%w: %d", bpe.ErrInvalidTokenID, id)
		}
		tok := e.reverse[id]
		if rest, ok := strings.CutPrefix(tok, "##"); ok {
			b.WriteString(rest)
			continue
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
	}
	return b.String(), nil
}

func (e *Engine) TokenToID(token string) (int, error) {
	id, ok := e.forward[token]
	if !ok {
		return 0, fmt.Errorf("%w: %q", bpe.ErrUnknownToken, token)
	}
	return id, nil
}

func (e *Engine) IDToToken(id int) (string, error) {
	if id < 0 || id >= len(e.reverse) {
		return "", fmt.Errorf("%w: %d", bpe.ErrInvalidTokenID, id)
	}
	return e.reverse[id], nil
}

func (e *Engine) Vocabulary() map[string]int {
	out := make(map[string]int, len(e.forward))
	for tok, id := range e.forward {
		out[tok] = id
	}
	return out
}

func (e *Engine) VocabularySize() int { return len(e.reverse) }
