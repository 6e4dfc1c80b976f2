package bpe

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// Vocabulary is an immutable token to id table. Ids do not have to be
// dense; gaps simply have no token.
type Vocabulary struct {
	forward map[string]int
	reverse map[int]string
}

func NewVocabulary(tokens map[string]int) (*Vocabulary, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptyVocabulary
	}
	forward := make(map[string]int, len(tokens))
	reverse := make(map[int]string, len(tokens))
	for tok, id := range tokens {
		if id < 0 {
			return nil, fmt.Errorf("%w: token %q has id %d", ErrNegativeTokenID, tok, id)
		}
		if prev, ok := reverse[id]; ok {
			return nil, fmt.Errorf("%w: %d used by both %q and %q", ErrDuplicateTokenID, id, prev, tok)
		}
		forward[tok] = id
		reverse[id] = tok
	}
	return &Vocabulary{forward: forward, reverse: reverse}, nil
}

func (v *Vocabulary) ID(token string) (int, bool) {
	id, ok := v.forward[token]
	return id, ok
}

func (v *Vocabulary) Token(id int) (string, bool) {
	tok, ok := v.reverse[id]
	return tok, ok
}

func (v *Vocabulary) Size() int { return len(v.forward) }

// Tokens returns a copy of the forward table.
func (v *Vocabulary) Tokens() map[string]int {
	out := make(map[string]int, len(v.forward))
	for tok, id := range v.forward {
		out[tok] = id
	}
	return out
}

// LoadVocabulary reads a JSON object mapping token strings to integer ids.
func LoadVocabulary(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	var tokens map[string]int
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}
	return tokens, nil
}
