// Package bpe implements a byte-level byte-pair-encoding engine.
//
// The engine is policy free: it owns a vocabulary, an ordered merge rule
// table, a pre-tokenization pattern and an optional set of unsplittable
// tokens, and nothing else. Model-family policy (which control tokens must
// exist, which ids derive from them) lives in the tokenizer package.
package bpe

import (
	"fmt"
	"regexp"
	"strings"

	radix "github.com/armon/go-radix"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultPattern is the GPT-2 pre-tokenization pattern. Go regexp has no
// lookahead, so the trailing whitespace branch is a plain \s+ match.
const DefaultPattern = `'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+`

const defaultCacheSize = 8192

// Options tune engine construction. Unsplittable tokens are matched
// verbatim before pattern splitting; they are policy derived at
// construction and never part of the serialized form.
type Options struct {
	Pattern      string   `json:"pattern,omitempty"`
	UnknownToken string   `json:"unknown_token,omitempty"`
	CacheSize    int      `json:"cache_size,omitempty"`
	Unsplittable []string `json:"-"`
}

// Engine encodes text to token ids and back. It is read-only after
// construction and safe for concurrent use; the merge cache is the only
// mutable state and is a concurrency-safe bounded LRU.
type Engine struct {
	vocab       *Vocabulary
	ranks       map[pair]int
	byteEncoder [256]string
	byteDecoder map[rune]byte
	pattern     *regexp.Regexp
	specials    *radix.Tree
	specialSet  map[string]bool
	unkID       int
	cache       *lru.Cache[string, []string]
}

func New(tokens map[string]int, merges []string, opts Options) (*Engine, error) {
	vocab, err := NewVocabulary(tokens)
	if err != nil {
		return nil, err
	}
	ranks, err := buildRanks(merges)
	if err != nil {
		return nil, err
	}

	patSrc := opts.Pattern
	if patSrc == "" {
		patSrc = DefaultPattern
	}
	pattern, err := regexp.Compile(patSrc)
	if err != nil {
		return nil, fmt.Errorf("compile split pattern: %w", err)
	}

	unkID := -1
	if opts.UnknownToken != "" {
		id, ok := vocab.ID(opts.UnknownToken)
		if !ok {
			return nil, fmt.Errorf("%w: unknown-token %q is not in the vocabulary", ErrUnknownToken, opts.UnknownToken)
		}
		unkID = id
	}

	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, []string](size)
	if err != nil {
		return nil, fmt.Errorf("merge cache: %w", err)
	}

	e := &Engine{
		vocab:   vocab,
		ranks:   ranks,
		pattern: pattern,
		unkID:   unkID,
		cache:   cache,
	}
	e.byteEncoder, e.byteDecoder = byteLevelTables()

	if len(opts.Unsplittable) > 0 {
		e.specials = radix.New()
		e.specialSet = make(map[string]bool, len(opts.Unsplittable))
		for _, tok := range opts.Unsplittable {
			if tok == "" {
				continue
			}
			id, ok := vocab.ID(tok)
			if !ok {
				id = -1
			}
			e.specials.Insert(tok, id)
			e.specialSet[tok] = true
		}
		if e.specials.Len() == 0 {
			e.specials = nil
		}
	}
	return e, nil
}

// Load builds an engine from a vocabulary JSON file and an optional merge
// rule file.
func Load(vocabPath, mergesPath string, opts Options) (*Engine, error) {
	tokens, err := LoadVocabulary(vocabPath)
	if err != nil {
		return nil, err
	}
	var merges []string
	if mergesPath != "" {
		merges, err = LoadMerges(mergesPath)
		if err != nil {
			return nil, err
		}
	}
	return New(tokens, merges, opts)
}

type span struct {
	text    string
	id      int
	special bool
}

// split carves text into unsplittable token spans and plain text spans.
// The radix tree gives the longest registered token at each position, so
// overlapping tokens resolve longest-match-first.
func (e *Engine) split(text string) []span {
	if e.specials == nil {
		return []span{{text: text}}
	}
	var parts []span
	var buf strings.Builder
	for i := 0; i < len(text); {
		if tok, v, ok := e.specials.LongestPrefix(text[i:]); ok {
			if buf.Len() > 0 {
				parts = append(parts, span{text: buf.String()})
				buf.Reset()
			}
			parts = append(parts, span{text: tok, id: v.(int), special: true})
			i += len(tok)
			continue
		}
		buf.WriteByte(text[i])
		i++
	}
	if buf.Len() > 0 {
		parts = append(parts, span{text: buf.String()})
	}
	return parts
}

func (e *Engine) Encode(text string) ([]int, error) {
	ids := []int{}
	for _, part := range e.split(text) {
		if part.special {
			if part.id < 0 {
				return nil, fmt.Errorf("%w: unsplittable token %q is not in the vocabulary", ErrUnknownToken, part.text)
			}
			ids = append(ids, part.id)
			continue
		}
		for _, word := range e.pattern.FindAllString(part.text, -1) {
			for _, sub := range e.merge(e.byteEncode(word)) {
				id, ok := e.vocab.ID(sub)
				if !ok {
					if e.unkID >= 0 {
						ids = append(ids, e.unkID)
						continue
					}
					return nil, fmt.Errorf("%w: %q", ErrUnknownToken, sub)
				}
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

func (e *Engine) Decode(ids []int) (string, error) {
	var b []byte
	for _, id := range ids {
		tok, ok := e.vocab.Token(id)
		if !ok {
			return "", fmt.Errorf("%w: %d", ErrInvalidTokenID, id)
		}
		if e.specialSet[tok] {
			b = append(b, tok...)
			continue
		}
		for _, r := range tok {
			if by, ok := e.byteDecoder[r]; ok {
				b = append(b, by)
			} else {
				b = append(b, string(r)...)
			}
		}
	}
	return string(b), nil
}

// TokenToID resolves an exact vocabulary entry. Missing tokens fail with
// ErrUnknownToken; callers that layer policy on top propagate this error
// untranslated.
func (e *Engine) TokenToID(token string) (int, error) {
	id, ok := e.vocab.ID(token)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownToken, token)
	}
	return id, nil
}

func (e *Engine) IDToToken(id int) (string, error) {
	tok, ok := e.vocab.Token(id)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrInvalidTokenID, id)
	}
	return tok, nil
}

// Vocabulary returns a copy of the token to id table.
func (e *Engine) Vocabulary() map[string]int { return e.vocab.Tokens() }

func (e *Engine) VocabularySize() int { return e.vocab.Size() }

func (e *Engine) byteEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, by := range []byte(s) {
		b.WriteString(e.byteEncoder[by])
	}
	return b.String()
}

func (e *Engine) merge(token string) []string {
	if cached, ok := e.cache.Get(token); ok {
		return cached
	}
	word := splitRunes(token)
	pairs := pairSet(word)
	for len(pairs) > 0 {
		bestRank := int(^uint(0) >> 1)
		var best pair
		found := false
		for p := range pairs {
			if rank, ok := e.ranks[p]; ok && rank < bestRank {
				bestRank = rank
				best = p
				found = true
			}
		}
		if !found {
			break
		}
		word = mergePair(word, best)
		if len(word) == 1 {
			break
		}
		pairs = pairSet(word)
	}
	e.cache.Add(token, word)
	return word
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func pairSet(word []string) map[pair]struct{} {
	pairs := make(map[pair]struct{})
	if len(word) < 2 {
		return pairs
	}
	prev := word[0]
	for _, w := range word[1:] {
		pairs[pair{a: prev, b: w}] = struct{}{}
		prev = w
	}
	return pairs
}

func mergePair(word []string, p pair) []string {
	var out []string
	for i := 0; i < len(word); i++ {
		if i < len(word)-1 && word[i] == p.a && word[i+1] == p.b {
			out = append(out, word[i]+word[i+1])
			i++
			continue
		}
		out = append(out, word[i])
	}
	return out
}
