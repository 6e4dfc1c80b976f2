package bpe

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testVocab() map[string]int {
	return map[string]int{
		"h": 0, "e": 1, "l": 2, "o": 3,
		"he": 4, "hel": 5, "hell": 6, "hello": 7,
		"Ġ": 8, "<|endoftext|>": 9, "[UNK]": 10,
	}
}

func testMerges() []string {
	return []string{"h e", "he l", "hel l", "hell o"}
}

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e, err := New(testVocab(), testMerges(), opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return e
}

func TestNewValidation(t *testing.T) {
	t.Run("empty vocabulary", func(t *testing.T) {
		if _, err := New(nil, nil, Options{}); !errors.Is(err, ErrEmptyVocabulary) {
			t.Fatalf("expected ErrEmptyVocabulary, got %v", err)
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		_, err := New(map[string]int{"a": 0, "b": 0}, nil, Options{})
		if !errors.Is(err, ErrDuplicateTokenID) {
			t.Fatalf("expected ErrDuplicateTokenID, got %v", err)
		}
	})

	t.Run("negative id", func(t *testing.T) {
		_, err := New(map[string]int{"a": -1}, nil, Options{})
		if !errors.Is(err, ErrNegativeTokenID) {
			t.Fatalf("expected ErrNegativeTokenID, got %v", err)
		}
	})

	t.Run("malformed merge rule", func(t *testing.T) {
		_, err := New(map[string]int{"a": 0}, []string{"a b c"}, Options{})
		if !errors.Is(err, ErrInvalidMergeRule) {
			t.Fatalf("expected ErrInvalidMergeRule, got %v", err)
		}
	})

	t.Run("merge comments and blanks skipped", func(t *testing.T) {
		_, err := New(map[string]int{"a": 0}, []string{"#version: 0.2", "", "a b"}, Options{})
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
	})

	t.Run("unknown-token must be in vocabulary", func(t *testing.T) {
		_, err := New(map[string]int{"a": 0}, nil, Options{UnknownToken: "[UNK]"})
		if !errors.Is(err, ErrUnknownToken) {
			t.Fatalf("expected ErrUnknownToken, got %v", err)
		}
	})

	t.Run("bad split pattern", func(t *testing.T) {
		if _, err := New(map[string]int{"a": 0}, nil, Options{Pattern: "("}); err == nil {
			t.Fatalf("expected error for unbalanced pattern")
		}
	})
}

func TestEncodeMergesByRank(t *testing.T) {
	e := newTestEngine(t, Options{})

	got, err := e.Encode("hello hello")
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	want := []int{7, 8, 7}
	if len(got) != len(want) {
		t.Fatalf("unexpected id count: got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected id at %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestEncodeEmptyText(t *testing.T) {
	e := newTestEngine(t, Options{})
	got, err := e.Encode("")
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no ids for empty text, got %v", got)
	}
}

func TestEncodeUnsplittable(t *testing.T) {
	t.Run("matched verbatim", func(t *testing.T) {
		e := newTestEngine(t, Options{Unsplittable: []string{"<|endoftext|>"}})
		got, err := e.Encode("hello<|endoftext|>hello")
		if err != nil {
			t.Fatalf("Encode returned error: %v", err)
		}
		want := []int{7, 9, 7}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("unexpected id at %d: got %d want %d", i, got[i], want[i])
			}
		}
	})

	t.Run("longest match wins", func(t *testing.T) {
		vocab := testVocab()
		vocab["<|end"] = 11
		e, err := New(vocab, testMerges(), Options{Unsplittable: []string{"<|end", "<|endoftext|>"}})
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		got, err := e.Encode("<|endoftext|>")
		if err != nil {
			t.Fatalf("Encode returned error: %v", err)
		}
		if len(got) != 1 || got[0] != 9 {
			t.Fatalf("expected longest token id [9], got %v", got)
		}
	})

	t.Run("unsplittable missing from vocabulary", func(t *testing.T) {
		e, err := New(map[string]int{"a": 0}, nil, Options{Unsplittable: []string{"<|endoftext|>"}})
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		if _, err := e.Encode("<|endoftext|>"); !errors.Is(err, ErrUnknownToken) {
			t.Fatalf("expected ErrUnknownToken, got %v", err)
		}
	})
}

func TestEncodeUnknownSubword(t *testing.T) {
	t.Run("fails without fallback", func(t *testing.T) {
		e := newTestEngine(t, Options{})
		if _, err := e.Encode("zzz"); !errors.Is(err, ErrUnknownToken) {
			t.Fatalf("expected ErrUnknownToken, got %v", err)
		}
	})

	t.Run("falls back to unknown token", func(t *testing.T) {
		e := newTestEngine(t, Options{UnknownToken: "[UNK]"})
		got, err := e.Encode("zzz")
		if err != nil {
			t.Fatalf("Encode returned error: %v", err)
		}
		want := []int{10, 10, 10}
		if len(got) != len(want) {
			t.Fatalf("unexpected id count: got %d want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("unexpected id at %d: got %d want %d", i, got[i], want[i])
			}
		}
	})
}

func TestDecode(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		e := newTestEngine(t, Options{Unsplittable: []string{"<|endoftext|>"}})
		ids, err := e.Encode("hello hello<|endoftext|>")
		if err != nil {
			t.Fatalf("Encode returned error: %v", err)
		}
		got, err := e.Decode(ids)
		if err != nil {
			t.Fatalf("Decode returned error: %v", err)
		}
		if got != "hello hello<|endoftext|>" {
			t.Fatalf("unexpected decode: got %q", got)
		}
	})

	t.Run("id gap fails", func(t *testing.T) {
		e := newTestEngine(t, Options{})
		if _, err := e.Decode([]int{42}); !errors.Is(err, ErrInvalidTokenID) {
			t.Fatalf("expected ErrInvalidTokenID, got %v", err)
		}
	})

	t.Run("negative id fails", func(t *testing.T) {
		e := newTestEngine(t, Options{})
		if _, err := e.Decode([]int{-1}); !errors.Is(err, ErrInvalidTokenID) {
			t.Fatalf("expected ErrInvalidTokenID, got %v", err)
		}
	})
}

func TestLookups(t *testing.T) {
	e := newTestEngine(t, Options{})

	id, err := e.TokenToID("hello")
	if err != nil {
		t.Fatalf("TokenToID returned error: %v", err)
	}
	if id != 7 {
		t.Fatalf("unexpected id: got %d want 7", id)
	}

	if _, err := e.TokenToID("nope"); !errors.Is(err, ErrUnknownToken) {
		t.Fatalf("expected ErrUnknownToken, got %v", err)
	}

	tok, err := e.IDToToken(9)
	if err != nil {
		t.Fatalf("IDToToken returned error: %v", err)
	}
	if tok != "<|endoftext|>" {
		t.Fatalf("unexpected token: got %q", tok)
	}

	if got := e.VocabularySize(); got != len(testVocab()) {
		t.Fatalf("unexpected vocabulary size: got %d want %d", got, len(testVocab()))
	}
}

func TestVocabularyReturnsCopy(t *testing.T) {
	e := newTestEngine(t, Options{})
	m := e.Vocabulary()
	m["hello"] = 1234

	id, err := e.TokenToID("hello")
	if err != nil {
		t.Fatalf("TokenToID returned error: %v", err)
	}
	if id != 7 {
		t.Fatalf("mutating the returned map changed the engine: got %d want 7", id)
	}
}

func TestMergeCacheStability(t *testing.T) {
	e := newTestEngine(t, Options{CacheSize: 2})
	for i := 0; i < 3; i++ {
		got, err := e.Encode("hello")
		if err != nil {
			t.Fatalf("Encode returned error: %v", err)
		}
		if len(got) != 1 || got[0] != 7 {
			t.Fatalf("unexpected ids on pass %d: got %v", i, got)
		}
	}
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	vocabPath := filepath.Join(dir, "vocab.json")
	mergesPath := filepath.Join(dir, "merges.txt")

	vocabJSON := `{"h":0,"e":1,"he":2}`
	mergesTXT := "#version: 0.2\nh e\n\n"
	if err := os.WriteFile(vocabPath, []byte(vocabJSON), 0o644); err != nil {
		t.Fatalf("write vocab: %v", err)
	}
	if err := os.WriteFile(mergesPath, []byte(mergesTXT), 0o644); err != nil {
		t.Fatalf("write merges: %v", err)
	}

	e, err := Load(vocabPath, mergesPath, Options{})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	got, err := e.Encode("he")
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("unexpected ids: got %v want [2]", got)
	}

	t.Run("missing vocab file", func(t *testing.T) {
		if _, err := Load(filepath.Join(dir, "missing.json"), mergesPath, Options{}); err == nil {
			t.Fatalf("expected error for missing vocabulary file")
		}
	})

	t.Run("missing merges file", func(t *testing.T) {
		if _, err := Load(vocabPath, filepath.Join(dir, "missing.txt"), Options{}); err == nil {
			t.Fatalf("expected error for missing merges file")
		}
	})
}
