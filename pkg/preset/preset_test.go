package preset

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/samcharles93/weft/pkg/bpe"
	"github.com/samcharles93/weft/pkg/tokenizer"
)

func TestBuiltinsRegistered(t *testing.T) {
	for _, name := range []string{
		"gpt2_base_en",
		"gpt2_medium_en",
		"gpt_neo_x_20b_en",
		"roberta_base_en",
		"distil_bert_base_en_uncased",
	} {
		e, ok := Lookup(name)
		if !ok {
			t.Fatalf("builtin preset %q is not registered", name)
		}
		if e.Description == "" || e.Variant == "" || e.Load == nil {
			t.Fatalf("builtin preset %q is incomplete: %+v", name, e)
		}
		if _, ok := tokenizer.LookupVariant(e.Variant); !ok {
			t.Fatalf("builtin preset %q names unknown variant %q", name, e.Variant)
		}
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if !sort.StringsAreSorted(names) {
		t.Fatalf("expected sorted names, got %v", names)
	}
}

func TestRegisterValidation(t *testing.T) {
	expectPanic := func(t *testing.T, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic")
			}
		}()
		fn()
	}

	t.Run("duplicate", func(t *testing.T) {
		Register("test_register_duplicate", Entry{
			Variant: tokenizer.GPT2.Name,
			Load: func(ctx context.Context) (*tokenizer.Tokenizer, error) {
				return nil, nil
			},
		})
		expectPanic(t, func() {
			Register("test_register_duplicate", Entry{
				Load: func(ctx context.Context) (*tokenizer.Tokenizer, error) {
					return nil, nil
				},
			})
		})
	})

	t.Run("empty name", func(t *testing.T) {
		expectPanic(t, func() {
			Register("", Entry{Load: func(ctx context.Context) (*tokenizer.Tokenizer, error) {
				return nil, nil
			}})
		})
	})

	t.Run("nil loader", func(t *testing.T) {
		expectPanic(t, func() {
			Register("test_register_nil_loader", Entry{})
		})
	})
}

func TestLoadUnknownPreset(t *testing.T) {
	_, err := Load(context.Background(), "gpt2_base_en_clowntown")
	if err == nil {
		t.Fatalf("expected error for unknown preset")
	}
	if !errors.Is(err, ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
	if !strings.Contains(err.Error(), "gpt2_base_en_clowntown") {
		t.Fatalf("error must name the requested preset: %v", err)
	}
	if !strings.Contains(err.Error(), "gpt2_base_en") {
		t.Fatalf("error must list known presets: %v", err)
	}
}

func TestLoadRunsLoader(t *testing.T) {
	Register("test_load_runs_loader", Entry{
		Description: "inline fixture",
		Variant:     tokenizer.GPTNeoX.Name,
		Load: func(ctx context.Context) (*tokenizer.Tokenizer, error) {
			return tokenizer.New(tokenizer.GPTNeoX, tokenizer.Config{
				Vocabulary: bpe.VocabMap(map[string]int{
					"[PAD]": 0, "[UNK]": 1, "<|endoftext|>": 2, "a": 3, "b": 4,
				}),
			})
		},
	})

	tok, err := Load(context.Background(), "test_load_runs_loader")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if tok.EndTokenID() != 2 || tok.StartTokenID() != 2 || tok.PadTokenID() != 0 {
		t.Fatalf("unexpected special ids: start=%d end=%d pad=%d",
			tok.StartTokenID(), tok.EndTokenID(), tok.PadTokenID())
	}
}
