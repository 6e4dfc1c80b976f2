package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/samcharles93/weft/internal/logger"
	"github.com/samcharles93/weft/pkg/bpe"
	"github.com/samcharles93/weft/pkg/preset"
	"github.com/samcharles93/weft/pkg/tokenizer"
	"github.com/samcharles93/weft/pkg/wordpiece"
)

// stdinIsTTY is a small seam for tests.
var stdinIsTTY = isTTY

// buildTokenizer constructs the tokenizer selected by the common flags:
// local vocabulary files when --vocab is set, a preset otherwise. The
// returned label names the source for display.
func buildTokenizer(ctx context.Context) (*tokenizer.Tokenizer, string, error) {
	if vocabPath != "" {
		tok, err := buildLocalTokenizer(variantName, vocabPath, mergesPath)
		if err != nil {
			return nil, "", err
		}
		return tok, vocabPath, nil
	}

	name, err := resolvePresetName(presetName, os.Stdin, os.Stderr)
	if err != nil {
		return nil, "", err
	}
	logger.FromContext(ctx).Debug("loading preset", "preset", name)
	tok, err := preset.Load(ctx, name)
	if err != nil {
		return nil, "", err
	}
	return tok, name, nil
}

// buildLocalTokenizer builds a tokenizer from files on disk. The
// distil_bert variant reads a WordPiece vocab.txt; every other variant
// reads a BPE vocab.json plus merges.txt.
func buildLocalTokenizer(variant, vocab, merges string) (*tokenizer.Tokenizer, error) {
	v, ok := tokenizer.LookupVariant(variant)
	if !ok {
		return nil, fmt.Errorf("unknown variant %q (known variants: %s)",
			variant, strings.Join(tokenizer.VariantNames(), ", "))
	}

	if v.Name == tokenizer.DistilBERT.Name {
		engine, err := wordpiece.NewFromFile(vocab, wordpiece.Options{UnknownToken: v.Unknown})
		if err != nil {
			return nil, err
		}
		return tokenizer.Wrap(v, engine)
	}

	if strings.TrimSpace(merges) == "" {
		return nil, fmt.Errorf("--merges is required with --vocab for variant %q", variant)
	}
	return tokenizer.New(v, tokenizer.Config{
		Vocabulary: bpe.VocabFile(vocab),
		Merges:     bpe.MergeFile(merges),
	})
}

// resolvePresetName picks the preset to load: the flag when given, an
// interactive selection when stdin is a terminal, an error otherwise.
func resolvePresetName(flagValue string, stdin io.Reader, stderr io.Writer) (string, error) {
	flagValue = strings.TrimSpace(flagValue)
	if flagValue != "" {
		return flagValue, nil
	}

	names := preset.Names()
	if len(names) == 0 {
		return "", errors.New("no presets registered; set --vocab")
	}
	if !stdinIsTTY() {
		return "", errors.New("--preset or --vocab is required when stdin is not interactive")
	}
	return selectPresetInteractively(names, stdin, stderr)
}

func selectPresetInteractively(names []string, stdin io.Reader, stderr io.Writer) (string, error) {
	_, _ = fmt.Fprintln(stderr, "select a preset:")
	for i, name := range names {
		entry, _ := preset.Lookup(name)
		_, _ = fmt.Fprintf(stderr, "%d. %s (%s)\n", i+1, name, entry.Variant)
	}

	reader := bufio.NewReader(stdin)
	for {
		_, _ = fmt.Fprintf(stderr, "enter selection [1-%d]: ", len(names))
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			if errors.Is(err, io.EOF) {
				return "", errors.New("no selection provided on stdin; set --preset")
			}
			continue
		}

		idx, convErr := strconv.Atoi(line)
		if convErr != nil || idx < 1 || idx > len(names) {
			_, _ = fmt.Fprintf(stderr, "invalid selection %q\n", line)
			if errors.Is(err, io.EOF) {
				return "", errors.New("invalid selection provided on stdin; set --preset")
			}
			continue
		}
		return names[idx-1], nil
	}
}

func isTTY() bool {
	st, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (st.Mode() & os.ModeCharDevice) != 0
}
