package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/weft/internal/logger"
	"github.com/samcharles93/weft/pkg/tokenizer"
)

func inspectCmd() *cli.Command {
	var (
		vocabLimit int64
		sample     string
	)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Show tokenizer details",
		Flags: append(append(tokenizerFlags(),
			&cli.Int64Flag{
				Name:        "vocab-limit",
				Usage:       "list the first N vocabulary entries by id",
				Destination: &vocabLimit,
			},
			&cli.StringFlag{
				Name:        "sample",
				Usage:       "encode this text and print the id/token breakdown",
				Destination: &sample,
			},
		), loggingFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			applyTokenizerConfig(cmd, cfg)
			ctx = logger.WithContext(ctx, newLogger())

			tok, label, err := buildTokenizer(ctx)
			if err != nil {
				return err
			}

			printTokenizerSummary(tok, label)
			if vocabLimit > 0 {
				printVocabulary(tok, int(vocabLimit))
			}
			if sample != "" {
				return printSample(tok, sample)
			}
			return nil
		},
	}
}

func printTokenizerSummary(tok *tokenizer.Tokenizer, label string) {
	v := tok.Variant()
	section("Tokenizer Summary")
	row("source", label)
	row("variant", v.Name)
	rowInt("vocab_size", tok.VocabularySize())
	row("start", formatTokenInfo(v.Start, tok.StartTokenID()))
	row("end", formatTokenInfo(v.End, tok.EndTokenID()))
	row("pad", formatTokenInfo(v.Pad, tok.PadTokenID()))
	row("mask", formatTokenInfo(v.Mask, tok.MaskTokenID()))
	row("unknown", formatTokenInfo(v.Unknown, tok.UnknownTokenID()))
}

func printVocabulary(tok *tokenizer.Tokenizer, limit int) {
	section("Vocabulary")
	vocab := tok.Vocabulary()

	type entry struct {
		token string
		id    int
	}
	entries := make([]entry, 0, len(vocab))
	for token, id := range vocab {
		entries = append(entries, entry{token: token, id: id})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	shown := limit
	if shown > len(entries) {
		shown = len(entries)
	}
	for _, e := range entries[:shown] {
		fmt.Printf("%8d  %q\n", e.id, e.token)
	}
	fmt.Printf("(showing %d of %d)\n", shown, len(entries))
}

func printSample(tok *tokenizer.Tokenizer, text string) error {
	ids, err := tok.Encode(text)
	if err != nil {
		return err
	}

	section("Sample Encoding")
	row("text", fmt.Sprintf("%q", text))
	rowInt("tokens", len(ids))
	for _, id := range ids {
		fmt.Printf("%8d  %s\n", id, formatToken(tok, id))
	}

	decoded, err := tok.Decode(ids)
	if err != nil {
		return err
	}
	row("decoded", fmt.Sprintf("%q", decoded))
	return nil
}

func section(title string) {
	line := strings.Repeat("-", len(title)+8)
	fmt.Printf("\n%s\n--- %s ---\n%s\n", line, title, line)
}

func row(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("%-24s %s\n", label+":", value)
}

func rowInt(label string, v int) {
	if v == 0 {
		return
	}
	row(label, fmt.Sprintf("%d", v))
}

func formatTokenInfo(tok string, id int) string {
	if tok == "" && id < 0 {
		return "-"
	}
	if tok == "" {
		return fmt.Sprintf("id=%d", id)
	}
	if id < 0 {
		return fmt.Sprintf("%q", tok)
	}
	return fmt.Sprintf("%q (id=%d)", tok, id)
}
