package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/weft/internal/logger"
	"github.com/samcharles93/weft/pkg/packer"
	"github.com/samcharles93/weft/pkg/tokenizer"
)

func encodeCmd() *cli.Command {
	var (
		packLength int64
		idsOnly    bool
		asJSON     bool
		showTokens bool
	)

	return &cli.Command{
		Name:      "encode",
		Usage:     "Encode text into token ids",
		ArgsUsage: "[text ...]",
		Flags: append(append(tokenizerFlags(),
			&cli.Int64Flag{
				Name:        "pack",
				Aliases:     []string{"sequence-length", "l"},
				Usage:       "pack each output to this length with control tokens and padding",
				Destination: &packLength,
			},
			&cli.BoolFlag{
				Name:        "ids-only",
				Usage:       "print bare ids separated by spaces",
				Destination: &idsOnly,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print one JSON object per input",
				Destination: &asJSON,
			},
			&cli.BoolFlag{
				Name:        "show-tokens",
				Usage:       "print the token string for each id",
				Destination: &showTokens,
			},
		), loggingFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			applyTokenizerConfig(cmd, cfg)
			applyEncodeConfig(cmd, cfg, &packLength)
			ctx = logger.WithContext(ctx, newLogger())

			tok, _, err := buildTokenizer(ctx)
			if err != nil {
				return err
			}

			out := encodePrinter{
				tok:        tok,
				packLength: int(packLength),
				idsOnly:    idsOnly,
				asJSON:     asJSON,
				showTokens: showTokens,
			}

			if cmd.Args().Len() > 0 {
				for _, text := range cmd.Args().Slice() {
					if err := out.print(text); err != nil {
						return err
					}
				}
				return nil
			}

			// No arguments: encode lines from the terminal or a pipe.
			if stdinIsTTY() {
				_, _ = fmt.Fprintln(os.Stderr, "Interactive mode. Type /exit to quit.")
			}
			for {
				line, err := readInteractiveLine("> ")
				if err != nil {
					if errors.Is(err, io.EOF) {
						return nil
					}
					return err
				}
				trimmed := strings.TrimSpace(line)
				if trimmed == "/exit" {
					return nil
				}
				if trimmed == "" {
					continue
				}
				if err := out.print(line); err != nil {
					if stdinIsTTY() {
						_, _ = fmt.Fprintln(os.Stderr, "error:", err)
						continue
					}
					return err
				}
			}
		},
	}
}

type encodePrinter struct {
	tok        *tokenizer.Tokenizer
	packLength int
	idsOnly    bool
	asJSON     bool
	showTokens bool
}

type encodedLine struct {
	Text        string   `json:"text"`
	IDs         []int    `json:"ids"`
	PaddingMask []int    `json:"padding_mask,omitempty"`
	Tokens      []string `json:"tokens,omitempty"`
}

func (p encodePrinter) print(text string) error {
	ids, err := p.tok.Encode(text)
	if err != nil {
		return err
	}

	var mask []int
	if p.packLength > 0 {
		ids, mask = packer.For(p.tok, p.packLength).Pack(ids)
	}

	switch {
	case p.asJSON:
		line := encodedLine{Text: text, IDs: ids, PaddingMask: mask}
		if p.showTokens {
			line.Tokens = p.tokenStrings(ids)
		}
		b, err := json.Marshal(line)
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	case p.idsOnly:
		fmt.Println(joinIntsBare(ids))
	default:
		fmt.Printf("%d tokens: %s\n", len(ids), joinInts(ids))
		if p.showTokens {
			for _, id := range ids {
				fmt.Printf("%8d  %s\n", id, formatToken(p.tok, id))
			}
		}
	}
	return nil
}

func (p encodePrinter) tokenStrings(ids []int) []string {
	tokens := make([]string, len(ids))
	for i, id := range ids {
		tok, err := p.tok.IDToToken(id)
		if err != nil {
			tok = "?"
		}
		tokens[i] = tok
	}
	return tokens
}

func formatToken(t *tokenizer.Tokenizer, id int) string {
	tok, err := t.IDToToken(id)
	if err != nil {
		return "?"
	}
	return fmt.Sprintf("%q", tok)
}

func joinInts(ids []int) string {
	if len(ids) == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", id)
	}
	b.WriteByte(']')
	return b.String()
}

func joinIntsBare(ids []int) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", id)
	}
	return b.String()
}
