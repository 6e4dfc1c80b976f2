package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/weft/internal/logger"
)

func decodeCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode token ids back into text",
		ArgsUsage: "[id ...]",
		Flags: append(append(tokenizerFlags(),
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print a JSON object instead of raw text",
				Destination: &asJSON,
			},
		), loggingFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			applyTokenizerConfig(cmd, cfg)
			ctx = logger.WithContext(ctx, newLogger())

			var (
				ids []int
				err error
			)
			if cmd.Args().Len() > 0 {
				ids, err = parseIDs(cmd.Args().Slice())
			} else {
				ids, err = readIDs(os.Stdin)
			}
			if err != nil {
				return err
			}

			tok, _, err := buildTokenizer(ctx)
			if err != nil {
				return err
			}

			text, err := tok.Decode(ids)
			if err != nil {
				return err
			}

			if asJSON {
				b, err := json.Marshal(struct {
					IDs  []int  `json:"ids"`
					Text string `json:"text"`
				}{IDs: ids, Text: text})
				if err != nil {
					return err
				}
				fmt.Println(string(b))
				return nil
			}
			fmt.Println(text)
			return nil
		},
	}
}

// parseIDs accepts ids as separate arguments or comma separated, and
// tolerates the bracketed form that 'weft encode' prints.
func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool {
			return r == ',' || r == ' '
		}) {
			field = strings.Trim(field, "[]")
			if field == "" {
				continue
			}
			id, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("invalid token id %q", field)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// readIDs reads whitespace separated ids until EOF.
func readIDs(r io.Reader) ([]int, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	var fields []string
	for sc.Scan() {
		fields = append(fields, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return parseIDs(fields)
}
