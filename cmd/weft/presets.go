package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/weft/pkg/preset"
)

func presetsCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:  "presets",
		Usage: "List the registered pretrained presets",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit the preset list as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			names := preset.Names()

			if asJSON {
				type presetInfo struct {
					Name        string `json:"name"`
					Variant     string `json:"variant"`
					Description string `json:"description,omitempty"`
				}
				infos := make([]presetInfo, 0, len(names))
				for _, name := range names {
					entry, _ := preset.Lookup(name)
					infos = append(infos, presetInfo{
						Name:        name,
						Variant:     entry.Variant,
						Description: entry.Description,
					})
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			if len(names) == 0 {
				fmt.Println("no presets registered")
				return nil
			}
			fmt.Printf("%-32s %-12s %s\n", "NAME", "VARIANT", "DESCRIPTION")
			for _, name := range names {
				entry, _ := preset.Lookup(name)
				fmt.Printf("%-32s %-12s %s\n", name, entry.Variant, entry.Description)
			}
			return nil
		},
	}
}
