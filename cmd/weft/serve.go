package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/weft/internal/api"
)

func serveCmd() *cli.Command {
	var (
		addr          string
		readTimeout   time.Duration
		defaultPreset string
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the tokenizer REST API",
		Flags: append(loggingFlags(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.StringFlag{
				Name:        "preset",
				Aliases:     []string{"p"},
				Usage:       "preset used when requests omit one",
				Destination: &defaultPreset,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()
			applyServeConfig(cmd, cfg, &addr, &defaultPreset)
			log := newLogger()

			provider := api.NewCachedTokenizerProvider(api.ProviderConfig{
				DefaultPreset: defaultPreset,
			})
			server := api.NewServer(provider)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
