package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/matrixio/internal/api"
	"github.com/samcharles93/matrixio/internal/convert"
	"github.com/samcharles93/matrixio/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		maxBody     int64
		storeLimit  int64
		opts        = convert.DefaultOptions()
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the inspect and convert REST API",
		Flags: append([]cli.Flag{
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
			&cli.Int64Flag{
				Name:        "max-body",
				Usage:       "largest accepted upload in bytes",
				Value:       api.DefaultMaxBodyBytes,
				Destination: &maxBody,
			},
			&cli.Int64Flag{
				Name:        "inspect-history",
				Usage:       "inspection results kept for GET /v1/inspect/:id",
				Value:       api.DefaultStoreLimit,
				Destination: &storeLimit,
			},
		}, rawFlags(&opts)...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyServeConfig(cmd, cfg, &addr, &maxBody)
			applyCodecConfig(cmd, cfg, &opts)

			server := api.NewServer(api.Config{
				Options:      opts,
				MaxBodyBytes: maxBody,
				Logger:       log.With("component", "api"),
				Store:        api.NewInspectStore(int(storeLimit)),
			})
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr, "max_body", maxBody)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					srv.ReadTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
