package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"storefront/internal/config"
)

const (
	LogLevelFlag = "log-level"
	PortFlag     = "port"
	HostFlag     = "host"
	BackendFlag  = "content-backend"
	SchemaFlag   = "ensure-schema"
	LimitFlag    = "limit"
)

func main() {
	_ = godotenv.Load()

	var cfg *config.Config

	app := &cli.App{
		Name:  "storefront",
		Usage: "NFT drop storefront",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    LogLevelFlag,
				Usage:   "Log level (debug, info, warn, error), overrides LOG_LEVEL",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    BackendFlag,
				Usage:   "Content backend (sanity or postgres), overrides CONTENT_BACKEND",
				EnvVars: []string{"CONTENT_BACKEND"},
			},
		},
		Before: func(cCtx *cli.Context) error {
			cfg = config.Load()
			if level := cCtx.String(LogLevelFlag); level != "" {
				cfg.LogLevel = level
			}
			if backend := cCtx.String(BackendFlag); backend != "" {
				cfg.ContentBackend = backend
			}
			if err := cfg.Validate(); err != nil {
				return cli.Exit("❌ Invalid configuration: "+err.Error(), 1)
			}
			setupLogger(cfg)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Serve drop pages over HTTP",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    PortFlag,
						Aliases: []string{"p"},
						Usage:   "HTTP port, overrides PORT",
					},
					&cli.StringFlag{
						Name:  HostFlag,
						Usage: "Listen host, overrides LISTEN_HOST. Every visitor shares the wallet session, keep it on localhost unless access is restricted",
					},
				},
				Action: func(cCtx *cli.Context) error {
					if port := cCtx.Int(PortFlag); port != 0 {
						cfg.Port = port
					}
					if cCtx.IsSet(HostFlag) {
						cfg.ListenHost = cCtx.String(HostFlag)
					}
					return serve(cCtx.Context, cfg)
				},
			},
			{
				Name:      "collection",
				Aliases:   []string{"c"},
				Usage:     "Print the collection document for a slug",
				ArgsUsage: "<slug>",
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 1 {
						return cli.Exit("usage: storefront collection <slug>", 2)
					}
					return printCollection(cCtx.Context, cfg, cCtx.Args().First())
				},
			},
			{
				Name:  "collections",
				Usage: "List every collection in the content store",
				Action: func(cCtx *cli.Context) error {
					return listCollections(cCtx.Context, cfg)
				},
			},
			{
				Name:      "supply",
				Aliases:   []string{"s"},
				Usage:     "Print supply and price of a drop contract",
				ArgsUsage: "<address>",
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 1 {
						return cli.Exit("usage: storefront supply <address>", 2)
					}
					return printSupply(cCtx.Context, cfg, cCtx.Args().First())
				},
			},
			{
				Name:      "unclaimed",
				Usage:     "List unclaimed NFTs of a drop contract with their metadata",
				ArgsUsage: "<address>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  LimitFlag,
						Usage: "Maximum number of tokens to list",
						Value: 24,
					},
				},
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 1 {
						return cli.Exit("usage: storefront unclaimed <address>", 2)
					}
					return printUnclaimed(cCtx.Context, cfg, cCtx.Args().First(), cCtx.Int(LimitFlag))
				},
			},
			{
				Name:      "import",
				Usage:     "Load a Sanity NDJSON export into Postgres",
				ArgsUsage: "<export.ndjson>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  SchemaFlag,
						Usage: "Create the documents table first",
						Value: true,
					},
				},
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 1 {
						return cli.Exit("usage: storefront import <export.ndjson>", 2)
					}
					return importDocuments(cCtx.Context, cfg, cCtx.Args().First(), cCtx.Bool(SchemaFlag))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
