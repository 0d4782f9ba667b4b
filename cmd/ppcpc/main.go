package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/adobaai/ppcp"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("ppcpc")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "ppcpc",
		Usage: "PayPal Commerce Platform order toolbox",
		Description: `Validate orders and their update patches locally before they are sent to PayPal.

Order and patch files hold the same JSON the REST API accepts.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "base",
				Usage:   "PayPal REST API base URL",
				EnvVars: []string{"PAYPAL_BASE"},
				Value:   ppcp.APIBaseSandbox,
			},
			&cli.StringFlag{
				Name:    "client-id",
				Usage:   "PayPal REST app client ID",
				EnvVars: []string{"PAYPAL_CLIENT_ID"},
			},
			&cli.StringFlag{
				Name:    "client-secret",
				Usage:   "PayPal REST app client secret",
				EnvVars: []string{"PAYPAL_CLIENT_SECRET"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log debug messages",
			},
		},
		Before: func(c *cli.Context) error {
			level := zerolog.InfoLevel
			if c.Bool("verbose") {
				level = zerolog.DebugLevel
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: c.App.ErrWriter}).
				Level(level).
				With().Timestamp().Logger()
			return nil
		},
		Commands: []*cli.Command{
			validateCommand(),
			resolveCommand(),
			patchCommand(),
			tokenCommand(),
		},
	}
}
