package main

import (
	"os"

	"go.uber.org/zap"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/sysdevguru/stockfighter/client"
	"github.com/sysdevguru/stockfighter/config"
	"github.com/sysdevguru/stockfighter/repl"
)

func main() {
	app := cli.NewApp()
	app.Name = "sfrepl"
	app.Usage = "Interactive shell for the Stockfighter trading API"
	app.Flags = []cli.Flag{
		&cli.StringFlag{Name: "account, a", Usage: "trading account id"},
		&cli.StringFlag{Name: "keyfile, k", Value: config.DefaultKeyFile, Usage: "path to the api key file"},
		&cli.StringFlag{Name: "url", Value: client.DefaultBaseURL, Usage: "api base url"},
		&cli.BoolFlag{Name: "debug, d", Usage: "verbose logging"},
	}
	app.Action = func(c *cli.Context) error {
		logger, err := buildLogger(c.Bool("debug"))
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		defer logger.Sync()

		cfg, err := config.New(c.String("account"), c.String("keyfile"))
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}

		sf := client.New(cfg).
			SetBaseURL(c.String("url")).
			SetLogger(logger.Sugar())

		repl.New(cfg, sf).SetLogger(logger.Sugar()).Run(os.Stdin, os.Stdout)
		return nil
	}
	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
