package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/janmarkuslanger/clubin-prerender/internal/auth"
	"github.com/janmarkuslanger/clubin-prerender/internal/config"
	"github.com/janmarkuslanger/clubin-prerender/internal/logging"
	"github.com/janmarkuslanger/clubin-prerender/internal/metrics"
	"github.com/janmarkuslanger/clubin-prerender/internal/pipeline"
	"github.com/janmarkuslanger/clubin-prerender/internal/site"
	"github.com/janmarkuslanger/clubin-prerender/internal/store"
)

const defaultConfigFile = "prerender.yaml"

func main() {
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "prerender",
		Usage: "write crawler-ready HTML for every Clubin route",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "cached",
				Usage: "reuse the API snapshots from the cache directory when present",
			},
			&cli.StringFlag{
				Name:  "config",
				Value: defaultConfigFile,
				Usage: "optional YAML configuration file",
			},
		},
		Action: runBuild,
		Commands: []*cli.Command{
			{
				Name:      "hash-token",
				Usage:     "print a bcrypt hash for BUILD_TOKEN_HASH",
				ArgsUsage: "[token]",
				Action:    hashToken,
			},
		},
	}
}

func runBuild(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	cached := cfg.Cached || c.Bool("cached")

	log := logging.New("prerender", cfg.LogLevel, cfg.LogFormat)
	prom := metrics.NewPrometheus()

	runner := pipeline.Runner{Config: cfg, Logger: log, Metrics: prom}
	if cfg.LedgerPath != "" {
		ledger, err := store.NewStore(cfg.LedgerPath)
		if err != nil {
			return err
		}
		defer ledger.Close()
		runner.Ledger = ledger
	}

	log.WithFields(logrus.Fields{"cached": cached, "output": cfg.OutputDir}).Info("starting pre-render")

	_, err = runner.Run(c.Context, cached)
	if errors.Is(err, site.ErrTemplateMissing) {
		log.WithError(err).Error("cannot pre-render without the built template")
		return cli.Exit("", 1)
	}
	if err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		if err := prom.WriteTextfile(cfg.MetricsFile); err != nil {
			log.WithError(err).Warn("could not write metrics textfile")
		}
	}
	return nil
}

func hashToken(c *cli.Context) error {
	token := c.Args().First()
	generated := token == ""
	if generated {
		token = auth.NewToken()
	}

	hash, err := auth.HashToken(token)
	if err != nil {
		return err
	}

	if generated {
		fmt.Fprintf(c.App.Writer, "token: %s\n", token)
	}
	fmt.Fprintf(c.App.Writer, "hash:  %s\n", hash)
	return nil
}
