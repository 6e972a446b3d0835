// payment-engine replays a CSV transaction stream into per-client account
// balances and prints the resulting account report to stdout.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"

	"github.com/urfave/cli/v2"

	"github.com/luxfi/payment-engine/internal/engine"
	"github.com/luxfi/payment-engine/internal/metrics"
	"github.com/luxfi/payment-engine/internal/xlog"
)

const clientIdentifier = "payment-engine"

const defaultBatchSize = 10 * 1024 * 1024

var app = &cli.App{
	Name:      clientIdentifier,
	Usage:     "replay a CSV transaction stream into per-client account balances",
	Version:   "1.0.0",
	ArgsUsage: "<input.csv>",
}

func init() {
	app.Action = run
	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "number of CSV lines read per chunk",
			Value: defaultBatchSize,
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
			Value: "info",
		},
		&cli.StringFlag{
			Name:  "metrics-addr",
			Usage: "address to serve Prometheus metrics on, e.g. :9090 (disabled if empty)",
			Value: "",
		},
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("expected exactly one input file argument", 1)
	}
	inputPath := c.Args().Get(0)

	level := xlog.ParseLevel(c.String("log-level"))
	logger := xlog.New(clientIdentifier, level)
	rec := metrics.NewRecorder()

	if addr := c.String("metrics-addr"); addr != "" {
		go serveMetrics(addr, rec, logger)
	}

	cfg := engine.Config{
		BatchSize:            c.Int("batch-size"),
		MaxConcurrentClients: int64(runtime.GOMAXPROCS(0) * 4),
	}

	if err := engine.Run(context.Background(), inputPath, os.Stdout, cfg, logger, rec); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return nil
}

func serveMetrics(addr string, rec *metrics.Recorder, logger *xlog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", rec.Handler())
	logger.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", "error", err)
	}
}
