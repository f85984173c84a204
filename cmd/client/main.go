// Package main is the WorkPlanner terminal client: an interactive shell over
// the WorkPlanner REST API.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/atinyakov/WorkPlanner/internal/client/gateway"
	"github.com/atinyakov/WorkPlanner/internal/config"
	"github.com/atinyakov/WorkPlanner/internal/logger"
)

var (
	version   string
	buildDate string
)

func main() {
	opts, err := config.ParseClient(os.Args[1:])
	if errors.Is(err, config.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if opts.ShowVersion {
		fmt.Printf("WorkPlanner Client\nVersion: %s\nBuild Date: %s\n",
			cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(opts.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}

	hc, err := gateway.NewHTTPClient(opts.CAFile, opts.Timeout)
	if err != nil {
		log.Log.Fatal("cannot build HTTP client", zap.Error(err))
	}
	gw := gateway.New(opts.BaseURL, gateway.WithHTTPClient(hc), gateway.WithLogger(log.Log))

	fmt.Printf("WorkPlanner at %s. Type 'help' for a list of commands.\n", gw.BaseURL())
	newApp(gw, os.Stdin, os.Stdout, log.Log).run(context.Background())
}
