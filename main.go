package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"studyflow/config"
	"studyflow/logger"

	"github.com/alecthomas/kong"
)

var version = "v0.1.0"

var CLI struct {
	Version kong.VersionFlag

	Serve   ServeCmd   `cmd:"" help:"Run the HTTP API." default:"1"`
	Indexes IndexesCmd `cmd:"" help:"Create MongoDB indexes and exit."`
	Events  EventsCmd  `cmd:"" help:"Tail domain events from the broker."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("studyflow"),
		kong.Description("StudyFlow learning companion API"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	closer := logger.Init(logger.Config{
		Dev:       cfg.IsDev(),
		SentryDSN: cfg.SentryDSN,
		LogFile:   cfg.LogFile,
	})

	err = ctx.Run(cfg)
	logger.Flush()
	_ = closer.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
