package main

import (
	"context"
	"log"
	"os"

	"github.com/brokergate/client/internal/buildinfo"
	"github.com/brokergate/client/internal/client/cli"
	"github.com/brokergate/client/internal/client/config"
	"github.com/brokergate/client/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewDefault(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
