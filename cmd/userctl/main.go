package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/userkeeper/internal/cli"
	"github.com/dmitrijs2005/userkeeper/internal/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("%v", err)
		os.Exit(cli.ExitFailure)
	}

	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		os.Exit(cli.ExitFailure)
	}

	os.Exit(app.Run(ctx))

}
