package main

import (
	"context"
	"log"
	"os"

	"customer-manager-api/internal"
)

func main() {
	ctx := context.Background()

	app, err := internal.NewApp(ctx)
	if err != nil {
		log.Fatalf("init app failed: %v", err)
	}

	app.InitControllers()

	if err = app.Run(ctx); err != nil {
		app.Logger().Sugar().Errorf("customermanager stopped with error: %v", err)
		app.Close()
		os.Exit(1)
	}
	app.Close()
}
