package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/dberzins/authsvc/internal/server"
	"github.com/dberzins/authsvc/internal/server/config"
)

func main() {

	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
