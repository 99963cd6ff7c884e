package main

import (
	"os"

	"github.com/labstack/gommon/log"
	"github.com/radhian/ledger-engine/config"
	"github.com/radhian/ledger-engine/controllers"
)

func main() {
	cfg, err := config.LoadConfig("ledger.toml", os.Getenv("LEDGER_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	app := controllers.App{}
	if err := app.Initialize(cfg); err != nil {
		log.Fatal(err)
	}

	app.RunServer()
}
