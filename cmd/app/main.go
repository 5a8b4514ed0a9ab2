package main

import (
	"flag"
	"gig-marketplace-api/app"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	app.Run(*configPath)
}
