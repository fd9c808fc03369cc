package main

import (
	"flag"
	"log"

	"media-review/pkg/database"
	"media-review/pkg/utils"
)

func main() {
	command := flag.String("command", "up", "migration command (up, down, status, reset)")
	flag.Parse()

	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := database.Migrate(database.DSN(config.Database), *command); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Printf("Migration %q finished", *command)
}
