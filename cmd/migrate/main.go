package main

import (
	"gamerash/internal/config" // Custom import path (Config)
	"gamerash/internal/db"     // Custom import path (Database)
)

// Main entry point for migration and seeding
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())      // Migrate the schema and seed an empty database
}
