package main

import (
	"deadline_flow_go/config"
	"deadline_flow_go/db"
	"deadline_flow_go/services"
	"log"
)

// Seeds the default jurisdiction, holiday calendar, and starter templates.
// Safe to run repeatedly.
func main() {
	cfg := config.Load()

	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.MigrateAll(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := services.SeedReferenceData(db.DB); err != nil {
		log.Fatalf("Failed to seed reference data: %v", err)
	}

	log.Println("Reference data seeded")
}
