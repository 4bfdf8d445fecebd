// Command main runs the database seeder for Witter.
package main

import (
	"flag"
	"log"

	"witter/internal/config"
	"witter/internal/database"
	"witter/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numWeets := flag.Int("weets", 150, "Number of weets to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if err := s.Seed(seed.Options{
		NumUsers:    *numUsers,
		NumWeets:    *numWeets,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done. All seeded users have the password %q", seed.DemoPassword)
}
