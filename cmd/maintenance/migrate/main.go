package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/smarttransit/bus-booking-backend/internal/config"
	"github.com/smarttransit/bus-booking-backend/internal/database"
)

func main() {
	var (
		dbURLFlag string
		driver    string
		seed      bool
	)
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.StringVar(&driver, "driver", "postgres", `database driver: "postgres" or "pgx"`)
	flag.BoolVar(&seed, "seed", false, "insert the demo bus catalog when the catalog is empty")
	flag.Parse()

	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		Driver:             driver,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fmt.Println("Connected to database. Applying schema...")
	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	fmt.Println("Schema is up to date.")

	if !seed {
		return
	}

	seeded, err := database.SeedDemoCatalog(ctx, db)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	if seeded {
		fmt.Println("Demo catalog inserted.")
	} else {
		fmt.Println("Catalog already has operators, seeding skipped.")
	}
}
