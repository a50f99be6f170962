package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/smarttransit/bus-booking-backend/internal/config"
	"github.com/smarttransit/bus-booking-backend/internal/database"
)

// transactional tables, children first; the bus catalog is kept unless -all is set
var bookingTables = []string{
	"payment_audits",
	"payments",
	"passengers",
	"bookings",
	"api_rate_limits",
	"users",
}

var catalogTables = []string{
	"dropping_points",
	"boarding_points",
	"bus_schedules",
	"routes",
	"buses",
	"bus_operators",
}

func main() {
	var (
		dbURLFlag string
		all       bool
	)
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.BoolVar(&all, "all", false, "also clear the bus catalog")
	flag.Parse()

	// Try loading .env from current working directory (optional)
	// This avoids having to pass secrets on the command line.
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	// Build minimal database config without loading full app config
	dbCfg := config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     5,
		MaxIdleConnections: 2,
	}

	db, err := database.NewConnection(dbCfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	tables := bookingTables
	if all {
		tables = append(append([]string{}, bookingTables...), catalogTables...)
	}

	ctx := context.Background()
	fmt.Println("Connected to database. Truncating tables...")

	truncateSQL := "TRUNCATE TABLE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE"
	if _, err := db.ExecContext(ctx, truncateSQL); err != nil {
		log.Fatalf("failed to truncate tables: %v", err)
	}

	fmt.Println("Data cleared successfully (tables truncated, identities reset).")

	// Verify by printing row counts for each table
	fmt.Println("Post-clear row counts:")
	for _, table := range tables {
		var count int
		if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM "+table); err != nil {
			log.Printf("  %s: error: %v", table, err)
			continue
		}
		fmt.Printf("  %s: %d\n", table, count)
	}
}
