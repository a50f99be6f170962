package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/bus-booking-backend/internal/config"
	"github.com/smarttransit/bus-booking-backend/internal/database"
)

// Prints the payment audit trail of one booking
func main() {
	bookingID := flag.Int64("booking", 0, "booking id to inspect")
	flag.Parse()

	if *bookingID <= 0 {
		log.Fatal("-booking must be a positive booking id")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	repo := database.NewPaymentAuditRepository(db, logger)

	audits, err := repo.GetByBookingID(ctx, *bookingID)
	if err != nil {
		log.Fatalf("Failed to load audit trail: %v", err)
	}

	if len(audits) == 0 {
		fmt.Printf("No payment audit entries for booking %d\n", *bookingID)
		return
	}

	fmt.Printf("Payment audit trail for booking %d (%d entries)\n", *bookingID, len(audits))
	fmt.Println("----------------------------------------------")
	for _, a := range audits {
		fmt.Printf("- %s | %-28s | %-15s | txn=%s status=%s",
			a.CreatedAt.Format(time.RFC3339), a.EventType, a.EventSource,
			deref(a.TransactionID), deref(a.PaymentStatus))
		if a.ErrorMessage != nil {
			fmt.Printf(" error=%q", *a.ErrorMessage)
		}
		if a.IPAddress != nil {
			fmt.Printf(" ip=%s", *a.IPAddress)
		}
		fmt.Println()
	}
	fmt.Println("----------------------------------------------")
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
