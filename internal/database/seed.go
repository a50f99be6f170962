package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/smarttransit/bus-booking-backend/internal/models"
)

type seedStop struct {
	name string
	time string
}

type seedSchedule struct {
	busNumber   string
	source      string
	destination string
	departure   string
	arrival     string
	price       float64
	boarding    []seedStop
	dropping    []seedStop
}

type seedBus struct {
	number    string
	busType   string
	seats     int
	amenities models.Amenities
	operator  string
}

var demoOperators = []struct {
	name    string
	contact string
	rating  float64
}{
	{"Express Travels", "+91 98765 43210", 4.5},
	{"Royal Coaches", "+91 91234 56789", 4.2},
}

var demoBuses = []seedBus{
	{"KA01AB1234", models.BusTypeACSleeper, 30, models.Amenities{"WiFi", "Charging Point", "Blanket", "Water Bottle"}, "Express Travels"},
	{"KA01CD5678", models.BusTypeACVolvo, 40, models.Amenities{"WiFi", "Charging Point"}, "Express Travels"},
	{"TN09EF9012", models.BusTypeNonACSeater, 40, models.Amenities{}, "Royal Coaches"},
}

var demoRoutes = []struct {
	source      string
	destination string
	distanceKm  int
}{
	{"Bangalore", "Chennai", 350},
	{"Chennai", "Bangalore", 350},
}

var demoSchedules = []seedSchedule{
	{
		busNumber: "KA01AB1234", source: "Bangalore", destination: "Chennai",
		departure: "21:30", arrival: "05:45", price: 850,
		boarding: []seedStop{{"Majestic Bus Stand", "21:30"}, {"Silk Board", "22:10"}},
		dropping: []seedStop{{"Koyambedu", "05:30"}, {"Guindy", "05:45"}},
	},
	{
		busNumber: "KA01CD5678", source: "Bangalore", destination: "Chennai",
		departure: "07:00", arrival: "13:15", price: 650,
		boarding: []seedStop{{"Majestic Bus Stand", "07:00"}},
		dropping: []seedStop{{"Koyambedu", "13:15"}},
	},
	{
		busNumber: "TN09EF9012", source: "Chennai", destination: "Bangalore",
		departure: "22:00", arrival: "05:30", price: 450,
		boarding: []seedStop{{"Koyambedu", "22:00"}},
		dropping: []seedStop{{"Silk Board", "05:00"}, {"Majestic Bus Stand", "05:30"}},
	},
}

// SeedDemoCatalog inserts a small catalog of operators, buses, routes and
// schedules. It does nothing when any operator already exists and reports
// whether rows were inserted.
func SeedDemoCatalog(ctx context.Context, db DB) (bool, error) {
	var operators int
	if err := db.GetContext(ctx, &operators, `SELECT COUNT(*) FROM bus_operators`); err != nil {
		return false, fmt.Errorf("failed to count operators: %w", err)
	}
	if operators > 0 {
		return false, nil
	}

	err := WithTx(ctx, db, func(tx *sqlx.Tx) error {
		operatorIDs := make(map[string]int64, len(demoOperators))
		for _, op := range demoOperators {
			id, err := insertReturningID(ctx, tx,
				`INSERT INTO bus_operators (name, contact_number, rating) VALUES ($1, $2, $3) RETURNING id`,
				op.name, op.contact, op.rating)
			if err != nil {
				return fmt.Errorf("failed to seed operator %s: %w", op.name, err)
			}
			operatorIDs[op.name] = id
		}

		busIDs := make(map[string]int64, len(demoBuses))
		for _, bus := range demoBuses {
			id, err := insertReturningID(ctx, tx,
				`INSERT INTO buses (bus_number, bus_type, total_seats, amenities, operator_id) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
				bus.number, bus.busType, bus.seats, bus.amenities, operatorIDs[bus.operator])
			if err != nil {
				return fmt.Errorf("failed to seed bus %s: %w", bus.number, err)
			}
			busIDs[bus.number] = id
		}

		routeIDs := make(map[string]int64, len(demoRoutes))
		for _, route := range demoRoutes {
			id, err := insertReturningID(ctx, tx,
				`INSERT INTO routes (source_city, destination_city, distance_km) VALUES ($1, $2, $3) RETURNING id`,
				route.source, route.destination, route.distanceKm)
			if err != nil {
				return fmt.Errorf("failed to seed route %s-%s: %w", route.source, route.destination, err)
			}
			routeIDs[route.source+"|"+route.destination] = id
		}

		for _, s := range demoSchedules {
			scheduleID, err := insertReturningID(ctx, tx,
				`INSERT INTO bus_schedules (bus_id, route_id, departure_time, arrival_time, base_price) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
				busIDs[s.busNumber], routeIDs[s.source+"|"+s.destination], s.departure, s.arrival, s.price)
			if err != nil {
				return fmt.Errorf("failed to seed schedule for %s: %w", s.busNumber, err)
			}

			for _, stop := range s.boarding {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO boarding_points (schedule_id, location_name, pickup_time) VALUES ($1, $2, $3)`,
					scheduleID, stop.name, stop.time); err != nil {
					return fmt.Errorf("failed to seed boarding point: %w", err)
				}
			}
			for _, stop := range s.dropping {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO dropping_points (schedule_id, location_name, drop_time) VALUES ($1, $2, $3)`,
					scheduleID, stop.name, stop.time); err != nil {
					return fmt.Errorf("failed to seed dropping point: %w", err)
				}
			}
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

func insertReturningID(ctx context.Context, q sqlx.QueryerContext, query string, args ...interface{}) (int64, error) {
	var id int64
	if err := q.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
