package models

import "strings"

// Bus types offered by operators
const (
	BusTypeACSleeper     = "AC Sleeper"
	BusTypeNonACSleeper  = "Non-AC Sleeper"
	BusTypeACVolvo       = "AC Volvo"
	BusTypeACSemiSleeper = "AC Semi-Sleeper"
	BusTypeNonACSeater   = "Non-AC Seater"
)

// BusTypes lists every known bus type
var BusTypes = []string{
	BusTypeACSleeper,
	BusTypeNonACSleeper,
	BusTypeACVolvo,
	BusTypeACSemiSleeper,
	BusTypeNonACSeater,
}

// IsSleeper reports whether a bus type uses berths instead of seats
func IsSleeper(busType string) bool {
	return strings.Contains(strings.ToLower(busType), "sleeper")
}

// Schedule is a bus running a route at fixed times, joined with the
// bus columns the booking flow needs
type Schedule struct {
	ID            int64   `json:"id" db:"id"`
	BusID         int64   `json:"busId" db:"bus_id"`
	RouteID       int64   `json:"routeId" db:"route_id"`
	DepartureTime string  `json:"departureTime" db:"departure_time"`
	ArrivalTime   string  `json:"arrivalTime" db:"arrival_time"`
	BasePrice     float64 `json:"basePrice" db:"base_price"`
	IsActive      bool    `json:"isActive" db:"is_active"`
	BusType       string  `json:"busType" db:"bus_type"`
	TotalSeats    int     `json:"totalSeats" db:"total_seats"`
}

// StopPoint is a boarding or dropping location of a schedule
type StopPoint struct {
	ScheduleID   int64  `json:"-" db:"schedule_id"`
	LocationName string `json:"locationName" db:"location_name"`
	Time         string `json:"time" db:"stop_time"`
}
