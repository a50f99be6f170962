package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smarttransit/bus-booking-backend/internal/models"
)

const (
	sleeperBerthsPerRow = 2
	seaterSeatsPerRow   = 4
)

// GenerateSeatLayout builds the seat labels of a bus.
//
// Sleeper buses get one lower berth per row (L1..Ln) and upper berths
// (U1..) until the total is reached. Other buses get four seats per row
// labelled "{row}{col}", capped at the total.
func GenerateSeatLayout(busType string, totalSeats int) models.SeatLayout {
	layout := models.SeatLayout{
		Lower: []string{},
		Upper: []string{},
	}
	if totalSeats <= 0 {
		return layout
	}

	if models.IsSleeper(busType) {
		rows := (totalSeats + sleeperBerthsPerRow - 1) / sleeperBerthsPerRow
		for i := 1; i <= rows; i++ {
			layout.Lower = append(layout.Lower, fmt.Sprintf("L%d", i))
			if len(layout.Upper) < totalSeats-rows {
				layout.Upper = append(layout.Upper, fmt.Sprintf("U%d", i))
			}
		}
		return layout
	}

	rows := (totalSeats + seaterSeatsPerRow - 1) / seaterSeatsPerRow
	for i := 1; i <= rows; i++ {
		for j := 1; j <= seaterSeatsPerRow && len(layout.Lower) < totalSeats; j++ {
			layout.Lower = append(layout.Lower, fmt.Sprintf("%d%d", i, j))
		}
	}
	return layout
}

// parseClock splits "HH:MM" or "HH:MM:SS" into hour and minute
func parseClock(value string) (int, int, error) {
	parts := strings.Split(value, ":")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("invalid time %q", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid hour in %q: %w", value, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minute in %q: %w", value, err)
	}
	return hour, minute, nil
}

// FormatTime renders a 24h clock value as "h:mm AM/PM"
func FormatTime(value string) string {
	hour, minute, err := parseClock(value)
	if err != nil {
		return value
	}

	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, suffix)
}

// CalculateDuration returns the travel time between two clock values as
// "Xh" or "Xh Ym". An arrival earlier than the departure is next day.
func CalculateDuration(departure, arrival string) string {
	depHour, depMin, err := parseClock(departure)
	if err != nil {
		return ""
	}
	arrHour, arrMin, err := parseClock(arrival)
	if err != nil {
		return ""
	}

	minutes := (arrHour*60 + arrMin) - (depHour*60 + depMin)
	if minutes < 0 {
		minutes += 24 * 60
	}

	if m := minutes % 60; m > 0 {
		return fmt.Sprintf("%dh %dm", minutes/60, m)
	}
	return fmt.Sprintf("%dh", minutes/60)
}
