package services

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/smarttransit/bus-booking-backend/internal/database"
	"github.com/smarttransit/bus-booking-backend/internal/models"
)

// AvailabilityService computes seat availability for a schedule on a travel date
type AvailabilityService struct {
	db       database.DB
	bookings *database.BookingRepository
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(db database.DB, bookings *database.BookingRepository) *AvailabilityService {
	return &AvailabilityService{
		db:       db,
		bookings: bookings,
	}
}

// GetSeatAvailability returns the seat map of an active schedule on a travel date
func (s *AvailabilityService) GetSeatAvailability(ctx context.Context, scheduleID int64, travelDate string) (*models.SeatAvailability, error) {
	schedule, err := s.bookings.GetActiveSchedule(ctx, s.db, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, NotFoundError{Resource: "Schedule"}
	}

	booked, err := s.bookings.GetBookedSeats(ctx, s.db, scheduleID, travelDate)
	if err != nil {
		return nil, err
	}

	return buildAvailability(schedule, travelDate, booked), nil
}

// LockedAvailability resolves the schedule, serialises on its seat inventory
// for the travel date and reads the booked seats, all inside tx. The lock is
// held until tx ends, so the result stays valid for the rest of the transaction.
func (s *AvailabilityService) LockedAvailability(ctx context.Context, tx *sqlx.Tx, scheduleID int64, travelDate string) (*models.Schedule, *models.SeatAvailability, error) {
	schedule, err := s.bookings.GetActiveSchedule(ctx, tx, scheduleID)
	if err != nil {
		return nil, nil, err
	}
	if schedule == nil {
		return nil, nil, NotFoundError{Resource: "Schedule"}
	}

	if err := s.bookings.LockSeatInventory(ctx, tx, scheduleID, travelDate); err != nil {
		return nil, nil, err
	}

	booked, err := s.bookings.GetBookedSeats(ctx, tx, scheduleID, travelDate)
	if err != nil {
		return nil, nil, err
	}

	return schedule, buildAvailability(schedule, travelDate, booked), nil
}

func buildAvailability(schedule *models.Schedule, travelDate string, booked []string) *models.SeatAvailability {
	available := schedule.TotalSeats - len(booked)
	if available < 0 {
		available = 0
	}

	return &models.SeatAvailability{
		ScheduleID:     schedule.ID,
		TravelDate:     travelDate,
		BusType:        schedule.BusType,
		TotalSeats:     schedule.TotalSeats,
		AvailableSeats: available,
		BookedSeats:    booked,
		SeatLayout:     GenerateSeatLayout(schedule.BusType, schedule.TotalSeats),
		Price:          schedule.BasePrice,
	}
}
