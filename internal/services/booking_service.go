package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/bus-booking-backend/internal/database"
	"github.com/smarttransit/bus-booking-backend/internal/models"
)

const maxReferenceAttempts = 5

// BookingService creates, lists and cancels bookings
type BookingService struct {
	db           database.DB
	bookings     *database.BookingRepository
	payments     *database.PaymentRepository
	availability *AvailabilityService
	logger       *logrus.Logger

	now          func() time.Time
	newReference func(time.Time) (string, error)
}

// NewBookingService creates a new booking service
func NewBookingService(
	db database.DB,
	bookings *database.BookingRepository,
	payments *database.PaymentRepository,
	availability *AvailabilityService,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		db:           db,
		bookings:     bookings,
		payments:     payments,
		availability: availability,
		logger:       logger,
		now:          time.Now,
		newReference: GenerateBookingReference,
	}
}

// CreateBooking reserves the requested seats in one transaction. The seat
// inventory of the (schedule, travel date) pair is locked before availability
// is read, so two requests for the same seat cannot both succeed.
func (s *BookingService) CreateBooking(ctx context.Context, userID int64, req *models.CreateBookingRequest) (*models.Booking, error) {
	seats := req.SeatNumbers()
	if dup := firstDuplicate(seats); dup != "" {
		return nil, ValidationError{Field: "passengers", Msg: fmt.Sprintf("Seat %s is requested more than once", dup)}
	}

	var booking *models.Booking
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		schedule, availability, err := s.availability.LockedAvailability(ctx, tx, req.ScheduleID, req.TravelDate)
		if err != nil {
			return err
		}

		if len(seats) > availability.AvailableSeats {
			return InsufficientSeatsError{Requested: len(seats), Available: availability.AvailableSeats}
		}
		if conflicts := availability.Conflicts(seats); len(conflicts) > 0 {
			return SeatConflictError{Seats: conflicts}
		}

		booking = &models.Booking{
			UserID:        userID,
			ScheduleID:    req.ScheduleID,
			TravelDate:    req.TravelDate,
			BoardingPoint: req.BoardingPoint,
			DroppingPoint: req.DroppingPoint,
			TotalAmount:   roundAmount(schedule.BasePrice * float64(len(seats))),
			Status:        models.BookingStatusPending,
		}

		if err := s.insertWithUniqueReference(ctx, tx, booking); err != nil {
			return err
		}

		passengers := make([]models.Passenger, len(req.Passengers))
		for i, p := range req.Passengers {
			passengers[i] = models.Passenger{
				BookingID:  booking.ID,
				Name:       p.Name,
				Age:        p.Age,
				Gender:     p.Gender,
				SeatNumber: p.SeatNumber,
			}
		}
		return s.bookings.InsertPassengers(ctx, tx, booking.ID, passengers)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":        booking.ID,
		"booking_reference": booking.BookingReference,
		"user_id":           userID,
		"schedule_id":       booking.ScheduleID,
		"travel_date":       booking.TravelDate,
		"seats":             seats,
		"total_amount":      booking.TotalAmount,
	}).Info("Booking created")

	return booking, nil
}

// insertWithUniqueReference inserts the booking, drawing a new reference
// whenever the previous one is already taken
func (s *BookingService) insertWithUniqueReference(ctx context.Context, tx *sqlx.Tx, booking *models.Booking) error {
	for attempt := 1; attempt <= maxReferenceAttempts; attempt++ {
		ref, err := s.newReference(s.now())
		if err != nil {
			return err
		}
		booking.BookingReference = ref

		inserted, err := s.bookings.InsertBooking(ctx, tx, booking)
		if err != nil {
			return err
		}
		if inserted {
			return nil
		}

		s.logger.WithFields(logrus.Fields{
			"booking_reference": ref,
			"attempt":           attempt,
		}).Warn("Booking reference collision, regenerating")
	}

	return fmt.Errorf("failed to generate unique booking reference after %d attempts", maxReferenceAttempts)
}

// CancelBooking cancels a user's booking. Only bookings travelling after
// today (UTC) can be cancelled.
func (s *BookingService) CancelBooking(ctx context.Context, userID, bookingID int64) error {
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		booking, err := s.bookings.GetUserBookingForUpdate(ctx, tx, bookingID, userID)
		if err != nil {
			return err
		}
		if booking == nil {
			return NotFoundError{Resource: "Booking"}
		}
		if booking.IsCancelled() {
			return InvalidStateError{Msg: "Booking is already cancelled"}
		}

		today := s.now().UTC().Format(dateLayout)
		if booking.TravelDate <= today {
			return InvalidStateError{Msg: "Cannot cancel booking for past or today's travel date"}
		}

		return s.bookings.UpdateStatus(ctx, tx, booking.ID, models.BookingStatusCancelled)
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"user_id":    userID,
	}).Info("Booking cancelled")

	return nil
}

// GetBookingDetails returns a user's booking with passengers and latest payment
func (s *BookingService) GetBookingDetails(ctx context.Context, userID, bookingID int64) (*models.BookingDetails, error) {
	details, err := s.bookings.GetBookingDetails(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, NotFoundError{Resource: "Booking"}
	}

	passengers, err := s.bookings.GetPassengers(ctx, []int64{details.ID})
	if err != nil {
		return nil, err
	}
	details.Passengers = nonNilPassengers(passengers[details.ID])

	payment, err := s.payments.GetLatestByBookingID(ctx, s.db, details.ID)
	if err != nil {
		return nil, err
	}
	details.Payment = payment.Summary()

	return details, nil
}

// ListBookings returns one page of a user's booking history, newest first
func (s *BookingService) ListBookings(ctx context.Context, userID int64, req models.ListBookingsRequest) ([]models.BookingDetails, models.Pagination, error) {
	req.Normalize()

	total, err := s.bookings.CountUserBookings(ctx, userID, req.Status)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	bookings, err := s.bookings.ListUserBookings(ctx, userID, req.Status, req.Limit, req.Offset())
	if err != nil {
		return nil, models.Pagination{}, err
	}

	ids := make([]int64, len(bookings))
	for i := range bookings {
		ids[i] = bookings[i].ID
	}
	passengers, err := s.bookings.GetPassengers(ctx, ids)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	for i := range bookings {
		bookings[i].Passengers = nonNilPassengers(passengers[bookings[i].ID])
	}

	return bookings, models.NewPagination(req.Page, req.Limit, total), nil
}

const dateLayout = "2006-01-02"

func firstDuplicate(values []string) string {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return v
		}
		seen[v] = struct{}{}
	}
	return ""
}

func nonNilPassengers(p []models.Passenger) []models.Passenger {
	if p == nil {
		return []models.Passenger{}
	}
	return p
}

// roundAmount rounds to whole cents
func roundAmount(v float64) float64 {
	return math.Round(v*100) / 100
}
