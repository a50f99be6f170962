package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/smarttransit/bus-booking-backend/internal/models"
)

const bookingColumns = `
	id, booking_reference, user_id, schedule_id,
	TO_CHAR(travel_date, 'YYYY-MM-DD') AS travel_date,
	boarding_point, dropping_point, total_amount, status,
	created_at, updated_at`

const bookingDetailsSelect = `
	SELECT
		b.id, b.booking_reference, b.user_id, b.schedule_id,
		TO_CHAR(b.travel_date, 'YYYY-MM-DD') AS travel_date,
		b.boarding_point, b.dropping_point, b.total_amount, b.status,
		b.created_at, b.updated_at,
		TO_CHAR(bs.departure_time, 'HH24:MI') AS departure_time,
		TO_CHAR(bs.arrival_time, 'HH24:MI') AS arrival_time,
		bus.bus_number,
		bus.bus_type,
		bo.name AS operator_name,
		bo.contact_number AS operator_contact,
		r.source_city,
		r.destination_city
	FROM bookings b
	JOIN bus_schedules bs ON b.schedule_id = bs.id
	JOIN buses bus ON bs.bus_id = bus.id
	JOIN bus_operators bo ON bus.operator_id = bo.id
	JOIN routes r ON bs.route_id = r.id`

// BookingRepository handles booking, passenger and seat inventory operations.
// Methods taking a sqlx.QueryerContext or sqlx.ExecerContext run on either
// the pool or an open transaction.
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// DB returns the underlying handle for starting transactions
func (r *BookingRepository) DB() DB {
	return r.db
}

// GetActiveSchedule returns an active schedule with its bus type and seat count.
// Returns nil, nil when the schedule is missing or inactive.
func (r *BookingRepository) GetActiveSchedule(ctx context.Context, q sqlx.QueryerContext, scheduleID int64) (*models.Schedule, error) {
	var schedule models.Schedule
	query := `
		SELECT
			bs.id, bs.bus_id, bs.route_id,
			TO_CHAR(bs.departure_time, 'HH24:MI') AS departure_time,
			TO_CHAR(bs.arrival_time, 'HH24:MI') AS arrival_time,
			bs.base_price, bs.is_active,
			b.bus_type, b.total_seats
		FROM bus_schedules bs
		JOIN buses b ON bs.bus_id = b.id
		WHERE bs.id = $1 AND bs.is_active = true
	`

	if err := sqlx.GetContext(ctx, q, &schedule, query, scheduleID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	return &schedule, nil
}

// LockSeatInventory takes a transaction scoped advisory lock on one
// (schedule, travel date) pair. Concurrent bookings of the same pair queue
// here; other pairs are not blocked.
func (r *BookingRepository) LockSeatInventory(ctx context.Context, tx sqlx.ExecerContext, scheduleID int64, travelDate string) error {
	dateKey, err := strconv.Atoi(strings.ReplaceAll(travelDate, "-", ""))
	if err != nil {
		return fmt.Errorf("failed to derive lock key from travel date %q: %w", travelDate, err)
	}

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1::int4, $2::int4)`, int32(scheduleID), int32(dateKey)); err != nil {
		return fmt.Errorf("failed to lock seat inventory: %w", err)
	}
	return nil
}

// GetBookedSeats returns the seat numbers held by non-cancelled bookings of a
// schedule on a travel date
func (r *BookingRepository) GetBookedSeats(ctx context.Context, q sqlx.QueryerContext, scheduleID int64, travelDate string) ([]string, error) {
	seats := []string{}
	query := `
		SELECT p.seat_number
		FROM passengers p
		JOIN bookings b ON p.booking_id = b.id
		WHERE b.schedule_id = $1
		  AND b.travel_date = $2::date
		  AND b.status <> 'cancelled'
		ORDER BY p.seat_number
	`

	if err := sqlx.SelectContext(ctx, q, &seats, query, scheduleID, travelDate); err != nil {
		return nil, fmt.Errorf("failed to get booked seats: %w", err)
	}

	return seats, nil
}

// InsertBooking inserts a pending booking. It returns false without error when
// the booking reference is already taken so the caller can pick a new one.
func (r *BookingRepository) InsertBooking(ctx context.Context, q sqlx.QueryerContext, booking *models.Booking) (bool, error) {
	query := `
		INSERT INTO bookings (
			booking_reference, user_id, schedule_id, travel_date,
			boarding_point, dropping_point, total_amount, status
		) VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8)
		ON CONFLICT (booking_reference) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	row := q.QueryRowxContext(ctx, query,
		booking.BookingReference,
		booking.UserID,
		booking.ScheduleID,
		booking.TravelDate,
		booking.BoardingPoint,
		booking.DroppingPoint,
		booking.TotalAmount,
		booking.Status,
	)
	if err := row.Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to create booking: %w", err)
	}

	return true, nil
}

// InsertPassengers inserts the passengers of a booking
func (r *BookingRepository) InsertPassengers(ctx context.Context, tx sqlx.ExecerContext, bookingID int64, passengers []models.Passenger) error {
	query := `
		INSERT INTO passengers (booking_id, name, age, gender, seat_number)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, p := range passengers {
		if _, err := tx.ExecContext(ctx, query, bookingID, p.Name, p.Age, p.Gender, p.SeatNumber); err != nil {
			return fmt.Errorf("failed to add passenger for seat %s: %w", p.SeatNumber, err)
		}
	}

	return nil
}

// GetUserBooking returns a booking owned by the user. Returns nil, nil when
// the booking does not exist or belongs to someone else.
func (r *BookingRepository) GetUserBooking(ctx context.Context, q sqlx.QueryerContext, bookingID, userID int64) (*models.Booking, error) {
	return r.getUserBooking(ctx, q, bookingID, userID, false)
}

// GetUserBookingForUpdate is GetUserBooking with the row locked until the
// transaction ends
func (r *BookingRepository) GetUserBookingForUpdate(ctx context.Context, tx sqlx.QueryerContext, bookingID, userID int64) (*models.Booking, error) {
	return r.getUserBooking(ctx, tx, bookingID, userID, true)
}

func (r *BookingRepository) getUserBooking(ctx context.Context, q sqlx.QueryerContext, bookingID, userID int64, forUpdate bool) (*models.Booking, error) {
	var booking models.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 AND user_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	if err := sqlx.GetContext(ctx, q, &booking, query, bookingID, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

// GetBookingForUpdate locks a booking row by id regardless of owner
func (r *BookingRepository) GetBookingForUpdate(ctx context.Context, tx sqlx.QueryerContext, bookingID int64) (*models.Booking, error) {
	var booking models.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

	if err := sqlx.GetContext(ctx, tx, &booking, query, bookingID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

// UpdateStatus sets the status of a booking
func (r *BookingRepository) UpdateStatus(ctx context.Context, tx sqlx.ExecerContext, bookingID int64, status models.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := tx.ExecContext(ctx, query, bookingID, status)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}

// GetBookingDetails returns a user's booking with schedule, bus, operator and
// route columns. Passengers and payment are not loaded. Returns nil, nil when
// not found.
func (r *BookingRepository) GetBookingDetails(ctx context.Context, bookingID, userID int64) (*models.BookingDetails, error) {
	var details models.BookingDetails
	query := bookingDetailsSelect + ` WHERE b.id = $1 AND b.user_id = $2`

	if err := r.db.GetContext(ctx, &details, query, bookingID, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get booking details: %w", err)
	}

	return &details, nil
}

// ListUserBookings returns one page of a user's bookings, newest first
func (r *BookingRepository) ListUserBookings(ctx context.Context, userID int64, status string, limit, offset int) ([]models.BookingDetails, error) {
	query := bookingDetailsSelect + ` WHERE b.user_id = $1`
	args := []interface{}{userID}

	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND b.status = $%d", len(args))
	}

	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY b.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	bookings := []models.BookingDetails{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, nil
}

// CountUserBookings counts a user's bookings, optionally filtered by status
func (r *BookingRepository) CountUserBookings(ctx context.Context, userID int64, status string) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`
	args := []interface{}{userID}

	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return total, nil
}

// GetPassengers returns the passengers of the bookings keyed by booking id
func (r *BookingRepository) GetPassengers(ctx context.Context, bookingIDs []int64) (map[int64][]models.Passenger, error) {
	result := make(map[int64][]models.Passenger, len(bookingIDs))
	if len(bookingIDs) == 0 {
		return result, nil
	}

	var passengers []models.Passenger
	query := `
		SELECT id, booking_id, name, age, gender, seat_number
		FROM passengers
		WHERE booking_id = ANY($1)
		ORDER BY booking_id, id
	`

	if err := r.db.SelectContext(ctx, &passengers, query, pq.Array(bookingIDs)); err != nil {
		return nil, fmt.Errorf("failed to get passengers: %w", err)
	}

	for _, p := range passengers {
		result[p.BookingID] = append(result[p.BookingID], p)
	}

	return result, nil
}
