package models

import (
	"math"
	"time"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Passenger genders
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Booking is a reservation of one or more seats on a schedule for one travel date
type Booking struct {
	ID               int64         `json:"id" db:"id"`
	BookingReference string        `json:"bookingReference" db:"booking_reference"`
	UserID           int64         `json:"-" db:"user_id"`
	ScheduleID       int64         `json:"scheduleId" db:"schedule_id"`
	TravelDate       string        `json:"travelDate" db:"travel_date"`
	BoardingPoint    string        `json:"boardingPoint" db:"boarding_point"`
	DroppingPoint    string        `json:"droppingPoint" db:"dropping_point"`
	TotalAmount      float64       `json:"totalAmount" db:"total_amount"`
	Status           BookingStatus `json:"status" db:"status"`
	CreatedAt        time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time     `json:"-" db:"updated_at"`
}

// IsCancelled reports whether the booking was cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// Passenger is one seated occupant of a booking
type Passenger struct {
	ID         int64  `json:"-" db:"id"`
	BookingID  int64  `json:"-" db:"booking_id"`
	Name       string `json:"name" db:"name"`
	Age        int    `json:"age" db:"age"`
	Gender     string `json:"gender" db:"gender"`
	SeatNumber string `json:"seatNumber" db:"seat_number"`
}

// BookingDetails is a booking joined with its schedule, bus, operator and route
type BookingDetails struct {
	Booking
	DepartureTime   string          `json:"departureTime" db:"departure_time"`
	ArrivalTime     string          `json:"arrivalTime" db:"arrival_time"`
	BusNumber       string          `json:"busNumber" db:"bus_number"`
	BusType         string          `json:"busType" db:"bus_type"`
	OperatorName    string          `json:"operatorName" db:"operator_name"`
	OperatorContact *string         `json:"operatorContact,omitempty" db:"operator_contact"`
	SourceCity      string          `json:"sourceCity" db:"source_city"`
	DestinationCity string          `json:"destinationCity" db:"destination_city"`
	Passengers      []Passenger     `json:"passengers" db:"-"`
	Payment         *PaymentSummary `json:"payment,omitempty" db:"-"`
}

// PassengerRequest is one passenger of a create booking request
type PassengerRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	Age        int    `json:"age" binding:"required,min=1,max=120"`
	Gender     string `json:"gender" binding:"required,oneof=Male Female Other"`
	SeatNumber string `json:"seatNumber" binding:"required,max=10"`
}

// CreateBookingRequest represents the create booking payload
type CreateBookingRequest struct {
	ScheduleID    int64              `json:"scheduleId" binding:"required,gt=0"`
	TravelDate    string             `json:"travelDate" binding:"required,busdate"`
	BoardingPoint string             `json:"boardingPoint" binding:"required"`
	DroppingPoint string             `json:"droppingPoint" binding:"required"`
	Passengers    []PassengerRequest `json:"passengers" binding:"required,min=1,dive"`
}

// SeatNumbers returns the requested seat numbers in request order
func (r *CreateBookingRequest) SeatNumbers() []string {
	seats := make([]string, len(r.Passengers))
	for i, p := range r.Passengers {
		seats[i] = p.SeatNumber
	}
	return seats
}

// CreateBookingResponse is returned after a booking is committed
type CreateBookingResponse struct {
	BookingID        int64   `json:"bookingId"`
	BookingReference string  `json:"bookingReference"`
	TotalAmount      float64 `json:"totalAmount"`
}

// Pagination defaults
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	MaxPage      = 10000
)

// ListBookingsRequest represents booking history query parameters
type ListBookingsRequest struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
}

// Normalize applies pagination defaults and bounds
func (r *ListBookingsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.Page > MaxPage {
		r.Page = MaxPage
	}
	if r.Limit < 1 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
}

// Offset returns the row offset of the requested page
func (r *ListBookingsRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// Pagination describes a page of results
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination builds pagination metadata
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
