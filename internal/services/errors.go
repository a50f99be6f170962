package services

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError reports a missing resource, or one the caller does not own
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "Not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// ValidationError reports invalid input detected past request binding
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("Invalid %s", e.Field)
	}
	return "Validation error"
}

// ConflictError reports a uniqueness or state conflict with existing data
type ConflictError struct {
	Msg string
}

func (e ConflictError) Error() string {
	if e.Msg == "" {
		return "Conflict"
	}
	return e.Msg
}

// InsufficientSeatsError is returned when a schedule cannot seat every passenger
type InsufficientSeatsError struct {
	Requested int
	Available int
}

func (e InsufficientSeatsError) Error() string {
	return "Insufficient seats available"
}

// SeatConflictError lists requested seats that are already booked
type SeatConflictError struct {
	Seats []string
}

func (e SeatConflictError) Error() string {
	return fmt.Sprintf("Seats %s are already booked", strings.Join(e.Seats, ", "))
}

// InvalidStateError reports an operation not allowed in the current state
type InvalidStateError struct {
	Msg string
}

func (e InvalidStateError) Error() string {
	if e.Msg == "" {
		return "Invalid state"
	}
	return e.Msg
}

// UnauthorizedError reports bad credentials
type UnauthorizedError struct {
	Msg string
}

func (e UnauthorizedError) Error() string {
	if e.Msg == "" {
		return "Unauthorized"
	}
	return e.Msg
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInsufficientSeats(err error) bool {
	var target InsufficientSeatsError
	return errors.As(err, &target)
}

func IsSeatConflict(err error) bool {
	var target SeatConflictError
	return errors.As(err, &target)
}

func IsInvalidState(err error) bool {
	var target InvalidStateError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}
