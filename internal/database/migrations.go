package database

import (
	"context"
	"fmt"
)

// schema is applied in order; every statement is idempotent
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		full_name VARCHAR(100) NOT NULL,
		email VARCHAR(100) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		phone VARCHAR(20) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS bus_operators (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		contact_number VARCHAR(20),
		rating NUMERIC(2,1) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS buses (
		id BIGSERIAL PRIMARY KEY,
		bus_number VARCHAR(20) NOT NULL UNIQUE,
		bus_type VARCHAR(50) NOT NULL,
		total_seats INTEGER NOT NULL CHECK (total_seats > 0),
		amenities JSONB NOT NULL DEFAULT '[]',
		operator_id BIGINT NOT NULL REFERENCES bus_operators(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS routes (
		id BIGSERIAL PRIMARY KEY,
		source_city VARCHAR(100) NOT NULL,
		destination_city VARCHAR(100) NOT NULL,
		distance_km INTEGER,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS bus_schedules (
		id BIGSERIAL PRIMARY KEY,
		bus_id BIGINT NOT NULL REFERENCES buses(id),
		route_id BIGINT NOT NULL REFERENCES routes(id),
		departure_time TIME NOT NULL,
		arrival_time TIME NOT NULL,
		base_price NUMERIC(10,2) NOT NULL CHECK (base_price >= 0),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS boarding_points (
		id BIGSERIAL PRIMARY KEY,
		schedule_id BIGINT NOT NULL REFERENCES bus_schedules(id) ON DELETE CASCADE,
		location_name VARCHAR(200) NOT NULL,
		pickup_time TIME NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS dropping_points (
		id BIGSERIAL PRIMARY KEY,
		schedule_id BIGINT NOT NULL REFERENCES bus_schedules(id) ON DELETE CASCADE,
		location_name VARCHAR(200) NOT NULL,
		drop_time TIME NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGSERIAL PRIMARY KEY,
		booking_reference VARCHAR(20) NOT NULL UNIQUE,
		user_id BIGINT NOT NULL REFERENCES users(id),
		schedule_id BIGINT NOT NULL REFERENCES bus_schedules(id),
		travel_date DATE NOT NULL,
		boarding_point VARCHAR(200) NOT NULL,
		dropping_point VARCHAR(200) NOT NULL,
		total_amount NUMERIC(10,2) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'confirmed', 'cancelled')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS passengers (
		id BIGSERIAL PRIMARY KEY,
		booking_id BIGINT NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
		name VARCHAR(100) NOT NULL,
		age INTEGER NOT NULL CHECK (age BETWEEN 1 AND 120),
		gender VARCHAR(10) NOT NULL CHECK (gender IN ('Male', 'Female', 'Other')),
		seat_number VARCHAR(10) NOT NULL,
		UNIQUE (booking_id, seat_number)
	)`,

	`CREATE TABLE IF NOT EXISTS payments (
		id BIGSERIAL PRIMARY KEY,
		booking_id BIGINT NOT NULL REFERENCES bookings(id),
		transaction_id VARCHAR(50) NOT NULL UNIQUE,
		amount NUMERIC(10,2) NOT NULL,
		payment_method VARCHAR(20) NOT NULL
			CHECK (payment_method IN ('card', 'upi', 'net_banking', 'wallet')),
		status VARCHAR(20) NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'success', 'failed')),
		payment_date TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS payment_audits (
		id UUID PRIMARY KEY,
		booking_id BIGINT,
		payment_id BIGINT,
		transaction_id VARCHAR(50),
		event_type VARCHAR(50) NOT NULL,
		event_source VARCHAR(30) NOT NULL,
		amount NUMERIC(10,2),
		payment_status VARCHAR(20),
		details JSONB,
		error_message TEXT,
		ip_address VARCHAR(64),
		user_agent TEXT,
		correlation_id VARCHAR(64),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS api_rate_limits (
		id BIGSERIAL PRIMARY KEY,
		client_key VARCHAR(100) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_routes_cities ON routes(source_city, destination_city)`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_route ON bus_schedules(route_id) WHERE is_active`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_schedule_date ON bookings(schedule_id, travel_date) WHERE status <> 'cancelled'`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_user_created ON bookings(user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_passengers_booking ON passengers(booking_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_booking_created ON payments(booking_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_payment_audits_booking ON payment_audits(booking_id)`,
	`CREATE INDEX IF NOT EXISTS idx_api_rate_limits_key_created ON api_rate_limits(client_key, created_at)`,
}

// RunMigrations applies the schema
func RunMigrations(ctx context.Context, db DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", i+1, err)
		}
	}
	return nil
}
