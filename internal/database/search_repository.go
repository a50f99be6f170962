package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/smarttransit/bus-booking-backend/internal/models"
)

// departureBands maps a departure time preference to its SQL condition
var departureBands = map[string]string{
	models.DepartureMorning:   "bs.departure_time BETWEEN '06:00' AND '12:00'",
	models.DepartureAfternoon: "bs.departure_time BETWEEN '12:00' AND '18:00'",
	models.DepartureEvening:   "bs.departure_time BETWEEN '18:00' AND '22:00'",
	models.DepartureNight:     "(bs.departure_time >= '22:00' OR bs.departure_time < '06:00')",
}

// SearchRepository handles database operations for bus search
type SearchRepository struct {
	db DB
}

// NewSearchRepository creates a new search repository
func NewSearchRepository(db DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// SearchSchedules returns the active schedules of a route matching the filters,
// each with the number of seats booked on the travel date
func (r *SearchRepository) SearchSchedules(ctx context.Context, req *models.SearchBusesRequest) ([]models.ScheduleSearchRow, error) {
	var query strings.Builder
	query.WriteString(`
		SELECT
			bs.id AS schedule_id,
			b.bus_number,
			bo.name AS operator_name,
			b.bus_type,
			TO_CHAR(bs.departure_time, 'HH24:MI') AS departure_time,
			TO_CHAR(bs.arrival_time, 'HH24:MI') AS arrival_time,
			bs.base_price AS price,
			b.total_seats,
			b.amenities,
			bo.rating,
			r.source_city,
			r.destination_city,
			(
				SELECT COUNT(*)
				FROM passengers p
				JOIN bookings bk ON p.booking_id = bk.id
				WHERE bk.schedule_id = bs.id
				  AND bk.travel_date = $3::date
				  AND bk.status <> 'cancelled'
			) AS booked_seats
		FROM bus_schedules bs
		JOIN buses b ON bs.bus_id = b.id
		JOIN bus_operators bo ON b.operator_id = bo.id
		JOIN routes r ON bs.route_id = r.id
		WHERE r.source_city = $1
		  AND r.destination_city = $2
		  AND bs.is_active = true`)

	args := []interface{}{req.Source, req.Destination, req.TravelDate}

	if req.BusType != "" {
		args = append(args, req.BusType)
		fmt.Fprintf(&query, " AND b.bus_type = $%d", len(args))
	}
	if req.MinPrice != nil {
		args = append(args, *req.MinPrice)
		fmt.Fprintf(&query, " AND bs.base_price >= $%d", len(args))
	}
	if req.MaxPrice != nil {
		args = append(args, *req.MaxPrice)
		fmt.Fprintf(&query, " AND bs.base_price <= $%d", len(args))
	}
	if band, ok := departureBands[req.DepartureTime]; ok {
		query.WriteString(" AND " + band)
	}

	query.WriteString(" ORDER BY bs.departure_time")

	var rows []models.ScheduleSearchRow
	if err := r.db.SelectContext(ctx, &rows, query.String(), args...); err != nil {
		return nil, fmt.Errorf("failed to search schedules: %w", err)
	}

	return rows, nil
}

// GetStopPoints returns the boarding and dropping points of the schedules,
// keyed by schedule id and ordered by time
func (r *SearchRepository) GetStopPoints(ctx context.Context, scheduleIDs []int64) (boarding, dropping map[int64][]models.StopPoint, err error) {
	boarding = make(map[int64][]models.StopPoint)
	dropping = make(map[int64][]models.StopPoint)
	if len(scheduleIDs) == 0 {
		return boarding, dropping, nil
	}

	var points []models.StopPoint
	boardingQuery := `
		SELECT schedule_id, location_name, TO_CHAR(pickup_time, 'HH24:MI') AS stop_time
		FROM boarding_points
		WHERE schedule_id = ANY($1)
		ORDER BY schedule_id, pickup_time
	`
	if err := r.db.SelectContext(ctx, &points, boardingQuery, pq.Array(scheduleIDs)); err != nil {
		return nil, nil, fmt.Errorf("failed to get boarding points: %w", err)
	}
	for _, p := range points {
		boarding[p.ScheduleID] = append(boarding[p.ScheduleID], p)
	}

	points = nil
	droppingQuery := `
		SELECT schedule_id, location_name, TO_CHAR(drop_time, 'HH24:MI') AS stop_time
		FROM dropping_points
		WHERE schedule_id = ANY($1)
		ORDER BY schedule_id, drop_time
	`
	if err := r.db.SelectContext(ctx, &points, droppingQuery, pq.Array(scheduleIDs)); err != nil {
		return nil, nil, fmt.Errorf("failed to get dropping points: %w", err)
	}
	for _, p := range points {
		dropping[p.ScheduleID] = append(dropping[p.ScheduleID], p)
	}

	return boarding, dropping, nil
}
