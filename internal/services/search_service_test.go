package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/smarttransit/bus-booking-backend/internal/database"
	"github.com/smarttransit/bus-booking-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var searchColumns = []string{
	"schedule_id", "bus_number", "operator_name", "bus_type", "departure_time", "arrival_time",
	"price", "total_seats", "amenities", "rating", "source_city", "destination_city", "booked_seats",
}

func setupSearchTest(t *testing.T) (*SearchService, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return NewSearchService(database.NewSearchRepository(db), quietLogger()), mock
}

func searchBusesRequest() *models.SearchBusesRequest {
	return &models.SearchBusesRequest{
		Source:      "Mumbai",
		Destination: "Pune",
		TravelDate:  "2026-10-20",
	}
}

func TestSearchBuses_DropsSoldOutSchedules(t *testing.T) {
	service, mock := setupSearchTest(t)

	mock.ExpectQuery("SELECT (.+) FROM bus_schedules bs").
		WithArgs("Mumbai", "Pune", "2026-10-20").
		WillReturnRows(sqlmock.NewRows(searchColumns).
			AddRow(7, "MH-12-AB-1234", "Konkan Travels", models.BusTypeACVolvo, "06:15", "10:45",
				450.0, 40, []byte(`["WiFi"]`), 4.2, "Mumbai", "Pune", 40).
			AddRow(9, "MH-14-CD-5678", "Deccan Express", models.BusTypeACSleeper, "22:30", "05:00",
				800.0, 30, nil, 4.6, "Mumbai", "Pune", 12))

	// only the schedule with free seats is looked up
	mock.ExpectQuery("FROM boarding_points").
		WithArgs(pq.Array([]int64{9})).
		WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "location_name", "stop_time"}).
			AddRow(9, "Dadar", "22:30"))
	mock.ExpectQuery("FROM dropping_points").
		WithArgs(pq.Array([]int64{9})).
		WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "location_name", "stop_time"}))

	buses, err := service.SearchBuses(context.Background(), searchBusesRequest())
	require.NoError(t, err)
	require.Len(t, buses, 1)

	bus := buses[0]
	assert.Equal(t, int64(9), bus.ScheduleID)
	assert.Equal(t, 18, bus.AvailableSeats)
	assert.Equal(t, 30, bus.TotalSeats)
	assert.Equal(t, "10:30 PM", bus.DepartureTime)
	assert.Equal(t, "5:00 AM", bus.ArrivalTime)
	assert.Equal(t, "6h 30m", bus.Duration)
	assert.Equal(t, models.Amenities{}, bus.Amenities)
	require.Len(t, bus.BoardingPoints, 1)
	assert.Equal(t, "Dadar", bus.BoardingPoints[0].LocationName)
	assert.NotNil(t, bus.DroppingPoints)
	assert.Empty(t, bus.DroppingPoints)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchBuses_OverbookedCountsAsSoldOut(t *testing.T) {
	service, mock := setupSearchTest(t)

	mock.ExpectQuery("SELECT (.+) FROM bus_schedules bs").
		WillReturnRows(sqlmock.NewRows(searchColumns).
			AddRow(7, "MH-12-AB-1234", "Konkan Travels", models.BusTypeACVolvo, "06:15", "10:45",
				450.0, 40, nil, 4.2, "Mumbai", "Pune", 41))

	buses, err := service.SearchBuses(context.Background(), searchBusesRequest())
	require.NoError(t, err)
	assert.NotNil(t, buses)
	assert.Empty(t, buses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchBuses_QueryError(t *testing.T) {
	service, mock := setupSearchTest(t)

	mock.ExpectQuery("SELECT (.+) FROM bus_schedules bs").
		WillReturnError(assert.AnError)

	buses, err := service.SearchBuses(context.Background(), searchBusesRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, buses)
	assert.NoError(t, mock.ExpectationsWereMet())
}
