package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/bus-booking-backend/internal/database"
	"github.com/smarttransit/bus-booking-backend/internal/models"
)

// SearchService handles bus search business logic
type SearchService struct {
	repo   *database.SearchRepository
	logger *logrus.Logger
}

// NewSearchService creates a new search service
func NewSearchService(repo *database.SearchRepository, logger *logrus.Logger) *SearchService {
	return &SearchService{
		repo:   repo,
		logger: logger,
	}
}

// SearchBuses returns the buses running the route on the travel date that
// still have free seats, ordered by departure time
func (s *SearchService) SearchBuses(ctx context.Context, req *models.SearchBusesRequest) ([]models.BusSearchResult, error) {
	startTime := time.Now()

	rows, err := s.repo.SearchSchedules(ctx, req)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		if row.TotalSeats-row.BookedSeats > 0 {
			ids = append(ids, row.ScheduleID)
		}
	}

	boarding, dropping, err := s.repo.GetStopPoints(ctx, ids)
	if err != nil {
		return nil, err
	}

	buses := make([]models.BusSearchResult, 0, len(ids))
	for _, row := range rows {
		available := row.TotalSeats - row.BookedSeats
		if available <= 0 {
			continue
		}

		buses = append(buses, models.BusSearchResult{
			ScheduleID:     row.ScheduleID,
			BusNumber:      row.BusNumber,
			OperatorName:   row.OperatorName,
			BusType:        row.BusType,
			DepartureTime:  FormatTime(row.DepartureTime),
			ArrivalTime:    FormatTime(row.ArrivalTime),
			Duration:       CalculateDuration(row.DepartureTime, row.ArrivalTime),
			Price:          row.Price,
			AvailableSeats: available,
			TotalSeats:     row.TotalSeats,
			Rating:         row.Rating,
			Amenities:      amenitiesOrEmpty(row.Amenities),
			BoardingPoints: stopsOrEmpty(boarding[row.ScheduleID]),
			DroppingPoints: stopsOrEmpty(dropping[row.ScheduleID]),
		})
	}

	s.logger.WithFields(logrus.Fields{
		"source":         req.Source,
		"destination":    req.Destination,
		"travel_date":    req.TravelDate,
		"results":        len(buses),
		"response_ms":    time.Since(startTime).Milliseconds(),
		"departure_band": req.DepartureTime,
	}).Debug("Bus search completed")

	return buses, nil
}

func amenitiesOrEmpty(a models.Amenities) models.Amenities {
	if a == nil {
		return models.Amenities{}
	}
	return a
}

func stopsOrEmpty(points []models.StopPoint) []models.StopPoint {
	if points == nil {
		return []models.StopPoint{}
	}
	return points
}
